// Package config loads process configuration from flags, SCENARIO_*
// environment variables and defaults, in that order of precedence, and reads
// the optional economic settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"scenario-engine/internal/model"
)

const envPrefix = "SCENARIO"

type Config struct {
	Port         string
	SettingsFile string
	BaselineFile string
	LogLevel     string
	Development  bool
	Cache        bool
	Workers      int
}

// Load parses args (without the program name) and resolves every option.
// A bare PORT variable is honoured for compatibility with container
// platforms that inject it.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("scenario-engine", pflag.ContinueOnError)
	fs.String("port", "8080", "HTTP listen port")
	fs.String("settings-file", "", "YAML file with economic settings")
	fs.String("baseline-file", "baseline.json", "JSON file holding the baseline configurations; empty keeps it in memory")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Bool("development", false, "human-readable development logging")
	fs.Bool("cache", true, "memoize scenario evaluations")
	fs.Int("workers", 4, "concurrent evaluations in batch sweeps")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	if port := os.Getenv("PORT"); port != "" && !fs.Changed("port") && os.Getenv(envPrefix+"_PORT") == "" {
		v.Set("port", port)
	}

	cfg := Config{
		Port:         v.GetString("port"),
		SettingsFile: v.GetString("settings-file"),
		BaselineFile: v.GetString("baseline-file"),
		LogLevel:     v.GetString("log-level"),
		Development:  v.GetBool("development"),
		Cache:        v.GetBool("cache"),
		Workers:      v.GetInt("workers"),
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be >= 1, got %d", cfg.Workers)
	}
	return cfg, nil
}

// settingsFile mirrors model.Settings with optional fields so a file can
// override only part of the defaults.
type settingsFile struct {
	General struct {
		PlanningHorizonYears *float64 `yaml:"planning_horizon_years"`
		DiscountRate         *float64 `yaml:"discount_rate"`
		CurrencyRate         *float64 `yaml:"currency_rate"`
	} `yaml:"general"`
	Tiers map[model.Tier]struct {
		CompletionRate              *float64 `yaml:"completion_rate"`
		OutbreaksPerGraduatePerYear *float64 `yaml:"outbreaks_per_graduate_per_year"`
		ValuePerOutbreak            *float64 `yaml:"value_per_outbreak"`
		ValuePerGraduate            *float64 `yaml:"value_per_graduate"`
	} `yaml:"tiers"`
}

var ErrUnknownTier = errors.New("unknown tier")

// LoadSettings reads settings from a YAML file layered over
// model.DefaultSettings. An empty path returns the defaults.
func LoadSettings(path string) (model.Settings, error) {
	if path == "" {
		return model.DefaultSettings(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := ParseSettings(raw)
	if err != nil {
		return model.Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func ParseSettings(raw []byte) (model.Settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.Settings{}, fmt.Errorf("decode: %w", err)
	}

	s := model.DefaultSettings()
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.General.PlanningHorizonYears, f.General.PlanningHorizonYears)
	set(&s.General.DiscountRate, f.General.DiscountRate)
	set(&s.General.CurrencyRate, f.General.CurrencyRate)

	for tier, in := range f.Tiers {
		if !tier.Valid() {
			return model.Settings{}, fmt.Errorf("%w %q", ErrUnknownTier, tier)
		}
		ts := s.Tiers[tier]
		set(&ts.CompletionRate, in.CompletionRate)
		set(&ts.OutbreaksPerGraduatePerYear, in.OutbreaksPerGraduatePerYear)
		set(&ts.ValuePerOutbreak, in.ValuePerOutbreak)
		set(&ts.ValuePerGraduate, in.ValuePerGraduate)
		s.Tiers[tier] = ts
	}
	return s, nil
}
