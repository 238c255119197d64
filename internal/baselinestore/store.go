// Package baselinestore keeps the business-as-usual tier configurations that
// every incremental comparison is measured against. Writes go straight to a
// JSON file when a path is configured; there are no durability guarantees.
package baselinestore

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"scenario-engine/internal/model"
)

var ErrUnknownTier = errors.New("unknown tier")

type document struct {
	UpdatedAt time.Time                          `json:"updated_at"`
	Tiers     map[model.Tier]model.Configuration `json:"tiers"`
}

type Store struct {
	mu   sync.RWMutex
	path string
	doc  document
}

// Open loads the baseline file at path. An empty path keeps the baseline in
// memory only; a missing file starts an empty baseline.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.doc); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	for tier := range s.doc.Tiers {
		if !tier.Valid() {
			return nil, fmt.Errorf("baseline %s: %w %q", path, ErrUnknownTier, tier)
		}
	}
	return s, nil
}

// Get returns a copy of the baseline configurations and whether any are set.
func (s *Store) Get() (map[model.Tier]model.Configuration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTiers(s.doc.Tiers), len(s.doc.Tiers) > 0
}

func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.UpdatedAt
}

// Put replaces the baseline and writes it out.
func (s *Store) Put(tiers map[model.Tier]model.Configuration) error {
	tiers = copyTiers(tiers)
	for tier, cfg := range tiers {
		if !tier.Valid() {
			return fmt.Errorf("%w %q", ErrUnknownTier, tier)
		}
		if cfg.Tier == "" {
			cfg.Tier = tier
			tiers[tier] = cfg
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document{UpdatedAt: time.Now().UTC(), Tiers: tiers}
	if s.path != "" {
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode baseline: %w", err)
		}
		if err := os.WriteFile(s.path, raw, 0o644); err != nil {
			return fmt.Errorf("write baseline %s: %w", s.path, err)
		}
	}
	s.doc = doc
	return nil
}

func copyTiers(in map[model.Tier]model.Configuration) map[model.Tier]model.Configuration {
	out := make(map[model.Tier]model.Configuration, len(in))
	for k, v := range in {
		if v.CompletionRateOverride != nil {
			o := *v.CompletionRateOverride
			v.CompletionRateOverride = &o
		}
		out[k] = v
	}
	return out
}
