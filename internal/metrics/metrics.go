package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"scenario-engine/internal/model"
)

// Recorder publishes engine activity. A nil *Recorder discards everything.
type Recorder struct {
	evaluations *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cache       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenario_engine",
			Name:      "evaluations_total",
			Help:      "Evaluations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenario_engine",
			Name:      "diagnostics_total",
			Help:      "Diagnostic messages emitted by code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scenario_engine",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time per operation.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}, []string{"kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scenario_engine",
			Name:      "cache_lookups_total",
			Help:      "Evaluation cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.evaluations, r.warnings, r.duration, r.cache)
	return r
}

func (r *Recorder) Observe(kind, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.evaluations.WithLabelValues(kind, outcome).Inc()
	r.duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (r *Recorder) Diagnostics(msgs []model.CalculationMessage) {
	if r == nil {
		return
	}
	for _, m := range msgs {
		r.warnings.WithLabelValues(m.Code).Inc()
	}
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cache.WithLabelValues("hit").Inc()
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}
