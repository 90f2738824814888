package criterion

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors an instrumented engine reports to.
// Construct once per process and share the instance across engines; attach
// it with WithMetrics.
type Metrics struct {
	evaluations *prometheus.CounterVec
	ruleMatches *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the engine collectors on the default prometheus
// registerer.
func NewMetrics() *Metrics {
	return NewMetricsOn(prometheus.DefaultRegisterer)
}

// NewMetricsOn registers the engine collectors on reg. Registering the same
// collector names twice on one registerer panics, which is why Metrics is
// meant to be shared rather than re-created per engine.
func NewMetricsOn(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "criterion_evaluations_total",
			Help: "Decision evaluations by terminal status.",
		}, []string{"decision", "status"}),
		ruleMatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "criterion_rule_matches_total",
			Help: "Winning rule per decision.",
		}, []string{"decision", "rule"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "criterion_evaluation_duration_seconds",
			Help:    "Wall-clock duration of a single evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs .. ~16ms
		}, []string{"decision"}),
	}
}

func (m *Metrics) observeRun(decision string, res Result, elapsed time.Duration) {
	m.evaluations.WithLabelValues(decision, string(res.Status)).Inc()
	if res.Meta.MatchedRule != "" {
		m.ruleMatches.WithLabelValues(decision, res.Meta.MatchedRule).Inc()
	}
	m.duration.WithLabelValues(decision).Observe(elapsed.Seconds())
}
