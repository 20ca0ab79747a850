package crossvalidation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records cross-validation runs. A nil *Metrics records nothing.
type Metrics struct {
	duration prometheus.Histogram
	folds    *prometheus.CounterVec
}

// NewMetrics creates metrics and registers them to reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rulestudio",
			Subsystem: "crossvalidation",
			Name:      "duration_seconds",
			Help:      "time to calculate a cross-validation, over all folds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		folds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rulestudio",
			Subsystem: "crossvalidation",
			Name:      "folds_total",
			Help:      "number of calculated folds.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.folds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCalculation(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) observeFold(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if errors.Is(err, context.Canceled) {
		result = "cancelled"
	} else if err != nil {
		result = "error"
	}
	m.folds.WithLabelValues(result).Inc()
}
