package echoutil

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts requests and measures their latency.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers request metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rulestudio",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "number of handled HTTP requests.",
			},
			[]string{"method", "path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rulestudio",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware observes requests handled by next.
//
// Requests are labeled with the route pattern, not the raw URL.
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()
		err := next(c)

		code := c.Response().Status
		if err != nil {
			code = http.StatusInternalServerError
			if herr := new(echo.HTTPError); errors.As(err, &herr) {
				code = herr.Code
			}
		}
		path := c.Path()
		if path == "" {
			path = "unknown"
		}
		meth := c.Request().Method
		m.requests.WithLabelValues(meth, path, strconv.Itoa(code)).Inc()
		m.duration.WithLabelValues(meth, path).Observe(time.Since(begin).Seconds())
		return err
	}
}
