package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wrapi"

// Recorder records outgoing request metrics. A nil *Recorder is a no-op.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. Collectors already
// registered by another client on the same registry are reused.
func New(reg prometheus.Registerer) (*Recorder, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Outgoing HTTP API requests by method and status.",
	}, []string{"method", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Latency of outgoing HTTP API requests, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	var err error

	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}

	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Recorder{requests: requests, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

// Observe records one request. status is 0 when no response was received.
func (r *Recorder) Observe(method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}

	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}

	r.requests.WithLabelValues(method, label).Inc()
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}
