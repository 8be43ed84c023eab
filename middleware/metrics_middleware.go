package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"msgwire/codec"
)

// Metrics holds the codec collectors.
type Metrics struct {
	Operations *prometheus.CounterVec
	Bytes      *prometheus.HistogramVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics registers the codec collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "msgwire_codec_operations_total",
				Help: "Total codec operations",
			},
			[]string{"codec", "op", "result"}, // result is "ok" or an ErrorClass
		),
		Bytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "msgwire_codec_bytes",
				Help:    "Encoded size of successfully processed records",
				Buckets: prometheus.ExponentialBuckets(32, 4, 8),
			},
			[]string{"codec", "op"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "msgwire_codec_duration_seconds",
				Help:    "Codec call duration",
				Buckets: []float64{.000001, .000005, .00001, .00005, .0001, .0005, .001, .01},
			},
			[]string{"codec", "op"},
		),
	}
}

func (m *Metrics) observe(name, op string, size int, start time.Time, err error) {
	m.Duration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.Operations.WithLabelValues(name, op, ErrorClass(err)).Inc()
		return
	}
	m.Operations.WithLabelValues(name, op, "ok").Inc()
	m.Bytes.WithLabelValues(name, op).Observe(float64(size))
}

// MetricsMiddleware records counts, sizes and latencies in m.
func MetricsMiddleware(m *Metrics) Middleware {
	return func(next codec.Codec) codec.Codec {
		name := next.Type().String()
		return CodecFunc(next,
			func(v any) ([]byte, error) {
				start := time.Now()
				data, err := next.Encode(v)
				m.observe(name, "encode", len(data), start, err)
				return data, err
			},
			func(data []byte, v any) error {
				start := time.Now()
				err := next.Decode(data, v)
				m.observe(name, "decode", len(data), start, err)
				return err
			},
		)
	}
}

// ErrorClass maps an error to a short label for logs and metrics.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, codec.ErrTruncatedInput):
		return "truncated"
	case errors.Is(err, codec.ErrInvalidUTF8):
		return "invalid_utf8"
	case errors.Is(err, codec.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, codec.ErrMalformedPrefix):
		return "malformed_prefix"
	case errors.Is(err, codec.ErrMessageTooLarge):
		return "too_large"
	case errors.Is(err, codec.ErrFieldTooLarge):
		return "field_too_large"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	}
	return "other"
}
