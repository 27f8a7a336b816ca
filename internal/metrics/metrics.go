package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	EncodesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cp16_encodes_in_flight",
		Help: "Number of encode requests being processed",
	})
)

// Counters
var (
	EncodeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cp16_encode_requests_total",
		Help: "Total encode requests by outcome",
	}, []string{"outcome"})
	EncodedSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cp16_encoded_samples_total",
		Help: "Total PCM samples produced",
	})
	EncodedGlyphsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cp16_encoded_glyphs_total",
		Help: "Total glyphs rendered",
	})
	MissingGlyphsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cp16_missing_glyphs_total",
		Help: "Characters replaced with the fallback glyph",
	})
)

// Histograms
var (
	EncodeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cp16_encode_duration_ms",
		Help:    "Encode request duration in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	SignalSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cp16_signal_duration_seconds",
		Help:    "Duration of the encoded signals",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})
)

// Encode outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
