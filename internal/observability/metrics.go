package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcome labels.
const (
	OutcomeSkippedBusy  = "skipped_busy"
	OutcomeSkippedEmpty = "skipped_empty"
	OutcomeUnchanged    = "unchanged"
	OutcomeAccepted     = "accepted"
	OutcomeRateLimited  = "rate_limited"
	OutcomeFailed       = "failed"
)

var (
	cyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_transcription_cycles_total",
		Help: "Transcription cycles by outcome",
	}, []string{"outcome"})

	interpreterLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mudra_interpreter_latency_seconds",
		Help:    "Interpreter round trip latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 4.0, 8.0, 16.0},
	})

	framesSampled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_frames_sampled_total",
		Help: "Frames passed through hand detection",
	})

	detectionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_detection_errors_total",
		Help: "Hand detection failures",
	})

	recordedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_recorded_bytes_total",
		Help: "Bytes of encoded video recorded",
	})

	statusGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mudra_status",
		Help: "Current application status (1 for the active status, 0 otherwise)",
	}, []string{"status"})
)

// RecordCycle counts a finished transcription cycle.
func RecordCycle(outcome string) {
	cyclesTotal.WithLabelValues(outcome).Inc()
}

// ObserveInterpreter records the latency of one interpreter call.
func ObserveInterpreter(d time.Duration) {
	interpreterLatency.Observe(d.Seconds())
}

// RecordFrame counts a sampled frame.
func RecordFrame() {
	framesSampled.Inc()
}

// RecordDetectionError counts a failed detection.
func RecordDetectionError() {
	detectionErrors.Inc()
}

// RecordRecordedBytes adds encoded video bytes.
func RecordRecordedBytes(n int) {
	recordedBytes.Add(float64(n))
}

// SetStatus marks status as the active one among all known statuses.
func SetStatus(active string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == active {
			v = 1.0
		}
		statusGauge.WithLabelValues(s).Set(v)
	}
}
