package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ParticipationDuration tracks the latency of participation requests
	ParticipationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "advert_participation_duration_seconds",
			Help: "Duration of advertisement participation requests in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
				5.0,   // 5s
				10.0,  // 10s
			},
		},
		[]string{"result"}, // accepted, reward_degraded, or the failure kind
	)

	// LockContention counts participation attempts rejected because the
	// advertisement lock was held by someone else
	LockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advert_lock_contention_total",
			Help: "Participation attempts rejected due to lock contention",
		},
	)
)

// RecordParticipationDuration records the duration of a participation request
func RecordParticipationDuration(result string, duration float64) {
	ParticipationDuration.WithLabelValues(result).Observe(duration)
}
