package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsClassified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "governance_events_classified_total",
		Help: "Total number of feed events classified.",
	})

	TransfersEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "governance_transfers_emitted_total",
		Help: "Total number of transfer emissions, labelled by security and direction.",
	}, []string{"security", "direction"})

	FeesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "governance_fees_emitted_total",
		Help: "Total number of fee emissions.",
	})

	BatchesSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "governance_batches_submitted_total",
		Help: "Total number of batch submissions, labelled by kind and outcome.",
	}, []string{"kind", "status"})

	ConfirmationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "governance_confirmation_seconds",
		Help:    "Time spent waiting for batch confirmation.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})
)

// Handler serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
