package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	flowRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_flow_requests_total",
			Help: "Total number of connector flow executions",
		},
		[]string{"connector", "flow", "status"},
	)

	flowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connector_flow_duration_seconds",
			Help:    "Duration of connector flow executions in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"connector", "flow"},
	)

	flowsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "connector_flows_in_flight",
			Help: "Number of connector flows currently executing",
		},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connector_webhook_events_total",
			Help: "Total number of classified inbound webhook events",
		},
		[]string{"connector", "event"},
	)

	statusMergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attempt_status_merges_total",
			Help: "Total number of attempt status merge decisions",
		},
		[]string{"source", "accepted"},
	)
)

// ObserveFlow records one flow execution.
func ObserveFlow(connector, flow, status string, elapsed time.Duration) {
	flowRequestsTotal.WithLabelValues(connector, flow, status).Inc()
	flowDuration.WithLabelValues(connector, flow).Observe(elapsed.Seconds())
}

// FlowStarted marks a flow in flight; the returned func marks it done.
func FlowStarted() func() {
	flowsInFlight.Inc()
	return flowsInFlight.Dec
}

// ObserveWebhookEvent records one classified webhook event.
func ObserveWebhookEvent(connector, event string) {
	webhookEventsTotal.WithLabelValues(connector, event).Inc()
}

// ObserveStatusMerge records one merge decision.
func ObserveStatusMerge(source string, accepted bool) {
	label := "false"
	if accepted {
		label = "true"
	}
	statusMergesTotal.WithLabelValues(source, label).Inc()
}
