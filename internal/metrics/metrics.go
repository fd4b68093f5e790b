package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignupTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_transitions_total",
			Help: "Signup transitions by final status",
		},
		[]string{"status"}, // yes|maybe|no|waitlist
	)
	TransitionsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_transitions_failed_total",
			Help: "Signup transitions aborted with an error",
		},
	)
	WaitlistPromotions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_promotions_total",
			Help: "Waitlisted signups promoted to yes",
		},
	)
	TopUpsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_topups_applied_total",
			Help: "Top-up confirmations applied to a wallet",
		},
	)
	TopUpsDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_topups_duplicate_total",
			Help: "Top-up confirmations skipped as already applied",
		},
	)
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current notification queue depth",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(SignupTransitions)
	prometheus.MustRegister(TransitionsFailed)
	prometheus.MustRegister(WaitlistPromotions)
	prometheus.MustRegister(TopUpsApplied)
	prometheus.MustRegister(TopUpsDuplicate)
	prometheus.MustRegister(WorkerQueueDepth)
}
