package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	JoinsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "padsync", Name: "joins_total", Help: "Number of successful join calls."},
	)
	EditsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "padsync", Name: "edits_total", Help: "Number of successful document edits."},
	)
	SyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "padsync", Name: "syncs_total", Help: "Number of sync polls by kind (full vs delta-suppressed)."},
		[]string{"kind"},
	)
	ActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "padsync", Name: "active_users", Help: "Live users after the most recent presence read."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "padsync", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "padsync", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(JoinsTotal)
	reg.MustRegister(EditsTotal)
	reg.MustRegister(SyncsTotal)
	reg.MustRegister(ActiveUsers)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
