package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors for the gateway
type Metrics struct {
	LoginAttempts  *prometheus.CounterVec
	SessionReads   *prometheus.CounterVec
	GuardDecisions *prometheus.CounterVec
	UpstreamErrors prometheus.Counter
	Registry       *prometheus.Registry
}

// Login attempt outcomes
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// Guard decisions
const (
	DecisionAllow         = "allow"
	DecisionRedirectLogin = "redirect_login"
	DecisionRedirectHome  = "redirect_home"
)

// New creates and registers the gateway collectors on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reuse_gateway",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		SessionReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reuse_gateway",
			Subsystem: "auth",
			Name:      "session_reads_total",
			Help:      "Session introspection calls by outcome.",
		}, []string{"outcome"}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reuse_gateway",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions.",
		}, []string{"decision"}),
		UpstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reuse_gateway",
			Subsystem: "proxy",
			Name:      "upstream_errors_total",
			Help:      "Failed calls to the upstream data API.",
		}),
		Registry: registry,
	}

	registry.MustRegister(m.LoginAttempts, m.SessionReads, m.GuardDecisions, m.UpstreamErrors)
	return m
}
