// Package metrics exposes Prometheus counters for login flows and token
// validations on a private registry.
package metrics

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "bff"

	ResultValid = "valid"
)

type Metrics struct {
	registry         *prometheus.Registry
	loginFlows       *prometheus.CounterVec
	tokenValidations *prometheus.CounterVec
}

// New creates the counters and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		loginFlows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_flows_total",
			Help:      "Completed login callbacks by outcome.",
		}, []string{"outcome"}),
		tokenValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validations_total",
			Help:      "Token validations by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.loginFlows,
		m.tokenValidations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLoginFlow counts one callback outcome.
func (m *Metrics) ObserveLoginFlow(outcome string) {
	m.loginFlows.WithLabelValues(outcome).Inc()
}

// ObserveTokenValidation counts one validation; err is the validator's result.
func (m *Metrics) ObserveTokenValidation(err error) {
	result := ResultValid
	if err != nil {
		result = "unknown"
		if kind, ok := token.KindOf(err); ok {
			result = kind.String()
		}
	}
	m.tokenValidations.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservedValidator counts every result of the wrapped validator.
type ObservedValidator struct {
	next    token.Validator
	metrics *Metrics
}

var _ token.Validator = (*ObservedValidator)(nil)

func (m *Metrics) ObserveValidator(next token.Validator) *ObservedValidator {
	return &ObservedValidator{next: next, metrics: m}
}

func (v *ObservedValidator) Validate(ctx context.Context, rawToken string) (*token.Claims, error) {
	claims, err := v.next.Validate(ctx, rawToken)
	v.metrics.ObserveTokenValidation(err)
	return claims, err
}
