package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-bff-gateway/internal/metrics"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	err error
}

func (s stubValidator) Validate(context.Context, string) (*token.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &token.Claims{Subject: "s"}, nil
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_LoginFlows(t *testing.T) {
	m := metrics.New()
	m.ObserveLoginFlow("success")
	m.ObserveLoginFlow("success")
	m.ObserveLoginFlow("state_mismatch")

	body := scrape(t, m)
	require.Contains(t, body, "# TYPE bff_login_flows_total counter")
	require.Contains(t, body, `bff_login_flows_total{outcome="success"} 2`)
	require.Contains(t, body, `bff_login_flows_total{outcome="state_mismatch"} 1`)
	require.Contains(t, body, "go_goroutines")
}

func TestMetrics_ObservedValidator(t *testing.T) {
	m := metrics.New()

	_, err := m.ObserveValidator(stubValidator{}).Validate(context.Background(), "a.b.c")
	require.NoError(t, err)
	_, err = m.ObserveValidator(stubValidator{err: &token.ValidationError{Kind: token.KindExpired}}).Validate(context.Background(), "a.b.c")
	require.ErrorIs(t, err, token.ErrExpired)
	_, err = m.ObserveValidator(stubValidator{err: errors.New("boom")}).Validate(context.Background(), "a.b.c")
	require.Error(t, err)

	body := scrape(t, m)
	require.Contains(t, body, `bff_token_validations_total{result="valid"} 1`)
	require.Contains(t, body, `bff_token_validations_total{result="token_expired"} 1`)
	require.Contains(t, body, `bff_token_validations_total{result="unknown"} 1`)
}
