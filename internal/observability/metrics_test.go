package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordFlowOutcomes(t *testing.T) {
	m := NewMetrics()
	m.ObserveBootstrap("started")
	m.ObserveAnswer("ok")
	m.ObserveAnswer("ok")
	m.ObserveAnswer("busy")
	m.ObserveCompletion("ok")
	m.ObserveFollowup("sync", "failed")
	m.ObserveAPI("POST", "/api/onboarding/answers", "200", 30*time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(m.answers.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.answers.WithLabelValues("busy")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.followups.WithLabelValues("sync", "failed")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", "/api/onboarding/answers", "200")))
}

func TestMetricsHandlerExposesText(t *testing.T) {
	m := NewMetrics()
	m.ObserveCompletion("failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	require.True(t, strings.Contains(string(body), `nb_onboarding_completions_total{status="failed"} 1`))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveFollowup("notify", "ok")
	m.ApiInflightInc()
	m.ApiInflightDec()
	require.Nil(t, m.Registry())
}
