package observability_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveInvoke(t *testing.T) {
	m := observability.New()

	m.ObserveInvoke("greet", "networked", 10*time.Millisecond, nil)
	m.ObserveInvoke("greet", "networked", 10*time.Millisecond, domain.NewCommandError("greet", "nope"))
	m.ObserveInvoke("greet", "embedded", time.Millisecond, errors.New("plain"))

	expected := `
# HELP hostbridge_invoke_total Commands invoked by the client, by mode and outcome.
# TYPE hostbridge_invoke_total counter
hostbridge_invoke_total{cmd="greet",mode="embedded",outcome="error"} 1
hostbridge_invoke_total{cmd="greet",mode="networked",outcome="command"} 1
hostbridge_invoke_total{cmd="greet",mode="networked",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "hostbridge_invoke_total"))
}

func TestMetrics_DispatchAndHTTP(t *testing.T) {
	m := observability.New()

	m.ObserveDispatch("sha256_hash", time.Millisecond, nil)
	m.ObserveDispatch("sha256_hash", time.Millisecond, nil)
	m.ObserveHTTP("POST", "/api/rpc", 200)

	expected := `
# HELP hostbridge_rpc_requests_total Commands dispatched by the RPC server, by outcome.
# TYPE hostbridge_rpc_requests_total counter
hostbridge_rpc_requests_total{cmd="sha256_hash",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "hostbridge_rpc_requests_total"))
	n, err := testutil.GatherAndCount(m.Registry(), "hostbridge_rpc_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = testutil.GatherAndCount(m.Registry(), "hostbridge_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.New()
	m.ObserveHTTP("GET", "/api/health", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `hostbridge_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
