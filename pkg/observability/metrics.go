package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hostbridge"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records client invocations, server dispatches and HTTP requests.
type Metrics struct {
	registry *prometheus.Registry

	invokeTotal    *prometheus.CounterVec
	invokeDuration *prometheus.HistogramVec
	rpcTotal       *prometheus.CounterVec
	rpcDuration    *prometheus.HistogramVec
	httpTotal      *prometheus.CounterVec
}

// New creates the collectors and registers them, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		invokeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoke_total",
			Help:      "Commands invoked by the client, by mode and outcome.",
		}, []string{"cmd", "mode", "outcome"}),
		invokeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoke_duration_seconds",
			Help:      "Client invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Commands dispatched by the RPC server, by outcome.",
		}, []string{"cmd", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Server-side command latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cmd"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.invokeTotal, m.invokeDuration,
		m.rpcTotal, m.rpcDuration,
		m.httpTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveInvoke satisfies invoke.Recorder. The outcome is the error kind for
// *domain.Error failures.
func (m *Metrics) ObserveInvoke(cmd, mode string, elapsed time.Duration, err error) {
	m.invokeTotal.WithLabelValues(cmd, mode, outcome(err)).Inc()
	m.invokeDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ObserveDispatch records one server-side command execution.
func (m *Metrics) ObserveDispatch(cmd string, elapsed time.Duration, err error) {
	m.rpcTotal.WithLabelValues(cmd, outcome(err)).Inc()
	m.rpcDuration.WithLabelValues(cmd).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request. route should be the route pattern, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}
	return OutcomeError
}
