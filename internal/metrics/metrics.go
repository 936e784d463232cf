// Package metrics exports solver, vault and HTTP events as Prometheus
// metrics by implementing the observability hook interfaces.
//
// All collectors are registered on a caller-supplied registry so that tests
// and multiple servers in one process do not collide:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg, true)
//	m.Install()
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/inarow/pkg/observability"
)

const namespace = "inarow"

// Metrics holds every collector. It implements [observability.SolverHooks],
// [observability.VaultHooks] and [observability.HTTPHooks].
type Metrics struct {
	reg prometheus.Gatherer

	buildsTotal     *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	buildNodes      prometheus.Histogram
	expandDuration  prometheus.Histogram
	leavesTotal     prometheus.Counter
	transpositions  prometheus.Counter
	levelsTotal     prometheus.Counter
	levelDuration   prometheus.Histogram
	levelSize       prometheus.Histogram
	vaultLoadsTotal *prometheus.CounterVec
	vaultSavesTotal prometheus.Counter
	vaultSaveBytes  prometheus.Histogram
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var (
	_ observability.SolverHooks = (*Metrics)(nil)
	_ observability.VaultHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// New creates the collectors and registers them on reg. When withRuntime is
// set, the Go runtime and process collectors are registered as well.
func New(reg *prometheus.Registry, withRuntime bool) *Metrics {
	f := promauto.With(reg)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return &Metrics{
		reg: reg,
		buildsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "builds_total",
			Help:      "Completed solver builds by status",
		}, []string{"status"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "build_duration_seconds",
			Help:      "Wall time of a full build",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		buildNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "build_nodes",
			Help:      "Distinct positions per build",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 10),
		}),
		expandDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "expand_duration_seconds",
			Help:      "Wall time of graph expansion",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		leavesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "leaves_total",
			Help:      "Terminal positions discovered",
		}),
		transpositions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "transpositions_total",
			Help:      "Positions reached by more than one move order",
		}),
		levelsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "levels_total",
			Help:      "Propagation levels completed",
		}),
		levelDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "level_duration_seconds",
			Help:      "Wall time of one propagation level",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		levelSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "level_size",
			Help:      "Positions per propagation level",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		vaultLoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "loads_total",
			Help:      "Vault lookups by result",
		}, []string{"result"}),
		vaultSavesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "saves_total",
			Help:      "Entries written to the vault",
		}),
		vaultSaveBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vault",
			Name:      "entry_bytes",
			Help:      "Encoded entry size",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 10),
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m as the global solver, vault and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetSolverHooks(m)
	observability.SetVaultHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) OnBuildStart(context.Context, string) {}

func (m *Metrics) OnBuildComplete(_ context.Context, nodes int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.buildsTotal.WithLabelValues(status).Inc()
	m.buildDuration.Observe(d.Seconds())
	if err == nil {
		m.buildNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnExpandComplete(_ context.Context, _, leaves int, d time.Duration) {
	m.expandDuration.Observe(d.Seconds())
	m.leavesTotal.Add(float64(leaves))
}

func (m *Metrics) OnTransposition(context.Context) { m.transpositions.Inc() }

func (m *Metrics) OnLevelComplete(_ context.Context, _, size int, d time.Duration) {
	m.levelsTotal.Inc()
	m.levelSize.Observe(float64(size))
	m.levelDuration.Observe(d.Seconds())
}

func (m *Metrics) OnLoad(_ context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.vaultLoadsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) OnSave(_ context.Context, size int) {
	m.vaultSavesTotal.Inc()
	m.vaultSaveBytes.Observe(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
