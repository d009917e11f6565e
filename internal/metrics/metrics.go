package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters exported by the server.
type Metrics struct {
	registry        *prometheus.Registry
	LockDeployments *prometheus.CounterVec
	DecimalsLookups *prometheus.CounterVec
	SubgraphQueries *prometheus.HistogramVec
}

// New registers every collector on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		LockDeployments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lock_deployments_total",
			Help: "Lock deployment attempts by final status.",
		}, []string{"status"}),
		DecimalsLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "decimals_lookups_total",
			Help: "Token decimals lookups by result.",
		}, []string{"result"}),
		SubgraphQueries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "subgraph_query_duration_seconds",
			Help:    "Latency of Unlock subgraph queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"network", "query"}),
	}

	registry.MustRegister(
		m.LockDeployments,
		m.DecimalsLookups,
		m.SubgraphQueries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveDeployment(status string) {
	if m == nil {
		return
	}
	m.LockDeployments.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveDecimalsLookup(result string) {
	if m == nil {
		return
	}
	m.DecimalsLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSubgraphQuery(network, query string, seconds float64) {
	if m == nil {
		return
	}
	m.SubgraphQueries.WithLabelValues(network, query).Observe(seconds)
}
