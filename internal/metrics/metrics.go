// Package metrics exposes Prometheus instrumentation for the ledger service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Registry owns these metrics. Using a private registry keeps tests that
	// build several instances from hitting duplicate registration panics.
	Registry *prometheus.Registry

	rpcRequests     *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	settlements     *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// New creates a registry and registers every collector in it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		rpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupledger_rpc_requests_total",
				Help: "Total RPC requests by procedure and result code.",
			},
			[]string{"procedure", "code"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "groupledger_rpc_duration_seconds",
				Help:    "RPC latency by procedure.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupledger_balance_cache_lookups_total",
				Help: "Balance cache lookups by result (hit or miss).",
			},
			[]string{"result"},
		),
		settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupledger_settlement_transitions_total",
				Help: "Settlement lifecycle transitions.",
			},
			[]string{"transition"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groupledger_events_published_total",
				Help: "Ledger events handed to the broker, by result.",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// CacheHit counts a balance read served from the cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss counts a balance read that went to the store.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// SettlementTransition counts created, settled, reverted and deleted settlements.
func (m *Metrics) SettlementTransition(transition string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(transition).Inc()
}

// EventPublished counts a ledger event publish by result.
func (m *Metrics) EventPublished(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(result).Inc()
}
