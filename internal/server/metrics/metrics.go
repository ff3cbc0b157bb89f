// Package metrics collects Prometheus telemetry for the store and the RPC
// surface. Each Collector owns a private registry so tests and multiple
// servers in one process never collide on the default registerer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records store and RPC metrics.
type Collector struct {
	registry *prometheus.Registry

	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	rpcTotal     *prometheus.CounterVec
	rpcLatency   *prometheus.HistogramVec
	authFailures prometheus.Counter
}

// NewCollector creates a collector under namespace ("rush" when empty).
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "rush"
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.storeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of store operations",
		},
		[]string{"op", "result"},
	)

	c.storeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"op"},
	)

	c.rpcTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Total number of handled RPCs",
		},
		[]string{"method", "code"},
	)

	c.rpcLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "RPC handling latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	c.authFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_rejections_total",
			Help:      "Requests rejected because of a missing or invalid session token",
		},
	)

	c.registry.MustRegister(
		c.storeOps,
		c.storeLatency,
		c.rpcTotal,
		c.rpcLatency,
		c.authFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordStoreOp records one store call.
func (c *Collector) RecordStoreOp(op string, duration time.Duration, err error) {
	c.storeOps.WithLabelValues(op, result(err)).Inc()
	c.storeLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordRPC records one handled RPC with its status code name.
func (c *Collector) RecordRPC(method, code string, duration time.Duration) {
	c.rpcTotal.WithLabelValues(method, code).Inc()
	c.rpcLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordAuthFailure counts a rejected session token.
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
