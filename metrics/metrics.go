// Package metrics exposes prometheus counters and gauges for the pieces of
// the server that matter operationally: connection churn, commands
// processed, bytes moved, and eviction activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns one registry and every metric the server reports.
type Collector struct {
	registry *prometheus.Registry

	connectionsOpened prometheus.Counter
	connectionsActive prometheus.Gauge
	commandsTotal     *prometheus.CounterVec
	bytesRead         prometheus.Counter
	bytesWritten      prometheus.Counter
	evictionSweeps    prometheus.Counter
	evictedKeys       prometheus.Counter
	clientEpoch       prometheus.Gauge
}

// NewCollector builds a Collector registered on a fresh registry, so tests
// and multiple server instances never collide on the default global one.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		connectionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdiskv_connections_opened_total",
			Help: "Total TCP connections accepted.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdiskv_connections_active",
			Help: "Currently open connections.",
		}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdiskv_commands_processed_total",
			Help: "Commands processed, by command name.",
		}, []string{"command"}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdiskv_bytes_read_total",
			Help: "Bytes read from client sockets.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdiskv_bytes_written_total",
			Help: "Bytes written to client sockets.",
		}),
		evictionSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdiskv_eviction_sweeps_total",
			Help: "Eviction scans performed by the engine.",
		}),
		evictedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdiskv_evicted_keys_total",
			Help: "Keys removed by eviction scans.",
		}),
		clientEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdiskv_client_epoch",
			Help: "Monotonic client epoch of the most recently accepted connection.",
		}),
	}

	c.registry.MustRegister(
		c.connectionsOpened,
		c.connectionsActive,
		c.commandsTotal,
		c.bytesRead,
		c.bytesWritten,
		c.evictionSweeps,
		c.evictedKeys,
		c.clientEpoch,
	)
	return c
}

func (c *Collector) ConnectionOpened() {
	c.connectionsOpened.Inc()
	c.connectionsActive.Inc()
}

func (c *Collector) ConnectionClosed() {
	c.connectionsActive.Dec()
}

func (c *Collector) CommandProcessed(name string) {
	c.commandsTotal.WithLabelValues(name).Inc()
}

func (c *Collector) BytesRead(n int) {
	c.bytesRead.Add(float64(n))
}

func (c *Collector) BytesWritten(n int) {
	c.bytesWritten.Add(float64(n))
}

func (c *Collector) EvictionSweep(removed int) {
	c.evictionSweeps.Inc()
	c.evictedKeys.Add(float64(removed))
}

// ClientEpoch records the epoch of the most recently accepted connection.
func (c *Collector) ClientEpoch(epoch uint64) {
	c.clientEpoch.Set(float64(epoch))
}

// Handler serves the registry in the Prometheus text exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
