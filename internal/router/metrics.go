package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"up2you.app/storefront/pkg/models"
)

// Metrics owns a private registry so several routers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	items prometheus.Gauge
	units prometheus.Gauge
	value prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "inventory_items",
			Help:      "Distinct items in the inventory.",
		}),
		units: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "inventory_units",
			Help:      "Units in stock across all items.",
		}),
		value: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "inventory_value",
			Help:      "Sum of price times quantity.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.items, m.units, m.value,
	)
	return m
}

// ObserveInventory copies aggregate stats into the inventory gauges.
func (m *Metrics) ObserveInventory(s *models.Stats) {
	m.items.Set(float64(s.TotalItems))
	m.units.Set(float64(s.TotalQuantity))
	m.value.Set(s.TotalValue)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records count and latency per matched route. Unmatched paths are
// grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
