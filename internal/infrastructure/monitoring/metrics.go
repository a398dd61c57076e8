package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the surface host.
type Metrics struct {
	// HTTP metrics (bundle + resource serving)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Protocol metrics
	MessagesOut *prometheus.CounterVec
	MessagesIn  *prometheus.CounterVec

	// Inset metrics
	InsetsActive   prometheus.Gauge
	InsetsCreated  prometheus.Counter
	PreviewsActive prometheus.Gauge

	// Preload metrics
	PreloadBatchSize prometheus.Histogram

	// Session metrics
	SessionsActive prometheus.Gauge
	ReloadReplays  prometheus.Counter

	// Surface channel metrics
	SurfaceConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	mu sync.RWMutex
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surface_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "surface_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		MessagesOut: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surface_messages_out_total",
				Help: "Host to surface messages by type",
			},
			[]string{"type"},
		),
		MessagesIn: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surface_messages_in_total",
				Help: "Surface to host messages by type",
			},
			[]string{"type"},
		),

		InsetsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "surface_insets_active",
				Help: "Number of cached output insets",
			},
		),
		InsetsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "surface_insets_created_total",
				Help: "Total output inset creations",
			},
		),
		PreviewsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "surface_markdown_previews_active",
				Help: "Number of registered markdown previews",
			},
		),

		PreloadBatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "surface_preload_batch_size",
				Help:    "Resources per outbound preload batch",
				Buckets: []float64{1, 2, 5, 10, 20, 50},
			},
		),

		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "surface_sessions_active",
				Help: "Number of live surface sessions",
			},
		),
		ReloadReplays: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "surface_reload_replays_total",
				Help: "Total reload recovery replays",
			},
		),

		SurfaceConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "surface_connections",
				Help: "Number of active surface channel connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "surface_uptime_seconds",
				Help: "Host uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordMessageOut records a host → surface message.
func (m *Metrics) RecordMessageOut(msgType string) {
	m.MessagesOut.WithLabelValues(msgType).Inc()
}

// RecordMessageIn records a surface → host message.
func (m *Metrics) RecordMessageIn(msgType string) {
	m.MessagesIn.WithLabelValues(msgType).Inc()
}

// SetInsetsActive sets the cached inset count.
func (m *Metrics) SetInsetsActive(count int) {
	m.InsetsActive.Set(float64(count))
}

// IncInsetsCreated counts one inset creation.
func (m *Metrics) IncInsetsCreated() {
	m.InsetsCreated.Inc()
}

// SetPreviewsActive sets the registered preview count.
func (m *Metrics) SetPreviewsActive(count int) {
	m.PreviewsActive.Set(float64(count))
}

// ObservePreloadBatch records the size of one outbound preload batch.
func (m *Metrics) ObservePreloadBatch(size int) {
	m.PreloadBatchSize.Observe(float64(size))
}

// IncSessionsActive / DecSessionsActive track live sessions.
func (m *Metrics) IncSessionsActive() { m.SessionsActive.Inc() }
func (m *Metrics) DecSessionsActive() { m.SessionsActive.Dec() }

// IncReloadReplays counts one reload recovery.
func (m *Metrics) IncReloadReplays() { m.ReloadReplays.Inc() }

// IncSurfaceConnections / DecSurfaceConnections track channel connections.
func (m *Metrics) IncSurfaceConnections() { m.SurfaceConnections.Inc() }
func (m *Metrics) DecSurfaceConnections() { m.SurfaceConnections.Dec() }
