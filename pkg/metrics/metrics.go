package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is private to the client so tests can run without clashing
	// with the default global registry
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets for backend round trips, from a few milliseconds to the client timeout
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// Backend API client metrics
	APIRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_client_request_duration_seconds",
			Help:    "Backend API call duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	APIRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_client_request_total",
			Help: "Total number of backend API calls",
		},
		[]string{"operation", "status"},
	)

	// Local web front metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Avatar proxy cache metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Business Metrics
	SessionEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormatch_session_events_total",
			Help: "Session lifecycle events (bootstrap, login, signup, logout, invalidate)",
		},
		[]string{"event", "status"},
	)

	MatchRequestActions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormatch_match_request_actions_total",
			Help: "Match request actions performed from the client",
		},
		[]string{"action", "status"},
	)

	ProfileUpdates = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormatch_profile_updates_total",
			Help: "Total number of profile updates",
		},
		[]string{"status"},
	)

	ProfilePictureUploads = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormatch_profile_picture_uploads_total",
			Help: "Total number of profile picture uploads",
		},
		[]string{"status"},
	)

	MessagesSent = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentormatch_messages_sent_total",
			Help: "Total number of direct messages sent",
		},
		[]string{"status"},
	)

	UnreadMessages = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "mentormatch_unread_messages",
			Help: "Unread message count last reported by the backend",
		},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	initOnce sync.Once
)

// Init registers process collectors and a build info series labelled with the service name
func Init(serviceName string) {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		buildInfo := factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mentormatch_build_info",
				Help: "Build information of the running client",
			},
			[]string{"service_name", "go_version"},
		)
		buildInfo.WithLabelValues(serviceName, runtime.Version()).Set(1)
	})
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// StatusLabel maps an error to the status label used across counters
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
