package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "richtext_system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "richtext_system_goroutines",
		Help: "Number of goroutines",
	})

	// Conversion metrics
	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richtext_conversions_total",
			Help: "Total number of rich text conversions",
		},
		[]string{"source", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "richtext_conversion_duration_seconds",
			Help:    "Time spent converting a document",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"source"},
	)

	BatchQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "richtext_batch_queue_length",
		Help: "Number of documents waiting in a batch",
	})

	// Structure metrics
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "richtext_links_created_total",
		Help: "Number of links added by link detection",
	})

	BlockquotesRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "richtext_blockquotes_recovered_total",
		Help: "Number of blockquote ranges recovered from markers",
	})

	MentionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "richtext_mentions_created_total",
		Help: "Number of @room mentions flagged",
	})

	PhishingLinksFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "richtext_phishing_links_flagged_total",
		Help: "Number of links rewritten because their text names another site",
	})

	ArtifactCharactersRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "richtext_artifact_characters_removed_total",
		Help: "Number of characters removed as conversion artifacts",
	})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richtext_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richtext_cache_misses_total",
			Help: "Number of cache misses",
		},
		[]string{"cache_type"},
	)
)

// UpdateSystemMetrics updates system-level metrics
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
