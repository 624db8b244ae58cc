package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cxxconv_conversion_seconds",
		Help:    "Time spent converting a single file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cxxconv_run_seconds",
		Help:    "Time spent on a full conversion run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	FilesSeenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_files_seen_total",
		Help: "Total number of files discovered across runs.",
	})

	FilesConvertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_files_converted_total",
		Help: "Total number of converted output files written.",
	})

	FilesCopiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_files_copied_total",
		Help: "Total number of files copied unchanged to the destination.",
	})

	UnresolvedIncludesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_unresolved_includes_total",
		Help: "Total number of local includes kept literal because no module matched.",
	})

	WriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_write_errors_total",
		Help: "Total number of per-file destination write failures.",
	})

	IndexedFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cxxconv_indexed_files",
		Help: "Number of files in the resolution index after the last run.",
	})

	IndexedModules = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cxxconv_indexed_modules",
		Help: "Number of module names registered per unit class after the last run.",
	}, []string{"class"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cxxconv_watcher_events_total",
		Help: "Total number of file system change batches received by the watcher.",
	})
)
