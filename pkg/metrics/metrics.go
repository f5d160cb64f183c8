// Package metrics defines the Prometheus collectors for a glossary run and
// writes them out in the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for a run. Collectors are
// registered on a private registry so repeated construction in tests never
// collides with the global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	FilesParsedTotal     prometheus.Counter
	FilesSkippedTotal    *prometheus.CounterVec
	WordsExtractedTotal  prometheus.Counter
	WordsNewTotal        prometheus.Counter
	GlossarySize         prometheus.Gauge
	GlossaryDumpsTotal   *prometheus.CounterVec
	GlossaryDumpDuration prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FilesParsedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "glossary_files_parsed_total",
				Help: "Total number of input files tokenized.",
			},
		),
		FilesSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossary_files_skipped_total",
				Help: "Input paths skipped by reason (extension, invalid_path, unreadable_dir).",
			},
			[]string{"reason"},
		),
		WordsExtractedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "glossary_words_extracted_total",
				Help: "Sum over files of distinct words found per file.",
			},
		),
		WordsNewTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "glossary_words_new_total",
				Help: "Words added to the glossary that were not already present.",
			},
		),
		GlossarySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "glossary_size",
				Help: "Number of words currently in the glossary.",
			},
		),
		GlossaryDumpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossary_dumps_total",
				Help: "Glossary dump operations by status.",
			},
			[]string{"status"},
		),
		GlossaryDumpDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "glossary_dump_duration_seconds",
				Help:    "Glossary dump latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
	}

	m.Registry.MustRegister(
		m.FilesParsedTotal,
		m.FilesSkippedTotal,
		m.WordsExtractedTotal,
		m.WordsNewTotal,
		m.GlossarySize,
		m.GlossaryDumpsTotal,
		m.GlossaryDumpDuration,
	)

	return m
}

// WriteTextfile writes the current values of all collectors to path in the
// Prometheus text exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
