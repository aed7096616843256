package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Exporter exposes a Collector to Prometheus by reading snapshots at scrape time.
type Exporter struct {
	collector *Collector

	operations   *prometheus.Desc
	failures     *prometheus.Desc
	seconds      *prometheus.Desc
	tokens       *prometheus.Desc
	cacheEntries *prometheus.Desc
	uptime       *prometheus.Desc
}

// Compile-time check that Exporter implements prometheus.Collector.
var _ prometheus.Collector = (*Exporter)(nil)

// NewExporter creates an exporter for c under namespace.
func NewExporter(namespace string, c *Collector) *Exporter {
	return &Exporter{
		collector: c,
		operations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operations_total"),
			"Total number of operations by type.",
			[]string{"op"}, nil,
		),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operation_failures_total"),
			"Total number of failed operations by type.",
			[]string{"op"}, nil,
		),
		seconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "operation_seconds_total"),
			"Total time spent in operations by type.",
			[]string{"op"}, nil,
		),
		tokens: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "llm_tokens_total"),
			"Total LLM tokens by direction.",
			[]string{"direction"}, nil,
		),
		cacheEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "cache_entries"),
			"Number of cached etymology results.",
			nil, nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Seconds since the collector started.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.operations
	ch <- e.failures
	ch <- e.seconds
	ch <- e.tokens
	ch <- e.cacheEntries
	ch <- e.uptime
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	snap := e.collector.Snapshot()

	ops := map[string]*OperationSnapshot{
		OpFetch:       snap.Fetch,
		OpCacheHit:    snap.CacheHit,
		OpLLMGenerate: snap.LLMGenerate,
	}
	for name, op := range ops {
		var count, failures int64
		var seconds float64
		if op != nil {
			count = op.Count
			failures = op.Failures
			seconds = float64(op.TotalTimeMs) / 1000
		}
		ch <- prometheus.MustNewConstMetric(e.operations, prometheus.CounterValue, float64(count), name)
		ch <- prometheus.MustNewConstMetric(e.failures, prometheus.CounterValue, float64(failures), name)
		ch <- prometheus.MustNewConstMetric(e.seconds, prometheus.CounterValue, seconds, name)
	}

	var in, out int64
	if g := snap.LLMGenerate; g != nil && g.TotalInputTokens != nil {
		in = *g.TotalInputTokens
		out = *g.TotalOutputTokens
	}
	ch <- prometheus.MustNewConstMetric(e.tokens, prometheus.CounterValue, float64(in), "input")
	ch <- prometheus.MustNewConstMetric(e.tokens, prometheus.CounterValue, float64(out), "output")
	ch <- prometheus.MustNewConstMetric(e.cacheEntries, prometheus.GaugeValue, float64(snap.CacheEntries))
	ch <- prometheus.MustNewConstMetric(e.uptime, prometheus.GaugeValue, snap.UptimeSeconds)
}
