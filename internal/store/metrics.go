package store

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

func docsCounter(collection string) *metrics.Counter {
	return metrics.GetOrCreateCounter(`ejql_store_docs_total{collection="` + collection + `"}`)
}

func matchesCounter(collection string) *metrics.Counter {
	return metrics.GetOrCreateCounter(`ejql_store_matches_total{collection="` + collection + `"}`)
}

// WritePrometheus exposes the package's counters in Prometheus exposition
// format, for mounting under a /metrics endpoint.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
