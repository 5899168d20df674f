// Package prometheus exposes goAuthFlow metrics through
// github.com/prometheus/client_golang.
//
// [NewCollector] wraps an [goAuthFlow.Engine] in a prometheus.Collector that
// reads the engine's snapshot on every scrape. Counters are named
// goauthflow_*_total; the backend call latency histogram is
// goauthflow_api_latency_seconds.
//
// # What this package must NOT do
//
//   - Register in the global Prometheus registry. Callers choose the registry
//     or use [Collector.Handler].
//   - Mutate engine state.
package prometheus
