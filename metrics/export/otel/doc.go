// Package otel publishes goAuthFlow metrics through an OpenTelemetry Meter.
//
// Each flow gets one observable counter, goauthflow.<flow>, whose data points
// are split by the "outcome" attribute (success, rejected, invalid, failure).
// Engine-wide counters keep their Prometheus names. API latency is reported as
// cumulative bucket gauges because the metric API has no asynchronous
// histogram.
//
// The caller owns the MeterProvider. The exporter only reads snapshots.
package otel
