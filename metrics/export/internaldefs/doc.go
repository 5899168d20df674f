// Package internaldefs is the metric catalogue shared by the exporters:
// counter names with their flow and outcome, help texts and latency bucket
// bounds.
package internaldefs
