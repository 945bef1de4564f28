// Package export writes imported observations for downstream consumers.
//
// Formats:
//   - json — one JSON object per line (timestamp RFC3339, duration in seconds)
//   - yaml — a YAML sequence of the same records
//   - prom — Prometheus text exposition, one gauge family per metric name with
//     millisecond sample timestamps, built as client_model MetricFamily values
//     and rendered by expfmt
//
// Non-finite values are written as "NaN", "+Inf" or "-Inf" strings in json
// and yaml, matching how the query API itself encodes them.
package export
