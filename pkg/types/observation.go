package types

import "time"

// Observation is one normalized sample of an imported time series.
// Exactly one Observation is produced per (series, sample) pair of a
// range-query matrix.
type Observation struct {
	// MetricName identifies what was imported. It is configured, not derived
	// from the series' __name__ label.
	MetricName string

	// Timestamp is the sample time in UTC.
	Timestamp time.Time

	// Duration is the interval covered by the sample (the query step).
	Duration time.Duration

	Value float64

	// Labels holds the configured default labels overlaid with the selected
	// series labels.
	Labels map[string]any
}
