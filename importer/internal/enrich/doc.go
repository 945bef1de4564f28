// Package enrich flattens a range-query matrix into types.Observation records.
//
// ParseMetrics is pure: it decodes the raw data payload as a model.Matrix,
// emits one observation per sample in series-then-sample order, parses
// every value strictly and merges labels as DefaultLabels overlaid with the
// selected (MetricLabels) series labels. Shape or value errors abort the whole
// call with a KindInputValidation error; no partial output is returned.
package enrich
