package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/common/model"
)

// Range is the parsed time window of a validated import.
type Range struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Validate checks the required-field schema of an import: query, start, end,
// step and metric_name must be non-empty strings, metric_labels and
// default_labels must be present. Start, end and step must also parse, and
// the parsed values are returned. The error lists every failing field.
func (c ImporterConfig) Validate() (Range, error) {
	var (
		issues []string
		rng    Range
		err    error
	)
	required := []struct {
		field, value string
	}{
		{"query", c.Query},
		{"start", c.Start},
		{"end", c.End},
		{"step", c.Step},
		{"metric_name", c.MetricName},
	}
	for _, r := range required {
		if r.value == "" {
			issues = append(issues, fmt.Sprintf("%s: required string", r.field))
		}
	}
	if c.MetricLabels == nil {
		issues = append(issues, "metric_labels: required list of strings")
	}
	if c.DefaultLabels == nil {
		issues = append(issues, "default_labels: required mapping")
	}

	if c.Start != "" {
		if rng.Start, err = ParseTimestamp(c.Start); err != nil {
			issues = append(issues, fmt.Sprintf("start: %v", err))
		}
	}
	if c.End != "" {
		if rng.End, err = ParseTimestamp(c.End); err != nil {
			issues = append(issues, fmt.Sprintf("end: %v", err))
		}
	}
	if c.Step != "" {
		if rng.Step, err = ParseStep(c.Step); err != nil {
			issues = append(issues, fmt.Sprintf("step: %v", err))
		}
	}

	if len(issues) > 0 {
		return Range{}, fmt.Errorf("invalid import config: %s", strings.Join(issues, "; "))
	}
	return rng, nil
}

// ParseTimestamp accepts the two timestamp forms understood by the Prometheus
// query API: (fractional) epoch seconds or RFC3339.
func ParseTimestamp(s string) (time.Time, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("timestamp %q is not finite", s)
		}
		// Same bounds as the query API: millisecond precision in an int64.
		if f < float64(model.Earliest.Unix()) || f > float64(model.Latest.Unix()) {
			return time.Time{}, fmt.Errorf("timestamp %q is out of range", s)
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q is neither epoch seconds nor RFC3339", s)
	}
	return t.UTC(), nil
}

// ParseStep accepts a Prometheus duration ("30s", "1h30m") or float seconds.
func ParseStep(s string) (time.Duration, error) {
	if d, err := model.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("step %q must be positive", s)
		}
		return time.Duration(d), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("step %q is not a duration", s)
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("step %q must be positive", s)
	}
	return time.Duration(f * float64(time.Second)), nil
}
