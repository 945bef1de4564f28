package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/obsidianstack/promimporter/pkg/types"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatProm = "prom"
)

// record is the serialized form of an observation.
type record struct {
	Timestamp  string         `json:"timestamp" yaml:"timestamp"`
	Duration   float64        `json:"duration" yaml:"duration"`
	MetricName string         `json:"metricName" yaml:"metricName"`
	Value      any            `json:"value" yaml:"value"`
	Labels     map[string]any `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func toRecord(o types.Observation) record {
	return record{
		Timestamp:  o.Timestamp.UTC().Format(time.RFC3339Nano),
		Duration:   o.Duration.Seconds(),
		MetricName: o.MetricName,
		Value:      encodeValue(o.Value),
		Labels:     o.Labels,
	}
}

// encodeValue keeps finite values numeric and spells out NaN and infinities.
func encodeValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}

// Write encodes obs to w in the named format.
func Write(w io.Writer, format string, obs []types.Observation) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, obs)
	case FormatYAML:
		return WriteYAML(w, obs)
	case FormatProm:
		return WriteProm(w, obs)
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

// WriteJSON writes one JSON object per observation, newline separated.
func WriteJSON(w io.Writer, obs []types.Observation) error {
	enc := json.NewEncoder(w)
	for i, o := range obs {
		if err := enc.Encode(toRecord(o)); err != nil {
			return fmt.Errorf("export: json record %d: %w", i, err)
		}
	}
	return nil
}

// WriteYAML writes obs as a single YAML sequence.
func WriteYAML(w io.Writer, obs []types.Observation) error {
	recs := make([]record, len(obs))
	for i, o := range obs {
		recs[i] = toRecord(o)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("export: yaml: %w", err)
	}
	return enc.Close()
}
