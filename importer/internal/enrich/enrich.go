package enrich

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/common/model"

	"github.com/obsidianstack/promimporter/importer/internal/importerr"
	"github.com/obsidianstack/promimporter/importer/internal/query"
	"github.com/obsidianstack/promimporter/pkg/types"
)

// Options controls how samples become observations.
type Options struct {
	// MetricLabels lists the series labels copied onto each observation.
	MetricLabels []string

	// MetricName is attached verbatim to every observation.
	MetricName string

	// DefaultLabels is the base label set; selected series labels overwrite it.
	DefaultLabels map[string]any

	// Step is recorded as the Duration of each observation.
	Step time.Duration
}

type matrixData struct {
	ResultType string          `json:"resultType"`
	Result     json.RawMessage `json:"result"`
}

// ParseMetrics converts a successful range-query response into observations.
// An empty matrix yields an empty, non-nil slice.
func ParseMetrics(resp *query.Response, opts Options) ([]types.Observation, error) {
	matrix, err := decodeMatrix(resp)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, ss := range matrix {
		total += len(ss.Values)
	}

	out := make([]types.Observation, 0, total)
	for _, ss := range matrix {
		for _, pair := range ss.Values {
			out = append(out, types.Observation{
				MetricName: opts.MetricName,
				Timestamp:  pair.Timestamp.Time().UTC(),
				Duration:   opts.Step,
				Value:      float64(pair.Value),
				Labels:     mergeLabels(opts.DefaultLabels, opts.MetricLabels, ss.Metric),
			})
		}
	}
	return out, nil
}

// rawSeries is one matrix element before its samples are checked.
// Values is a pointer so a missing "values" key can be told apart from [].
type rawSeries struct {
	Metric     model.Metric       `json:"metric"`
	Values     *[]json.RawMessage `json:"values"`
	Histograms json.RawMessage    `json:"histograms"`
}

func decodeMatrix(resp *query.Response) (model.Matrix, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, invalid("response has no data", nil)
	}

	var data matrixData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, invalid("decode data", err)
	}
	if data.ResultType != model.ValMatrix.String() {
		return nil, invalid(fmt.Sprintf("unexpected result type %q, want %q", data.ResultType, model.ValMatrix), nil)
	}
	if len(data.Result) == 0 || string(data.Result) == "null" {
		return nil, invalid("response has no result", nil)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data.Result, &elems); err != nil {
		return nil, invalid("decode matrix result", err)
	}

	matrix := make(model.Matrix, 0, len(elems))
	for i, elem := range elems {
		ss, err := decodeSeries(elem)
		if err != nil {
			return nil, invalid(fmt.Sprintf("result[%d]", i), err)
		}
		matrix = append(matrix, ss)
	}
	return matrix, nil
}

// decodeSeries checks one series strictly: it must be an object with a
// "values" list, and every sample must be exactly [timestamp, "value"].
func decodeSeries(elem json.RawMessage) (*model.SampleStream, error) {
	if string(elem) == "null" {
		return nil, fmt.Errorf("series is null")
	}
	var rs rawSeries
	if err := json.Unmarshal(elem, &rs); err != nil {
		return nil, err
	}
	if len(rs.Histograms) > 0 && string(rs.Histograms) != "null" {
		return nil, fmt.Errorf("native histogram samples are not supported")
	}
	if rs.Values == nil {
		return nil, fmt.Errorf("series has no values")
	}

	ss := &model.SampleStream{Metric: rs.Metric, Values: make([]model.SamplePair, 0, len(*rs.Values))}
	for j, raw := range *rs.Values {
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return nil, fmt.Errorf("values[%d]: %w", j, err)
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("values[%d]: want [timestamp, value], got %d elements", j, len(parts))
		}
		var pair model.SamplePair
		if err := pair.Timestamp.UnmarshalJSON(parts[0]); err != nil {
			return nil, fmt.Errorf("values[%d] timestamp: %w", j, err)
		}
		if err := pair.Value.UnmarshalJSON(parts[1]); err != nil {
			return nil, fmt.Errorf("values[%d] value: %w", j, err)
		}
		ss.Values = append(ss.Values, pair)
	}
	return ss, nil
}

// mergeLabels builds a fresh label map: defaults first, then each selected
// label present on the series. Unselected series labels are dropped.
func mergeLabels(defaults map[string]any, selected []string, metric model.Metric) map[string]any {
	labels := make(map[string]any, len(defaults)+len(selected))
	for k, v := range defaults {
		labels[k] = v
	}
	for _, name := range selected {
		if v, ok := metric[model.LabelName(name)]; ok {
			labels[name] = string(v)
		}
	}
	return labels
}

func invalid(msg string, err error) error {
	return importerr.InputValidation("parse metrics: "+msg, err)
}
