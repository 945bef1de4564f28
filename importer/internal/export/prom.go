package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"google.golang.org/protobuf/proto"

	"github.com/obsidianstack/promimporter/pkg/types"
)

// WriteProm renders obs as Prometheus text exposition. Observations sharing a
// metric name form one gauge family; families appear in first-seen order.
func WriteProm(w io.Writer, obs []types.Observation) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range toFamilies(obs) {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("export: encode family %q: %w", mf.GetName(), err)
		}
	}
	if c, ok := enc.(expfmt.Closer); ok {
		return c.Close()
	}
	return nil
}

func toFamilies(obs []types.Observation) []*dto.MetricFamily {
	var families []*dto.MetricFamily
	byName := make(map[string]*dto.MetricFamily)

	for _, o := range obs {
		name := sanitizeName(o.MetricName)
		mf, ok := byName[name]
		if !ok {
			mf = &dto.MetricFamily{
				Name: proto.String(name),
				Help: proto.String(fmt.Sprintf("Imported range-query samples for %s.", o.MetricName)),
				Type: dto.MetricType_GAUGE.Enum(),
			}
			byName[name] = mf
			families = append(families, mf)
		}
		mf.Metric = append(mf.Metric, &dto.Metric{
			Label:       labelPairs(o.Labels),
			Gauge:       &dto.Gauge{Value: proto.Float64(o.Value)},
			TimestampMs: proto.Int64(o.Timestamp.UnixMilli()),
		})
	}
	return families
}

// labelPairs converts labels to sorted dto pairs, stringifying values.
func labelPairs(labels map[string]any) []*dto.LabelPair {
	pairs := make([]*dto.LabelPair, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String(sanitizeName(k)),
			Value: proto.String(fmt.Sprint(v)),
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].GetName() < pairs[j].GetName() })
	return pairs
}

// sanitizeName maps s onto the legacy metric/label name charset
// [a-zA-Z_:][a-zA-Z0-9_:]*, replacing anything else with '_'.
func sanitizeName(s string) string {
	if model.IsValidMetricName(model.LabelValue(s)) {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
