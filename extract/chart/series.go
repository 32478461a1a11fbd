package chart

import (
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// SeriesExtractor reads the data series of a chart.
type SeriesExtractor struct{}

// Extract returns the series in document order. Values are positional:
// the slice is as long as the declared point count (or the highest cached
// index) and points with no cached or numeric value are nil. Points with an
// index outside [0, node.MaxChartPoints) are dropped and a declared count
// above the limit is ignored; the series itself is always kept.
func (SeriesExtractor) Extract(cd node.ChartData) ([]schema.ChartSeries, error) {
	raw, err := cd.Series()
	if err != nil {
		return nil, err
	}

	// Per-series chart types are best effort; a bad plot group list
	// leaves them blank.
	groups, _ := cd.PlotGroups()

	out := make([]schema.ChartSeries, 0, len(raw))
	for _, s := range raw {
		cs := schema.ChartSeries{
			Name:       s.Name,
			Values:     positional(s.PointCount, s.Points),
			FormatCode: s.FormatCode,
			Color:      seriesColor(s),
		}
		if s.Group >= 0 && s.Group < len(groups) {
			cs.ChartType = GroupType(groups[s.Group])
		}
		if len(s.XPoints) > 0 {
			cs.XValues = labels(s.XPoints)
		}
		out = append(out, cs)
	}
	return out, nil
}

func inRange(idx int) bool { return idx >= 0 && idx < node.MaxChartPoints }

func positional(count int, pts []node.Point) []*float64 {
	n := count
	if n < 0 || n > node.MaxChartPoints {
		n = 0
	}
	for _, p := range pts {
		if inRange(p.Index) && p.Index+1 > n {
			n = p.Index + 1
		}
	}
	out := make([]*float64, n)
	for _, p := range pts {
		if !inRange(p.Index) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
		if err != nil {
			continue
		}
		out[p.Index] = &v
	}
	return out
}

// labels spreads points into a positional string slice.
func labels(pts []node.Point) []string {
	n := 0
	for _, p := range pts {
		if inRange(p.Index) && p.Index+1 > n {
			n = p.Index + 1
		}
	}
	out := make([]string, n)
	for _, p := range pts {
		if inRange(p.Index) {
			out[p.Index] = p.Value
		}
	}
	return out
}

func seriesColor(s node.Series) *schema.Color {
	if s.Fill != nil && s.Fill.Type == "solid" {
		if c := ParseColor(s.Fill.Color); c != nil {
			c.Alpha = s.Fill.Alpha
			return c
		}
	}
	if s.Line != nil && !s.Line.None {
		return ParseColor(s.Line.Color)
	}
	return nil
}

// ParseColor reads a "#RRGGBB" or "scheme:<name>" color. Other forms give
// nil.
func ParseColor(v string) *schema.Color {
	switch {
	case strings.HasPrefix(v, "#") && len(v) == 7:
		return &schema.Color{Hex: strings.ToUpper(v)}
	case strings.HasPrefix(v, "scheme:"):
		return &schema.Color{Scheme: strings.TrimPrefix(v, "scheme:")}
	}
	return nil
}
