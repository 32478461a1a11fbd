package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var axisTypes = map[string]string{
	"catAx":  "category",
	"valAx":  "value",
	"dateAx": "date",
	"serAx":  "series",
}

// AxesExtractor reads the axes of a chart.
type AxesExtractor struct{}

func (AxesExtractor) Extract(cd node.ChartData) ([]schema.ChartAxis, error) {
	raw, err := cd.Axes()
	if err != nil {
		return nil, err
	}

	out := make([]schema.ChartAxis, 0, len(raw))
	for _, a := range raw {
		ax := schema.ChartAxis{
			ID:                a.ID,
			Type:              axisTypes[a.Kind],
			Position:          a.Position,
			Reversed:          a.Orientation == "maxMin",
			Visible:           !a.Deleted,
			NumberFormat:      a.NumberFormat,
			MajorTickMark:     a.MajorTickMark,
			MinorTickMark:     a.MinorTickMark,
			TickLabelPosition: a.TickLabelPosition,
			MajorGridlines:    a.MajorGridlines,
			MinorGridlines:    a.MinorGridlines,
			CrossAxisID:       a.CrossAxisID,
			Title:             a.Title,
		}
		if ax.Type == "" {
			ax.Type = a.Kind
		}
		for _, f := range []struct {
			name string
			raw  string
			dst  **float64
		}{
			{"min", a.Min, &ax.Min},
			{"max", a.Max, &ax.Max},
			{"majorUnit", a.MajorUnit, &ax.MajorUnit},
			{"minorUnit", a.MinorUnit, &ax.MinorUnit},
		} {
			v, err := optionalFloat(f.raw)
			if err != nil {
				return nil, fmt.Errorf("axis %d %s: %w", a.ID, f.name, err)
			}
			*f.dst = v
		}
		out = append(out, ax)
	}
	return out, nil
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
