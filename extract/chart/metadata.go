package chart

import (
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var legendPositions = map[string]string{
	"r":  "right",
	"l":  "left",
	"t":  "top",
	"b":  "bottom",
	"tr": "topRight",
}

// Metadata is the descriptive part of a chart.
type Metadata struct {
	ChartType      string
	Title          string
	HasLegend      bool
	LegendPosition string
	HasDataTable   bool
	Categories     []string
}

// DefaultMetadata is used when metadata extraction fails.
func DefaultMetadata() Metadata {
	return Metadata{ChartType: schema.ChartTypeUnknown, Categories: []string{}}
}

// MetadataExtractor reads chart type, title, legend and categories.
type MetadataExtractor struct{}

func (MetadataExtractor) Extract(cd node.ChartData) (Metadata, error) {
	groups, err := cd.PlotGroups()
	if err != nil {
		return Metadata{}, err
	}
	cats, err := cd.Categories()
	if err != nil {
		return Metadata{}, err
	}
	if cats == nil {
		cats = []string{}
	}

	m := Metadata{
		ChartType:    Classify(groups),
		Title:        cd.Title(),
		HasLegend:    cd.HasLegend(),
		HasDataTable: cd.HasDataTable(),
		Categories:   cats,
	}
	if m.HasLegend {
		pos := cd.LegendPosition()
		if named, ok := legendPositions[pos]; ok {
			pos = named
		}
		m.LegendPosition = pos
	}
	return m, nil
}

// PlotArea returns the manual plot area layout, or nil when it is
// automatic.
func (MetadataExtractor) PlotArea(cd node.ChartData) (*schema.PlotArea, error) {
	r, err := cd.PlotArea()
	if err != nil || r == nil {
		return nil, err
	}
	return &schema.PlotArea{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}
