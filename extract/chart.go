package extract

import (
	"errors"
	"fmt"

	"github.com/tsawler/deckschema/extract/chart"
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// ErrNoChartData is returned when a chart shape has no readable data part.
var ErrNoChartData = errors.New("chart has no data")

var chartTypes = []node.Type{node.TypeChart}

// ChartExtractor handles charts by delegating series, axes and metadata to
// the sub-extractors in package chart. A failing sub-extractor leaves its
// slice at the typed default; the others are unaffected.
type ChartExtractor struct {
	series   chart.SeriesExtractor
	axes     chart.AxesExtractor
	metadata chart.MetadataExtractor
}

// NewChartExtractor returns a chart extractor.
func NewChartExtractor() *ChartExtractor {
	return &ChartExtractor{}
}

func (e *ChartExtractor) Info() Info {
	return Info{Name: "chart", Version: "1.0", Types: chartTypes, Complexity: Complex}
}

func (e *ChartExtractor) CanHandle(n node.Shape) bool {
	_, ok := n.(node.ChartShape)
	return ok && hasType(n, chartTypes)
}

func (e *ChartExtractor) Extract(n node.Shape, c *Context) Result {
	return run("chart", n, c, func() (*schema.Shape, error) {
		if !e.CanHandle(n) {
			return nil, ErrCannotHandle
		}

		s, err := commonShape(n, schema.ShapeTypeChart)
		s.ChartProperties = schema.NewChartProperties()
		if err != nil {
			return s, err
		}

		cd, err := n.(node.ChartShape).ChartData()
		if err == nil && cd == nil {
			err = ErrNoChartData
		}
		if err != nil {
			return s, fmt.Errorf("chart data: %w", err)
		}

		s.ChartProperties = e.compose(cd, c)
		return s, nil
	})
}

func (e *ChartExtractor) compose(cd node.ChartData, c *Context) *schema.ChartProperties {
	cp := schema.NewChartProperties()

	meta := isolate(c, "chart/metadata", chart.DefaultMetadata(), func() (chart.Metadata, error) {
		return e.metadata.Extract(cd)
	})
	cp.ChartType = meta.ChartType
	cp.Title = meta.Title
	cp.HasLegend = meta.HasLegend
	cp.LegendPosition = meta.LegendPosition
	cp.HasDataTable = meta.HasDataTable
	cp.Categories = meta.Categories

	cp.Series = isolate(c, "chart/series", []schema.ChartSeries{}, func() ([]schema.ChartSeries, error) {
		return e.series.Extract(cd)
	})

	if c.Options.IncludeMetadata {
		cp.Axes = isolate(c, "chart/axes", []schema.ChartAxis(nil), func() ([]schema.ChartAxis, error) {
			return e.axes.Extract(cd)
		})
		cp.PlotArea = isolate(c, "chart/plotArea", (*schema.PlotArea)(nil), func() (*schema.PlotArea, error) {
			return e.metadata.PlotArea(cd)
		})
	}
	return cp
}
