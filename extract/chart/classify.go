// Package chart holds the sub-extractors the chart extractor delegates to.
// Each one reads a single slice of node.ChartData and fails on its own.
package chart

import (
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// Combo is the chart type of plot areas that mix chart kinds.
const Combo = "Combo"

// GroupType names the chart type of a single plot group, e.g.
// "ColumnClustered" or "Pie3D".
func GroupType(g node.PlotGroup) string {
	switch g.Element {
	case "barChart", "bar3DChart":
		name := "Column"
		if g.Direction == "bar" {
			name = "Bar"
		}
		name += groupingSuffix(g.Grouping, "Clustered")
		if g.Element == "bar3DChart" {
			name += "3D"
		}
		return name
	case "lineChart":
		return "Line" + groupingSuffix(g.Grouping, "")
	case "line3DChart":
		return "Line3D"
	case "areaChart":
		return "Area" + groupingSuffix(g.Grouping, "")
	case "area3DChart":
		return "Area3D" + groupingSuffix(g.Grouping, "")
	case "pieChart":
		return "Pie"
	case "pie3DChart":
		return "Pie3D"
	case "ofPieChart":
		return "PieOfPie"
	case "doughnutChart":
		return "Doughnut"
	case "scatterChart":
		return "Scatter"
	case "radarChart":
		if g.Style == "filled" {
			return "RadarFilled"
		}
		return "Radar"
	case "bubbleChart":
		return "Bubble"
	case "stockChart":
		return "Stock"
	case "surfaceChart":
		return "Surface"
	case "surface3DChart":
		return "Surface3D"
	}
	return schema.ChartTypeUnknown
}

func groupingSuffix(grouping, standard string) string {
	switch grouping {
	case "stacked":
		return "Stacked"
	case "percentStacked":
		return "Stacked100"
	case "clustered":
		return "Clustered"
	}
	return standard
}

// Classify names the chart type of a plot area. Groups of different types
// make a Combo chart.
func Classify(groups []node.PlotGroup) string {
	if len(groups) == 0 {
		return schema.ChartTypeUnknown
	}
	first := GroupType(groups[0])
	for _, g := range groups[1:] {
		if GroupType(g) != first {
			return Combo
		}
	}
	return first
}
