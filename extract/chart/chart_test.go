package chart

import (
	"errors"
	"testing"

	"github.com/tsawler/deckschema/internal/nodetest"
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

func TestGroupType(t *testing.T) {
	tests := []struct {
		group node.PlotGroup
		want  string
	}{
		{node.PlotGroup{Element: "barChart", Direction: "col", Grouping: "clustered"}, "ColumnClustered"},
		{node.PlotGroup{Element: "barChart", Direction: "bar", Grouping: "stacked"}, "BarStacked"},
		{node.PlotGroup{Element: "barChart", Direction: "bar", Grouping: "percentStacked"}, "BarStacked100"},
		{node.PlotGroup{Element: "barChart", Direction: "col"}, "ColumnClustered"},
		{node.PlotGroup{Element: "bar3DChart", Direction: "col", Grouping: "clustered"}, "ColumnClustered3D"},
		{node.PlotGroup{Element: "lineChart", Grouping: "standard"}, "Line"},
		{node.PlotGroup{Element: "lineChart", Grouping: "stacked"}, "LineStacked"},
		{node.PlotGroup{Element: "pieChart", VaryColors: true}, "Pie"},
		{node.PlotGroup{Element: "pie3DChart"}, "Pie3D"},
		{node.PlotGroup{Element: "doughnutChart"}, "Doughnut"},
		{node.PlotGroup{Element: "areaChart", Grouping: "percentStacked"}, "AreaStacked100"},
		{node.PlotGroup{Element: "scatterChart", Style: "lineMarker"}, "Scatter"},
		{node.PlotGroup{Element: "radarChart", Style: "filled"}, "RadarFilled"},
		{node.PlotGroup{Element: "bubbleChart"}, "Bubble"},
		{node.PlotGroup{Element: "stockChart"}, "Stock"},
		{node.PlotGroup{Element: "surface3DChart"}, "Surface3D"},
		{node.PlotGroup{Element: "funnelChart"}, schema.ChartTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GroupType(tt.group); got != tt.want {
				t.Errorf("GroupType(%+v) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	bar := node.PlotGroup{Element: "barChart", Direction: "col", Grouping: "clustered"}
	line := node.PlotGroup{Element: "lineChart", Grouping: "standard"}

	tests := []struct {
		name   string
		groups []node.PlotGroup
		want   string
	}{
		{"empty", nil, schema.ChartTypeUnknown},
		{"single", []node.PlotGroup{bar}, "ColumnClustered"},
		{"same type twice", []node.PlotGroup{bar, bar}, "ColumnClustered"},
		{"combo", []node.PlotGroup{bar, line}, Combo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.groups); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeriesExtractor(t *testing.T) {
	cd := &nodetest.ChartData{
		Groups: []node.PlotGroup{
			{Element: "barChart", Direction: "col", Grouping: "clustered"},
			{Element: "lineChart", Grouping: "standard"},
		},
		SeriesList: []node.Series{
			{
				Index:      0,
				Name:       "Revenue",
				PointCount: 4,
				Points:     []node.Point{{Index: 0, Value: "1.5"}, {Index: 2, Value: "3"}},
				Fill:       &node.Fill{Type: "solid", Color: "#4472c4", Alpha: 1},
			},
			{
				Index:  1,
				Group:  1,
				Name:   "Trend",
				Points: []node.Point{{Index: 0, Value: "n/a"}, {Index: 1, Value: " 2 "}},
				Line:   &node.Line{Color: "scheme:accent2"},
			},
		},
	}

	got, err := SeriesExtractor{}.Extract(cd)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(got))
	}

	rev := got[0]
	if rev.Name != "Revenue" || rev.ChartType != "ColumnClustered" {
		t.Errorf("series 0 = %q/%q", rev.Name, rev.ChartType)
	}
	if len(rev.Values) != 4 {
		t.Fatalf("len(values) = %d, want declared count 4", len(rev.Values))
	}
	if rev.Values[0] == nil || *rev.Values[0] != 1.5 || rev.Values[1] != nil || rev.Values[2] == nil || *rev.Values[2] != 3 || rev.Values[3] != nil {
		t.Errorf("values = %v", rev.Values)
	}
	if rev.Color == nil || rev.Color.Hex != "#4472C4" || rev.Color.Alpha != 1 {
		t.Errorf("color = %+v, want #4472C4", rev.Color)
	}

	trend := got[1]
	if trend.ChartType != "Line" {
		t.Errorf("series 1 chart type = %q, want Line", trend.ChartType)
	}
	if len(trend.Values) != 2 || trend.Values[0] != nil || trend.Values[1] == nil || *trend.Values[1] != 2 {
		t.Errorf("trend values = %v", trend.Values)
	}
	if trend.Color == nil || trend.Color.Scheme != "accent2" {
		t.Errorf("trend color = %+v, want scheme accent2", trend.Color)
	}
}

func TestSeriesExtractor_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := (SeriesExtractor{}).Extract(&nodetest.ChartData{SeriesErr: boom}); !errors.Is(err, boom) {
		t.Errorf("Extract() error = %v, want boom", err)
	}
}

func TestSeriesExtractor_KeepsPartialSeries(t *testing.T) {
	cd := &nodetest.ChartData{
		Groups: []node.PlotGroup{{Element: "barChart", Direction: "col", Grouping: "clustered"}},
		SeriesList: []node.Series{
			{Index: 0, Name: "A", PointCount: 2, Points: []node.Point{{Index: 0, Value: "1"}, {Index: 1, Value: "2"}}},
			{Index: 1, Name: "B", PointCount: 2, Points: []node.Point{{Index: 0, Value: "3"}, {Index: -1, Value: "4"}}},
			{Index: 2, Name: "C", PointCount: 100000000000, Points: []node.Point{{Index: node.MaxChartPoints, Value: "5"}, {Index: 1, Value: "6"}}},
		},
	}

	got, err := SeriesExtractor{}.Extract(cd)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(got))
	}
	if a := got[0].Values; len(a) != 2 || a[0] == nil || *a[0] != 1 || a[1] == nil || *a[1] != 2 {
		t.Errorf("series A values = %v", a)
	}
	if b := got[1].Values; len(b) != 2 || b[0] == nil || *b[0] != 3 || b[1] != nil {
		t.Errorf("series B values = %v, want [3 <nil>]", b)
	}
	if c := got[2].Values; len(c) != 2 || c[0] != nil || c[1] == nil || *c[1] != 6 {
		t.Errorf("series C values = %v, want [<nil> 6]", c)
	}
}

func TestSeriesExtractor_ScatterXValues(t *testing.T) {
	cd := &nodetest.ChartData{
		Groups: []node.PlotGroup{{Element: "scatterChart"}},
		SeriesList: []node.Series{{
			Points:  []node.Point{{Index: 0, Value: "4"}, {Index: 1, Value: "5"}},
			XPoints: []node.Point{{Index: 1, Value: "0.2"}, {Index: 0, Value: "0.1"}},
		}},
	}
	got, err := SeriesExtractor{}.Extract(cd)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if x := got[0].XValues; len(x) != 2 || x[0] != "0.1" || x[1] != "0.2" {
		t.Errorf("XValues = %v", x)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want *schema.Color
	}{
		{"#a1b2c3", &schema.Color{Hex: "#A1B2C3"}},
		{"scheme:accent1", &schema.Color{Scheme: "accent1"}},
		{"preset:red", nil},
		{"#abc", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := ParseColor(tt.in)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestAxesExtractor(t *testing.T) {
	cd := &nodetest.ChartData{AxisList: []node.Axis{
		{ID: 10, Kind: "catAx", Position: "b", Orientation: "maxMin", CrossAxisID: 20},
		{ID: 20, Kind: "valAx", Position: "l", Min: "0", Max: "100", MajorUnit: "25", Deleted: true, MajorGridlines: true},
		{ID: 30, Kind: "dateAx"},
	}}

	got, err := AxesExtractor{}.Extract(cd)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(axes) = %d, want 3", len(got))
	}

	cat, val := got[0], got[1]
	if cat.Type != "category" || !cat.Reversed || !cat.Visible || cat.Min != nil {
		t.Errorf("category axis = %+v", cat)
	}
	if val.Type != "value" || val.Visible || !val.MajorGridlines {
		t.Errorf("value axis = %+v", val)
	}
	if val.Min == nil || *val.Min != 0 || val.Max == nil || *val.Max != 100 || val.MajorUnit == nil || *val.MajorUnit != 25 || val.MinorUnit != nil {
		t.Errorf("value axis scale = %v %v %v %v", val.Min, val.Max, val.MajorUnit, val.MinorUnit)
	}
	if got[2].Type != "date" {
		t.Errorf("axis 3 type = %q, want date", got[2].Type)
	}
}

func TestAxesExtractor_MalformedScale(t *testing.T) {
	cd := &nodetest.ChartData{AxisList: []node.Axis{{ID: 1, Kind: "valAx", Max: "lots"}}}
	if _, err := (AxesExtractor{}).Extract(cd); err == nil {
		t.Error("Extract() expected error for malformed max")
	}
}

func TestMetadataExtractor(t *testing.T) {
	cd := &nodetest.ChartData{
		Groups:    []node.PlotGroup{{Element: "pieChart"}},
		TitleText: "Share",
		Legend:    true,
		LegendPos: "b",
		DataTable: true,
		Cats:      []string{"North", "South"},
		Plot:      &node.Rect{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.6},
	}

	m, err := MetadataExtractor{}.Extract(cd)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if m.ChartType != "Pie" || m.Title != "Share" || !m.HasLegend || m.LegendPosition != "bottom" || !m.HasDataTable {
		t.Errorf("metadata = %+v", m)
	}
	if len(m.Categories) != 2 || m.Categories[1] != "South" {
		t.Errorf("categories = %v", m.Categories)
	}

	pa, err := MetadataExtractor{}.PlotArea(cd)
	if err != nil {
		t.Fatalf("PlotArea() failed: %v", err)
	}
	if pa == nil || pa.Width != 0.5 || pa.Y != 0.2 {
		t.Errorf("PlotArea() = %+v", pa)
	}
}

func TestMetadataExtractor_Defaults(t *testing.T) {
	m, err := MetadataExtractor{}.Extract(&nodetest.ChartData{})
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if m.ChartType != schema.ChartTypeUnknown || m.Categories == nil || m.LegendPosition != "" {
		t.Errorf("metadata = %+v", m)
	}

	pa, err := MetadataExtractor{}.PlotArea(&nodetest.ChartData{})
	if err != nil || pa != nil {
		t.Errorf("PlotArea() = %v, %v; want nil, nil", pa, err)
	}

	d := DefaultMetadata()
	if d.ChartType != schema.ChartTypeUnknown || d.Categories == nil {
		t.Errorf("DefaultMetadata() = %+v", d)
	}
}

func TestMetadataExtractor_CategoryError(t *testing.T) {
	boom := errors.New("bad cache")
	_, err := MetadataExtractor{}.Extract(&nodetest.ChartData{CatsErr: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Extract() error = %v, want bad cache", err)
	}
}
