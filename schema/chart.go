package schema

// ChartTypeUnknown is reported when the chart kind cannot be determined.
const ChartTypeUnknown = "Unknown"

// ChartProperties is the payload of chart shapes (the chart extraction
// result). Categories and Series are never nil. Axes and PlotArea are only
// populated when metadata extraction is requested.
type ChartProperties struct {
	ChartType      string        `json:"chartType"`
	HasLegend      bool          `json:"hasLegend"`
	LegendPosition string        `json:"legendPosition,omitempty"`
	HasDataTable   bool          `json:"hasDataTable"`
	Title          string        `json:"title,omitempty"`
	Categories     []string      `json:"categories"`
	Series         []ChartSeries `json:"series"`
	Axes           []ChartAxis   `json:"axes,omitempty"`
	PlotArea       *PlotArea     `json:"plotArea,omitempty"`
}

// NewChartProperties returns the typed default chart payload.
func NewChartProperties() *ChartProperties {
	return &ChartProperties{
		ChartType:  ChartTypeUnknown,
		Categories: []string{},
		Series:     []ChartSeries{},
	}
}

// ChartSeries is one data series. Values are positional; a nil entry marks
// a point with no cached value.
type ChartSeries struct {
	Name       string     `json:"name"`
	ChartType  string     `json:"chartType,omitempty"`
	Values     []*float64 `json:"values"`
	XValues    []string   `json:"xValues,omitempty"`
	FormatCode string     `json:"formatCode,omitempty"`
	Color      *Color     `json:"color,omitempty"`
}

// Color is a parsed color descriptor.
type Color struct {
	// Hex is #RRGGBB for explicit colors.
	Hex string `json:"hex,omitempty"`
	// Scheme is the theme color name for scheme colors.
	Scheme string  `json:"scheme,omitempty"`
	Alpha  float64 `json:"alpha,omitempty"`
}

// ChartAxis describes a chart axis.
type ChartAxis struct {
	ID                int      `json:"id"`
	Type              string   `json:"type"` // category, value, date, series
	Position          string   `json:"position,omitempty"`
	Reversed          bool     `json:"reversed,omitempty"`
	Min               *float64 `json:"min,omitempty"`
	Max               *float64 `json:"max,omitempty"`
	MajorUnit         *float64 `json:"majorUnit,omitempty"`
	MinorUnit         *float64 `json:"minorUnit,omitempty"`
	Visible           bool     `json:"visible"`
	NumberFormat      string   `json:"numberFormat,omitempty"`
	MajorTickMark     string   `json:"majorTickMark,omitempty"`
	MinorTickMark     string   `json:"minorTickMark,omitempty"`
	TickLabelPosition string   `json:"tickLabelPosition,omitempty"`
	MajorGridlines    bool     `json:"majorGridlines,omitempty"`
	MinorGridlines    bool     `json:"minorGridlines,omitempty"`
	CrossAxisID       int      `json:"crossAxisId,omitempty"`
	Title             string   `json:"title,omitempty"`
}

// PlotArea is the manual layout of the plot area as fractions of the chart
// space.
type PlotArea struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
