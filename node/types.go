package node

import (
	"io"
	"time"
)

// Size is a width and height in EMUs.
type Size struct {
	Width  int64
	Height int64
}

// Transform holds the placement of a shape. Offsets and extents are in
// EMUs, Rotation in degrees.
type Transform struct {
	X        int64
	Y        int64
	Width    int64
	Height   int64
	Rotation float64
	FlipH    bool
	FlipV    bool
}

// Rect is a rectangle expressed as fractions of its container (0..1).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Properties is the document-level metadata of a presentation.
type Properties struct {
	Title          string
	Subject        string
	Author         string
	Keywords       []string
	Description    string
	Category       string
	LastModifiedBy string
	Revision       string
	Created        time.Time
	Modified       time.Time
	Application    string
	AppVersion     string
	Company        string
	SlideCount     int
	HiddenSlides   int
	NotesCount     int
}

// Asset is an embedded media part.
type Asset struct {
	Path        string
	ContentType string
	Size        int64
	// Open streams the part. The caller closes the reader.
	Open func() (io.ReadCloser, error)
}

// Fill describes how an area is painted.
type Fill struct {
	Type  string // solid, gradient, picture, pattern, none, reference
	Color string // #RRGGBB or scheme:<name>
	Alpha float64
	Stops []GradientStop
	// Angle is the linear gradient angle in degrees.
	Angle float64
	// Target is the image part for picture fills.
	Target string
}

// GradientStop is one stop of a gradient fill.
type GradientStop struct {
	Position float64 // 0..1
	Color    string
}

// Line describes a shape outline.
type Line struct {
	Width int64 // EMUs
	Color string
	Dash  string
	None  bool
}

// Effect is a visual effect applied to a shape.
type Effect struct {
	Type     string // outerShadow, innerShadow, glow, softEdge, reflection, blur
	Color    string
	Radius   int64
	Distance int64
}

// Transition is a slide transition.
type Transition struct {
	Type           string
	Speed          string
	Duration       time.Duration
	AdvanceOnClick bool
	AdvanceAfter   time.Duration
}

// Animation is a single timed effect on a shape.
type Animation struct {
	ShapeID  int
	Class    string // entr, exit, emph, path, verb, mediacall
	PresetID int
	Duration time.Duration
	Delay    time.Duration
	Trigger  string
}

// Comment is a reviewer comment attached to a slide.
type Comment struct {
	Author   string
	Initials string
	Text     string
	Created  time.Time
	X        int64
	Y        int64
}

// TextFrame is the text body of a shape.
type TextFrame struct {
	Placeholder string
	Anchor      string
	Vertical    string
	Wrap        string
	Paragraphs  []Paragraph
}

// Paragraph is a paragraph of a text frame.
type Paragraph struct {
	Level      int
	Alignment  string
	Bullet     string // none, char, number
	BulletChar string
	Runs       []Run
}

// Run is a span of uniformly formatted text. Line breaks are runs with
// Break set.
type Run struct {
	Text      string
	Break     bool
	Field     string
	Bold      bool
	Italic    bool
	Underline string
	Strike    string
	Size      float64 // points
	Font      string
	Color     string
	Hyperlink string
	Language  string
}

// Picture describes an image reference.
type Picture struct {
	RelID       string
	Target      string
	ContentType string
	External    bool
	Crop        Crop
}

// Crop holds source-rectangle insets as fractions (0..1).
type Crop struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Table is the content of a table graphic frame.
type Table struct {
	Columns []int64 // widths in EMUs
	Rows    []TableRow
	Style   string
}

// TableRow is one row of a table.
type TableRow struct {
	Height int64
	Cells  []TableCell
}

// TableCell is a single cell.
type TableCell struct {
	Text    string
	RowSpan int
	ColSpan int
	HMerge  bool
	VMerge  bool
	Fill    *Fill
}

// PlotGroup is one chart-type element in a plot area (e.g. barChart).
type PlotGroup struct {
	Element    string // barChart, lineChart, pieChart, ...
	Direction  string // bar or col for bar charts
	Grouping   string // clustered, stacked, percentStacked, standard
	Style      string // scatterStyle / radarStyle
	VaryColors bool
}

// MaxChartPoints bounds the point count and point indexes of a chart data
// source. Larger values are treated as malformed.
const MaxChartPoints = 1 << 20

// Series is a raw chart series as stored in the chart part.
type Series struct {
	Index      int
	Order      int
	Group      int // index into PlotGroups
	Name       string
	NameRef    string
	ValuesRef  string
	FormatCode string
	// PointCount is the declared number of points, which may exceed the
	// number of cached points.
	PointCount int
	Points     []Point
	XPoints    []Point
	Fill       *Fill
	Line       *Line
}

// Point is a cached value at an index. Value is kept as stored.
type Point struct {
	Index int
	Value string
}

// Axis is a raw chart axis.
type Axis struct {
	ID                int
	Kind              string // catAx, valAx, dateAx, serAx
	Position          string
	Orientation       string
	Min               string
	Max               string
	MajorUnit         string
	MinorUnit         string
	Deleted           bool
	NumberFormat      string
	MajorTickMark     string
	MinorTickMark     string
	TickLabelPosition string
	MajorGridlines    bool
	MinorGridlines    bool
	CrossAxisID       int
	Title             string
}
