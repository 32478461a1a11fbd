// Package node defines the read-only view of a presentation object graph
// that the extraction pipeline walks.
//
// The graph is owned by a document engine (see package pptx). The pipeline
// only ever reads through these interfaces, which also lets tests feed it
// synthetic documents. Accessors that touch native data return an error
// instead of panicking when the underlying element is malformed.
package node

import "errors"

// ErrTooLarge is returned by readers that refuse data above the caller's
// size limit.
var ErrTooLarge = errors.New("data exceeds size limit")

// Type is the native type tag of a shape as reported by the engine.
type Type string

// Native shape type tags.
const (
	TypeTextBox     Type = "TextBox"
	TypeAutoShape   Type = "AutoShape"
	TypePlaceholder Type = "Placeholder"
	TypePicture     Type = "Picture"
	TypeTable       Type = "Table"
	TypeChart       Type = "Chart"
	TypeGroup       Type = "Group"
	TypeConnector   Type = "Connector"
	TypeSmartArt    Type = "SmartArt"
	TypeOLEObject   Type = "OLEObject"
	TypeMedia       Type = "Media"
)

// Document is an opened presentation.
type Document interface {
	// Slides returns the slides in presentation order.
	Slides() []Slide
	Properties() (Properties, error)
	SlideSize() Size
	// Assets lists the embedded media parts of the package.
	Assets() []Asset
}

// Slide is a single slide of a Document.
type Slide interface {
	// Index is the 0-based position of the slide in the presentation.
	Index() int
	Name() string
	Hidden() bool
	Background() (*Fill, error)
	Transition() (*Transition, error)
	// Shapes returns the shapes of the slide in z-order (back to front).
	Shapes() ([]Shape, error)
	Animations() ([]Animation, error)
	Comments() ([]Comment, error)
	Notes() string
}

// Shape is any drawable element on a slide.
type Shape interface {
	Type() Type
	ID() int
	Name() string
	Transform() (Transform, error)
}

// TextShape is a shape that carries a text frame.
type TextShape interface {
	Shape
	TextFrame() (*TextFrame, error)
}

// PictureShape is a shape that references an embedded image.
type PictureShape interface {
	Shape
	Picture() (*Picture, error)
	// ImageData reads the referenced image bytes from the package. An
	// image larger than limit bytes is refused with an error wrapping
	// ErrTooLarge, without being read into memory.
	ImageData(limit int64) ([]byte, error)
}

// TableShape is a graphic frame that holds a table.
type TableShape interface {
	Shape
	Table() (*Table, error)
}

// ChartShape is a graphic frame that holds a chart.
type ChartShape interface {
	Shape
	ChartData() (ChartData, error)
}

// GroupShape contains child shapes.
type GroupShape interface {
	Shape
	// Children returns the group members in z-order.
	Children() ([]Shape, error)
}

// StyledShape exposes the fill, outline and effects of a shape.
type StyledShape interface {
	Fill() (*Fill, error)
	Line() (*Line, error)
	Effects() ([]Effect, error)
}

// DescribedShape exposes accessibility text and preset geometry.
type DescribedShape interface {
	Description() string
	PresetGeometry() string
}

// ChartData is the data part behind a chart shape.
type ChartData interface {
	// PlotGroups returns the chart-type groups of the plot area in order.
	PlotGroups() ([]PlotGroup, error)
	Title() string
	HasLegend() bool
	LegendPosition() string
	HasDataTable() bool
	// Categories returns category labels ordered by point index.
	Categories() ([]string, error)
	// Series returns the series of all plot groups in document order.
	Series() ([]Series, error)
	Axes() ([]Axis, error)
	// PlotArea returns the manual layout of the plot area, or nil when the
	// layout is automatic.
	PlotArea() (*Rect, error)
}
