// Package nodetest provides in-memory implementations of the node
// interfaces for pipeline tests.
package nodetest

import (
	"fmt"

	"github.com/tsawler/deckschema/node"
)

// Shape is a plain shape. Embed it to build richer fakes.
type Shape struct {
	Kind      node.Type
	ShapeID   int
	ShapeName string
	XF        node.Transform
	XFErr     error
	// Panic, when non-nil, is raised by Transform.
	Panic any

	FillValue *node.Fill
	LineValue *node.Line
	Effect    []node.Effect
	StyleErr  error
	Alt       string
	Preset    string
}

func (s *Shape) Type() node.Type { return s.Kind }
func (s *Shape) ID() int         { return s.ShapeID }
func (s *Shape) Name() string    { return s.ShapeName }

func (s *Shape) Transform() (node.Transform, error) {
	if s.Panic != nil {
		panic(s.Panic)
	}
	return s.XF, s.XFErr
}

func (s *Shape) Fill() (*node.Fill, error)       { return s.FillValue, s.StyleErr }
func (s *Shape) Line() (*node.Line, error)       { return s.LineValue, nil }
func (s *Shape) Effects() ([]node.Effect, error) { return s.Effect, nil }
func (s *Shape) Description() string             { return s.Alt }
func (s *Shape) PresetGeometry() string          { return s.Preset }

// Text is a text-bearing shape.
type Text struct {
	Shape
	Frame *node.TextFrame
	Err   error
}

func (t *Text) TextFrame() (*node.TextFrame, error) { return t.Frame, t.Err }

// Picture is a picture shape.
type Picture struct {
	Shape
	Pic     *node.Picture
	PicErr  error
	Data    []byte
	DataErr error
	// Limit records the size limit of the last ImageData call.
	Limit int64
}

func (p *Picture) Picture() (*node.Picture, error) { return p.Pic, p.PicErr }

func (p *Picture) ImageData(limit int64) ([]byte, error) {
	p.Limit = limit
	if p.DataErr != nil {
		return nil, p.DataErr
	}
	if int64(len(p.Data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", node.ErrTooLarge, len(p.Data))
	}
	return p.Data, nil
}

// Table is a table shape.
type Table struct {
	Shape
	Tbl *node.Table
	Err error
}

func (t *Table) Table() (*node.Table, error) { return t.Tbl, t.Err }

// Chart is a chart shape.
type Chart struct {
	Shape
	Data node.ChartData
	Err  error
}

func (c *Chart) ChartData() (node.ChartData, error) { return c.Data, c.Err }

// Group is a group shape.
type Group struct {
	Shape
	Members []node.Shape
	Err     error
}

func (g *Group) Children() ([]node.Shape, error) { return g.Members, g.Err }

// ChartData is a chart data part. Any *Err field makes the matching
// accessor fail.
type ChartData struct {
	Groups     []node.PlotGroup
	GroupsErr  error
	TitleText  string
	Legend     bool
	LegendPos  string
	DataTable  bool
	Cats       []string
	CatsErr    error
	SeriesList []node.Series
	SeriesErr  error
	// SeriesPanic, when non-nil, is raised by Series.
	SeriesPanic any
	AxisList    []node.Axis
	AxesErr     error
	Plot        *node.Rect
	PlotErr     error
}

func (d *ChartData) PlotGroups() ([]node.PlotGroup, error) { return d.Groups, d.GroupsErr }
func (d *ChartData) Title() string                         { return d.TitleText }
func (d *ChartData) HasLegend() bool                       { return d.Legend }
func (d *ChartData) LegendPosition() string                { return d.LegendPos }
func (d *ChartData) HasDataTable() bool                    { return d.DataTable }
func (d *ChartData) Categories() ([]string, error)         { return d.Cats, d.CatsErr }
func (d *ChartData) Axes() ([]node.Axis, error)            { return d.AxisList, d.AxesErr }
func (d *ChartData) PlotArea() (*node.Rect, error)         { return d.Plot, d.PlotErr }

func (d *ChartData) Series() ([]node.Series, error) {
	if d.SeriesPanic != nil {
		panic(d.SeriesPanic)
	}
	return d.SeriesList, d.SeriesErr
}

// Slide is a slide.
type Slide struct {
	Position    int
	Title       string
	IsHidden    bool
	BG          *node.Fill
	BGErr       error
	Trans       *node.Transition
	TransErr    error
	ShapeList   []node.Shape
	ShapesErr   error
	Anims       []node.Animation
	AnimsErr    error
	CommentList []node.Comment
	CommentsErr error
	NotesText   string
}

func (s *Slide) Index() int                            { return s.Position }
func (s *Slide) Name() string                          { return s.Title }
func (s *Slide) Hidden() bool                          { return s.IsHidden }
func (s *Slide) Background() (*node.Fill, error)       { return s.BG, s.BGErr }
func (s *Slide) Transition() (*node.Transition, error) { return s.Trans, s.TransErr }
func (s *Slide) Shapes() ([]node.Shape, error)         { return s.ShapeList, s.ShapesErr }
func (s *Slide) Animations() ([]node.Animation, error) { return s.Anims, s.AnimsErr }
func (s *Slide) Comments() ([]node.Comment, error)     { return s.CommentList, s.CommentsErr }
func (s *Slide) Notes() string                         { return s.NotesText }

// Document is a presentation.
type Document struct {
	SlideList []node.Slide
	Props     node.Properties
	PropsErr  error
	Size      node.Size
	AssetList []node.Asset
	// Panics names the accessors that panic: "slides", "properties",
	// "size" or "assets".
	Panics map[string]bool
}

func (d *Document) panicIf(name string) {
	if d.Panics[name] {
		panic("nodetest: " + name)
	}
}

func (d *Document) Slides() []node.Slide {
	d.panicIf("slides")
	return d.SlideList
}

func (d *Document) Properties() (node.Properties, error) {
	d.panicIf("properties")
	return d.Props, d.PropsErr
}

func (d *Document) SlideSize() node.Size {
	d.panicIf("size")
	return d.Size
}

func (d *Document) Assets() []node.Asset {
	d.panicIf("assets")
	return d.AssetList
}

// NewDocument returns a document with the given slides, indexed in order.
func NewDocument(slides ...*Slide) *Document {
	d := &Document{Size: node.Size{Width: 12192000, Height: 6858000}}
	for i, s := range slides {
		s.Position = i
		d.SlideList = append(d.SlideList, s)
	}
	return d
}

// NewSlide returns a slide holding shapes.
func NewSlide(shapes ...node.Shape) *Slide {
	return &Slide{ShapeList: shapes}
}

// TextBox returns a text box with one paragraph per line.
func TextBox(id int, lines ...string) *Text {
	t := &Text{
		Shape: Shape{Kind: node.TypeTextBox, ShapeID: id, ShapeName: "TextBox", XF: node.Transform{Width: 914400, Height: 457200}},
		Frame: &node.TextFrame{},
	}
	for _, l := range lines {
		t.Frame.Paragraphs = append(t.Frame.Paragraphs, node.Paragraph{Runs: []node.Run{{Text: l}}})
	}
	return t
}

// Image returns a picture shape referencing target.
func Image(id int, target string, data []byte) *Picture {
	return &Picture{
		Shape: Shape{Kind: node.TypePicture, ShapeID: id, ShapeName: "Picture"},
		Pic:   &node.Picture{RelID: "rId2", Target: target, ContentType: "image/png"},
		Data:  data,
	}
}

// BarChart returns a chart shape with one clustered column group.
func BarChart(id int, series ...node.Series) *Chart {
	return &Chart{
		Shape: Shape{Kind: node.TypeChart, ShapeID: id, ShapeName: "Chart"},
		Data: &ChartData{
			Groups:     []node.PlotGroup{{Element: "barChart", Direction: "col", Grouping: "clustered"}},
			Cats:       []string{"Q1", "Q2"},
			SeriesList: series,
			AxisList: []node.Axis{
				{ID: 1, Kind: "catAx", Position: "b", CrossAxisID: 2},
				{ID: 2, Kind: "valAx", Position: "l", CrossAxisID: 1, Max: "10"},
			},
		},
	}
}

// Broken returns a shape whose transform always fails.
func Broken(id int, kind node.Type, err error) *Shape {
	return &Shape{Kind: kind, ShapeID: id, ShapeName: "Broken", XFErr: err}
}
