package pptx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tsawler/deckschema/node"
)

// ErrNoChartData is returned when a chart frame has no resolvable chart part.
var ErrNoChartData = errors.New("chart data not available")

// UnmarshalXML decodes a shape tree while keeping the order of its children.
func (t *shapeTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := t.decodeChild(d, el); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (t *shapeTreeXML) decodeChild(d *xml.Decoder, el xml.StartElement) error {
	switch el.Name.Local {
	case "nvGrpSpPr":
		return d.DecodeElement(&t.NvGrpSpPr, &el)
	case "grpSpPr":
		return d.DecodeElement(&t.GrpSpPr, &el)
	case "sp":
		v := &spXML{}
		if err := d.DecodeElement(v, &el); err != nil {
			return err
		}
		t.Children = append(t.Children, shapeElementXML{Sp: v})
	case "pic":
		v := &picXML{}
		if err := d.DecodeElement(v, &el); err != nil {
			return err
		}
		t.Children = append(t.Children, shapeElementXML{Pic: v})
	case "graphicFrame":
		v := &graphicFrameXML{}
		if err := d.DecodeElement(v, &el); err != nil {
			return err
		}
		t.Children = append(t.Children, shapeElementXML{GraphicFrame: v})
	case "grpSp":
		v := &shapeTreeXML{}
		if err := d.DecodeElement(v, &el); err != nil {
			return err
		}
		t.Children = append(t.Children, shapeElementXML{GrpSp: v})
	case "cxnSp":
		v := &cxnSpXML{}
		if err := d.DecodeElement(v, &el); err != nil {
			return err
		}
		t.Children = append(t.Children, shapeElementXML{CxnSp: v})
	case "AlternateContent":
		var alt alternateContentXML
		if err := d.DecodeElement(&alt, &el); err != nil {
			return err
		}
		for _, choice := range alt.Choice {
			if len(choice.Children) > 0 {
				t.Children = append(t.Children, choice.Children...)
				return nil
			}
		}
		if alt.Fallback != nil {
			t.Children = append(t.Children, alt.Fallback.Children...)
		}
	default:
		return d.Skip()
	}
	return nil
}

// buildShapes turns a decoded shape tree into node shapes.
func (s *Slide) buildShapes(tree *shapeTreeXML) []node.Shape {
	shapes := make([]node.Shape, 0, len(tree.Children))
	for _, child := range tree.Children {
		switch {
		case child.Sp != nil:
			shapes = append(shapes, s.newTextShape(child.Sp))
		case child.Pic != nil:
			shapes = append(shapes, s.newPictureShape(child.Pic))
		case child.GraphicFrame != nil:
			shapes = append(shapes, s.newFrameShape(child.GraphicFrame))
		case child.GrpSp != nil:
			g := &GroupShape{
				baseShape: baseShape{slide: s, kind: node.TypeGroup, nv: child.GrpSp.NvGrpSpPr.CNvPr, spPr: &child.GrpSp.GrpSpPr},
			}
			g.children = s.buildShapes(child.GrpSp)
			shapes = append(shapes, g)
		case child.CxnSp != nil:
			shapes = append(shapes, &GenericShape{
				baseShape: baseShape{slide: s, kind: node.TypeConnector, nv: child.CxnSp.NvCxnSpPr.CNvPr, spPr: &child.CxnSp.SpPr},
			})
		}
	}
	return shapes
}

func (s *Slide) newTextShape(sp *spXML) *TextShape {
	kind := node.TypeAutoShape
	switch {
	case sp.NvSpPr.CNvSpPr.TxBox == "1" || sp.NvSpPr.CNvSpPr.TxBox == "true":
		kind = node.TypeTextBox
	case sp.NvSpPr.NvPr.Ph != nil:
		kind = node.TypePlaceholder
	}
	return &TextShape{
		baseShape: baseShape{slide: s, kind: kind, nv: sp.NvSpPr.CNvPr, spPr: &sp.SpPr},
		sp:        sp,
	}
}

func (s *Slide) newPictureShape(pic *picXML) *PictureShape {
	kind := node.TypePicture
	if pic.NvPicPr.NvPr.VideoFile != nil || pic.NvPicPr.NvPr.AudioFile != nil {
		kind = node.TypeMedia
	}
	return &PictureShape{
		baseShape: baseShape{slide: s, kind: kind, nv: pic.NvPicPr.CNvPr, spPr: &pic.SpPr},
		pic:       pic,
	}
}

// newFrameShape classifies a graphic frame by its graphic data URI.
func (s *Slide) newFrameShape(gf *graphicFrameXML) node.Shape {
	base := baseShape{slide: s, nv: gf.NvGraphicFramePr.CNvPr, xfrm: gf.Xfrm}
	uri := gf.Graphic.GraphicData.URI
	switch {
	case strings.HasSuffix(uri, "/table"):
		base.kind = node.TypeTable
		return &TableShape{baseShape: base, tbl: gf.Graphic.GraphicData.Tbl}
	case strings.HasSuffix(uri, "/chart"):
		base.kind = node.TypeChart
		return &ChartShape{baseShape: base, ref: gf.Graphic.GraphicData.Chart}
	case strings.HasSuffix(uri, "/diagram"):
		base.kind = node.TypeSmartArt
	case strings.HasSuffix(uri, "/ole"):
		base.kind = node.TypeOLEObject
	default:
		base.kind = node.Type(path.Base(uri))
	}
	return &GenericShape{baseShape: base}
}

// baseShape carries the properties common to every shape element.
type baseShape struct {
	slide *Slide
	kind  node.Type
	nv    cNvPrXML
	spPr  *spPrXML // nil for graphic frames
	xfrm  *xfrmXML // graphic frame transform
}

// Type returns the native type tag.
func (b *baseShape) Type() node.Type { return b.kind }

// ID returns the shape id, unique within the slide.
func (b *baseShape) ID() int { return b.nv.ID }

// Name returns the shape name.
func (b *baseShape) Name() string { return b.nv.Name }

// Description returns the alternative text of the shape.
func (b *baseShape) Description() string {
	if b.nv.Descr != "" {
		return b.nv.Descr
	}
	return b.nv.Title
}

// PresetGeometry returns the preset geometry name (rect, ellipse, ...).
func (b *baseShape) PresetGeometry() string {
	if b.spPr == nil || b.spPr.PrstGeom == nil {
		return ""
	}
	return b.spPr.PrstGeom.Prst
}

// Transform returns the placement of the shape. A shape without a
// transform (such as a placeholder inheriting from its layout) reports the
// zero transform.
func (b *baseShape) Transform() (node.Transform, error) {
	x := b.xfrm
	if x == nil && b.spPr != nil {
		x = b.spPr.Xfrm
	}
	var t node.Transform
	if x == nil {
		return t, nil
	}

	var err error
	if x.Off != nil {
		if t.X, err = parseEMU(x.Off.X); err != nil {
			return t, fmt.Errorf("shape %d offset x: %w", b.nv.ID, err)
		}
		if t.Y, err = parseEMU(x.Off.Y); err != nil {
			return t, fmt.Errorf("shape %d offset y: %w", b.nv.ID, err)
		}
	}
	if x.Ext != nil {
		if t.Width, err = parseEMU(x.Ext.Cx); err != nil {
			return t, fmt.Errorf("shape %d extent cx: %w", b.nv.ID, err)
		}
		if t.Height, err = parseEMU(x.Ext.Cy); err != nil {
			return t, fmt.Errorf("shape %d extent cy: %w", b.nv.ID, err)
		}
	}
	if x.Rot != "" {
		rot, err := strconv.ParseInt(x.Rot, 10, 64)
		if err != nil {
			return t, fmt.Errorf("shape %d rotation: %w", b.nv.ID, err)
		}
		t.Rotation = float64(rot) / 60000
	}
	t.FlipH = isTrue(x.FlipH)
	t.FlipV = isTrue(x.FlipV)
	return t, nil
}

// Fill returns the shape fill, or nil when the shape has none of its own.
func (b *baseShape) Fill() (*node.Fill, error) {
	if b.spPr == nil {
		return nil, nil
	}
	return b.slide.fill(&b.spPr.fillChoiceXML), nil
}

// Line returns the shape outline, or nil when the shape has none of its own.
func (b *baseShape) Line() (*node.Line, error) {
	if b.spPr == nil || b.spPr.Ln == nil {
		return nil, nil
	}
	return lineOf(b.spPr.Ln)
}

// Effects returns the effect list of the shape.
func (b *baseShape) Effects() ([]node.Effect, error) {
	if b.spPr == nil || b.spPr.EffectLst == nil {
		return nil, nil
	}
	return effectsOf(b.spPr.EffectLst), nil
}

// TextShape is a p:sp element: text boxes, placeholders and auto shapes.
type TextShape struct {
	baseShape
	sp *spXML
}

// TextFrame returns the text body. Shapes without text return an empty
// frame.
func (s *TextShape) TextFrame() (*node.TextFrame, error) {
	tf := &node.TextFrame{Paragraphs: make([]node.Paragraph, 0)}
	if ph := s.sp.NvSpPr.NvPr.Ph; ph != nil {
		tf.Placeholder = ph.Type
		if tf.Placeholder == "" {
			tf.Placeholder = "body"
		}
	}
	if s.sp.TxBody == nil {
		return tf, nil
	}
	tf.Anchor = s.sp.TxBody.BodyPr.Anchor
	tf.Vertical = s.sp.TxBody.BodyPr.Vert
	tf.Wrap = s.sp.TxBody.BodyPr.Wrap
	for i := range s.sp.TxBody.P {
		p, err := s.slide.paragraph(&s.sp.TxBody.P[i])
		if err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", i, err)
		}
		tf.Paragraphs = append(tf.Paragraphs, p)
	}
	return tf, nil
}

// PictureShape is a p:pic element.
type PictureShape struct {
	baseShape
	pic *picXML
}

// Picture returns the image reference of the picture.
func (s *PictureShape) Picture() (*node.Picture, error) {
	blip := s.pic.BlipFill.Blip
	rid := blip.Embed
	if rid == "" {
		rid = blip.Link
	}
	if rid == "" {
		return nil, fmt.Errorf("picture %d has no image reference", s.nv.ID)
	}

	target, external, err := s.slide.target(rid)
	if err != nil {
		return nil, err
	}
	p := &node.Picture{RelID: rid, Target: target, External: external}
	if !external {
		p.ContentType = s.slide.reader.contentType(target)
	}
	if rect := s.pic.BlipFill.SrcRect; rect != nil {
		p.Crop = node.Crop{
			Left:   percentage(rect.L),
			Top:    percentage(rect.T),
			Right:  percentage(rect.R),
			Bottom: percentage(rect.B),
		}
	}
	return p, nil
}

// ImageData reads the embedded image bytes, refusing images above limit.
func (s *PictureShape) ImageData(limit int64) ([]byte, error) {
	p, err := s.Picture()
	if err != nil {
		return nil, err
	}
	if p.External {
		return nil, fmt.Errorf("picture %d links an external image", s.nv.ID)
	}
	return s.slide.reader.readPart(p.Target, limit)
}

// TableShape is a graphic frame holding a table.
type TableShape struct {
	baseShape
	tbl *tblXML
}

// Table returns the table content.
func (s *TableShape) Table() (*node.Table, error) {
	if s.tbl == nil {
		return nil, fmt.Errorf("table frame %d has no table element", s.nv.ID)
	}
	t := &node.Table{
		Columns: make([]int64, 0, len(s.tbl.TblGrid.GridCol)),
		Rows:    make([]node.TableRow, 0, len(s.tbl.Tr)),
	}
	if s.tbl.TblPr != nil {
		t.Style = s.tbl.TblPr.StyleID
	}
	for _, col := range s.tbl.TblGrid.GridCol {
		t.Columns = append(t.Columns, col.W)
	}

	for _, tr := range s.tbl.Tr {
		row := node.TableRow{Height: tr.H, Cells: make([]node.TableCell, 0, len(tr.Tc))}
		for _, tc := range tr.Tc {
			cell := node.TableCell{
				RowSpan: tc.RowSpan,
				ColSpan: tc.GridSpan,
				HMerge:  isTrue(tc.HMerge),
				VMerge:  isTrue(tc.VMerge),
			}
			if cell.RowSpan == 0 {
				cell.RowSpan = 1
			}
			if cell.ColSpan == 0 {
				cell.ColSpan = 1
			}
			if tc.TxBody != nil {
				var text strings.Builder
				for i := range tc.TxBody.P {
					line := strings.TrimSpace(tc.TxBody.P[i].text())
					if line == "" {
						continue
					}
					if text.Len() > 0 {
						text.WriteString("\n")
					}
					text.WriteString(line)
				}
				cell.Text = text.String()
			}
			if tc.TcPr != nil {
				cell.Fill = s.slide.fill(tc.TcPr)
			}
			row.Cells = append(row.Cells, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ChartShape is a graphic frame holding a chart.
type ChartShape struct {
	baseShape
	ref *chartRefXML
}

// ChartData loads and decodes the chart part referenced by the frame.
func (s *ChartShape) ChartData() (node.ChartData, error) {
	if s.ref == nil || s.ref.RID == "" {
		return nil, fmt.Errorf("chart frame %d: %w", s.nv.ID, ErrNoChartData)
	}
	target, external, err := s.slide.target(s.ref.RID)
	if err != nil {
		return nil, fmt.Errorf("chart frame %d: %w: %v", s.nv.ID, ErrNoChartData, err)
	}
	if external {
		return nil, fmt.Errorf("chart frame %d: %w: external chart part", s.nv.ID, ErrNoChartData)
	}
	var cs chartSpaceXML
	if err := s.slide.reader.unmarshalPart(target, &cs); err != nil {
		return nil, fmt.Errorf("chart frame %d: %w", s.nv.ID, err)
	}
	return &chartData{slide: s.slide, space: &cs}, nil
}

// GroupShape is a p:grpSp element.
type GroupShape struct {
	baseShape
	children []node.Shape
}

// Children returns the members of the group in z-order.
func (s *GroupShape) Children() ([]node.Shape, error) {
	return s.children, nil
}

// GenericShape is any shape without a type-specific accessor: connectors,
// SmartArt, OLE objects and graphic frames of unknown kinds.
type GenericShape struct {
	baseShape
}

var (
	_ node.TextShape      = (*TextShape)(nil)
	_ node.PictureShape   = (*PictureShape)(nil)
	_ node.TableShape     = (*TableShape)(nil)
	_ node.ChartShape     = (*ChartShape)(nil)
	_ node.GroupShape     = (*GroupShape)(nil)
	_ node.Shape          = (*GenericShape)(nil)
	_ node.StyledShape    = (*TextShape)(nil)
	_ node.DescribedShape = (*PictureShape)(nil)
)

func parseEMU(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// percentage converts a value in thousandths of a percent to a fraction.
func percentage(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n / 100000
}

func isTrue(s string) bool {
	return s == "1" || s == "true" || s == "on"
}
