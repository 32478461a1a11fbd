// Package pptxtest builds small PPTX packages for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Relationship types.
const (
	RelSlide    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelChart    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelNotes    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	RelComments = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	RelLink     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelAuthors  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/commentAuthors"
)

const namespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`

// Rel is a part relationship.
type Rel struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Slide is one slide of a Deck.
type Slide struct {
	// Shapes is the inner XML of p:spTree after the group properties.
	Shapes string
	// Extra is appended after p:cSld (transitions, timing).
	Extra string
	// Attrs are extra attributes of p:sld, e.g. show="0".
	Attrs string
	// Raw replaces the whole slide part when set.
	Raw  string
	Rels []Rel
}

// Deck describes a presentation package.
type Deck struct {
	Slides []*Slide
	// Order lists 1-based slide file numbers in presentation order. Empty
	// means file order.
	Order []int
	// Parts are additional package parts keyed by part name.
	Parts map[string]string
	// PresentationRels are extra relationships of ppt/presentation.xml.
	PresentationRels []Rel
	Core             string
	SlideSize        string
}

// New returns an empty deck.
func New() *Deck {
	return &Deck{Parts: make(map[string]string)}
}

// AddSlide appends a slide holding the given shapes and returns it.
func (d *Deck) AddSlide(shapes ...string) *Slide {
	s := &Slide{Shapes: strings.Join(shapes, "")}
	d.Slides = append(d.Slides, s)
	return s
}

// Part adds a package part.
func (d *Deck) Part(name, content string) *Deck {
	d.Parts[name] = content
	return d
}

// Bytes encodes the package.
func (d *Deck) Bytes(t testing.TB) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	write("[Content_Types].xml", d.contentTypes())
	write("_rels/.rels", rels([]Rel{{ID: "rId1", Type: "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument", Target: "ppt/presentation.xml"}}))

	order := d.Order
	if len(order) == 0 {
		for i := range d.Slides {
			order = append(order, i+1)
		}
	}
	presRels := make([]Rel, 0, len(d.Slides)+len(d.PresentationRels))
	var ids strings.Builder
	for i, n := range order {
		rid := fmt.Sprintf("rId%d", 100+i)
		presRels = append(presRels, Rel{ID: rid, Type: RelSlide, Target: fmt.Sprintf("slides/slide%d.xml", n)})
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	presRels = append(presRels, d.PresentationRels...)
	write("ppt/_rels/presentation.xml.rels", rels(presRels))

	size := d.SlideSize
	if size == "" {
		size = `<p:sldSz cx="12192000" cy="6858000"/>`
	}
	write("ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<p:presentation `+namespaces+`><p:sldIdLst>`+ids.String()+`</p:sldIdLst>`+size+`</p:presentation>`)

	for i, s := range d.Slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		content := s.Raw
		if content == "" {
			content = SlideXML(s.Attrs, s.Shapes, s.Extra)
		}
		write(name, content)
		if len(s.Rels) > 0 {
			write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels(s.Rels))
		}
	}

	if d.Core != "" {
		write("docProps/core.xml", d.Core)
	}

	names := make([]string, 0, len(d.Parts))
	for name := range d.Parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		write(name, d.Parts[name])
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// Write stores the package in a temporary directory and returns its path.
func (d *Deck) Write(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, d.Bytes(t), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func (d *Deck) contentTypes() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	sb.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := range d.Slides {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	for name := range d.Parts {
		if strings.HasPrefix(name, "ppt/charts/") && strings.HasSuffix(name, ".xml") {
			fmt.Fprintf(&sb, `<Override PartName="/%s" ContentType="application/vnd.openxmlformats-officedocument.drawingml.chart+xml"/>`, name)
		}
	}
	sb.WriteString(`</Types>`)
	return sb.String()
}

func rels(list []Rel) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range list {
		mode := ""
		if r.External {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.ID, r.Type, r.Target, mode)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// SlideXML returns a complete slide part.
func SlideXML(attrs, shapes, extra string) string {
	if attrs != "" {
		attrs = " " + attrs
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld ` + namespaces + attrs + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes + `</p:spTree></p:cSld>` + extra + `</p:sld>`
}

func xfrm(id int) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="1000000" cy="500000"/></a:xfrm>`, id*100000, id*50000)
}

// TextBox returns a text box with one paragraph per line.
func TextBox(id int, name string, lines ...string) string {
	var body strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&body, `<a:p><a:r><a:rPr lang="en-US" sz="1800"/><a:t>%s</a:t></a:r></a:p>`, line)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"/>%s</p:txBody></p:sp>`, id, name, xfrm(id), body.String())
}

// Placeholder returns a placeholder shape of the given type.
func Placeholder(id int, phType, text string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr/><p:nvPr><p:ph type="%s"/></p:nvPr></p:nvSpPr>`+
		`<p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, id, phType, id, phType, text)
}

// Picture returns a picture referencing relationship rid.
func Picture(id int, name, rid string) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s" descr="%s alt"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, id, name, name, rid, xfrm(id))
}

// Frame returns a graphic frame with the given graphic data URI and body.
func Frame(id int, name, uri, body string) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="4000000" cy="3000000"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="%s">%s</a:graphicData></a:graphic></p:graphicFrame>`, id, name, id*100000, id*50000, uri, body)
}

// ChartFrame returns a graphic frame referencing the chart part rid.
func ChartFrame(id int, name, rid string) string {
	return Frame(id, name, "http://schemas.openxmlformats.org/drawingml/2006/chart",
		fmt.Sprintf(`<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="%s"/>`, rid))
}

// Table returns a table frame. The first row is used for the grid.
func Table(id int, name string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString(`<a:tbl><a:tblPr firstRow="1"/><a:tblGrid>`)
	if len(rows) > 0 {
		for range rows[0] {
			sb.WriteString(`<a:gridCol w="1000000"/>`)
		}
	}
	sb.WriteString(`</a:tblGrid>`)
	for _, row := range rows {
		sb.WriteString(`<a:tr h="370840">`)
		for _, cell := range row {
			fmt.Fprintf(&sb, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`, cell)
		}
		sb.WriteString(`</a:tr>`)
	}
	sb.WriteString(`</a:tbl>`)
	return Frame(id, name, "http://schemas.openxmlformats.org/drawingml/2006/table", sb.String())
}

// Group returns a group shape holding children.
func Group(id int, name string, children ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`+
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="2000000" cy="2000000"/><a:chOff x="0" y="0"/><a:chExt cx="2000000" cy="2000000"/></a:xfrm></p:grpSpPr>`+
		`%s</p:grpSp>`, id, name, strings.Join(children, ""))
}

// Connector returns a straight connector.
func Connector(id int, name string) string {
	return fmt.Sprintf(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="%d" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`+
		`<p:spPr>%s<a:prstGeom prst="line"><a:avLst/></a:prstGeom></p:spPr></p:cxnSp>`, id, name, xfrm(id))
}

// Series is a chart series fixture. Empty values are written as missing
// points.
type Series struct {
	Name   string
	Values []string
	Color  string
}

// BarChart returns a clustered column chart part.
func BarChart(title string, categories []string, series ...Series) string {
	return ChartXML(`<c:barChart><c:barDir val="col"/><c:grouping val="clustered"/><c:varyColors val="0"/>%s<c:axId val="111"/><c:axId val="222"/></c:barChart>`+
		`<c:catAx><c:axId val="111"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="b"/><c:numFmt formatCode="General" sourceLinked="1"/><c:majorTickMark val="out"/><c:minorTickMark val="none"/><c:tickLblPos val="nextTo"/><c:crossAx val="222"/></c:catAx>`+
		`<c:valAx><c:axId val="222"/><c:scaling><c:orientation val="minMax"/><c:max val="10"/><c:min val="0"/></c:scaling><c:delete val="0"/><c:axPos val="l"/><c:majorGridlines/><c:numFmt formatCode="General" sourceLinked="1"/><c:majorTickMark val="out"/><c:minorTickMark val="none"/><c:tickLblPos val="nextTo"/><c:crossAx val="111"/><c:majorUnit val="2"/></c:valAx>`,
		title, categories, series...)
}

// ChartXML returns a chart part whose plot area holds plot. The first %s in
// plot is replaced with the series elements.
func ChartXML(plot, title string, categories []string, series ...Series) string {
	var sers strings.Builder
	for i, s := range series {
		fmt.Fprintf(&sers, `<c:ser><c:idx val="%d"/><c:order val="%d"/>`, i, i)
		fmt.Fprintf(&sers, `<c:tx><c:strRef><c:f>Sheet1!$%c$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>`, 'B'+rune(i), s.Name)
		if s.Color != "" {
			fmt.Fprintf(&sers, `<c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr>`, s.Color)
		}
		sers.WriteString(`<c:cat><c:strRef><c:f>Sheet1!$A$2</c:f><c:strCache>`)
		fmt.Fprintf(&sers, `<c:ptCount val="%d"/>`, len(categories))
		for j, c := range categories {
			fmt.Fprintf(&sers, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, j, c)
		}
		sers.WriteString(`</c:strCache></c:strRef></c:cat>`)
		sers.WriteString(`<c:val><c:numRef><c:f>Sheet1!$B$2</c:f><c:numCache><c:formatCode>General</c:formatCode>`)
		fmt.Fprintf(&sers, `<c:ptCount val="%d"/>`, len(s.Values))
		for j, v := range s.Values {
			if v == "" {
				continue
			}
			fmt.Fprintf(&sers, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, j, v)
		}
		sers.WriteString(`</c:numCache></c:numRef></c:val></c:ser>`)
	}

	titleXML := `<c:autoTitleDeleted val="1"/>`
	if title != "" {
		titleXML = `<c:title><c:tx><c:rich><a:bodyPr/><a:p><a:r><a:t>` + title + `</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title><c:autoTitleDeleted val="0"/>`
	}

	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<c:chart>` + titleXML + `<c:plotArea><c:layout/>` +
		strings.Replace(plot, "%s", sers.String(), 1) +
		`</c:plotArea><c:legend><c:legendPos val="r"/><c:overlay val="0"/></c:legend><c:plotVisOnly val="1"/></c:chart></c:chartSpace>`
}

// PNG returns an encoded solid PNG image of the given size.
func PNG(t testing.TB, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.String()
}
