package convert

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/extract"
	"github.com/tsawler/deckschema/internal/nodetest"
	"github.com/tsawler/deckschema/internal/pptxtest"
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

func newConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	return New(engine.New(engine.Config{DisableOCR: true}), opts...)
}

func fourPoints(vals ...string) []node.Point {
	pts := make([]node.Point, len(vals))
	for i, v := range vals {
		pts[i] = node.Point{Index: i, Value: v}
	}
	return pts
}

// scenarioDocument has an empty slide, a slide with a two-series chart
// and a slide with a shape of an unknown kind.
func scenarioDocument(t *testing.T) *nodetest.Document {
	t.Helper()
	ch := nodetest.BarChart(2,
		node.Series{Index: 0, Name: "North", PointCount: 4, Points: fourPoints("1", "2", "3", "4")},
		node.Series{Index: 1, Name: "South", PointCount: 4, Points: fourPoints("5", "6", "7", "8")},
	)
	ch.Data.(*nodetest.ChartData).Cats = []string{"Q1", "Q2", "Q3", "Q4"}
	ch.Data.(*nodetest.ChartData).Plot = &node.Rect{X: 0.05, Y: 0.1, Width: 0.9, Height: 0.8}

	ink := &nodetest.Shape{Kind: "ink", ShapeID: 3, ShapeName: "Ink 2"}
	return nodetest.NewDocument(
		nodetest.NewSlide(),
		nodetest.NewSlide(ch),
		nodetest.NewSlide(ink),
	)
}

func TestConvert_Scenario(t *testing.T) {
	out, stats, err := newConverter(t).Convert(context.Background(), scenarioDocument(t), extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if len(out.Slides) != 3 {
		t.Fatalf("len(slides) = %d, want 3", len(out.Slides))
	}

	if n := len(out.Slides[0].Shapes); n != 0 {
		t.Errorf("slide 1 shapes = %d, want 0", n)
	}

	chart := out.Slides[1].Shapes
	if len(chart) != 1 || chart[0].ShapeType != schema.ShapeTypeChart {
		t.Fatalf("slide 2 shapes = %+v, want one chart", chart)
	}
	if n := len(chart[0].ChartProperties.Series); n != 2 {
		t.Errorf("series = %d, want 2", n)
	}
	for _, s := range chart[0].ChartProperties.Series {
		if len(s.Values) != 4 {
			t.Errorf("series %q has %d values, want 4", s.Name, len(s.Values))
		}
	}

	unknown := out.Slides[2].Shapes
	if len(unknown) != 1 || unknown[0].ShapeType != schema.ShapeTypeUnknown || unknown[0].NativeType != "ink" {
		t.Fatalf("slide 3 shapes = %+v, want one unknown", unknown)
	}
	u := unknown[0]
	if u.TextProperties != nil || u.PictureProperties != nil || u.TableProperties != nil || u.ChartProperties != nil || u.GroupProperties != nil {
		t.Errorf("unknown shape carries a payload: %+v", u)
	}

	if stats.ShapeCount != 2 || stats.SlideCount != 3 || stats.ErrorCount != 0 {
		t.Errorf("stats = %+v, want 2 shapes on 3 slides", stats)
	}
}

func TestConvert_Ordering(t *testing.T) {
	var slides []*nodetest.Slide
	for s := 0; s < 5; s++ {
		var shapes []node.Shape
		for i := 0; i < 7; i++ {
			shapes = append(shapes, nodetest.TextBox(100*s+i, "x"))
		}
		sl := nodetest.NewSlide(shapes...)
		sl.Title = string(rune('A' + s))
		slides = append(slides, sl)
	}

	out, _, err := newConverter(t).Convert(context.Background(), nodetest.NewDocument(slides...), extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	for s, sl := range out.Slides {
		if sl.Index != s || sl.Name != string(rune('A'+s)) {
			t.Errorf("slide %d = %d/%q", s, sl.Index, sl.Name)
		}
		for i, sh := range sl.Shapes {
			if sh.ID != 100*s+i {
				t.Errorf("slide %d shape %d has id %d", s, i, sh.ID)
			}
		}
	}
}

func TestConvert_Isolation(t *testing.T) {
	const n = 6
	shapes := make([]node.Shape, 0, n+1)
	for i := 0; i < n; i++ {
		shapes = append(shapes, nodetest.TextBox(i+1, "ok"))
	}
	broken := nodetest.TextBox(99, "bad")
	broken.Err = errors.New("corrupt text body")
	shapes = append(shapes[:3], append([]node.Shape{broken}, shapes[3:]...)...)

	out, stats, err := newConverter(t).Convert(context.Background(), nodetest.NewDocument(nodetest.NewSlide(shapes...)), extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	got := out.Slides[0].Shapes
	if len(got) != n+1 {
		t.Fatalf("len(shapes) = %d, want %d", len(got), n+1)
	}
	var ok, failed int
	for _, s := range got {
		switch {
		case s.Error == "" && s.ShapeType == schema.ShapeTypeTextBox:
			ok++
		case s.Error != "" && s.ShapeType == schema.ShapeTypeUnknown:
			failed++
		}
	}
	if ok != n || failed != 1 {
		t.Errorf("ok = %d, failed = %d; want %d and 1", ok, failed, n)
	}
	if got[3].ID != 99 {
		t.Errorf("placeholder at position 3 has id %d, want 99", got[3].ID)
	}
	if stats.ErrorCount != 1 || stats.Errors[0].Slide != 0 || stats.Errors[0].Path != "99" {
		t.Errorf("stats errors = %+v", stats.Errors)
	}
}

func TestConvert_OptionGating(t *testing.T) {
	doc := scenarioDocument(t)
	doc.Props = node.Properties{Title: "Quarterly", SlideCount: 3}
	cv := newConverter(t)

	plain, _, err := cv.Convert(context.Background(), doc, extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	full, _, err := cv.Convert(context.Background(), doc, extract.Options{IncludeMetadata: true})
	if err != nil {
		t.Fatalf("Convert() with metadata failed: %v", err)
	}

	cp := full.Slides[1].Shapes[0].ChartProperties
	if len(cp.Axes) != 2 || cp.PlotArea == nil {
		t.Fatalf("metadata missing: axes %v, plot area %v", cp.Axes, cp.PlotArea)
	}
	if full.DocumentProperties == nil || full.DocumentProperties.Title != "Quarterly" {
		t.Errorf("DocumentProperties = %+v", full.DocumentProperties)
	}
	if plain.Slides[1].Shapes[0].ChartProperties.Axes != nil || plain.DocumentProperties != nil {
		t.Error("metadata present without IncludeMetadata")
	}

	cp.Axes = nil
	cp.PlotArea = nil
	full.DocumentProperties = nil
	if a, b := mustJSON(t, plain), mustJSON(t, full); a != b {
		t.Errorf("outputs differ beyond metadata fields:\n%s\n%s", a, b)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return string(data)
}

func TestConvert_Stats(t *testing.T) {
	group := &nodetest.Group{
		Shape: nodetest.Shape{Kind: node.TypeGroup, ShapeID: 10},
		Members: []node.Shape{
			nodetest.Image(11, "ppt/media/image1.png", nil),
			&nodetest.Picture{Shape: nodetest.Shape{Kind: node.TypePicture, ShapeID: 12}, PicErr: errors.New("no blip")},
		},
	}
	animated := nodetest.NewSlide(nodetest.TextBox(2, "title"))
	animated.Anims = []node.Animation{{ShapeID: 2, Class: "entr"}, {ShapeID: 2, Class: "exit"}}
	doc := nodetest.NewDocument(
		nodetest.NewSlide(),
		nodetest.NewSlide(group, nodetest.Image(3, "ppt/media/image2.png", nil)),
		animated,
	)

	tests := []struct {
		name           string
		opts           extract.Options
		wantAnimations int
	}{
		{"animations off", extract.Options{}, 0},
		{"animations on", extract.Options{IncludeAnimations: true}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats, err := newConverter(t).Convert(context.Background(), doc, tt.opts)
			if err != nil {
				t.Fatalf("Convert() failed: %v", err)
			}

			var entries, animations int
			for _, sl := range out.Slides {
				entries += len(sl.Shapes)
				animations += len(sl.Animations)
			}
			if stats.ShapeCount != entries || entries != 3 {
				t.Errorf("ShapeCount = %d, entries = %d, want 3", stats.ShapeCount, entries)
			}
			if stats.ImageCount != 3 {
				t.Errorf("ImageCount = %d, want 3 (failed picture included)", stats.ImageCount)
			}
			if stats.AnimationCount != animations || animations != tt.wantAnimations {
				t.Errorf("AnimationCount = %d, animations = %d, want %d", stats.AnimationCount, animations, tt.wantAnimations)
			}
			if stats.ErrorCount != 1 {
				t.Errorf("ErrorCount = %d, want 1", stats.ErrorCount)
			}
			if stats.ConversionTimeMs < 0 || stats.RequestID == "" {
				t.Errorf("stats = %+v", stats)
			}
		})
	}
}

func TestConvert_ChartSeriesFault(t *testing.T) {
	doc := scenarioDocument(t)
	ch := doc.SlideList[1].(*nodetest.Slide).ShapeList[0].(*nodetest.Chart)
	ch.Data.(*nodetest.ChartData).SeriesErr = errors.New("series cache unreadable")

	out, stats, err := newConverter(t).Convert(context.Background(), doc, extract.Options{IncludeMetadata: true})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	s := out.Slides[1].Shapes[0]
	if s.ShapeType != schema.ShapeTypeChart || s.Error != "" {
		t.Fatalf("chart shape = %+v", s)
	}
	cp := s.ChartProperties
	if len(cp.Series) != 0 || cp.Series == nil {
		t.Errorf("Series = %v, want empty", cp.Series)
	}
	if !reflect.DeepEqual(cp.Categories, []string{"Q1", "Q2", "Q3", "Q4"}) || cp.ChartType != "ColumnClustered" || len(cp.Axes) != 2 {
		t.Errorf("chart metadata = %+v", cp)
	}
	if stats.ErrorCount != 1 || stats.Errors[0].Extractor != "chart/series" {
		t.Errorf("errors = %+v", stats.Errors)
	}
}

func TestConvert_SlideAttributesIsolated(t *testing.T) {
	sl := nodetest.NewSlide(nodetest.TextBox(2, "kept"))
	sl.BGErr = errors.New("bad background")
	sl.Trans = &node.Transition{Type: "fade", Duration: 700 * time.Millisecond, AdvanceOnClick: true}
	sl.CommentsErr = errors.New("bad comments")
	sl.NotesText = "speaker notes"

	out, stats, err := newConverter(t).Convert(context.Background(), nodetest.NewDocument(sl), extract.Options{IncludeComments: true})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	got := out.Slides[0]
	if len(got.Shapes) != 1 || got.Transition == nil || got.Transition.DurationMs != 700 || got.Notes != "speaker notes" {
		t.Errorf("slide = %+v", got)
	}
	if got.Error == "" || stats.ErrorCount != 2 {
		t.Errorf("slide error = %q, error count = %d; want 2 recorded", got.Error, stats.ErrorCount)
	}
}

func TestConvert_ShapeListFailure(t *testing.T) {
	bad := nodetest.NewSlide()
	bad.ShapesErr = errors.New("unreadable shape tree")
	doc := nodetest.NewDocument(bad, nodetest.NewSlide(nodetest.TextBox(2, "next")))

	out, stats, err := newConverter(t).Convert(context.Background(), doc, extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if len(out.Slides) != 2 || out.Slides[0].Error == "" || out.Slides[0].Shapes == nil {
		t.Errorf("slides = %+v", out.Slides)
	}
	if stats.ShapeCount != 1 {
		t.Errorf("ShapeCount = %d, want 1", stats.ShapeCount)
	}
}

func TestConvert_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var states []State
	cv := newConverter(t, WithObserver(func(s State) { states = append(states, s) }))
	out, stats, err := cv.Convert(ctx, scenarioDocument(t), extract.Options{})
	if out != nil || stats != nil {
		t.Error("Convert() returned partial output after cancellation")
	}
	var ce *ConversionError
	if !errors.As(err, &ce) || !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want ConversionError wrapping context.Canceled", err)
	}
	if want := []State{Traversing, Idle}; !reflect.DeepEqual(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}
}

func TestConvert_States(t *testing.T) {
	var states []State
	cv := newConverter(t, WithObserver(func(s State) { states = append(states, s) }))
	if _, _, err := cv.Convert(context.Background(), scenarioDocument(t), extract.Options{}); err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if want := []State{Traversing, Aggregating, Completed}; !reflect.DeepEqual(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}
}

func TestConvert_NilDocument(t *testing.T) {
	_, _, err := newConverter(t).Convert(context.Background(), nil, extract.Options{})
	if !errors.Is(err, ErrDocumentOpen) {
		t.Errorf("Convert(nil) error = %v, want ErrDocumentOpen", err)
	}
}

func TestConvert_DocumentAccessorsIsolated(t *testing.T) {
	tests := []struct {
		name       string
		panics     []string
		wantSlides int
		wantErrors []string
	}{
		{"slide size", []string{"size"}, 3, []string{"document/slideSize"}},
		{"slides", []string{"slides"}, 0, []string{"document/slides"}},
		{"properties and assets", []string{"properties", "assets"}, 3, []string{"document/properties", "document/assets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := scenarioDocument(t)
			doc.Panics = make(map[string]bool)
			for _, p := range tt.panics {
				doc.Panics[p] = true
			}

			out, stats, err := newConverter(t).Convert(context.Background(), doc, extract.Options{IncludeMetadata: true, IncludeAssets: true})
			if err != nil {
				t.Fatalf("Convert() failed: %v", err)
			}
			if len(out.Slides) != tt.wantSlides {
				t.Errorf("len(Slides) = %d, want %d", len(out.Slides), tt.wantSlides)
			}

			var got []string
			for _, e := range stats.Errors {
				if strings.HasPrefix(e.Extractor, "document/") {
					got = append(got, e.Extractor)
				}
			}
			if !reflect.DeepEqual(got, tt.wantErrors) {
				t.Errorf("document errors = %v, want %v", got, tt.wantErrors)
			}
		})
	}
}

func TestConvert_AssetDigests(t *testing.T) {
	doc := scenarioDocument(t)
	doc.AssetList = []node.Asset{
		{Path: "ppt/media/image1.png", ContentType: "image/png", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("abc")), nil
		}},
		{Path: "ppt/media/image2.png", Open: func() (io.ReadCloser, error) {
			return nil, errors.New("missing part")
		}},
		{Path: "ppt/media/image3.png", Open: func() (io.ReadCloser, error) {
			panic("broken reader")
		}},
		{Path: "ppt/media/image4.png"},
	}

	out, _, err := newConverter(t).Convert(context.Background(), doc, extract.Options{IncludeAssets: true})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if len(out.Assets) != 4 {
		t.Fatalf("len(Assets) = %d, want 4", len(out.Assets))
	}

	sum := blake2b.Sum256([]byte("abc"))
	if a := out.Assets[0]; a.Digest != hex.EncodeToString(sum[:]) || a.Size != 3 || a.Error != "" {
		t.Errorf("asset 0 = %+v", a)
	}
	for i, a := range out.Assets[1:] {
		if a.Error == "" || a.Digest != "" {
			t.Errorf("asset %d = %+v, want an error and no digest", i+1, a)
		}
	}
}

func TestConvertFile(t *testing.T) {
	d := pptxtest.New()
	s := d.AddSlide(pptxtest.TextBox(2, "Title", "Hello"), pptxtest.Picture(3, "Logo", "rId2"))
	s.Rels = []pptxtest.Rel{{ID: "rId2", Type: pptxtest.RelImage, Target: "../media/image1.png"}}
	d.Part("ppt/media/image1.png", pptxtest.PNG(t, 4, 3))
	path := d.Write(t)

	out, stats, err := newConverter(t).ConvertFile(context.Background(), path, extract.Options{IncludeAssets: true, ExtractImages: true})
	if err != nil {
		t.Fatalf("ConvertFile() failed: %v", err)
	}
	if out.Source != path || len(out.Slides) != 1 {
		t.Fatalf("schema = %+v", out)
	}

	shapes := out.Slides[0].Shapes
	if len(shapes) != 2 || shapes[0].TextProperties == nil || shapes[0].TextProperties.Text != "Hello" {
		t.Fatalf("shapes = %+v", shapes)
	}
	pic := shapes[1].PictureProperties
	if pic == nil || pic.AssetPath != "ppt/media/image1.png" || pic.PixelWidth != 4 || pic.PixelHeight != 3 {
		t.Errorf("picture = %+v", pic)
	}

	if len(out.Assets) != 1 || out.Assets[0].ID != "image1.png" || len(out.Assets[0].Digest) != 64 {
		t.Errorf("assets = %+v", out.Assets)
	}
	if out.Assets[0].ID != AssetID(pic.AssetPath) {
		t.Errorf("asset id %q does not match picture %q", out.Assets[0].ID, pic.AssetPath)
	}
	if stats.ImageCount != 1 || stats.ShapeCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestConvertFile_MalformedChartCaches(t *testing.T) {
	chart := pptxtest.BarChart("", []string{"Q1", "Q2"},
		pptxtest.Series{Name: "A", Values: []string{"1", "2"}},
		pptxtest.Series{Name: "B", Values: []string{"3", "4"}},
	)
	// Series A declares an absurd category count; series B has an
	// unreadable point index.
	chart = strings.Replace(chart, `<c:ptCount val="2"/>`, `<c:ptCount val="100000000000"/>`, 1)
	chart = strings.Replace(chart, `<c:pt idx="1"><c:v>4</c:v>`, `<c:pt idx="x"><c:v>4</c:v>`, 1)

	d := pptxtest.New()
	s := d.AddSlide(pptxtest.ChartFrame(2, "Chart", "rId2"), pptxtest.TextBox(3, "After", "still here"))
	s.Rels = []pptxtest.Rel{{ID: "rId2", Type: pptxtest.RelChart, Target: "../charts/chart1.xml"}}
	d.Part("ppt/charts/chart1.xml", chart)

	out, stats, err := newConverter(t).ConvertFile(context.Background(), d.Write(t), extract.Options{})
	if err != nil {
		t.Fatalf("ConvertFile() failed: %v", err)
	}
	shapes := out.Slides[0].Shapes
	if len(shapes) != 2 || shapes[1].TextProperties == nil {
		t.Fatalf("shapes = %+v", shapes)
	}

	cp := shapes[0].ChartProperties
	if shapes[0].ShapeType != schema.ShapeTypeChart || cp == nil {
		t.Fatalf("chart shape = %+v", shapes[0])
	}
	if cp.Categories == nil || len(cp.Categories) != 0 {
		t.Errorf("Categories = %v, want empty default", cp.Categories)
	}
	if len(cp.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(cp.Series))
	}
	if a := cp.Series[0].Values; len(a) != 2 || a[0] == nil || *a[0] != 1 || a[1] == nil || *a[1] != 2 {
		t.Errorf("series A values = %v", a)
	}
	if b := cp.Series[1].Values; len(b) != 2 || b[0] == nil || *b[0] != 3 || b[1] != nil {
		t.Errorf("series B values = %v", b)
	}
	if stats.ErrorCount != 1 || stats.Errors[0].Extractor != "chart/metadata" {
		t.Errorf("errors = %+v", stats.Errors)
	}
}

func TestConvertFile_OpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pptx")
	if err := os.WriteFile(path, []byte("PK\x03\x04 not really a zip"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, _, err := newConverter(t).ConvertFile(context.Background(), path, extract.Options{})
	if !errors.Is(err, ErrDocumentOpen) {
		t.Fatalf("ConvertFile() error = %v, want ErrDocumentOpen", err)
	}
	var ce *ConversionError
	if !errors.As(err, &ce) || ce.Op != "open" || ce.Path != path {
		t.Errorf("ConversionError = %+v", ce)
	}
}

func TestConvert_ConcurrentRuns(t *testing.T) {
	cv := newConverter(t)
	doc := scenarioDocument(t)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, stats, err := cv.Convert(context.Background(), doc, extract.Options{IncludeMetadata: true})
			if err == nil && stats.ShapeCount != 2 {
				err = errors.New("wrong shape count")
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-errs; err != nil {
			t.Errorf("concurrent Convert() failed: %v", err)
		}
	}
}

func TestLargeDocument(t *testing.T) {
	slides := make([]*nodetest.Slide, 240)
	for i := range slides {
		slides[i] = nodetest.NewSlide(nodetest.TextBox(2, "title"), nodetest.TextBox(3, "body"))
	}

	out, stats, err := newConverter(t).Convert(context.Background(), nodetest.NewDocument(slides...), extract.Options{})
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}
	if len(out.Slides) != 240 || stats.ShapeCount != 480 {
		t.Errorf("slides = %d, shapes = %d; want 240 and 480", len(out.Slides), stats.ShapeCount)
	}
}

func TestState_String(t *testing.T) {
	if Traversing.String() != "traversing" || State(7).String() != "State(7)" {
		t.Error("unexpected State strings")
	}
}
