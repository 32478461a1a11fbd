// Package convert walks a document and aggregates the extracted shapes
// into a Universal Schema.
//
// A Converter is safe for concurrent use; every call to Convert owns its
// own extraction context. The schema is handed back only once the whole
// document has been traversed, so a cancelled run yields no partial
// output.
package convert

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/extract"
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// ErrDocumentOpen is wrapped by errors returned when a document cannot be
// opened.
var ErrDocumentOpen = errors.New("cannot open document")

// ConversionError is returned when a conversion cannot produce a schema.
type ConversionError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Stats summarizes one conversion.
type Stats struct {
	RequestID  string
	SlideCount int
	// ShapeCount counts top-level shape entries across all slides.
	ShapeCount int
	// ImageCount counts picture entities at any depth, failed ones
	// included.
	ImageCount int
	// AnimationCount counts the animations written to the schema.
	AnimationCount   int
	ErrorCount       int
	ConversionTimeMs int64
	Errors           []extract.NodeError
}

// Converter turns documents into schemas.
type Converter struct {
	engine   *engine.Engine
	registry *extract.Registry
	logger   *slog.Logger
	observe  func(State)
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithRegistry replaces the built-in extractor registry.
func WithRegistry(r *extract.Registry) Option {
	return func(c *Converter) { c.registry = r }
}

// WithObserver registers fn to be called on every state change. fn is
// called from the converting goroutine.
func WithObserver(fn func(State)) Option {
	return func(c *Converter) { c.observe = fn }
}

// New returns a converter bound to e. A nil engine means engine.Default().
func New(e *engine.Engine, opts ...Option) *Converter {
	if e == nil {
		e = engine.Default()
	}
	c := &Converter{engine: e}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.registry == nil {
		c.registry = extract.NewRegistry()
	}
	return c
}

// Registry returns the extractor registry used by the converter.
func (cv *Converter) Registry() *extract.Registry { return cv.registry }

func (cv *Converter) setState(s State) {
	if cv.observe != nil {
		cv.observe(s)
	}
}

// ConvertFile opens the document at path and converts it.
func (cv *Converter) ConvertFile(ctx context.Context, path string, opts extract.Options) (*schema.Schema, *Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, &ConversionError{Op: "convert", Path: path, Err: err}
	}

	r, err := cv.engine.Open(path)
	if err != nil {
		return nil, nil, &ConversionError{Op: "open", Path: path, Err: fmt.Errorf("%w: %w", ErrDocumentOpen, err)}
	}
	defer r.Close()

	out, stats, err := cv.Convert(ctx, r, opts)
	if err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) && ce.Path == "" {
			ce.Path = path
		}
		return nil, nil, err
	}
	out.Source = path
	return out, stats, nil
}

// Convert extracts doc into a schema. Slides and shapes keep document
// order; a node that fails to extract is replaced by a placeholder and
// recorded in Stats.Errors. The only errors returned are cancellation and
// a nil document.
func (cv *Converter) Convert(ctx context.Context, doc node.Document, opts extract.Options) (*schema.Schema, *Stats, error) {
	start := time.Now()
	if doc == nil {
		return nil, nil, &ConversionError{Op: "convert", Err: fmt.Errorf("%w: nil document", ErrDocumentOpen)}
	}

	c := extract.NewContext(opts, cv.logger, "")
	if c.Options.OCRImages && cv.engine.OCRAvailable() {
		c.OCR = cv.engine
	}
	log := c.Logger
	log.Info("conversion started", "options", c.Options.String())

	cv.setState(Traversing)
	out := schema.New()
	documentAttempt(c, "slideSize", func() error {
		size := doc.SlideSize()
		out.SlideSize = schema.Size{Width: size.Width, Height: size.Height}
		return nil
	})

	var slides []node.Slide
	documentAttempt(c, "slides", func() error {
		slides = doc.Slides()
		return nil
	})
	out.Slides = make([]schema.Slide, 0, len(slides))
	for i, sl := range slides {
		if err := ctx.Err(); err != nil {
			cv.setState(Idle)
			log.Warn("conversion cancelled", "slide", i, "error", err)
			return nil, nil, &ConversionError{Op: "convert", Err: err}
		}
		c.EnterSlide(i)
		out.Slides = append(out.Slides, cv.slide(sl, i, c))
	}

	cv.setState(Aggregating)
	c.EnterSlide(-1)
	if c.Options.IncludeMetadata {
		out.DocumentProperties = documentProperties(doc, c)
	}
	if c.Options.IncludeAssets {
		documentAttempt(c, "assets", func() error {
			out.Assets = assets(doc)
			return nil
		})
	}

	errs := c.Errors()
	stats := &Stats{
		RequestID:        c.RequestID,
		SlideCount:       len(out.Slides),
		ShapeCount:       c.ShapeCount(),
		ImageCount:       c.ImageCount(),
		AnimationCount:   c.AnimationCount(),
		ErrorCount:       len(errs),
		ConversionTimeMs: time.Since(start).Milliseconds(),
		Errors:           errs,
	}
	cv.setState(Completed)

	log.Info("conversion complete",
		"slides", stats.SlideCount,
		"shapes", stats.ShapeCount,
		"images", stats.ImageCount,
		"animations", stats.AnimationCount,
		"errors", stats.ErrorCount,
		"elapsed_ms", stats.ConversionTimeMs)
	return out, stats, nil
}

// slide converts one slide. Each slide-level attribute is read on its own
// so that one bad part does not hide the others.
func (cv *Converter) slide(sl node.Slide, index int, c *extract.Context) schema.Slide {
	out := schema.Slide{Index: index, Shapes: make([]schema.Shape, 0)}
	var failed []string

	attempt := func(name string, fn func() error) {
		start := time.Now()
		if err := protect(fn); err != nil {
			c.ReportError("slide/"+name, err, time.Since(start))
			c.Logger.Warn("slide attribute failed", "slide", index, "attribute", name, "error", err)
			failed = append(failed, name+": "+err.Error())
		}
	}

	attempt("attributes", func() error {
		out.Name = sl.Name()
		out.Hidden = sl.Hidden()
		out.Notes = sl.Notes()
		return nil
	})
	attempt("background", func() error {
		bg, err := sl.Background()
		out.Background = extract.FillOf(bg)
		return err
	})
	attempt("transition", func() error {
		tr, err := sl.Transition()
		if err != nil || tr == nil {
			return err
		}
		out.Transition = &schema.Transition{
			Type:           tr.Type,
			Speed:          tr.Speed,
			DurationMs:     tr.Duration.Milliseconds(),
			AdvanceOnClick: tr.AdvanceOnClick,
			AdvanceAfterMs: tr.AdvanceAfter.Milliseconds(),
		}
		return nil
	})

	var shapes []node.Shape
	attempt("shapes", func() error {
		var err error
		shapes, err = sl.Shapes()
		return err
	})
	for _, n := range shapes {
		c.CountShape()
		out.Shapes = append(out.Shapes, cv.registry.Dispatch(n, c))
	}

	if c.Options.IncludeAnimations {
		attempt("animations", func() error {
			anims, err := sl.Animations()
			if err != nil {
				return err
			}
			out.Animations = make([]schema.Animation, 0, len(anims))
			for _, a := range anims {
				out.Animations = append(out.Animations, schema.Animation{
					ShapeID:    a.ShapeID,
					Class:      a.Class,
					PresetID:   a.PresetID,
					DurationMs: a.Duration.Milliseconds(),
					DelayMs:    a.Delay.Milliseconds(),
					Trigger:    a.Trigger,
				})
			}
			return nil
		})
		c.CountAnimations(len(out.Animations))
	}

	if c.Options.IncludeComments {
		attempt("comments", func() error {
			comments, err := sl.Comments()
			if err != nil {
				return err
			}
			out.Comments = make([]schema.Comment, 0, len(comments))
			for _, cm := range comments {
				out.Comments = append(out.Comments, schema.Comment{
					Author:   cm.Author,
					Initials: cm.Initials,
					Text:     cm.Text,
					Created:  timePtr(cm.Created),
					X:        cm.X,
					Y:        cm.Y,
				})
			}
			return nil
		})
	}

	out.Error = strings.Join(failed, "; ")
	return out
}

// protect runs fn, turning a panic into a *extract.PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &extract.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

// documentAttempt runs a document-level read and records its failure as a
// "document/<name>" error.
func documentAttempt(c *extract.Context, name string, fn func() error) bool {
	start := time.Now()
	if err := protect(fn); err != nil {
		c.ReportError("document/"+name, err, time.Since(start))
		c.Logger.Warn("document attribute failed", "attribute", name, "error", err)
		return false
	}
	return true
}

func documentProperties(doc node.Document, c *extract.Context) *schema.DocumentProperties {
	var p node.Properties
	if !documentAttempt(c, "properties", func() (err error) {
		p, err = doc.Properties()
		return err
	}) {
		return nil
	}
	return &schema.DocumentProperties{
		Title:          p.Title,
		Subject:        p.Subject,
		Author:         p.Author,
		Keywords:       p.Keywords,
		Description:    p.Description,
		Category:       p.Category,
		LastModifiedBy: p.LastModifiedBy,
		Revision:       p.Revision,
		Created:        timePtr(p.Created),
		Modified:       timePtr(p.Modified),
		Application:    p.Application,
		AppVersion:     p.AppVersion,
		Company:        p.Company,
		SlideCount:     p.SlideCount,
		HiddenSlides:   p.HiddenSlides,
		NotesCount:     p.NotesCount,
	}
}

// digest streams an asset through BLAKE2b-256 and returns the hex sum and
// the number of bytes read.
func digest(a node.Asset) (string, int64, error) {
	rc, err := a.Open()
	if err != nil {
		return "", 0, err
	}
	defer rc.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, rc)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// assets lists the media parts with their BLAKE2b-256 digests. A part that
// cannot be read is listed with its error.
func assets(doc node.Document) []schema.Asset {
	list := doc.Assets()
	out := make([]schema.Asset, 0, len(list))
	for _, a := range list {
		as := schema.Asset{
			ID:          AssetID(a.Path),
			Path:        a.Path,
			ContentType: a.ContentType,
			Size:        a.Size,
		}
		if a.Open == nil {
			as.Error = "no content"
			out = append(out, as)
			continue
		}
		var sum string
		var size int64
		err := protect(func() (err error) {
			sum, size, err = digest(a)
			return err
		})
		if err != nil {
			as.Error = err.Error()
		} else {
			as.Digest = sum
			as.Size = size
		}
		out = append(out, as)
	}
	return out
}

// AssetID returns the id of the asset stored at part path p. Picture
// shapes name their asset by the same part path.
func AssetID(p string) string {
	return path.Base(p)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
