package deckschema

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tsawler/deckschema/convert"
	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/extract"
	"github.com/tsawler/deckschema/format"
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// Extractor provides a fluent interface for converting presentations.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Document (opened lazily from filename, or supplied)
	doc     node.Document
	closer  func() error
	ownsDoc bool

	// Configuration
	options ExtractOptions
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		format:   e.format,
		doc:      e.doc,
		closer:   e.closer,
		ownsDoc:  e.ownsDoc,
		options:  e.options.clone(),
	}
}

func (e *Extractor) engine() *engine.Engine {
	if e.options.engine != nil {
		return e.options.engine
	}
	return engine.Default()
}

// ensureDocument opens the document if not already open.
func (e *Extractor) ensureDocument() error {
	if e.doc != nil {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	if e.format != format.Unknown && !e.format.Supported() {
		return fmt.Errorf("%w: %s", engine.ErrUnsupportedFormat, e.format)
	}

	r, err := e.engine().Open(e.filename)
	if err != nil {
		return fmt.Errorf("%w: %w", convert.ErrDocumentOpen, err)
	}
	e.doc = r
	e.closer = r.Close
	e.ownsDoc = true
	return nil
}

// Close releases the document if the Extractor opened it.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsDoc && e.closer != nil {
		err := e.closer()
		e.doc = nil
		e.closer = nil
		e.ownsDoc = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// IncludeAssets lists embedded media with their digests.
//
// Example:
//
//	s, _, err := deckschema.Open("deck.pptx").IncludeAssets().Schema(ctx)
func (e *Extractor) IncludeAssets() *Extractor {
	newExt := e.clone()
	newExt.options.extract.IncludeAssets = true
	return newExt
}

// IncludeMetadata adds document properties, chart axes and plot areas.
func (e *Extractor) IncludeMetadata() *Extractor {
	newExt := e.clone()
	newExt.options.extract.IncludeMetadata = true
	return newExt
}

// IncludeAnimations adds slide animations.
func (e *Extractor) IncludeAnimations() *Extractor {
	newExt := e.clone()
	newExt.options.extract.IncludeAnimations = true
	return newExt
}

// IncludeComments adds reviewer comments.
func (e *Extractor) IncludeComments() *Extractor {
	newExt := e.clone()
	newExt.options.extract.IncludeComments = true
	return newExt
}

// ExtractImages reads picture bytes: pixel size, byte size and base64 data.
func (e *Extractor) ExtractImages() *Extractor {
	newExt := e.clone()
	newExt.options.extract.ExtractImages = true
	return newExt
}

// OCRImages runs OCR over extracted pictures. It implies ExtractImages and
// only has an effect when the binary is built with the ocr tag.
//
// Example:
//
//	s, _, err := deckschema.Open("scan.pptx").OCRImages().Schema(ctx)
func (e *Extractor) OCRImages() *Extractor {
	newExt := e.clone()
	newExt.options.extract.ExtractImages = true
	newExt.options.extract.OCRImages = true
	return newExt
}

// WithOptions replaces all extraction toggles at once.
func (e *Extractor) WithOptions(opts extract.Options) *Extractor {
	newExt := e.clone()
	newExt.options.extract = opts.Normalize()
	return newExt
}

// WithEngine uses eng instead of the shared default engine.
func (e *Extractor) WithEngine(eng *engine.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.engine = eng
	return newExt
}

// WithLogger sets the logger used during conversion.
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// Options returns the extraction toggles currently configured.
func (e *Extractor) Options() extract.Options {
	return e.options.extract
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Convert runs the conversion and returns the schema with its statistics.
// The Extractor closes a document it opened itself.
//
// Example:
//
//	s, stats, err := deckschema.Open("deck.pptx").IncludeMetadata().Convert(ctx)
func (e *Extractor) Convert(ctx context.Context) (*schema.Schema, *convert.Stats, error) {
	defer e.Close()

	if err := e.ensureDocument(); err != nil {
		return nil, nil, &convert.ConversionError{Op: "open", Path: e.filename, Err: err}
	}

	cv := convert.New(e.engine(), convert.WithLogger(e.options.logger))
	out, stats, err := cv.Convert(ctx, e.doc, e.options.extract)
	if err != nil {
		return nil, nil, err
	}
	if e.filename != "" {
		out.Source = e.filename
	}
	return out, stats, nil
}

// Schema runs the conversion and returns the schema with the per-node
// failures as warnings.
//
// Example:
//
//	s, warnings, err := deckschema.Open("deck.pptx").Schema(ctx)
//	if len(warnings) > 0 {
//	    log.Println(deckschema.FormatWarnings(warnings))
//	}
func (e *Extractor) Schema(ctx context.Context) (*schema.Schema, []Warning, error) {
	out, stats, err := e.Convert(ctx)
	if err != nil {
		return nil, nil, err
	}
	return out, stats.Errors, nil
}

// JSON runs the conversion and returns the indented schema JSON.
func (e *Extractor) JSON(ctx context.Context) ([]byte, []Warning, error) {
	out, warnings, err := e.Schema(ctx)
	if err != nil {
		return nil, nil, err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, warnings, fmt.Errorf("encode schema: %w", err)
	}
	return data, warnings, nil
}

// SlideCount returns the number of slides without converting them.
func (e *Extractor) SlideCount() (int, error) {
	defer e.Close()
	if err := e.ensureDocument(); err != nil {
		return 0, err
	}
	return len(e.doc.Slides()), nil
}
