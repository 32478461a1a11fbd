// Package engine is the process-wide bridge to the native document engine.
//
// An Engine is initialized once and then shared by any number of
// concurrent conversions. It opens presentation files through the pptx
// package and owns the optional OCR client used for picture text.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/tsawler/deckschema/format"
	"github.com/tsawler/deckschema/ocr"
	"github.com/tsawler/deckschema/pptx"
)

// ErrUnsupportedFormat is returned when a file is not a PresentationML
// package.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Config configures an Engine.
type Config struct {
	// OCRLanguages is the "+" separated Tesseract language list. Empty
	// means English.
	OCRLanguages string
	// DisableOCR skips the OCR probe even when support is compiled in.
	DisableOCR bool
	Logger     *slog.Logger
}

// Engine opens documents and runs OCR. The zero value is not usable; use
// New or Default.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	once   sync.Once
	ocr    *ocr.Client
	ocrErr error
}

// New returns an engine. Initialization is deferred to the first use.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the shared process-wide engine.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New(Config{})
	})
	return defaultEngine
}

// Init initializes the engine. It is safe to call more than once and from
// several goroutines; only the first call does any work.
func (e *Engine) Init() {
	e.once.Do(func() {
		if e.cfg.DisableOCR {
			e.ocrErr = ocr.ErrOCRNotEnabled
			return
		}
		if !ocr.Enabled() {
			e.ocrErr = ocr.ErrOCRNotEnabled
			e.logger.Debug("ocr support not compiled in")
			return
		}
		client, err := ocr.New(e.cfg.OCRLanguages)
		if err != nil {
			e.ocrErr = err
			e.logger.Warn("ocr unavailable", "error", err)
			return
		}
		e.ocr = client
		e.logger.Debug("ocr ready", "tesseract", client.Version())
	})
}

// OCRAvailable reports whether picture OCR can run.
func (e *Engine) OCRAvailable() bool {
	e.Init()
	return e.ocr != nil
}

// OCRVersion returns the Tesseract version, or "" when OCR is unavailable.
func (e *Engine) OCRVersion() string {
	if !e.OCRAvailable() {
		return ""
	}
	return e.ocr.Version()
}

// Recognize runs OCR over encoded image bytes.
func (e *Engine) Recognize(data []byte) (string, error) {
	e.Init()
	if e.ocr == nil {
		return "", e.ocrErr
	}
	return e.ocr.RecognizeImage(data)
}

// Open detects the format of the file at path and opens it with the pptx
// engine. The caller must close the returned reader.
func (e *Engine) Open(path string) (*pptx.Reader, error) {
	e.Init()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if err := checkFormat(f, info.Size()); err != nil {
		return nil, err
	}
	return pptx.Open(path)
}

// OpenReader opens a presentation held in memory or any other random
// access source.
func (e *Engine) OpenReader(ra io.ReaderAt, size int64) (*pptx.Reader, error) {
	e.Init()
	if err := checkFormat(ra, size); err != nil {
		return nil, err
	}
	return pptx.NewReader(ra, size)
}

func checkFormat(ra io.ReaderAt, size int64) error {
	f, err := format.DetectFromReader(ra, size)
	if err != nil {
		return fmt.Errorf("detecting format: %w", err)
	}
	if !f.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return nil
}

// Close releases the OCR client.
func (e *Engine) Close() error {
	if e.ocr != nil {
		return e.ocr.Close()
	}
	return nil
}
