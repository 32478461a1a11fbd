package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recognizer runs OCR over encoded image bytes.
type Recognizer interface {
	Recognize(data []byte) (string, error)
}

// NodeError records a non-fatal failure while extracting one node.
type NodeError struct {
	Slide int
	// Path is the chain of shape ids from the slide down to the node,
	// joined with "/".
	Path      string
	Extractor string
	Message   string
	Elapsed   time.Duration
}

func (e NodeError) Error() string {
	return fmt.Sprintf("slide %d shape %s (%s): %s", e.Slide, e.Path, e.Extractor, e.Message)
}

// Context carries the state of one extraction run. It is owned by a single
// run and must not be shared between goroutines.
type Context struct {
	Options   Options
	RequestID string
	Logger    *slog.Logger
	// OCR is used for picture text when Options.OCRImages is set. It may be
	// nil.
	OCR Recognizer

	slide      int
	path       []int
	shapes     int
	images     int
	animations int
	errors     []NodeError
}

// NewContext returns a context for one run. An empty requestID gets a
// random UUID; a nil logger means slog.Default().
func NewContext(opts Options, logger *slog.Logger, requestID string) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Context{
		Options:   opts.Normalize(),
		RequestID: requestID,
		Logger:    logger.With("request_id", requestID),
		slide:     -1,
	}
}

// EnterSlide marks the start of the slide at index.
func (c *Context) EnterSlide(index int) {
	c.slide = index
	c.path = c.path[:0]
}

// SlideIndex returns the index of the slide being traversed.
func (c *Context) SlideIndex() int { return c.slide }

func (c *Context) pushShape(id int) { c.path = append(c.path, id) }

func (c *Context) popShape() {
	if len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// ShapePath returns the current shape path, e.g. "4/7" for shape 7 inside
// group 4.
func (c *Context) ShapePath() string {
	parts := make([]string, len(c.path))
	for i, id := range c.path {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "/")
}

// CountShape adds one top-level shape.
func (c *Context) CountShape() { c.shapes++ }

// CountImage adds one picture entity.
func (c *Context) CountImage() { c.images++ }

// CountAnimations adds n animations. Negative values are ignored.
func (c *Context) CountAnimations(n int) {
	if n > 0 {
		c.animations += n
	}
}

// ShapeCount returns the number of top-level shapes seen.
func (c *Context) ShapeCount() int { return c.shapes }

// ImageCount returns the number of picture entities seen.
func (c *Context) ImageCount() int { return c.images }

// AnimationCount returns the number of animations extracted.
func (c *Context) AnimationCount() int { return c.animations }

// ReportError records a node failure at the current slide and shape path.
func (c *Context) ReportError(extractor string, err error, elapsed time.Duration) {
	c.errors = append(c.errors, NodeError{
		Slide:     c.slide,
		Path:      c.ShapePath(),
		Extractor: extractor,
		Message:   err.Error(),
		Elapsed:   elapsed,
	})
}

// Errors returns the recorded node failures in order.
func (c *Context) Errors() []NodeError {
	out := make([]NodeError, len(c.errors))
	copy(out, c.errors)
	return out
}
