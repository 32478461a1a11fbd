package extract

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var errNoShape = errors.New("extractor returned no shape")

// Registry holds extractors in priority order, most specific first, with a
// generic fallback that accepts any node.
type Registry struct {
	extractors []Extractor
	fallback   Extractor
}

// NewRegistry returns a registry with the built-in extractors.
func NewRegistry() *Registry {
	r := &Registry{fallback: &GenericExtractor{}}
	r.extractors = []Extractor{
		NewChartExtractor(),
		&TableExtractor{},
		&PictureExtractor{},
		&GroupExtractor{registry: r},
		&TextExtractor{},
	}
	return r
}

// Register adds e after the existing extractors and before the fallback.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extractors returns the extractors in lookup order, fallback last.
func (r *Registry) Extractors() []Extractor {
	out := make([]Extractor, 0, len(r.extractors)+1)
	out = append(out, r.extractors...)
	return append(out, r.fallback)
}

// Lookup returns the first extractor that accepts n.
func (r *Registry) Lookup(n node.Shape) Extractor {
	for _, e := range r.extractors {
		if canHandle(e, n) {
			return e
		}
	}
	return r.fallback
}

// Dispatch extracts n and always returns a shape. Failures are recorded on
// c and replaced by the typed default the extractor returned, or by an
// Unknown placeholder.
func (r *Registry) Dispatch(n node.Shape, c *Context) schema.Shape {
	if nodeType(n) == node.TypePicture {
		c.CountImage()
	}

	c.pushShape(nodeID(n))
	defer c.popShape()

	e := r.Lookup(n)
	res := extractSafely(e, n, c)
	if res.OK() && res.Shape == nil {
		res.Err = errNoShape
	}
	if res.OK() {
		return *res.Shape
	}

	c.ReportError(extractorName(e), res.Err, res.Elapsed)
	if res.Shape != nil {
		s := *res.Shape
		s.Error = res.Err.Error()
		return s
	}
	return Placeholder(n, res.Err)
}

// extractSafely guards extractors registered from outside this package.
func extractSafely(e Extractor, n node.Shape, c *Context) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Failure(nil, &PanicError{Value: r, Stack: debug.Stack()}, time.Since(start))
		}
	}()
	return e.Extract(n, c)
}

func extractorName(e Extractor) (name string) {
	defer func() {
		if recover() != nil {
			name = fmt.Sprintf("%T", e)
		}
	}()
	return e.Info().Name
}

func (r *Registry) String() string {
	names := make([]string, 0, len(r.extractors)+1)
	for _, e := range r.Extractors() {
		names = append(names, extractorName(e))
	}
	return fmt.Sprint(names)
}
