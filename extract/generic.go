package extract

import (
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// GenericExtractor accepts any node and keeps only the common attributes.
// Its shapes are Unknown with the native tag in NativeType.
type GenericExtractor struct{}

func (e *GenericExtractor) Info() Info {
	return Info{Name: "generic", Version: "1.0", Complexity: Simple}
}

func (e *GenericExtractor) CanHandle(n node.Shape) bool { return n != nil }

func (e *GenericExtractor) Extract(n node.Shape, c *Context) Result {
	return run("generic", n, c, func() (*schema.Shape, error) {
		if n == nil {
			return nil, ErrCannotHandle
		}
		return commonShape(n, schema.ShapeTypeUnknown)
	})
}
