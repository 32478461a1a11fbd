package extract

import (
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var groupTypes = []node.Type{node.TypeGroup}

// GroupExtractor handles group shapes. Children go back through the
// registry, each isolated from its siblings, and keep their order.
type GroupExtractor struct {
	registry *Registry
}

func (e *GroupExtractor) Info() Info {
	return Info{Name: "group", Version: "1.0", Types: groupTypes, Complexity: Complex}
}

func (e *GroupExtractor) CanHandle(n node.Shape) bool {
	_, ok := n.(node.GroupShape)
	return ok && hasType(n, groupTypes)
}

func (e *GroupExtractor) Extract(n node.Shape, c *Context) Result {
	return run("group", n, c, func() (*schema.Shape, error) {
		gs, ok := n.(node.GroupShape)
		if !ok || !hasType(n, groupTypes) {
			return nil, ErrCannotHandle
		}
		s, err := commonShape(n, schema.ShapeTypeGroup)
		if err != nil {
			return nil, err
		}
		children, err := gs.Children()
		if err != nil {
			return nil, err
		}

		gp := &schema.GroupProperties{Shapes: make([]schema.Shape, 0, len(children))}
		for _, child := range children {
			gp.Shapes = append(gp.Shapes, e.registry.Dispatch(child, c))
		}
		s.GroupProperties = gp
		return s, nil
	})
}
