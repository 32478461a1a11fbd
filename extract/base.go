package extract

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

// canHandle calls e.CanHandle, treating a panic as a refusal.
func canHandle(e Extractor, n node.Shape) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return e.CanHandle(n)
}

// hasType reports whether the native type of n is one of types.
func hasType(n node.Shape, types []node.Type) bool {
	t := nodeType(n)
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

func nodeType(n node.Shape) (t node.Type) {
	defer func() {
		if recover() != nil {
			t = ""
		}
	}()
	return n.Type()
}

func nodeID(n node.Shape) (id int) {
	defer func() {
		if recover() != nil {
			id = 0
		}
	}()
	return n.ID()
}

func nodeName(n node.Shape) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	return n.Name()
}

// run executes fn at the extractor boundary: it recovers panics, measures
// elapsed time from entry and logs the outcome.
func run(name string, n node.Shape, c *Context, fn func() (*schema.Shape, error)) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = Failure(nil, &PanicError{Value: r, Stack: debug.Stack()}, time.Since(start))
		}
		logResult(c, name, n, res)
	}()

	s, err := fn()
	if err != nil {
		return Failure(s, err, time.Since(start))
	}
	return Success(s, time.Since(start))
}

func logResult(c *Context, name string, n node.Shape, res Result) {
	if res.OK() {
		c.Logger.Debug("shape extracted",
			"extractor", name,
			"slide", c.SlideIndex(),
			"shape_id", nodeID(n),
			"elapsed_ms", res.Elapsed.Milliseconds())
		return
	}
	c.Logger.Warn("shape extraction failed",
		"extractor", name,
		"slide", c.SlideIndex(),
		"shape_id", nodeID(n),
		"error", res.Err,
		"elapsed_ms", res.Elapsed.Milliseconds())
}

// isolate runs one slice of a compound extraction. A failure or panic is
// recorded on the context and def is returned in its place.
func isolate[T any](c *Context, name string, def T, fn func() (T, error)) T {
	start := time.Now()
	v, err := func() (v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		return fn()
	}()
	if err != nil {
		elapsed := time.Since(start)
		c.ReportError(name, err, elapsed)
		c.Logger.Warn("sub-extraction failed",
			"extractor", name,
			"slide", c.SlideIndex(),
			"shape", c.ShapePath(),
			"error", err,
			"elapsed_ms", elapsed.Milliseconds())
		return def
	}
	return v
}

// commonShape fills the attributes shared by every shape kind.
func commonShape(n node.Shape, st schema.ShapeType) (*schema.Shape, error) {
	s := &schema.Shape{
		ID:         n.ID(),
		Name:       n.Name(),
		ShapeType:  st,
		NativeType: string(n.Type()),
	}

	xf, err := n.Transform()
	if err != nil {
		return s, fmt.Errorf("transform: %w", err)
	}
	s.Geometry = GeometryOf(xf)

	if d, ok := n.(node.DescribedShape); ok {
		s.Description = d.Description()
		s.PresetGeometry = d.PresetGeometry()
	}

	if styled, ok := n.(node.StyledShape); ok {
		fill, err := styled.Fill()
		if err != nil {
			return s, fmt.Errorf("fill: %w", err)
		}
		s.Fill = FillOf(fill)

		line, err := styled.Line()
		if err != nil {
			return s, fmt.Errorf("line: %w", err)
		}
		s.Line = lineOf(line)

		effects, err := styled.Effects()
		if err != nil {
			return s, fmt.Errorf("effects: %w", err)
		}
		s.Effects = effectsOf(effects)
	}
	return s, nil
}

// Placeholder returns the Unknown shape emitted for a node whose
// extraction failed. It reads only what the node still gives up without
// failing.
func Placeholder(n node.Shape, err error) schema.Shape {
	s := schema.Shape{
		ID:         nodeID(n),
		Name:       nodeName(n),
		ShapeType:  schema.ShapeTypeUnknown,
		NativeType: string(nodeType(n)),
	}
	if err != nil {
		s.Error = err.Error()
	}
	func() {
		defer func() { _ = recover() }()
		if xf, err := n.Transform(); err == nil {
			s.Geometry = GeometryOf(xf)
		}
	}()
	return s
}

// GeometryOf converts a node transform.
func GeometryOf(xf node.Transform) schema.Geometry {
	return schema.Geometry{
		X:        xf.X,
		Y:        xf.Y,
		Width:    xf.Width,
		Height:   xf.Height,
		Rotation: xf.Rotation,
		FlipH:    xf.FlipH,
		FlipV:    xf.FlipV,
	}
}

// FillOf converts a node fill. A nil fill stays nil.
func FillOf(f *node.Fill) *schema.Fill {
	if f == nil {
		return nil
	}
	out := &schema.Fill{
		Type:   f.Type,
		Color:  f.Color,
		Alpha:  f.Alpha,
		Angle:  f.Angle,
		Target: f.Target,
	}
	for _, st := range f.Stops {
		out.Stops = append(out.Stops, schema.GradientStop{Position: st.Position, Color: st.Color})
	}
	return out
}

func lineOf(l *node.Line) *schema.Line {
	if l == nil {
		return nil
	}
	return &schema.Line{Width: l.Width, Color: l.Color, Dash: l.Dash, None: l.None}
}

func effectsOf(effects []node.Effect) []schema.Effect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]schema.Effect, len(effects))
	for i, e := range effects {
		out[i] = schema.Effect{Type: e.Type, Color: e.Color, Radius: e.Radius, Distance: e.Distance}
	}
	return out
}
