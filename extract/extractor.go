// Package extract turns document nodes into Universal Schema shapes.
//
// Every node kind has an Extractor. A Registry picks the first extractor
// whose CanHandle accepts the node, with a generic fallback last, and
// Dispatch guarantees that exactly one schema.Shape comes back per node:
// the extracted shape on success, a typed default or an Unknown
// placeholder on failure. Neither CanHandle nor Extract lets a panic
// escape.
package extract

import (
	"errors"
	"fmt"

	"github.com/tsawler/deckschema/node"
)

// ErrCannotHandle is returned when an extractor is handed a node it does
// not accept.
var ErrCannotHandle = errors.New("extractor cannot handle node")

// Complexity classifies extractors for diagnostics.
type Complexity int

const (
	// Simple extractors read a single node.
	Simple Complexity = iota
	// Complex extractors delegate to sub-extractors.
	Complex
)

func (c Complexity) String() string {
	switch c {
	case Simple:
		return "simple"
	case Complex:
		return "complex"
	default:
		return fmt.Sprintf("Complexity(%d)", int(c))
	}
}

// Info describes an extractor.
type Info struct {
	Name       string
	Version    string
	Types      []node.Type
	Complexity Complexity
}

// Extractor converts one kind of node.
type Extractor interface {
	Info() Info
	// CanHandle reports whether the extractor accepts n. It has no side
	// effects.
	CanHandle(n node.Shape) bool
	// Extract converts n. Failures are returned in the Result, never
	// panicked.
	Extract(n node.Shape, c *Context) Result
}

// PanicError wraps a value recovered from a panicking extractor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
