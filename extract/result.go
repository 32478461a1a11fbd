package extract

import (
	"time"

	"github.com/tsawler/deckschema/schema"
)

// Result is the outcome of extracting one shape.
type Result struct {
	// Shape is the extracted shape. On failure it may hold a typed default
	// payload, or be nil.
	Shape   *schema.Shape
	Err     error
	Elapsed time.Duration
}

// OK reports whether the extraction succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Success returns a successful result.
func Success(s *schema.Shape, elapsed time.Duration) Result {
	return Result{Shape: s, Elapsed: elapsed}
}

// Failure returns a failed result. s may be nil.
func Failure(s *schema.Shape, err error, elapsed time.Duration) Result {
	return Result{Shape: s, Err: err, Elapsed: elapsed}
}
