// Package deckschema provides a fluent API for converting presentations
// into the Universal Schema.
//
// Basic usage:
//
//	s, warnings, err := deckschema.Open("deck.pptx").Schema(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", deckschema.FormatWarnings(warnings))
//	}
//
// With options:
//
//	s, stats, err := deckschema.Open("deck.pptx").
//	    IncludeMetadata().
//	    IncludeAnimations().
//	    ExtractImages().
//	    Convert(ctx)
//
// For advanced use cases, the lower-level convert and extract packages are
// also available.
package deckschema

import (
	"fmt"
	"strings"

	"github.com/tsawler/deckschema/extract"
	"github.com/tsawler/deckschema/format"
	"github.com/tsawler/deckschema/node"
)

// Warning is a non-fatal failure recorded while extracting one node.
type Warning = extract.NodeError

// Open returns an Extractor for the presentation at filename. The file is
// opened by the first terminal operation and closed when it returns.
//
// Example:
//
//	s, _, err := deckschema.Open("deck.pptx").Schema(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already-opened document, such
// as a *pptx.Reader or a synthetic node graph.
// Note: The caller is responsible for closing the document.
//
// Example:
//
//	r, err := pptx.Open("deck.pptx")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	s, _, err := deckschema.FromDocument(r).Schema(ctx)
func FromDocument(doc node.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		ownsDoc: false,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := deckschema.Must(deckschema.Open("deck.pptx").SlideCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustSchema is a helper that wraps a call to Schema() or JSON() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	s := deckschema.MustSchema(deckschema.Open("deck.pptx").Schema(ctx))
func MustSchema[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	var sb strings.Builder
	for i, w := range warnings {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s", w.Error())
	}
	return sb.String()
}
