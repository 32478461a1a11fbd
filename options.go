package deckschema

import (
	"log/slog"

	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/extract"
)

// ExtractOptions holds the configuration of an Extractor.
type ExtractOptions struct {
	// What to extract
	extract extract.Options

	// Collaborators
	engine *engine.Engine
	logger *slog.Logger
}

// defaultOptions returns the default extraction options: core schema only,
// shared engine, default logger.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		extract: extract.Options{},
		engine:  nil, // nil means engine.Default()
		logger:  nil, // nil means slog.Default()
	}
}

// clone returns a copy of the options. Every field is a value or a shared
// read-only collaborator, so a plain copy is deep enough.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		extract: o.extract,
		engine:  o.engine,
		logger:  o.logger,
	}
}
