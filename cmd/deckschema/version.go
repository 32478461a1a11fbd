package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/schema"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deckschema %s (schema %s)\n", version, schema.Version)
			eng := engine.New(engine.Config{})
			defer eng.Close()
			if v := eng.OCRVersion(); v != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "ocr: tesseract %s\n", v)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "ocr: unavailable")
			}
		},
	}
}
