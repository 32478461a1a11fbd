package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/deckschema/convert"
	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/extract"
	"github.com/tsawler/deckschema/schema"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.pptx>",
		Short: "Print a per-slide summary of shape types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(engine.Config{DisableOCR: true})
			defer eng.Close()

			s, stats, err := convert.New(eng).ConvertFile(cmd.Context(), args[0], extract.Options{IncludeMetadata: true})
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), s, stats)
		},
	}
	return cmd
}

func writeSummary(w io.Writer, s *schema.Schema, stats *convert.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLIDE\tNAME\tSHAPES\tTYPES")
	for _, sl := range s.Slides {
		name := sl.Name
		if sl.Hidden {
			name += " (hidden)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", sl.Index+1, name, len(sl.Shapes), typeSummary(sl.Shapes))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d slides, %d shapes, %d images, %d errors\n",
		stats.SlideCount, stats.ShapeCount, stats.ImageCount, stats.ErrorCount)
	for _, e := range stats.Errors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	return nil
}

// typeSummary renders shape type counts, e.g. "Chart 1, TextBox 2".
func typeSummary(shapes []schema.Shape) string {
	counts := make(map[string]int)
	for _, sh := range shapes {
		t := string(sh.ShapeType)
		if sh.ShapeType == schema.ShapeTypeUnknown && sh.NativeType != "" {
			t += "(" + sh.NativeType + ")"
		}
		counts[t]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}
