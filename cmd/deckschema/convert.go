package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/deckschema/convert"
	"github.com/tsawler/deckschema/engine"
	"github.com/tsawler/deckschema/internal/config"
	"github.com/tsawler/deckschema/schema"
)

func convertCmd() *cobra.Command {
	var configPath string
	var out string
	var jobs int
	var metadata, assets, animations, comments, images, ocr bool
	var ocrLang string
	var compact bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "convert <file.pptx>...",
		Short: "Convert presentations to Universal Schema JSON",
		Long: "Convert one or more presentations. A single input without --out is written\n" +
			"to stdout; otherwise each input becomes <name>.json in --out, or next to\n" +
			"the input when --out is not set.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(); err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.OutDir = out
			}
			if flags.Changed("jobs") {
				cfg.Jobs = jobs
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("compact") {
				cfg.Indent = !compact
			}
			if flags.Changed("ocr-lang") {
				cfg.OCR.Languages = ocrLang
			}
			toggles := []struct {
				flag string
				src  bool
				dst  *bool
			}{
				{"metadata", metadata, &cfg.Extract.IncludeMetadata},
				{"assets", assets, &cfg.Extract.IncludeAssets},
				{"animations", animations, &cfg.Extract.IncludeAnimations},
				{"comments", comments, &cfg.Extract.IncludeComments},
				{"images", images, &cfg.Extract.ExtractImages},
				{"ocr", ocr, &cfg.OCR.Enabled},
			}
			for _, tg := range toggles {
				if flags.Changed(tg.flag) {
					*tg.dst = tg.src
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger(cmd.ErrOrStderr())
			eng := engine.New(engine.Config{
				OCRLanguages: cfg.OCR.Languages,
				DisableOCR:   !cfg.OCR.Enabled,
				Logger:       logger,
			})
			defer eng.Close()
			if cfg.OCR.Enabled && !eng.OCRAvailable() {
				logger.Warn("OCR requested but not available in this build")
			}

			cv := convert.New(eng, convert.WithLogger(logger))
			opts := cfg.Options()
			toStdout := len(args) == 1 && cfg.OutDir == ""

			if cfg.OutDir != "" {
				if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.Jobs)
			for _, path := range args {
				g.Go(func() error {
					s, stats, err := cv.ConvertFile(ctx, path, opts)
					if err != nil {
						return err
					}
					data, err := encode(s, cfg.Indent)
					if err != nil {
						return fmt.Errorf("encode %s: %w", path, err)
					}

					if toStdout {
						_, err = cmd.OutOrStdout().Write(data)
						return err
					}
					dest := outputPath(path, cfg.OutDir)
					if err := os.WriteFile(dest, data, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", dest, err)
					}
					logger.Info("wrote schema",
						"input", path,
						"output", dest,
						"slides", stats.SlideCount,
						"shapes", stats.ShapeCount,
						"errors", stats.ErrorCount)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: stdout for one file, else next to each input)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "number of files converted concurrently")
	cmd.Flags().BoolVar(&metadata, "metadata", false, "include document properties, chart axes and plot areas")
	cmd.Flags().BoolVar(&assets, "assets", false, "list embedded media with digests")
	cmd.Flags().BoolVar(&animations, "animations", false, "include slide animations")
	cmd.Flags().BoolVar(&comments, "comments", false, "include reviewer comments")
	cmd.Flags().BoolVar(&images, "images", false, "extract picture bytes and dimensions")
	cmd.Flags().BoolVar(&ocr, "ocr", false, "run OCR over pictures (implies --images; needs an ocr build)")
	cmd.Flags().StringVar(&ocrLang, "ocr-lang", "eng", "OCR languages, e.g. eng+fra")
	cmd.Flags().BoolVar(&compact, "compact", false, "write compact JSON")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	return cmd
}

func encode(s *schema.Schema, indent bool) ([]byte, error) {
	if indent {
		data, err := json.MarshalIndent(s, "", "  ")
		return append(data, '\n'), err
	}
	data, err := json.Marshal(s)
	return append(data, '\n'), err
}

// outputPath returns <dir>/<name>.json, with dir defaulting to the input's
// directory.
func outputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".json"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
