package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/extract"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/program"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		programFile string
		configFile  string
		outDir      string
		formats     string
		seed        uint64
		anneal      bool
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate a floor plan from a description or program file",
		Long: `Generate a residential floor-plan layout.

Input is either a free-form description as the argument, or a structured
room program JSON file via --program:

  roomforge generate "plot size 40x30 feet, 3 bedrooms, kitchen and a hall"
  roomforge generate --program house.json --format svg,png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			raw, err := resolveRawProgram(cmd, args, programFile)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Program: raw,
				Seed:    seed,
				Anneal:  anneal,
				Formats: parseFormats(formats),
				Logger:  logger,
			}
			if cfg, err := pipeline.LoadConfig(configFile); err != nil {
				return err
			} else {
				cfg.Apply(&opts)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			spin := newSpinnerWithContext(cmd.Context(), "Placing rooms...")
			spin.Start()
			result, err := runner.Execute(cmd.Context(), opts)
			spin.Stop()
			if err != nil {
				return reportGenerateError(err)
			}
			prog.done(fmt.Sprintf("Generated layout with %d rooms", len(result.Layout.Rooms)))

			printLayoutSummary(result.Layout)
			printStats(len(result.Layout.Rooms), len(result.Layout.Violations), result.CacheInfo.GenerateHit)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			for _, format := range opts.Formats {
				path := filepath.Join(outDir, "layout."+format)
				if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			if !containsFormat(opts.Formats, pipeline.FormatJSON) {
				// Always keep the layout JSON next to the artifacts so render
				// and browse can pick it up later.
				path := filepath.Join(outDir, "layout.json")
				if err := layout.WriteFile(result.Layout, path); err != nil {
					return err
				}
				printFile(path)
			}

			printNewline()
			printNextStep("Re-render", fmt.Sprintf("roomforge render %s --format png", filepath.Join(outDir, "layout.json")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&programFile, "program", "p", "", "structured room program JSON file")
	cmd.Flags().StringVar(&configFile, "config", configPath(), "engine config TOML file")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output formats (comma-separated: svg,png,dot,graph-svg,json)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = default)")
	cmd.Flags().BoolVar(&anneal, "anneal", false, "run simulated annealing when local repair fails")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

// resolveRawProgram loads the program from --program or extracts it from the
// free-form description argument.
func resolveRawProgram(cmd *cobra.Command, args []string, programFile string) (program.RawProgram, error) {
	if programFile != "" {
		data, err := os.ReadFile(programFile)
		if err != nil {
			return program.RawProgram{}, fmt.Errorf("read program: %w", err)
		}
		var raw program.RawProgram
		if err := json.Unmarshal(data, &raw); err != nil {
			return program.RawProgram{}, fmt.Errorf("parse program %s: %w", programFile, err)
		}
		return raw, nil
	}
	if len(args) == 0 {
		return program.RawProgram{}, fmt.Errorf("provide a description or --program file")
	}
	return extract.NewKeywordExtractor().Extract(cmd.Context(), args[0])
}

// reportGenerateError prints infeasibility details before returning the error.
func reportGenerateError(err error) error {
	var infeasible *program.InfeasibleProgramError
	if errors.As(err, &infeasible) {
		printError("Program does not fit the lot")
		printDetail("requested %.0f ft², buildable %.0f ft² (short %.0f ft²)",
			infeasible.RequestedArea, infeasible.AvailableArea, infeasible.Shortfall())
		printDetail("%s", infeasible.Suggestion())
	}
	return err
}

// printLayoutSummary prints one line per placed room.
func printLayoutSummary(l layout.Layout) {
	switch l.Status {
	case layout.StatusOK:
		printSuccess("Layout valid")
	case layout.StatusPartial:
		printWarning("Partial layout: %s", l.Message)
	default:
		printError("Layout failed: %s", strings.Join(append([]string{l.Message}, l.Violations...), "; "))
	}
	for _, r := range l.Rooms {
		printDetail("%-18s %4.0f×%-4.0f at (%.0f, %.0f)  %s", r.Name, r.Width, r.Height, r.X, r.Y, r.Zone)
	}
}

func containsFormat(formats []string, f string) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}
