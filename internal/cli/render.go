package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		outDir  string
		formats string
		scale   float64
	)

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Re-render a stored layout into SVG, PNG or DOT",
		Long: `Render a previously generated layout JSON file into other formats
without re-running placement:

  roomforge render out/layout.json --format svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.ReadFile(args[0])
			if err != nil {
				return err
			}

			wanted := parseFormats(formats)
			if err := pipeline.ValidateFormats(wanted); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			opts := render.Options{Scale: scale}
			for _, format := range wanted {
				data, err := render.Render(l, format, opts)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				path := filepath.Join(outDir, base+"."+format)
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}

			printStats(len(l.Rooms), len(l.Violations), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "output formats (comma-separated: svg,png,dot,graph-svg,json)")
	cmd.Flags().Float64Var(&scale, "scale", render.DefaultScale, "pixels per foot")

	return cmd
}
