package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse saved layouts",
		Long: `Browse layout JSON files in a directory and inspect the selected one:

  roomforge browse --dir out/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadLayoutEntries(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No layout files found in %s", dir)
				printNextStep("Generate one", "roomforge generate \"plot size 40x30 feet, 2 bedrooms\"")
				return nil
			}

			model := NewLayoutListModel(entries)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return fmt.Errorf("run browser: %w", err)
			}

			selected := final.(LayoutListModel).Selected
			if selected == nil {
				return nil
			}

			printNewline()
			printKeyValue("File", selected.Path)
			printKeyValue("Status", selected.Layout.Status)
			printKeyValue("Seed", fmt.Sprintf("%d", selected.Layout.Seed))
			printLayoutSummary(selected.Layout)
			printNewline()
			printNextStep("Render", fmt.Sprintf("roomforge render %s --format png", selected.Path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to scan for layout JSON files")

	return cmd
}

// loadLayoutEntries scans dir for layout JSON files, newest first.
// Files that fail to parse as layouts are skipped silently so the
// directory can hold other JSON too.
func loadLayoutEntries(dir string) ([]LayoutEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	var entries []LayoutEntry
	for _, path := range paths {
		l, err := layout.ReadFile(path)
		if err != nil {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, LayoutEntry{Path: path, Layout: l, Modified: info.ModTime()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}
