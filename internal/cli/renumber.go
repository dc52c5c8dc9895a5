package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	renumberRecursive bool
	renumberDryRun    bool
)

var renumberCmd = &cobra.Command{
	Use:   "renumber [dir]",
	Short: "Reassign canonical ordinals (10, 20, 30, ...) to a directory's items",
	Long: `Renumber reassigns every sequenced item in a directory to the canonical
spaced ordinals: 10, 20, 30, and so on, rendered with five-digit padding.
Relative order is always preserved; only the numbers change.

A directory whose items already carry canonical ordinals is left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getWorkspacePath()
		if len(args) == 1 {
			dir = args[0]
		}

		var results []renumberData
		var warnings []Warning
		if err := runRenumber(dir, &results, &warnings, false); err != nil {
			return err
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(results, warnings)
		}
		return nil
	},
}

type renumberData struct {
	Dir     string `json:"dir"`
	Renamed int    `json:"renamed"`
	DryRun  bool   `json:"dry_run,omitempty"`
}

func runRenumber(dir string, results *[]renumberData, warnings *[]Warning, nested bool) error {
	items, err := ordinal.Scan(dir)
	if err != nil {
		// A directory the user named must be readable; one reached during
		// recursion is skipped with a warning.
		if nested && errors.Is(err, ordinal.ErrDirectoryUnreadable) {
			*warnings = append(*warnings, Warning{
				Code:    "DIRECTORY_SKIPPED",
				Message: err.Error(),
				Ref:     dir,
			})
			if !isJSONOutput() {
				fmt.Fprintln(os.Stderr, ui.Warningf("skipping %s: %v", dir, err))
			}
			return nil
		}
		return failErr(err, "Check the directory exists and is readable")
	}

	steps, err := ordinal.RenumberPlan(items)
	if err != nil {
		return failErr(err, "Rename one of the colliding items first")
	}

	if renumberDryRun {
		printPlan(steps)
	} else if len(steps) > 0 {
		if err := renametx.Run(steps); err != nil {
			return failErr(err, "")
		}
	}

	// Plain folders visited during recursion stay quiet; only directories
	// that hold sequenced items (and the one the user named) are reported.
	if len(items) > 0 || !nested {
		*results = append(*results, renumberData{Dir: dir, Renamed: len(steps), DryRun: renumberDryRun})
		if !isJSONOutput() {
			switch {
			case len(steps) == 0:
				fmt.Println(ui.Successf("%s already canonical", ui.FilePath(dir)))
			case renumberDryRun:
				fmt.Println(ui.Hint(fmt.Sprintf("would rename %s in %s",
					ui.Count(len(steps), "item", "items"), dir)))
			default:
				fmt.Println(ui.Successf("renumbered %s in %s",
					ui.Count(len(steps), "item", "items"), ui.FilePath(dir)))
			}
		}
	}

	if renumberRecursive {
		// Reread after the renames above: child names may have changed.
		// Every subdirectory is visited, sequenced or not, so sequenced
		// directories nested under plain folders are still reached.
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				continue
			}
			if err := runRenumber(filepath.Join(dir, name), results, warnings, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func printPlan(steps []renametx.Step) {
	if isJSONOutput() {
		return
	}
	for _, s := range steps {
		fmt.Printf("  %s -> %s\n", filepath.Base(s.From), filepath.Base(s.To))
	}
}

func init() {
	renumberCmd.Flags().BoolVarP(&renumberRecursive, "recursive", "r", false, "renumber nested sequenced directories too")
	renumberCmd.Flags().BoolVar(&renumberDryRun, "dry-run", false, "print the planned renames without applying them")
	rootCmd.AddCommand(renumberCmd)
}
