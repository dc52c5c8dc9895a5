package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
	"github.com/aidanlsb/magpie/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent repair runs",
	Long: `History lists recent repair and orphan runs recorded for this workspace.
The history is informational only; repair indexes are rebuilt from the
filesystem on every run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := history.Open(getWorkspacePath())
		if err != nil {
			return failErr(err, "")
		}
		defer db.Close()

		runs, err := db.Recent(historyLimit)
		if err != nil {
			return failErr(err, "")
		}

		if isJSONOutput() {
			outputSuccess(runs)
			return nil
		}
		if len(runs) == 0 {
			fmt.Println(ui.Hint("no runs recorded yet"))
			return nil
		}

		var b strings.Builder
		b.WriteString("## History\n\n")
		b.WriteString("| when | op | scanned | modified | repaired | missing | orphans |\n")
		b.WriteString("|------|----|---------|----------|----------|---------|---------|\n")
		for _, r := range runs {
			op := r.Operation
			if r.DryRun {
				op += " (dry)"
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %d |\n",
				r.StartedAt.Format(time.DateTime), op, r.DocumentsScanned,
				r.DocumentsModified, r.LinksRepaired, r.Missing, r.OrphansMarked)
		}

		rendered, err := ui.RenderMarkdown(b.String(), ui.TermWidth())
		if err != nil {
			fmt.Print(b.String())
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}
