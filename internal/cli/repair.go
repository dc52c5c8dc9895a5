package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/history"
	"github.com/aidanlsb/magpie/internal/repair"
	"github.com/aidanlsb/magpie/internal/ui"
)

var (
	repairDryRun  bool
	repairOrphans bool
	repairReport  string
)

var repairCmd = &cobra.Command{
	Use:   "repair [root]",
	Short: "Repair links whose targets have moved",
	Long: `Repair scans every markdown document in the workspace and rewrites links
whose targets have moved. Two kinds of links are repairable:

  - hash links, whose target filename carries a content fingerprint
    (photo.fp-9f86d081...png)
  - identifier links, preceded by a <!-- magpie-ref:... --> marker and
    pointing at a file with a matching embedded identifier

A link that resolves as written is never touched. A link whose key has no
index entry is reported as missing and left in place; repair never removes
a link.

Pass --dry-run for a unified diff of every change without writing anything,
--orphans to also mark unreferenced attachments with the ORPHAN- prefix,
and --report to write a YAML summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root := getWorkspacePath()
		if len(args) == 1 {
			root = args[0]
		}
		summary, changes, err := repair.Run(ctx, repair.Options{
			Root:        root,
			Excludes:    excludeGlobs(),
			DryRun:      repairDryRun,
			MarkOrphans: repairOrphans,
		})
		if err != nil {
			return failErr(err, "")
		}

		recordRun("repair", summary)

		if repairReport != "" {
			if err := repair.WriteReport(repairReport, summary); err != nil {
				return failErr(err, "")
			}
		}

		if isJSONOutput() {
			outputSuccess(summary)
			return nil
		}

		if repairDryRun {
			printDiffs(changes)
		}
		printSummary(summary)
		return nil
	},
}

// recordRun appends a run to the history under the repaired root. History is
// informational; a failure to record never fails the command.
func recordRun(operation string, s *repair.Summary) {
	db, err := history.Open(s.Root)
	if err != nil {
		return
	}
	defer db.Close()

	marked := 0
	if s.Orphans != nil {
		marked = s.Orphans.Marked
	}
	_ = db.Record(history.Run{
		Operation:         operation,
		Root:              s.Root,
		DocumentsScanned:  s.DocumentsScanned,
		DocumentsModified: s.DocumentsModified,
		LinksRepaired:     s.LinksRepaired,
		Missing:           len(s.Missing),
		OrphansMarked:     marked,
		DryRun:            s.DryRun,
		Duration:          s.Duration,
	})
}

func printDiffs(changes []repair.FileChange) {
	for _, c := range changes {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(c.Before),
			B:        difflib.SplitLines(c.After),
			FromFile: c.Path,
			ToFile:   c.Path,
			Context:  2,
		})
		if err != nil {
			continue
		}
		fmt.Print(diff)
	}
}

func printSummary(s *repair.Summary) {
	var b strings.Builder
	b.WriteString("## Repair\n\n")
	if s.DryRun {
		b.WriteString("*dry run: nothing written*\n\n")
	}
	fmt.Fprintf(&b, "- documents scanned: **%d** (modified: %d)\n", s.DocumentsScanned, s.DocumentsModified)
	fmt.Fprintf(&b, "- links seen: **%d** (repaired: %d)\n", s.LinksSeen, s.LinksRepaired)
	fmt.Fprintf(&b, "- attachments indexed: %d, identifiers indexed: %d\n", s.AttachmentsIndexed, s.IdentifiersIndexed)
	if s.DuplicateContent > 0 {
		fmt.Fprintf(&b, "- duplicate content: %d\n", s.DuplicateContent)
	}
	if s.OverlapsSkipped > 0 {
		fmt.Fprintf(&b, "- overlapping links skipped: %d\n", s.OverlapsSkipped)
	}
	if s.Orphans != nil {
		fmt.Fprintf(&b, "- orphans: %d found, %d marked, %d already marked\n",
			s.Orphans.Found, s.Orphans.Marked, s.Orphans.AlreadyMarked)
		for _, f := range s.Orphans.Failed {
			fmt.Fprintf(&b, "  - failed: %s (%s)\n", f.Path, f.Error)
		}
	}
	if len(s.Missing) > 0 {
		b.WriteString("\n### Missing targets\n\n")
		for _, m := range s.Missing {
			fmt.Fprintf(&b, "- `%s` -> `%s` (%s)\n", m.DocPath, m.Target, m.Kind)
		}
	}

	rendered, err := ui.RenderMarkdown(b.String(), ui.TermWidth())
	if err != nil {
		fmt.Print(b.String())
		return
	}
	fmt.Print(rendered)
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "show every change as a diff without writing")
	repairCmd.Flags().BoolVar(&repairOrphans, "orphans", false, "mark unreferenced attachments after repairing")
	repairCmd.Flags().StringVar(&repairReport, "report", "", "write a YAML run summary to this path")
	rootCmd.AddCommand(repairCmd)
}
