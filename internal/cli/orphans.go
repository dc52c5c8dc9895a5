package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/attachment"
	"github.com/aidanlsb/magpie/internal/fileid"
	"github.com/aidanlsb/magpie/internal/repair"
	"github.com/aidanlsb/magpie/internal/ui"
	"github.com/aidanlsb/magpie/internal/workspace"
)

var orphansDryRun bool

var orphansCmd = &cobra.Command{
	Use:   "orphans [root]",
	Short: "Mark attachments no document references",
	Long: `Orphans cross-references every fingerprint-named attachment against the
links in every markdown document and renames the unreferenced ones with the
ORPHAN- prefix:

  photo.fp-9f86d081...png  ->  ORPHAN-photo.fp-9f86d081...png

Marking is idempotent and reversible by hand; nothing is ever deleted. A
marked attachment stays in the index, so a link added later still finds it.
Documents are only read, never modified, by this command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root := getWorkspacePath()
		if len(args) == 1 {
			root = args[0]
		}
		excludes := excludeGlobs()

		attachments, err := attachment.BuildIndex(ctx, root, excludes)
		if err != nil {
			return failErr(err, "")
		}
		ids, err := fileid.BuildIndex(ctx, root, excludes)
		if err != nil {
			return failErr(err, "")
		}

		// Scan every document to accumulate the referenced set; the
		// repaired output is discarded, nothing is written.
		scanned := 0
		scanner := repair.NewScanner(attachments, ids)
		err = workspace.WalkDocuments(ctx, root, excludes, func(path, relPath string) error {
			content, rerr := os.ReadFile(path)
			if rerr != nil {
				return nil
			}
			scanner.RepairDocument(path, string(content))
			scanned++
			return nil
		})
		if err != nil {
			return failErr(err, "")
		}

		report := repair.Reconcile(ctx, attachments, scanner.Referenced(), repair.ReconcileOptions{
			DryRun: orphansDryRun,
		})

		recordRun("orphans", &repair.Summary{
			Root:             root,
			DocumentsScanned: scanned,
			Orphans:          &report,
			DryRun:           orphansDryRun,
		})

		if isJSONOutput() {
			outputSuccess(report)
			return nil
		}
		if orphansDryRun {
			fmt.Println(ui.Hint(fmt.Sprintf("would mark %s of %d attachments",
				ui.Count(report.Found-report.AlreadyMarked, "orphan", "orphans"), attachments.Len())))
		} else {
			fmt.Println(ui.Successf("marked %s (%d already marked) of %d attachments",
				ui.Count(report.Marked, "orphan", "orphans"), report.AlreadyMarked, attachments.Len()))
		}
		for _, f := range report.Failed {
			fmt.Println(ui.Errorf("could not mark %s: %s", f.Path, f.Error))
		}
		return nil
	},
}

func init() {
	orphansCmd.Flags().BoolVar(&orphansDryRun, "dry-run", false, "count orphans without renaming anything")
	rootCmd.AddCommand(orphansCmd)
}
