package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/magpie/internal/ui"
	"github.com/aidanlsb/magpie/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Watch the workspace and report broken links as documents change",
	Long: `Watch monitors the workspace and re-scans each markdown document as it
changes, reporting links that no longer resolve. Watch mode is report-only:
it never rewrites a document. Run 'mgp repair' to apply fixes.

Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root := getWorkspacePath()
		if len(args) == 1 {
			root = args[0]
		}
		w, err := watcher.New(watcher.Config{
			Root:     root,
			Excludes: excludeGlobs(),
			Debounce: watchDebounce,
			OnResult: printWatchResult,
			OnError: func(err error) {
				fmt.Fprintln(os.Stderr, ui.Warningf("%v", err))
			},
		})
		if err != nil {
			return failErr(err, "")
		}

		fmt.Println(ui.Hint("watching " + root + " (Ctrl-C to stop)"))
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return failErr(err, "")
		}
		return nil
	},
}

func printWatchResult(r watcher.Result) {
	if r.Broken == 0 {
		fmt.Println(ui.Successf("%s: %s ok", r.Path, ui.Count(r.Links, "link", "links")))
		return
	}
	fmt.Println(ui.Warningf("%s: %s broken", r.Path, ui.Count(r.Broken, "link", "links")))
	for _, m := range r.Missing {
		fmt.Println("  " + ui.Hint(m.Target+" ("+m.Kind+" "+m.Key+") has no known location"))
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond, "delay after a burst of changes before scanning")
	rootCmd.AddCommand(watchCmd)
}
