package repair

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aidanlsb/magpie/internal/attachment"
	"github.com/aidanlsb/magpie/internal/renametx"
)

// OrphanReport summarizes one reconciliation pass.
type OrphanReport struct {
	// Found is the number of indexed attachments no document references.
	Found int `json:"found" yaml:"found"`

	// Marked is how many were renamed with the orphan prefix this pass.
	Marked int `json:"marked" yaml:"marked"`

	// AlreadyMarked counts orphans recognized by their existing prefix;
	// they are counted, never re-renamed.
	AlreadyMarked int `json:"already_marked,omitempty" yaml:"already_marked,omitempty"`

	// Failed lists orphans whose rename failed. Each orphan rename is
	// independent: a failure is reported and skipped, not rolled back
	// across the batch.
	Failed []OrphanFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// OrphanFailure is one orphan that could not be marked.
type OrphanFailure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// ReconcileOptions configures a reconciliation pass.
type ReconcileOptions struct {
	// DryRun counts orphans without renaming anything.
	DryRun bool

	// Rename substitutes the rename primitive; nil means os.Rename.
	Rename renametx.RenameFunc
}

// Reconcile cross-references every indexed attachment against the set of
// fingerprints referenced during the repair scan and marks the unreferenced
// ones with the orphan prefix.
//
// The context is checked before each rename; cancelling mid-pass leaves
// already-marked orphans marked, which is safe because marking is idempotent.
func Reconcile(ctx context.Context, ix *attachment.Index, referenced map[string]struct{}, opts ReconcileOptions) OrphanReport {
	var report OrphanReport

	for _, fp := range ix.Fingerprints() {
		if _, ok := referenced[fp]; ok {
			continue
		}
		loc, ok := ix.Lookup(fp)
		if !ok {
			continue
		}
		report.Found++

		if attachment.IsOrphanName(loc.Name) {
			report.AlreadyMarked++
			continue
		}
		if opts.DryRun {
			continue
		}
		if ctx.Err() != nil {
			return report
		}

		target := filepath.Join(filepath.Dir(loc.Path), attachment.OrphanName(loc.Name))
		tx := renametx.NewWith(renameFn(opts))
		if err := tx.Rename(loc.Path, target); err != nil {
			report.Failed = append(report.Failed, OrphanFailure{Path: loc.Path, Error: err.Error()})
			continue
		}
		report.Marked++
	}
	return report
}

func renameFn(opts ReconcileOptions) renametx.RenameFunc {
	if opts.Rename != nil {
		return opts.Rename
	}
	return os.Rename
}
