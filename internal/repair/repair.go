package repair

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/magpie/internal/atomicfile"
	"github.com/aidanlsb/magpie/internal/attachment"
	"github.com/aidanlsb/magpie/internal/fileid"
	"github.com/aidanlsb/magpie/internal/fingerprint"
	"github.com/aidanlsb/magpie/internal/workspace"
)

// Missing is a link whose fingerprint or identifier has no index entry.
// The link is reported and left unmodified, never auto-removed.
type Missing struct {
	DocPath string `json:"doc" yaml:"doc"`
	Target  string `json:"target" yaml:"target"`
	Key     string `json:"key" yaml:"key"`
	Kind    string `json:"kind" yaml:"kind"`
}

// DocumentResult summarizes the repair of one document.
type DocumentResult struct {
	Path            string
	Links           int
	Repaired        int
	OverlapsSkipped int
	Missing         []Missing
	Changed         bool
}

// FileChange captures a document rewrite for dry-run previews.
type FileChange struct {
	Path   string
	Before string
	After  string
}

// Summary aggregates one repair run for the caller to display and record.
type Summary struct {
	Root               string        `json:"root" yaml:"root"`
	DocumentsScanned   int           `json:"documents_scanned" yaml:"documents_scanned"`
	DocumentsModified  int           `json:"documents_modified" yaml:"documents_modified"`
	LinksSeen          int           `json:"links_seen" yaml:"links_seen"`
	LinksRepaired      int           `json:"links_repaired" yaml:"links_repaired"`
	OverlapsSkipped    int           `json:"overlaps_skipped,omitempty" yaml:"overlaps_skipped,omitempty"`
	Missing            []Missing     `json:"missing,omitempty" yaml:"missing,omitempty"`
	AttachmentsIndexed int           `json:"attachments_indexed" yaml:"attachments_indexed"`
	IdentifiersIndexed int           `json:"identifiers_indexed" yaml:"identifiers_indexed"`
	DuplicateContent   int           `json:"duplicate_content,omitempty" yaml:"duplicate_content,omitempty"`
	Orphans            *OrphanReport `json:"orphans,omitempty" yaml:"orphans,omitempty"`
	DryRun             bool          `json:"dry_run" yaml:"dry_run"`
	Duration           time.Duration `json:"-" yaml:"-"`
}

// Options configures a repair run.
type Options struct {
	Root     string
	Excludes []string

	// DryRun computes and reports every change without persisting any.
	DryRun bool

	// MarkOrphans runs the orphan reconciler after the repair pass.
	MarkOrphans bool
}

// Scanner repairs documents against a pair of freshly built indexes.
//
// The indexes are snapshots: both are built in full before the first
// document is repaired, and the referenced-fingerprint set accumulated here
// feeds the orphan reconciler afterwards. Scanning and repairing never
// interleave.
type Scanner struct {
	attachments *attachment.Index
	ids         *fileid.Index
	referenced  map[string]struct{}
}

// NewScanner wraps the two indexes for a repair pass.
func NewScanner(attachments *attachment.Index, ids *fileid.Index) *Scanner {
	return &Scanner{
		attachments: attachments,
		ids:         ids,
		referenced:  make(map[string]struct{}),
	}
}

// Referenced returns the set of fingerprints seen during the pass, broken
// links included.
func (s *Scanner) Referenced() map[string]struct{} { return s.referenced }

// RepairDocument computes the repaired form of one document. It does not
// write anything; the caller persists the result.
func (s *Scanner) RepairDocument(docPath, content string) (string, DocumentResult) {
	res := DocumentResult{Path: docPath}
	docDir := filepath.Dir(docPath)

	records := ScanDocument(content)
	res.Links = len(records)

	var reps []Replacement
	for _, rec := range records {
		s.trackReferenced(rec)

		// Relative targets resolve against the document; an absolute
		// target already names its location.
		abs := filepath.FromSlash(decodePath(rec.Target))
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(docDir, abs)
		}
		if _, err := os.Stat(abs); err == nil {
			continue // resolves as written: leave untouched
		}

		newPath, ok := s.currentLocation(rec)
		if !ok {
			res.Missing = append(res.Missing, Missing{
				DocPath: docPath,
				Target:  rec.Target,
				Key:     rec.Key,
				Kind:    rec.Kind.String(),
			})
			continue
		}

		rel, err := filepath.Rel(docDir, newPath)
		if err != nil {
			continue
		}
		reps = append(reps, Replacement{
			Start: rec.Start,
			End:   rec.End,
			Text:  renderLink(rec, encodePath(filepath.ToSlash(rel))),
		})
	}

	updated, skipped := ApplyReplacements(content, reps)
	res.Repaired = len(reps) - len(skipped)
	res.OverlapsSkipped = len(skipped)
	res.Changed = updated != content
	return updated, res
}

func (s *Scanner) trackReferenced(rec LinkRecord) {
	if rec.Kind == KindHash {
		s.referenced[rec.Key] = struct{}{}
		return
	}
	// An identifier link can still point at a hash-named file; that
	// attachment counts as referenced for orphan purposes.
	if fp, ok := fingerprint.ParseName(filepath.Base(decodePath(rec.Target))); ok {
		s.referenced[fp] = struct{}{}
	}
}

func (s *Scanner) currentLocation(rec LinkRecord) (string, bool) {
	switch rec.Kind {
	case KindHash:
		if loc, ok := s.attachments.Lookup(rec.Key); ok {
			return loc.Path, true
		}
	case KindIdentifier:
		if loc, ok := s.ids.Lookup(rec.Key); ok {
			return loc.Path, true
		}
	}
	return "", false
}

// renderLink rebuilds a link's literal text around the rewritten path,
// preserving the image marker, visible text, and (for identifier links)
// the marker comment.
func renderLink(rec LinkRecord, newPath string) string {
	img := ""
	if rec.IsImage {
		img = "!"
	}
	link := img + "[" + rec.Text + "](" + newPath + ")"
	if rec.Kind == KindIdentifier {
		return "<!-- " + fileid.RefMarker + ":" + rec.Key + " -->" + link
	}
	return link
}

func decodePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}

func encodePath(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}

// Run performs a full repair pass: build both indexes, repair every document
// under opts.Root, then optionally reconcile orphans.
//
// The context is consulted between documents and before each orphan rename,
// never inside an in-flight rename transaction, so cancellation cannot
// strand a half-applied operation.
func Run(ctx context.Context, opts Options) (*Summary, []FileChange, error) {
	start := time.Now()

	attachments, err := attachment.BuildIndex(ctx, opts.Root, opts.Excludes)
	if err != nil {
		return nil, nil, fmt.Errorf("build attachment index: %w", err)
	}
	ids, err := fileid.BuildIndex(ctx, opts.Root, opts.Excludes)
	if err != nil {
		return nil, nil, fmt.Errorf("build identifier index: %w", err)
	}

	scanner := NewScanner(attachments, ids)
	summary := &Summary{
		Root:               opts.Root,
		AttachmentsIndexed: attachments.Len(),
		IdentifiersIndexed: ids.Len(),
		DuplicateContent:   attachments.Duplicates(),
		DryRun:             opts.DryRun,
	}

	var changes []FileChange
	err = workspace.WalkDocuments(ctx, opts.Root, opts.Excludes, func(path, relPath string) error {
		content, rerr := os.ReadFile(path)
		if rerr != nil {
			// Per-file failures never abort the batch.
			return nil
		}

		updated, res := scanner.RepairDocument(path, string(content))
		summary.DocumentsScanned++
		summary.LinksSeen += res.Links
		summary.LinksRepaired += res.Repaired
		summary.OverlapsSkipped += res.OverlapsSkipped
		summary.Missing = append(summary.Missing, res.Missing...)

		if !res.Changed {
			return nil
		}
		summary.DocumentsModified++
		if opts.DryRun {
			changes = append(changes, FileChange{Path: path, Before: string(content), After: updated})
			return nil
		}
		if werr := atomicfile.WriteFile(path, []byte(updated), 0); werr != nil {
			return fmt.Errorf("persist %s: %w", path, werr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if opts.MarkOrphans {
		report := Reconcile(ctx, attachments, scanner.Referenced(), ReconcileOptions{DryRun: opts.DryRun})
		summary.Orphans = &report
	}

	summary.Duration = time.Since(start)
	return summary, changes, nil
}
