// Package fileid assigns and indexes embedded per-file identifiers.
//
// An identifier is a random 128-bit value rendered as 32 hex characters,
// written into the first line of the target file as a marker comment:
//
//	<!-- magpie-id:0123456789abcdef0123456789abcdef -->
//
// A linking document carries a companion marker immediately before the
// visible link:
//
//	<!-- magpie-ref:0123456789abcdef0123456789abcdef -->[spec](../spec.pdf)
//
// The two markers share a format and differ only by keyword. Once assigned,
// an identifier never changes while links reference it.
package fileid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/aidanlsb/magpie/internal/atomicfile"
)

const (
	// IDMarker is the keyword used in a target file's embedded comment.
	IDMarker = "magpie-id"

	// RefMarker is the keyword used in a linking document.
	RefMarker = "magpie-ref"

	// HexLen is the identifier length in hex characters.
	HexLen = 32

	// headLimit bounds how much of a file is read when looking for the
	// marker. The marker is written as the very first line, so reading
	// one kilobyte is safe by construction, not a heuristic.
	headLimit = 1024
)

var idRe = regexp.MustCompile(IDMarker + `:([0-9a-fA-F]{32})`)

// New generates a fresh identifier.
func New() string {
	id := uuid.New()
	return strings.ToLower(fmt.Sprintf("%x", id[:]))
}

// MarkerLine renders the comment line embedded at the top of a target file.
func MarkerLine(id string) string {
	return "<!-- " + IDMarker + ":" + strings.ToLower(id) + " -->"
}

// Read returns the identifier embedded in the leading bytes of path.
// ok is false when the file has no identifier. Read errors are returned
// as-is; callers indexing many files skip them silently.
func Read(path string) (id string, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, err
	}
	defer f.Close()

	// ReadFull guarantees the whole head is seen; a plain Read may legally
	// return short before the marker. A file smaller than the limit is fine.
	buf := make([]byte, headLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, nil // unreadable body: no identifier
	}
	m := idRe.FindSubmatch(buf[:n])
	if m == nil {
		return "", false, nil
	}
	return strings.ToLower(string(m[1])), true, nil
}

// Assign ensures path carries an identifier and returns it.
//
// If the file already has one, that identifier is returned untouched;
// reassigning would break every link that references it. Otherwise a new
// identifier is written as the file's first line via an atomic rewrite.
func Assign(path string) (id string, created bool, err error) {
	existing, ok, err := Read(path)
	if err != nil {
		return "", false, fmt.Errorf("read identifier: %w", err)
	}
	if ok {
		return existing, false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read file: %w", err)
	}

	id = New()
	updated := append([]byte(MarkerLine(id)+"\n"), content...)
	if err := atomicfile.WriteFile(path, updated, 0); err != nil {
		return "", false, fmt.Errorf("write identifier: %w", err)
	}
	return id, true, nil
}
