// Package fingerprint computes content fingerprints for attachments and
// defines the hash-bearing filename convention.
//
// A fingerprint is the lowercase hex form of a 128-bit BLAKE2b digest of a
// file's full byte stream. It depends only on content, never on path or
// modification time, so an attachment can be found again after it moves.
// 128 bits keeps filenames short while making collisions negligible for a
// personal-scale corpus.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	// Marker is the literal token that precedes a fingerprint in an
	// attachment filename: `<stem>.fp-<32hex>.<ext>`.
	Marker = "fp"

	// HexLen is the rendered fingerprint length in hex characters.
	HexLen = 32

	digestSize = HexLen / 2
)

// HashError reports a failure to fingerprint one file. It aborts only that
// file's operation, never a whole batch.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash computation failed for %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// FromReader streams r through the digest and returns the fingerprint.
func FromReader(r io.Reader) (string, error) {
	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FromFile fingerprints the file at path.
func FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	defer f.Close()

	fp, err := FromReader(f)
	if err != nil {
		return "", &HashError{Path: path, Err: err}
	}
	return fp, nil
}

// attachmentNameRe matches `<stem>.fp-<32hex>` with an optional extension.
// The hex portion is matched case-insensitively; ParseName lowercases it.
var attachmentNameRe = regexp.MustCompile(`^(.+)\.` + Marker + `-([0-9a-fA-F]{32})(\.[^.]*)?$`)

// ParseName extracts the fingerprint from a hash-bearing base name.
func ParseName(name string) (fp string, ok bool) {
	m := attachmentNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[2]), true
}

// SplitName decomposes a hash-bearing base name into its stem, fingerprint,
// and extension (extension includes the leading dot, or is empty).
func SplitName(name string) (stem, fp, ext string, ok bool) {
	m := attachmentNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", "", false
	}
	return m[1], strings.ToLower(m[2]), m[3], true
}

// IsAttachmentName reports whether a base name carries a fingerprint.
func IsAttachmentName(name string) bool {
	return attachmentNameRe.MatchString(name)
}

// AttachmentName builds the canonical name for an attachment, splitting the
// extension off the original base name:
//
//	AttachmentName("photo.png", fp) -> "photo.fp-<fp>.png"
//	AttachmentName("archive", fp)   -> "archive.fp-<fp>"
func AttachmentName(original, fp string) string {
	stem := original
	ext := ""
	if i := strings.LastIndex(original, "."); i > 0 {
		stem, ext = original[:i], original[i:]
	}
	return stem + "." + Marker + "-" + strings.ToLower(fp) + ext
}
