// Package repair scans markdown documents for broken attachment and
// identifier links and rewrites them to each target's current location.
//
// Two link shapes are recognized:
//
//   - hash links, whose path embeds a content fingerprint:
//     ![alt](assets/img.fp-<32hex>.png)
//   - identifier links, a marker comment immediately before a visible link:
//     <!-- magpie-ref:<32hex> -->[spec](../spec.pdf)
//
// Scanning produces tagged LinkRecord values once; the repair step matches
// on the tag instead of re-inspecting raw text. Links inside fenced code
// blocks are never touched.
package repair

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aidanlsb/magpie/internal/fileid"
	"github.com/aidanlsb/magpie/internal/fingerprint"
)

// Kind tags which link shape a record came from.
type Kind int

const (
	// KindHash is a link whose path carries a content fingerprint.
	KindHash Kind = iota
	// KindIdentifier is a link preceded by an embedded-identifier marker.
	KindIdentifier
)

func (k Kind) String() string {
	if k == KindHash {
		return "hash"
	}
	return "identifier"
}

// LinkRecord is one link found while scanning a document.
type LinkRecord struct {
	Kind Kind

	// Start and End are byte offsets of the full match in the document,
	// including the marker comment for identifier links.
	Start int
	End   int

	// IsImage is true when the link carries the image marker "!".
	IsImage bool

	// Text is the visible bracketed text.
	Text string

	// Target is the parenthesized path exactly as written (possibly
	// URL-encoded).
	Target string

	// Key is the lowercase fingerprint or identifier.
	Key string
}

var (
	hashLinkRe = regexp.MustCompile(
		`(!?)\[([^\]\n]*)\]\(([^()\n]*\.` + fingerprint.Marker + `-([0-9a-fA-F]{32})[^()\n]*)\)`)

	idLinkRe = regexp.MustCompile(
		`<!--\s*` + fileid.RefMarker + `:([0-9a-fA-F]{32})\s*-->[ \t]*\r?\n?[ \t]*(!?)\[([^\]\n]*)\]\(([^()\n]*)\)`)
)

// ScanDocument extracts every link record from a document. Identifier links
// take precedence: a hash-shaped match inside an identifier match is not
// reported twice. Matches inside code blocks are dropped.
func ScanDocument(content string) []LinkRecord {
	fenced := codeBlockRanges([]byte(content))
	inCode := func(start, end int) bool {
		for _, r := range fenced {
			if start < r[1] && end > r[0] {
				return true
			}
		}
		return false
	}

	var records []LinkRecord

	for _, m := range idLinkRe.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		if inCode(start, end) {
			continue
		}
		records = append(records, LinkRecord{
			Kind:    KindIdentifier,
			Start:   start,
			End:     end,
			Key:     strings.ToLower(content[m[2]:m[3]]),
			IsImage: m[5] > m[4],
			Text:    content[m[6]:m[7]],
			Target:  content[m[8]:m[9]],
		})
	}

	for _, m := range hashLinkRe.FindAllStringSubmatchIndex(content, -1) {
		start, end := m[0], m[1]
		if inCode(start, end) {
			continue
		}
		if overlapsAny(records, start, end) {
			continue
		}
		records = append(records, LinkRecord{
			Kind:    KindHash,
			Start:   start,
			End:     end,
			IsImage: m[3] > m[2],
			Text:    content[m[4]:m[5]],
			Target:  content[m[6]:m[7]],
			Key:     strings.ToLower(content[m[8]:m[9]]),
		})
	}

	return records
}

func overlapsAny(records []LinkRecord, start, end int) bool {
	for _, r := range records {
		if start < r.End && end > r.Start {
			return true
		}
	}
	return false
}

// codeBlockRanges returns the byte ranges covered by fenced and indented
// code blocks, per goldmark's parse of the document.
func codeBlockRanges(source []byte) [][2]int {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var ranges [][2]int
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, [2]int{
					lines.At(0).Start,
					lines.At(lines.Len() - 1).Stop,
				})
			}
		}
		return ast.WalkContinue, nil
	})
	return ranges
}
