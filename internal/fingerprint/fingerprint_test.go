package fingerprint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromFileStable(t *testing.T) {
	dir := t.TempDir()
	content := []byte("the same bytes")

	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "nested")
	if err := os.Mkdir(b, 0o755); err != nil {
		t.Fatal(err)
	}
	b = filepath.Join(b, "b.png")

	if err := os.WriteFile(a, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fpA, err := FromFile(a)
	if err != nil {
		t.Fatalf("FromFile(a): %v", err)
	}
	fpB, err := FromFile(b)
	if err != nil {
		t.Fatalf("FromFile(b): %v", err)
	}

	if fpA != fpB {
		t.Errorf("same content, different fingerprints: %s vs %s", fpA, fpB)
	}
	if len(fpA) != HexLen {
		t.Errorf("len = %d, want %d", len(fpA), HexLen)
	}
	if fpA != strings.ToLower(fpA) {
		t.Errorf("fingerprint not lowercase: %s", fpA)
	}
}

func TestFromFileDiffersByOneByte(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("content-1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("content-2"), 0o644); err != nil {
		t.Fatal(err)
	}

	fpA, _ := FromFile(a)
	fpB, _ := FromFile(b)
	if fpA == fpB {
		t.Errorf("different content produced identical fingerprint %s", fpA)
	}
}

func TestFromFileUnreadable(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing"))
	var he *HashError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HashError", err)
	}
}

func TestAttachmentNameRoundTrip(t *testing.T) {
	fp := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		original string
		want     string
	}{
		{original: "photo.png", want: "photo.fp-" + fp + ".png"},
		{original: "report.final.pdf", want: "report.final.fp-" + fp + ".pdf"},
		{original: "archive", want: "archive.fp-" + fp},
	}
	for _, tt := range tests {
		name := AttachmentName(tt.original, fp)
		if name != tt.want {
			t.Errorf("AttachmentName(%q) = %q, want %q", tt.original, name, tt.want)
		}
		got, ok := ParseName(name)
		if !ok || got != fp {
			t.Errorf("ParseName(%q) = (%q, %v), want (%q, true)", name, got, ok, fp)
		}
	}
}

func TestParseNameCaseInsensitiveHex(t *testing.T) {
	name := "img.fp-0123456789ABCDEF0123456789ABCDEF.png"
	fp, ok := ParseName(name)
	if !ok {
		t.Fatal("expected match")
	}
	if fp != "0123456789abcdef0123456789abcdef" {
		t.Errorf("fp = %q, want lowercased hex", fp)
	}
}

func TestParseNameRejectsNonAttachments(t *testing.T) {
	for _, name := range []string{
		"photo.png",
		"fp-0123456789abcdef0123456789abcdef.png", // no stem
		"img.fp-0123.png",                         // short hex
		"img.fp-0123456789abcdef0123456789abcdeg.png", // non-hex
	} {
		if _, ok := ParseName(name); ok {
			t.Errorf("ParseName(%q) matched, want no match", name)
		}
	}
}
