package attach

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/p2pm/internal/chat"
)

func TestPick(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0600); err != nil {
		t.Fatal(err)
	}

	a, err := Pick(path)
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if a.Name != "report.pdf" {
		t.Errorf("name = %q", a.Name)
	}
	if a.MimeType != "application/pdf" {
		t.Errorf("type = %q, want application/pdf", a.MimeType)
	}
	if a.Label() != "PDF Document" {
		t.Errorf("label = %q", a.Label())
	}
}

func TestPickErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Pick(""); !errors.Is(err, chat.ErrInvalidInput) {
		t.Errorf("empty path: err = %v", err)
	}
	if _, err := Pick(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := Pick(dir); !errors.Is(err, ErrNotAFile) {
		t.Errorf("directory: err = %v", err)
	}
}

func TestTypeOf(t *testing.T) {
	tests := map[string]string{
		"a.PDF":     "application/pdf",
		"b.png":     "image/png",
		"c.unknown": "application/octet-stream",
		"noext":     "application/octet-stream",
	}
	for name, want := range tests {
		if got := TypeOf(name); got != want {
			t.Errorf("TypeOf(%q) = %q, want %q", name, got, want)
		}
	}
}
