package textfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadJoinsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("first line.\r\nsecond line?\n\nlast!\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "first line.\nsecond line?\n\nlast!"
	if got != want {
		t.Fatalf("Load() = %q, want %q", got, want)
	}
}

func TestLoadVeryLongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	long := strings.Repeat("word ", 2<<20/5) + "end."
	if err := os.WriteFile(path, []byte(long+"\nNext?"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != long+"\nNext?" {
		t.Fatalf("unexpected text: len %d, want %d", len(got), len(long)+6)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Load(path)
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("expected FileError, got %v", err)
	}
	if fileErr.Op != "read" || fileErr.Path != path {
		t.Fatalf("unexpected error fields: %+v", fileErr)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}
