package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/textan/internal/model"
	"github.com/verte-zerg/textan/internal/textfile"
)

// ErrExists is returned by SaveFile when the target exists and overwrite is off.
var ErrExists = errors.New("file already exists")

// ResolvePath appends the .txt extension when the name lacks it.
func ResolvePath(path string) string {
	if textfile.IsText(path) {
		return path
	}
	return path + textfile.Ext
}

// SaveFile writes the payload to path (with .txt appended when missing) and
// returns the final path. The write goes through a temp file and a rename.
func SaveFile(path string, p model.ExportPayload, overwrite bool) (string, error) {
	if path == "" {
		return "", &textfile.FileError{Op: "write", Path: path, Err: errors.New("path is empty")}
	}
	path = ResolvePath(path)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrExists)
		} else if !os.IsNotExist(err) {
			return path, &textfile.FileError{Op: "write", Path: path, Err: err}
		}
	}
	if err := writeAtomic(path, p); err != nil {
		return path, &textfile.FileError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// ParseFile reads an export file from disk.
func ParseFile(path string) (model.ExportPayload, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.ExportPayload{}, &textfile.FileError{Op: "read", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return Parse(file)
}

func writeAtomic(path string, p model.ExportPayload) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "export-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := tmpFile.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set export mode: %w", err)
	}
	if err := Write(tmpFile, p); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
