// Package textfile reads plain-text input files.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileError describes a failed read or write of a user file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Load reads the file line by line and joins the lines with '\n'.
func Load(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &FileError{Op: "read", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()

	var lines []string
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &FileError{Op: "read", Path: path, Err: err}
		}
	}
	return strings.Join(lines, "\n"), nil
}
