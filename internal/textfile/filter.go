package textfile

import (
	"path/filepath"
	"strings"
)

// Ext is the only extension offered by file pickers.
const Ext = ".txt"

// IsText reports whether name carries the .txt extension, ignoring case.
func IsText(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}
