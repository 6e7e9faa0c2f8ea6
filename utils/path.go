package utils

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts a path to its absolute form with forward slashes,
// so the same file always produces the same snapshot key on every platform.
func NormalizePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return strings.ReplaceAll(absPath, "\\", "/")
}
