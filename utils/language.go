package utils

import (
	"path/filepath"
	"strings"
)

// GetSupportedLanguage maps a file path to the language name used by the
// syntax validation stage and the terminal highlighter. Returns an empty
// string for unsupported extensions.
func GetSupportedLanguage(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".cs":
		return "csharp"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	default:
		return ""
	}
}
