package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// gitignoreCacheEntry holds cached gitignore patterns with metadata
type gitignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for gitignore patterns
var (
	gitignoreCache = make(map[string]*gitignoreCacheEntry)
	cacheMutex     sync.RWMutex
)

// defaultIgnorePatterns covers VCS metadata, build artifacts, dependency
// directories, binaries and media. Paths matching any of these are never
// scanned, independent of the project's .gitignore.
var defaultIgnorePatterns = []string{
	// Version control
	".git/", ".hg/", ".svn/", "CVS/", ".bzr/",

	// Dependency and build directories
	"node_modules/", "jspm_packages/", "bower_components/", "vendor/",
	"venv/", "env/", ".venv/", "__pycache__/", ".pytest_cache/", ".tox/",
	"build/", "dist/", "out/", "target/", "bin/", "obj/", "coverage/",
	".cache/", ".next/", ".nuxt/", ".gradle/", ".idea/", ".vscode/",

	// Lock files
	"package-lock.json", "yarn.lock", "poetry.lock", "Gemfile.lock",
	"Cargo.lock", "composer.lock", "go.sum",

	// Compiled and binary files
	"*.exe", "*.dll", "*.so", "*.dylib", "*.o", "*.obj", "*.class",
	"*.pyc", "*.pyo", "*.egg", "*.whl",

	// Media
	"*.jpg", "*.jpeg", "*.png", "*.gif", "*.ico", "*.svg", "*.webp",
	"*.pdf", "*.mp3", "*.mp4", "*.wav", "*.avi", "*.mov", "*.mkv",

	// Archives
	"*.zip", "*.tar", "*.gz", "*.bz2", "*.xz", "*.rar", "*.7z",

	// Databases, logs and temp files
	"*.db", "*.sqlite", "*.sqlite3", "*.log", "*.tmp", "*.temp", "*.bak",
	"*.swp", "*.swo", "*~", "logs/", "tmp/", "temp/",

	// OS noise
	".DS_Store", "Thumbs.db", "Desktop.ini",

	// Credentials
	"*.pem", "*.key", "*.crt", "*.p12", ".env",
}

// GetIgnorePatterns returns the built-in default ignore list merged with the
// patterns from the project's .gitignore, if one exists. Results are cached
// per project and invalidated when the .gitignore modification time changes.
func GetIgnorePatterns(rootPath string) ([]string, error) {
	gitignorePath := filepath.Join(rootPath, ".gitignore")

	fileInfo, err := os.Stat(gitignorePath)
	if os.IsNotExist(err) {
		return defaultIgnorePatterns, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .gitignore: %w", err)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := gitignoreCache[gitignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	projectPatterns, err := readGitignore(gitignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	patterns := make([]string, 0, len(defaultIgnorePatterns)+len(projectPatterns))
	patterns = append(patterns, defaultIgnorePatterns...)
	patterns = append(patterns, projectPatterns...)

	// Update cache
	cacheMutex.Lock()
	gitignoreCache[gitignorePath] = &gitignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// readGitignore reads the .gitignore file and returns the list of ignore patterns.
func readGitignore(gitignorePath string) ([]string, error) {
	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// ShouldIgnore reports whether the slash-separated relative path matches any
// of the given ignore patterns. Directory patterns ("dir/") match the
// directory itself and everything below it.
func ShouldIgnore(relPath string, patterns []string) bool {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimSuffix(pattern, "/")
			for _, part := range strings.Split(relPath, "/") {
				if matched, _ := filepath.Match(dir, part); matched {
					return true
				}
			}
			continue
		}

		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// ClearIgnoreCache clears all cached gitignore patterns
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	gitignoreCache = make(map[string]*gitignoreCacheEntry)
}
