package watcher

import (
	"bytes"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/duckyhq/ducky/snapshot"
	snapshot_contracts "github.com/duckyhq/ducky/snapshot/contracts"
	"github.com/duckyhq/ducky/utils"
	"github.com/duckyhq/ducky/watcher/contracts"
	"github.com/duckyhq/ducky/watcher/models"
)

// maxFileSize bounds how large a file the scanner will read (100 KB).
const maxFileSize = 100 * 1024

// ChangeScanner diffs the live filesystem against the snapshot store.
type ChangeScanner struct {
	store snapshot_contracts.ISnapshotStore
}

// NewChangeScanner initializes a scanner backed by the given snapshot store.
func NewChangeScanner(store snapshot_contracts.ISnapshotStore) contracts.IChangeScanner {
	return &ChangeScanner{store: store}
}

// localEntry is the metadata collected during the walk. Content is read
// lazily and only for entries that turn out to be new or modified.
type localEntry struct {
	path    string // normalized absolute path
	name    string
	isDir   bool
	modTime time.Time
}

// Scan returns the changes between the snapshot store and the project tree.
//
// A nil lastScan marks the first scan of a monitoring session: it returns no
// changes and the caller treats the next tick as the effective baseline.
// This avoids a full-tree content diff on startup for large projects, at the
// cost of not surfacing edits made before the first real tick.
func (scanner *ChangeScanner) Scan(rootPath string, projectID int64, lastScan *time.Time) ([]models.FileChange, error) {
	if lastScan == nil {
		return []models.FileChange{}, nil
	}

	entries, err := scanner.walkProjectFiles(rootPath)
	if err != nil {
		return nil, err
	}

	index, err := scanner.store.FileIndex(projectID)
	if err != nil {
		return nil, err
	}

	var changes []models.FileChange
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		seen[entry.path] = struct{}{}
		record, known := index[entry.path]

		// Directories are only ever reported when newly created; their
		// modification times say nothing about content.
		if entry.isDir {
			if !known {
				changes = append(changes, models.FileChange{
					Filename:  entry.name,
					Path:      entry.path,
					LastEdit:  entry.modTime,
					IsDir:     true,
					IsNewFile: true,
					ProjectID: projectID,
				})
			}
			continue
		}

		if !known {
			content, ok := readFileContent(entry.path)
			if !ok {
				continue
			}
			changes = append(changes, models.FileChange{
				Filename:   entry.name,
				Path:       entry.path,
				NewVersion: content,
				LastEdit:   entry.modTime,
				IsNewFile:  true,
				ProjectID:  projectID,
			})
			continue
		}

		// Unmodified since the last scan point: no content read at all.
		if !entry.modTime.After(*lastScan) {
			continue
		}

		content, ok := readFileContent(entry.path)
		if !ok {
			continue
		}
		if snapshot.HashContent(content) == record.Hash && content == record.Content {
			// mtime bumped without a content change (touch, checkout).
			continue
		}
		changes = append(changes, models.FileChange{
			Filename:   entry.name,
			Path:       entry.path,
			OldVersion: record.Content,
			NewVersion: content,
			LastEdit:   entry.modTime,
			ProjectID:  projectID,
		})
	}

	// Snapshot entries with no local counterpart are deletions. Paths the
	// walk excluded (oversized files, newly ignored patterns) are still on
	// disk, so confirm the file is genuinely gone before reporting it.
	for path, record := range index {
		if _, ok := seen[path]; ok {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			continue
		}
		changes = append(changes, models.FileChange{
			Filename:   record.Name,
			Path:       path,
			OldVersion: record.Content,
			NewVersion: "",
			LastEdit:   time.Now(),
			IsDir:      record.IsDir,
			ProjectID:  projectID,
		})
	}

	return changes, nil
}

// walkProjectFiles collects filename and modification-time metadata for every
// non-ignored path under rootPath. Per-entry errors are skipped so one
// unreadable file never aborts the scan of the remaining tree.
func (scanner *ChangeScanner) walkProjectFiles(rootPath string) ([]localEntry, error) {
	ignorePatterns, err := utils.GetIgnorePatterns(rootPath)
	if err != nil {
		return nil, err
	}

	var entries []localEntry
	walkErr := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath, relErr := filepath.Rel(rootPath, path)
		if relErr != nil || relativePath == "." {
			return nil
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		if utils.ShouldIgnore(relativePath, ignorePatterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		if !d.IsDir() && info.Size() > maxFileSize {
			return nil
		}

		entries = append(entries, localEntry{
			path:    utils.NormalizePath(path),
			name:    d.Name(),
			isDir:   d.IsDir(),
			modTime: info.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return entries, nil
}

// readFileContent reads a file for diffing. Unreadable and binary files are
// silently skipped: the second return value is false and no change is
// reported for them.
func readFileContent(path string) (string, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("scanner: skipping unreadable file %s: %v", path, err)
		return "", false
	}
	if bytes.ContainsRune(content, 0) || !utf8.Valid(content) {
		return "", false
	}
	return string(content), true
}
