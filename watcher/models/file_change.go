package models

import "time"

// FileChange is one detected filesystem delta between the snapshot store and
// the live project tree. An empty NewVersion with a non-empty OldVersion
// denotes a deletion.
type FileChange struct {
	Filename   string
	Path       string // normalized, absolute, forward-slash
	OldVersion string
	NewVersion string
	LastEdit   time.Time
	IsDir      bool
	IsNewFile  bool
	ProjectID  int64
}

// IsDeletion reports whether this change removes a previously known file.
func (c FileChange) IsDeletion() bool {
	return c.NewVersion == "" && c.OldVersion != ""
}
