package models

import "time"

// Project is a registered project in the snapshot store.
type Project struct {
	ID                     int64
	Name                   string
	Path                   string // normalized root path
	NotificationPreference string
}

// FileRecord is the last-known state of a single file or directory.
type FileRecord struct {
	Path     string // normalized, absolute, forward-slash
	Name     string
	IsDir    bool
	Content  string
	Hash     uint64 // xxh3 of Content
	LastEdit time.Time
}

// Dismissal records a warning the user chose not to act on. The notification
// assessment stage reads these to suppress findings the user keeps ignoring.
type Dismissal struct {
	ID         string
	ProjectID  int64
	Warning    string
	Suggestion string
	CreatedAt  time.Time
}
