package contracts

import (
	"github.com/duckyhq/ducky/snapshot/models"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

// ISnapshotStore is the persisted record of previously observed files per
// project, used as the diff baseline by the change scanner and as a read-only
// retrieval source by pipeline agents.
type ISnapshotStore interface {
	RegisterProject(path string, name string, notificationPreference string) (*models.Project, error)
	GetProjectByPath(path string) (*models.Project, bool)

	// FileIndex returns a copy of the project's path-keyed file records.
	FileIndex(projectID int64) (map[string]models.FileRecord, error)

	// ProjectFiles lists non-directory file records, optionally excluding one
	// path. Side-effect free; used by retrieval-capable agents.
	ProjectFiles(projectID int64, excludePath string) ([]models.FileRecord, error)

	// ApplyChanges writes accepted changes through to disk: upserts for new
	// and modified entries, removals for deletions.
	ApplyChanges(changes []watcher_models.FileChange) error

	AddDismissal(dismissal models.Dismissal) error
	ListDismissals(projectID int64) ([]models.Dismissal, error)

	// Reset removes all persisted snapshot state.
	Reset() error
}
