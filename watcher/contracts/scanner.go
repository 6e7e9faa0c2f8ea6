package contracts

import (
	"context"
	"time"

	"github.com/duckyhq/ducky/watcher/models"
)

// IChangeScanner produces the minimal set of file changes since the last
// scan point. A nil lastScan means this is the first scan of a monitoring
// session and must yield no changes.
type IChangeScanner interface {
	Scan(rootPath string, projectID int64, lastScan *time.Time) ([]models.FileChange, error)
}

// IPipelineCoordinator is the admission-control gate the monitor hands
// detected changes to. A false return means the changes were not analyzed
// (already persisted, reconsidered on a later tick).
type IPipelineCoordinator interface {
	ExecuteIfAvailable(ctx context.Context, changes []models.FileChange, projectID int64) bool
}
