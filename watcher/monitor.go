package watcher

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	snapshot_contracts "github.com/duckyhq/ducky/snapshot/contracts"
	"github.com/duckyhq/ducky/watcher/contracts"
)

// Monitor runs the long-lived scan loop for one project: scan, persist the
// raw changes, offer them to the pipeline coordinator, sleep, repeat.
type Monitor struct {
	scanner     contracts.IChangeScanner
	store       snapshot_contracts.ISnapshotStore
	coordinator contracts.IPipelineCoordinator
	interval    time.Duration
	running     atomic.Bool
}

// NewMonitor wires a monitor from its collaborators. The interval is the
// configured scan interval between ticks.
func NewMonitor(scanner contracts.IChangeScanner, store snapshot_contracts.ISnapshotStore, coordinator contracts.IPipelineCoordinator, interval time.Duration) *Monitor {
	return &Monitor{
		scanner:     scanner,
		store:       store,
		coordinator: coordinator,
		interval:    interval,
	}
}

// IsRunning reports whether the scan loop is active.
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// Start blocks running the scan loop until the context is cancelled. The
// first tick establishes the baseline (no changes reported); subsequent
// ticks diff against the previous successful scan's start time.
//
// Changes are always written to the snapshot store before admission, so a
// rejected pipeline start never loses the observation.
func (m *Monitor) Start(ctx context.Context, rootPath string, projectID int64) error {
	if !m.running.CompareAndSwap(false, true) {
		return fmt.Errorf("monitor already running")
	}
	defer m.running.Store(false)

	log.Printf("monitor: starting change monitoring for project %d at %s", projectID, rootPath)

	var lastScan *time.Time
	for {
		scanStart := time.Now()

		changes, err := m.scanner.Scan(rootPath, projectID, lastScan)
		if err != nil {
			log.Printf("monitor: scan error for project %d: %v", projectID, err)
		} else {
			if len(changes) > 0 {
				log.Printf("monitor: found %d change(s) for project %d", len(changes), projectID)

				if err := m.store.ApplyChanges(changes); err != nil {
					log.Printf("monitor: failed to persist changes: %v", err)
				}

				if !m.coordinator.ExecuteIfAvailable(ctx, changes, projectID) {
					log.Printf("monitor: changes persisted but pipeline execution skipped")
				}
			}

			// Only a successful scan moves the baseline forward.
			baseline := scanStart
			lastScan = &baseline
		}

		select {
		case <-ctx.Done():
			log.Printf("monitor: change monitoring stopped for project %d", projectID)
			return nil
		case <-time.After(m.interval):
		}
	}
}
