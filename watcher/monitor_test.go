package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckyhq/ducky/snapshot"
	"github.com/duckyhq/ducky/watcher/models"
)

// scriptedScanner returns queued change batches, one per scan call.
type scriptedScanner struct {
	mu       sync.Mutex
	batches  [][]models.FileChange
	lastScan []*time.Time
}

func (s *scriptedScanner) Scan(rootPath string, projectID int64, lastScan *time.Time) ([]models.FileChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastScan = append(s.lastScan, lastScan)
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *scriptedScanner) scanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastScan)
}

// gateCoordinator records offered batches and answers with a fixed verdict.
type gateCoordinator struct {
	mu      sync.Mutex
	admit   bool
	offered [][]models.FileChange
}

func (c *gateCoordinator) ExecuteIfAvailable(ctx context.Context, changes []models.FileChange, projectID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offered = append(c.offered, changes)
	return c.admit
}

func (c *gateCoordinator) offerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.offered)
}

func TestMonitor_PersistsChangesEvenWhenRejected(t *testing.T) {
	store, err := snapshot.NewStore(t.TempDir())
	require.NoError(t, err)
	project, err := store.RegisterProject("/p", "p", "terminal")
	require.NoError(t, err)

	change := models.FileChange{
		Filename:   "a.go",
		Path:       "/p/a.go",
		NewVersion: "package a",
		IsNewFile:  true,
		ProjectID:  project.ID,
	}
	scanner := &scriptedScanner{batches: [][]models.FileChange{{change}}}
	coordinator := &gateCoordinator{admit: false}

	monitor := NewMonitor(scanner, store, coordinator, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = monitor.Start(ctx, "/p", project.ID)
	}()

	require.Eventually(t, func() bool { return coordinator.offerCount() >= 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	// The rejected change still made it into the snapshot.
	index, err := store.FileIndex(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "package a", index["/p/a.go"].Content)
	assert.False(t, monitor.IsRunning())
}

func TestMonitor_FirstScanHasNilBaseline(t *testing.T) {
	store, err := snapshot.NewStore(t.TempDir())
	require.NoError(t, err)

	scanner := &scriptedScanner{}
	monitor := NewMonitor(scanner, store, &gateCoordinator{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = monitor.Start(ctx, "/p", 1)
	}()

	require.Eventually(t, func() bool { return scanner.scanCount() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	scanner.mu.Lock()
	defer scanner.mu.Unlock()
	assert.Nil(t, scanner.lastScan[0], "first tick establishes the baseline")
	assert.NotNil(t, scanner.lastScan[1], "later ticks diff against the previous scan start")
}

func TestMonitor_RejectsDoubleStart(t *testing.T) {
	store, err := snapshot.NewStore(t.TempDir())
	require.NoError(t, err)

	monitor := NewMonitor(&scriptedScanner{}, store, &gateCoordinator{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = monitor.Start(ctx, "/p", 1)
	}()

	require.Eventually(t, monitor.IsRunning, 2*time.Second, 5*time.Millisecond)
	assert.Error(t, monitor.Start(ctx, "/p", 1))

	cancel()
	<-done
}
