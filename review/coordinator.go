package review

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/duckyhq/ducky/review/contracts"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

// Coordinator is the admission gate in front of the executor. It enforces a
// global capacity bound, one run per project at a time, and mutual exclusion
// with an active chat. Slots are released on every exit path, including
// panics.
type Coordinator struct {
	mu      sync.Mutex
	running map[int64]struct{}

	maxConcurrent int
	chatState     contracts.IChatState
	executor      *Executor
	notifier      contracts.INotifier
}

func NewCoordinator(maxConcurrent int, chatState contracts.IChatState, executor *Executor, notifier contracts.INotifier) *Coordinator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Coordinator{
		running:       make(map[int64]struct{}),
		maxConcurrent: maxConcurrent,
		chatState:     chatState,
		executor:      executor,
		notifier:      notifier,
	}
}

// CanStart reports whether a run for the project would be admitted right
// now. Advisory only: admission is re-checked atomically inside
// ExecuteIfAvailable.
func (c *Coordinator) CanStart(projectID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canStartLocked(projectID)
}

func (c *Coordinator) canStartLocked(projectID int64) bool {
	if c.chatState != nil && c.chatState.IsActive() {
		return false
	}
	if len(c.running) >= c.maxConcurrent {
		return false
	}
	_, inFlight := c.running[projectID]
	return !inFlight
}

// ExecuteIfAvailable admits the changes if a slot is free and runs the
// pipeline on its own goroutine. It returns immediately; false means the
// changes were not admitted.
func (c *Coordinator) ExecuteIfAvailable(ctx context.Context, changes []watcher_models.FileChange, projectID int64) bool {
	if len(changes) == 0 {
		return false
	}

	c.mu.Lock()
	if !c.canStartLocked(projectID) {
		c.mu.Unlock()
		return false
	}
	c.running[projectID] = struct{}{}
	c.mu.Unlock()

	go c.run(ctx, changes, projectID)
	return true
}

func (c *Coordinator) run(ctx context.Context, changes []watcher_models.FileChange, projectID int64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline for project %d panicked: %v", projectID, r)
		}
		c.release(projectID)
	}()

	output, err := c.executor.Execute(ctx, changes)
	if err != nil {
		log.Printf("pipeline for project %d failed: %v", projectID, err)
		return
	}
	if output == nil {
		return
	}
	if c.notifier != nil {
		c.notifier.Notify(output)
	}
}

func (c *Coordinator) release(projectID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.running, projectID)
}

// WaitForCompletion blocks until every running pipeline has finished or the
// timeout elapses. It returns true when all runs completed in time.
func (c *Coordinator) WaitForCompletion(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		c.mu.Lock()
		idle := len(c.running) == 0
		c.mu.Unlock()
		if idle {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Status reports the coordinator's admission state for introspection.
func (c *Coordinator) Status() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int64, 0, len(c.running))
	for id := range c.running {
		ids = append(ids, id)
	}

	chatActive := c.chatState != nil && c.chatState.IsActive()
	return map[string]interface{}{
		"running_count":          len(c.running),
		"max_concurrent":         c.maxConcurrent,
		"running_project_ids":    ids,
		"capacity_available":     len(c.running) < c.maxConcurrent,
		"chat_active":            chatActive,
		"can_start_new_pipeline": !chatActive && len(c.running) < c.maxConcurrent,
	}
}
