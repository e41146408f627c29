// Package transfer provides the transfer queue and worker pool behind
// long-running copy and move operations.
package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TaskType indicates what a task does with its source.
type TaskType string

const (
	TaskTypeCopy TaskType = "copy"
	TaskTypeMove TaskType = "move"
)

// TaskState represents the current state of a transfer task.
type TaskState string

const (
	TaskQueued       TaskState = "queued"       // Waiting for a worker slot
	TaskInitializing TaskState = "initializing" // Acquired a slot, opening files
	TaskActive       TaskState = "active"       // Bytes are moving
	TaskCompleted    TaskState = "completed"
	TaskFailed       TaskState = "failed"
	TaskCancelled    TaskState = "cancelled"
)

// Task represents a single queued copy or move.
// Thread-safe: use the provided methods to read and update state.
type Task struct {
	ID   string
	Type TaskType

	Name   string // Display name (filename)
	Source string // Source path
	Dest   string // Destination path
	Size   int64  // Bytes to transfer

	State    TaskState
	Progress float64 // 0.0 to 1.0
	Speed    float64 // bytes/sec, EMA-smoothed
	Error    error

	// Speed calculation internals
	lastBytes      int64
	lastUpdateTime time.Time

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewTask creates a task in TaskQueued state with its own cancellable
// context.
func NewTask(taskType TaskType, name, source, dest string, size int64) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	return &Task{
		ID:        generateTaskID(),
		Type:      taskType,
		Name:      name,
		Source:    source,
		Dest:      dest,
		Size:      size,
		State:     TaskQueued,
		CreatedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// GetState returns the current state.
func (t *Task) GetState() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// GetProgress returns current progress.
func (t *Task) GetProgress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Progress
}

// GetSpeed returns the smoothed transfer speed in bytes/sec.
func (t *Task) GetSpeed() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Speed
}

// GetError returns the error, if any.
func (t *Task) GetError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Error
}

// Cancel cancels the task's context. Terminal states are left alone.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	if t.State == TaskQueued || t.State == TaskInitializing || t.State == TaskActive {
		t.State = TaskCancelled
		t.CompletedAt = time.Now()
	}
}

// Context returns the task's context for cancellation checks inside the
// copy loop.
func (t *Task) Context() context.Context {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ctx
}

// Clone returns a snapshot copy safe for display code.
func (t *Task) Clone() Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Task{
		ID:          t.ID,
		Type:        t.Type,
		Name:        t.Name,
		Source:      t.Source,
		Dest:        t.Dest,
		Size:        t.Size,
		State:       t.State,
		Progress:    t.Progress,
		Speed:       t.Speed,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

// IsTerminal reports whether the task reached a final state.
func (t *Task) IsTerminal() bool {
	state := t.GetState()
	return state == TaskCompleted || state == TaskFailed || state == TaskCancelled
}

// CanRetry reports whether the task may be re-queued.
func (t *Task) CanRetry() bool {
	state := t.GetState()
	return state == TaskFailed || state == TaskCancelled
}

var (
	taskCounter uint64
	taskMu      sync.Mutex
)

func generateTaskID() string {
	taskMu.Lock()
	defer taskMu.Unlock()
	taskCounter++
	return fmt.Sprintf("task-%d-%d", time.Now().UnixNano(), taskCounter)
}
