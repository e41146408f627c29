package transfer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/westy/filemaster/internal/events"
)

// RetryExecutor is implemented by components that can re-run failed
// transfers. The queue calls ExecuteRetry when a retry is requested.
type RetryExecutor interface {
	ExecuteRetry(task *Task)
}

// QueueStats holds per-state task counts.
type QueueStats struct {
	Queued       int
	Initializing int
	Active       int
	Completed    int
	Failed       int
	Cancelled    int
}

// Total returns the total number of tracked tasks.
func (s QueueStats) Total() int {
	return s.Queued + s.Initializing + s.Active + s.Completed + s.Failed + s.Cancelled
}

// Queue is a passive transfer tracker. It does not execute transfers;
// the Runner (or any other executor) registers tasks, reports progress
// and marks completion, while the queue maintains state and publishes
// events for the front ends.
type Queue struct {
	tasks     []*Task
	tasksByID map[string]*Task
	mu        sync.RWMutex

	cancelFuncs   map[string]context.CancelFunc
	retryExecutor RetryExecutor

	eventBus *events.EventBus
}

// NewQueue creates a queue publishing on the given bus. The bus may be
// nil for silent tracking.
func NewQueue(eventBus *events.EventBus) *Queue {
	return &Queue{
		tasks:       make([]*Task, 0),
		tasksByID:   make(map[string]*Task),
		cancelFuncs: make(map[string]context.CancelFunc),
		eventBus:    eventBus,
	}
}

// SetRetryExecutor sets the executor that handles retry requests.
func (q *Queue) SetRetryExecutor(executor RetryExecutor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.retryExecutor = executor
}

// Track registers a new transfer in TaskQueued state and publishes the
// queued event.
func (q *Queue) Track(taskType TaskType, name, source, dest string, size int64) *Task {
	task := NewTask(taskType, name, source, dest, size)

	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.tasksByID[task.ID] = task
	q.mu.Unlock()

	q.publish(events.EventTransferQueued, task)
	return task
}

// Activate marks a queued task as initializing once it acquires a
// worker slot.
func (q *Queue) Activate(taskID string) {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	if task != nil && task.State == TaskQueued {
		task.State = TaskInitializing
		task.StartedAt = time.Now()
	}
	q.mu.Unlock()
}

// Start marks an initializing task as actively transferring and
// publishes the started event. Idempotent.
func (q *Queue) Start(taskID string) {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	started := task != nil && task.State == TaskInitializing
	if started {
		task.State = TaskActive
	}
	q.mu.Unlock()

	if started {
		q.publish(events.EventTransferStarted, task)
	}
}

// SetCancel stores the cancel function used by Cancel and CancelAll.
func (q *Queue) SetCancel(taskID string, cancelFn context.CancelFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelFuncs[taskID] = cancelFn
}

// UpdateProgress records task progress (0.0 to 1.0) and recomputes the
// EMA-smoothed speed from the progress delta.
func (q *Queue) UpdateProgress(taskID string, progress float64) {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	if task == nil {
		q.mu.Unlock()
		return
	}

	now := time.Now()
	elapsed := now.Sub(task.lastUpdateTime).Seconds()

	// Skip noisy samples: require 300ms and a meaningful delta
	progressDelta := progress - task.Progress
	if elapsed >= 0.3 && progressDelta > 0.001 {
		instantSpeed := progressDelta * float64(task.Size) / elapsed
		if instantSpeed >= 1024 {
			if task.Speed == 0 {
				task.Speed = instantSpeed
			} else {
				// EMA alpha=0.1 keeps the display smooth
				task.Speed = 0.1*instantSpeed + 0.9*task.Speed
			}
		}
		task.lastUpdateTime = now
	} else if task.lastUpdateTime.IsZero() {
		task.lastUpdateTime = now
	}

	task.Progress = progress
	q.mu.Unlock()

	q.publish(events.EventTransferProgress, task)
}

// Complete marks a task as successfully finished.
func (q *Queue) Complete(taskID string) {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	if task != nil {
		task.State = TaskCompleted
		task.Progress = 1.0
		task.CompletedAt = time.Now()
	}
	delete(q.cancelFuncs, taskID)
	q.mu.Unlock()

	if task != nil {
		q.publish(events.EventTransferCompleted, task)
	}
}

// Fail marks a task as failed with an error.
func (q *Queue) Fail(taskID string, err error) {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	if task != nil {
		task.State = TaskFailed
		task.Error = err
		task.CompletedAt = time.Now()
	}
	delete(q.cancelFuncs, taskID)
	q.mu.Unlock()

	if task != nil {
		q.publish(events.EventTransferFailed, task)
	}
}

// Cancel cancels an active or initializing task via its stored cancel
// function.
func (q *Queue) Cancel(taskID string) error {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	cancelFn := q.cancelFuncs[taskID]
	q.mu.Unlock()

	if task == nil {
		return errors.New("task not found")
	}
	state := task.GetState()
	if state != TaskActive && state != TaskInitializing && state != TaskQueued {
		return errors.New("task is not cancellable")
	}

	if cancelFn != nil {
		cancelFn()
	}

	q.mu.Lock()
	task.State = TaskCancelled
	task.CompletedAt = time.Now()
	delete(q.cancelFuncs, taskID)
	q.mu.Unlock()

	q.publish(events.EventTransferCancelled, task)
	return nil
}

// CancelAll cancels every task that has not reached a terminal state.
func (q *Queue) CancelAll() {
	q.mu.Lock()
	var toCancel []*Task
	var cancelFns []context.CancelFunc
	for _, task := range q.tasks {
		switch task.State {
		case TaskQueued, TaskInitializing, TaskActive:
			toCancel = append(toCancel, task)
			if fn := q.cancelFuncs[task.ID]; fn != nil {
				cancelFns = append(cancelFns, fn)
			}
		}
	}
	q.mu.Unlock()

	for _, fn := range cancelFns {
		fn()
	}

	q.mu.Lock()
	for _, task := range toCancel {
		task.State = TaskCancelled
		task.CompletedAt = time.Now()
		delete(q.cancelFuncs, task.ID)
	}
	q.mu.Unlock()

	for _, task := range toCancel {
		q.publish(events.EventTransferCancelled, task)
	}
}

// Retry resets a failed or cancelled task in place and hands it to the
// retry executor. The task keeps its ID.
func (q *Queue) Retry(taskID string) error {
	q.mu.Lock()
	task := q.tasksByID[taskID]
	executor := q.retryExecutor
	q.mu.Unlock()

	if task == nil {
		return errors.New("task not found")
	}
	if !task.CanRetry() {
		return errors.New("task cannot be retried")
	}
	if executor == nil {
		return errors.New("no retry executor configured")
	}

	task.mu.Lock()
	task.State = TaskQueued
	task.Progress = 0
	task.Speed = 0
	task.Error = nil
	task.StartedAt = time.Time{}
	task.CompletedAt = time.Time{}
	task.lastBytes = 0
	task.lastUpdateTime = time.Time{}
	task.ctx, task.cancel = context.WithCancel(context.Background())
	task.mu.Unlock()

	q.publish(events.EventTransferQueued, task)
	go executor.ExecuteRetry(task)
	return nil
}

// ClearCompleted drops terminal tasks from the queue.
func (q *Queue) ClearCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	filtered := q.tasks[:0]
	for _, task := range q.tasks {
		if task.IsTerminal() {
			delete(q.tasksByID, task.ID)
		} else {
			filtered = append(filtered, task)
		}
	}
	q.tasks = filtered
}

// Stats returns current per-state counts.
func (q *Queue) Stats() QueueStats {
	q.mu.RLock()
	defer q.mu.RUnlock()

	stats := QueueStats{}
	for _, task := range q.tasks {
		switch task.GetState() {
		case TaskQueued:
			stats.Queued++
		case TaskInitializing:
			stats.Initializing++
		case TaskActive:
			stats.Active++
		case TaskCompleted:
			stats.Completed++
		case TaskFailed:
			stats.Failed++
		case TaskCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Tasks returns display snapshots of all tasks in creation order.
func (q *Queue) Tasks() []Task {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]Task, len(q.tasks))
	for i, task := range q.tasks {
		result[i] = task.Clone()
	}
	return result
}

// GetTask returns a snapshot of one task.
func (q *Queue) GetTask(taskID string) (Task, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	task := q.tasksByID[taskID]
	if task == nil {
		return Task{}, false
	}
	return task.Clone(), true
}

func (q *Queue) publish(eventType events.EventType, task *Task) {
	if q.eventBus == nil {
		return
	}
	q.eventBus.Publish(&events.TransferEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			Time:      time.Now(),
		},
		TaskID:   task.ID,
		TaskType: string(task.Type),
		Name:     task.Name,
		Size:     task.Size,
		Progress: task.GetProgress(),
		Speed:    task.GetSpeed(),
		Err:      task.GetError(),
	})
}
