// Package events provides the pub/sub event bus that decouples the file
// operation engine from the CLI and TUI front ends.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/westy/filemaster/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventProgress EventType = "progress"
	EventLog      EventType = "log"
	EventError    EventType = "error"

	// Transfer queue events
	EventTransferQueued    EventType = "transfer_queued"    // Task added to queue
	EventTransferStarted   EventType = "transfer_started"   // Bytes started moving
	EventTransferProgress  EventType = "transfer_progress"  // Progress update
	EventTransferCompleted EventType = "transfer_completed" // Successfully completed
	EventTransferFailed    EventType = "transfer_failed"    // Failed with error
	EventTransferCancelled EventType = "transfer_cancelled" // Cancelled by user

	// Pane events
	EventDirChanged EventType = "dir_changed" // A pane's directory contents changed

	// Configuration change events
	EventConfigChanged EventType = "config_changed" // Settings changed, caches should be invalidated
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ProgressEvent represents batch operation progress updates
type ProgressEvent struct {
	BaseEvent
	Operation    string  // "copy", "move", "delete", "compress", ...
	Current      int     // Items processed so far
	Total        int     // Total items
	BytesCurrent int64
	BytesTotal   int64
	Message      string // Usually the current file name
}

// LogEvent represents log messages routed through the bus
type LogEvent struct {
	BaseEvent
	Level   string
	Message string
	Err     error
}

// ErrorEvent represents error conditions
type ErrorEvent struct {
	BaseEvent
	Operation string
	Path      string
	Err       error
}

// TransferEvent represents transfer queue lifecycle events
type TransferEvent struct {
	BaseEvent
	TaskID   string  // Unique task ID
	TaskType string  // "copy" or "move"
	Name     string  // Display name (filename)
	Size     int64   // File size in bytes
	Progress float64 // 0.0 to 1.0
	Speed    float64 // bytes/sec
	Err      error   // Error if failed
}

// DirChangedEvent is published after an operation mutates a directory so
// panes and caches can refresh.
type DirChangedEvent struct {
	BaseEvent
	Dir string
}

// ConfigChangedEvent is published when persisted settings change.
type ConfigChangedEvent struct {
	BaseEvent
	Section string
	Key     string
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event // Subscribers to all events
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of events dropped due to full buffers
}

// NewEventBus creates a new event bus with the specified buffer size.
// Buffer size is clamped to [EventBusDefaultBuffer, EventBusMaxBuffer].
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events.
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// droppable reports whether an event may be discarded when a
// subscriber's buffer is full. Progress updates are expendable; a
// missed one costs a display tick. Lifecycle events must reach
// subscribers that key state transitions on them.
func droppable(event Event) bool {
	switch event.Type() {
	case EventProgress, EventTransferProgress:
		return true
	}
	return false
}

// Publish sends an event to all subscribers. Progress events are
// dropped (and counted) for subscribers whose buffer is full; other
// events evict buffered events until they fit.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		eb.send(ch, event)
	}
	for _, ch := range eb.all {
		eb.send(ch, event)
	}
}

func (eb *EventBus) send(ch chan Event, event Event) {
	select {
	case ch <- event:
		return
	default:
	}
	if droppable(event) {
		eb.droppedEvents.Add(1)
		return
	}
	for {
		// Evict the oldest buffered event to make room. The channel
		// cannot be closed here: Close needs the write lock.
		select {
		case <-ch:
			eb.droppedEvents.Add(1)
		default:
		}
		select {
		case ch <- event:
			return
		default:
		}
	}
}

// DroppedEvents returns the number of events dropped so far.
func (eb *EventBus) DroppedEvents() int64 {
	return eb.droppedEvents.Load()
}

// Close shuts down the event bus and closes all subscriber channels.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}
	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
	eb.subscribers = make(map[EventType][]chan Event)
	eb.all = nil
}
