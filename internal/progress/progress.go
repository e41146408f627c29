// Package progress provides a unified interface for progress reporting
// across CLI (progress bars) and TUI (event bus) modes.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/westy/filemaster/internal/events"
)

// Reporter is the interface for reporting byte-level progress of one
// operation.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	Error(err error)
	SetDescription(desc string)
}

// CLIProgress renders a single progress bar on stderr.
type CLIProgress struct {
	bar *progressbar.ProgressBar
}

// NewCLIProgress creates a new CLI progress reporter.
func NewCLIProgress() *CLIProgress {
	return &CLIProgress{}
}

// Start initializes the progress bar with total size and description.
func (p *CLIProgress) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to the current position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error displays an error message below the bar.
func (p *CLIProgress) Error(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}
}

// SetDescription updates the bar description.
func (p *CLIProgress) SetDescription(desc string) {
	if p.bar != nil {
		p.bar.Describe(desc)
	}
}

// BusProgress publishes progress events on the event bus; the TUI
// subscribes and renders them in its footer.
type BusProgress struct {
	bus       *events.EventBus
	operation string
	total     int64
}

// NewBusProgress creates an event-bus progress reporter for the named
// operation.
func NewBusProgress(bus *events.EventBus, operation string) *BusProgress {
	return &BusProgress{bus: bus, operation: operation}
}

func (p *BusProgress) publish(current int64, message string) {
	p.bus.Publish(&events.ProgressEvent{
		BaseEvent:    events.BaseEvent{EventType: events.EventProgress, Time: time.Now()},
		Operation:    p.operation,
		BytesCurrent: current,
		BytesTotal:   p.total,
		Message:      message,
	})
}

// Start records the total and publishes the initial event.
func (p *BusProgress) Start(total int64, description string) {
	p.total = total
	p.publish(0, description)
}

// Update publishes the current byte position.
func (p *BusProgress) Update(current int64) {
	p.publish(current, "")
}

// Finish publishes a completion event.
func (p *BusProgress) Finish() {
	p.publish(p.total, "")
}

// Error publishes an error event.
func (p *BusProgress) Error(err error) {
	if err != nil {
		p.bus.Publish(&events.ErrorEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventError, Time: time.Now()},
			Operation: p.operation,
			Err:       err,
		})
	}
}

// SetDescription publishes a description-only update.
func (p *BusProgress) SetDescription(desc string) {
	p.publish(0, desc)
}

// NoOp is a reporter that does nothing, for silent operation.
type NoOp struct{}

// NewNoOp creates a no-op progress reporter.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Start(total int64, description string) {}
func (NoOp) Update(current int64)                  {}
func (NoOp) Finish()                               {}
func (NoOp) Error(err error)                       {}
func (NoOp) SetDescription(desc string)            {}

// Reader wraps an io.Reader and reports cumulative bytes read.
type Reader struct {
	reader   io.Reader
	reporter Reporter
	current  int64
}

// NewReader creates a progress-reporting reader.
func NewReader(reader io.Reader, reporter Reporter) *Reader {
	return &Reader{reader: reader, reporter: reporter}
}

// Read implements io.Reader, forwarding the running total to the
// reporter.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.current += int64(n)
	r.reporter.Update(r.current)
	return n, err
}
