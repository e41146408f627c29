package progress

import (
	"strings"
	"testing"
	"time"

	"github.com/westy/filemaster/internal/events"
)

func TestBusProgressPublishes(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventProgress)

	p := NewBusProgress(bus, "copy")
	p.Start(100, "copying")
	p.Update(40)
	p.Finish()

	var got []*events.ProgressEvent
	for i := 0; i < 3; i++ {
		select {
		case ev := <-ch:
			got = append(got, ev.(*events.ProgressEvent))
		case <-time.After(time.Second):
			t.Fatalf("Timed out waiting for event %d", i)
		}
	}

	if got[0].Message != "copying" || got[0].BytesTotal != 100 {
		t.Errorf("Start event = %+v", got[0])
	}
	if got[1].BytesCurrent != 40 {
		t.Errorf("Update event = %+v", got[1])
	}
	if got[2].BytesCurrent != 100 {
		t.Errorf("Finish event = %+v", got[2])
	}
}

func TestBusProgressError(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventError)

	p := NewBusProgress(bus, "delete")
	p.Error(errFixture)

	select {
	case ev := <-ch:
		ee := ev.(*events.ErrorEvent)
		if ee.Operation != "delete" || ee.Err != errFixture {
			t.Errorf("Error event = %+v", ee)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for error event")
	}
}

var errFixture = errStr("boom")

type errStr string

func (e errStr) Error() string { return string(e) }

func TestReaderReports(t *testing.T) {
	bus := events.NewEventBus(100)
	defer bus.Close()
	ch := bus.Subscribe(events.EventProgress)

	p := NewBusProgress(bus, "download")
	p.Start(11, "stream")
	<-ch

	r := NewReader(strings.NewReader("hello world"), p)
	buf := make([]byte, 5)
	var total int
	for {
		n, err := r.Read(buf)
		total += n
		if err != nil {
			break
		}
	}
	if total != 11 {
		t.Fatalf("Read %d bytes, want 11", total)
	}

	var last int64
	for {
		select {
		case ev := <-ch:
			last = ev.(*events.ProgressEvent).BytesCurrent
			continue
		default:
		}
		break
	}
	if last != 11 {
		t.Errorf("Final reported position = %d, want 11", last)
	}
}

func TestNoOpIsSafe(t *testing.T) {
	var r Reporter = NewNoOp()
	r.Start(10, "x")
	r.Update(5)
	r.SetDescription("y")
	r.Error(errFixture)
	r.Finish()
}

func TestShortPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/c/d.txt", "…/c/d.txt"},
		{"d.txt", "d.txt"},
		{"c/d.txt", "d.txt"},
	}
	for _, tt := range tests {
		if got := shortPath(tt.path, 2); got != tt.want {
			t.Errorf("shortPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
