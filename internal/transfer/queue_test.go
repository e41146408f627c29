package transfer

import (
	"errors"
	"testing"
	"time"

	"github.com/westy/filemaster/internal/events"
)

func TestTrackPublishesQueued(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventTransferQueued)

	q := NewQueue(bus)
	task := q.Track(TaskTypeCopy, "a.txt", "/src/a.txt", "/dst/a.txt", 100)

	if task.GetState() != TaskQueued {
		t.Errorf("State = %s, want queued", task.GetState())
	}

	select {
	case ev := <-ch:
		te := ev.(*events.TransferEvent)
		if te.TaskID != task.ID || te.Name != "a.txt" || te.Size != 100 {
			t.Errorf("Queued event = %+v", te)
		}
	case <-time.After(time.Second):
		t.Fatal("No queued event published")
	}
}

func TestLifecycle(t *testing.T) {
	q := NewQueue(nil)
	task := q.Track(TaskTypeMove, "a", "/s/a", "/d/a", 10)

	q.Activate(task.ID)
	if task.GetState() != TaskInitializing {
		t.Errorf("After Activate: %s", task.GetState())
	}
	if task.StartedAt.IsZero() {
		t.Error("Activate should set StartedAt")
	}

	q.Start(task.ID)
	if task.GetState() != TaskActive {
		t.Errorf("After Start: %s", task.GetState())
	}

	// Start is idempotent
	q.Start(task.ID)
	if task.GetState() != TaskActive {
		t.Errorf("Second Start changed state: %s", task.GetState())
	}

	q.Complete(task.ID)
	if task.GetState() != TaskCompleted || task.GetProgress() != 1.0 {
		t.Errorf("After Complete: %s %f", task.GetState(), task.GetProgress())
	}
	if !task.IsTerminal() {
		t.Error("Completed task must be terminal")
	}
}

func TestFail(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	ch := bus.Subscribe(events.EventTransferFailed)

	q := NewQueue(bus)
	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)

	wantErr := errors.New("disk full")
	q.Fail(task.ID, wantErr)

	if task.GetState() != TaskFailed || !errors.Is(task.GetError(), wantErr) {
		t.Errorf("After Fail: %s %v", task.GetState(), task.GetError())
	}
	select {
	case ev := <-ch:
		if te := ev.(*events.TransferEvent); !errors.Is(te.Err, wantErr) {
			t.Errorf("Failed event error = %v", te.Err)
		}
	case <-time.After(time.Second):
		t.Fatal("No failed event published")
	}
}

func TestCancel(t *testing.T) {
	q := NewQueue(nil)
	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)
	q.SetCancel(task.ID, task.Cancel)
	q.Activate(task.ID)
	q.Start(task.ID)

	if err := q.Cancel(task.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if task.GetState() != TaskCancelled {
		t.Errorf("After Cancel: %s", task.GetState())
	}
	select {
	case <-task.Context().Done():
	default:
		t.Error("Cancel should cancel the task context")
	}

	// Terminal task cannot be cancelled again
	if err := q.Cancel(task.ID); err == nil {
		t.Error("Cancelling a terminal task should fail")
	}
}

func TestCancelAll(t *testing.T) {
	q := NewQueue(nil)
	a := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)
	b := q.Track(TaskTypeCopy, "b", "/s/b", "/d/b", 10)
	done := q.Track(TaskTypeCopy, "c", "/s/c", "/d/c", 10)
	q.Activate(a.ID)
	q.Start(a.ID)
	q.Complete(done.ID)

	q.CancelAll()

	if a.GetState() != TaskCancelled || b.GetState() != TaskCancelled {
		t.Errorf("States after CancelAll: %s %s", a.GetState(), b.GetState())
	}
	if done.GetState() != TaskCompleted {
		t.Error("CancelAll must not touch terminal tasks")
	}
}

type recordingExecutor struct {
	ch chan *Task
}

func (r *recordingExecutor) ExecuteRetry(task *Task) { r.ch <- task }

func TestRetry(t *testing.T) {
	q := NewQueue(nil)
	exec := &recordingExecutor{ch: make(chan *Task, 1)}
	q.SetRetryExecutor(exec)

	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)
	q.Fail(task.ID, errors.New("transient"))

	if err := q.Retry(task.ID); err != nil {
		t.Fatalf("Retry: %v", err)
	}

	select {
	case got := <-exec.ch:
		if got.ID != task.ID {
			t.Errorf("Retry handed different task: %s", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("Retry executor never called")
	}

	if task.GetState() != TaskQueued || task.GetError() != nil || task.GetProgress() != 0 {
		t.Errorf("Task not reset: %s %v %f", task.GetState(), task.GetError(), task.GetProgress())
	}
	select {
	case <-task.Context().Done():
		t.Error("Retry must give the task a fresh context")
	default:
	}
}

func TestRetryRejectsNonTerminal(t *testing.T) {
	q := NewQueue(nil)
	q.SetRetryExecutor(&recordingExecutor{ch: make(chan *Task, 1)})
	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)

	if err := q.Retry(task.ID); err == nil {
		t.Error("Retrying a queued task should fail")
	}
	if err := q.Retry("missing"); err == nil {
		t.Error("Retrying a missing task should fail")
	}
}

func TestClearCompleted(t *testing.T) {
	q := NewQueue(nil)
	a := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)
	q.Track(TaskTypeCopy, "b", "/s/b", "/d/b", 10)
	q.Complete(a.ID)

	q.ClearCompleted()

	tasks := q.Tasks()
	if len(tasks) != 1 || tasks[0].Name != "b" {
		t.Errorf("After ClearCompleted: %+v", tasks)
	}
	if _, ok := q.GetTask(a.ID); ok {
		t.Error("Cleared task still resolvable by ID")
	}
}

func TestStats(t *testing.T) {
	q := NewQueue(nil)
	a := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)
	b := q.Track(TaskTypeCopy, "b", "/s/b", "/d/b", 10)
	q.Track(TaskTypeCopy, "c", "/s/c", "/d/c", 10)
	q.Complete(a.ID)
	q.Fail(b.ID, errors.New("x"))

	stats := q.Stats()
	if stats.Completed != 1 || stats.Failed != 1 || stats.Queued != 1 {
		t.Errorf("Stats = %+v", stats)
	}
	if stats.Total() != 3 {
		t.Errorf("Total = %d, want 3", stats.Total())
	}
}

func TestUpdateProgress(t *testing.T) {
	q := NewQueue(nil)
	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 1000)

	q.UpdateProgress(task.ID, 0.5)
	if task.GetProgress() != 0.5 {
		t.Errorf("Progress = %f, want 0.5", task.GetProgress())
	}

	// Unknown IDs are ignored
	q.UpdateProgress("missing", 0.9)
}

func TestCloneIsSnapshot(t *testing.T) {
	q := NewQueue(nil)
	task := q.Track(TaskTypeCopy, "a", "/s/a", "/d/a", 10)

	snap := task.Clone()
	q.Complete(task.ID)

	if snap.State != TaskQueued {
		t.Error("Clone must not track later mutations")
	}
}
