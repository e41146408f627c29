package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/westy/filemaster/internal/constants"
	"github.com/westy/filemaster/internal/events"
	"github.com/westy/filemaster/internal/localfs"
	"github.com/westy/filemaster/internal/progress"
	"github.com/westy/filemaster/internal/transfer"
)

// expandSources flattens directories into their files for the parallel
// transfer path. Returns source paths plus the destination each maps to
// inside destDir (directory structure preserved).
func expandSources(paths []string, destDir string) (srcs, dests []string, err error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			srcs = append(srcs, path)
			dests = append(dests, joinDest(destDir, path, path))
			continue
		}
		walkErr := localfs.WalkFiles(path, localfs.WalkOptions{IncludeHidden: true}, func(entry localfs.Entry) error {
			srcs = append(srcs, entry.Path)
			dests = append(dests, joinDest(destDir, path, entry.Path))
			return nil
		})
		if walkErr != nil {
			return nil, nil, walkErr
		}
	}
	return srcs, dests, nil
}

// joinDest maps a source file to its destination path, keeping the tree
// below the copied root.
func joinDest(destDir, root, src string) string {
	rel, err := filepath.Rel(root, src)
	if err != nil || rel == "." {
		return filepath.Join(destDir, filepath.Base(src))
	}
	return filepath.Join(destDir, filepath.Base(root), rel)
}

// executeParallelTransfer queues every file on the worker pool and
// renders one progress bar per in-flight transfer.
func executeParallelTransfer(taskType transfer.TaskType, srcs, dests []string, workers int, preserve, verify bool) error {
	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	defer bus.Close()

	queue := transfer.NewQueue(bus)
	runner := transfer.NewRunner(queue, GetLogger(), transfer.RunnerOptions{
		Workers:       workers,
		PreserveAttrs: preserve,
		Verify:        verify,
	})

	ui := progress.NewBatchUI(len(srcs))

	var mu sync.Mutex
	bars := make(map[string]*barState)

	// Completes a bar exactly once. Events and the post-Wait sweep can
	// both race to finish the same task.
	finish := func(taskID string, err error) {
		mu.Lock()
		state := bars[taskID]
		if state == nil || state.done {
			mu.Unlock()
			return
		}
		state.done = true
		mu.Unlock()
		state.bar.Complete(err)
	}

	ch := bus.SubscribeAll()
	go func() {
		for ev := range ch {
			te, ok := ev.(*events.TransferEvent)
			if !ok {
				continue
			}
			switch ev.Type() {
			case events.EventTransferProgress:
				mu.Lock()
				if state := bars[te.TaskID]; state != nil && !state.done {
					current := int64(te.Progress * float64(te.Size))
					if delta := current - state.bytes; delta > 0 {
						state.bar.Add(delta)
						state.bytes = current
					}
				}
				mu.Unlock()
			case events.EventTransferCompleted:
				finish(te.TaskID, nil)
			case events.EventTransferFailed, events.EventTransferCancelled:
				err := te.Err
				if err == nil {
					err = errors.New("cancelled")
				}
				finish(te.TaskID, err)
			}
		}
	}()

	ctx := GetContext()
	submitted := 0
	for i, src := range srcs {
		if ctx.Err() != nil {
			queue.CancelAll()
			break
		}
		task, err := runner.Submit(taskType, src, dests[i])
		if err != nil {
			fmt.Fprintf(ui.LogWriter(), "fail  %s: %v\n", src, err)
			continue
		}
		submitted++
		mu.Lock()
		bars[task.ID] = &barState{bar: ui.AddBar(src, task.Size)}
		mu.Unlock()
	}

	runner.Wait()

	// The bus is display plumbing; the queue is authoritative. Settle
	// every bar whose terminal event was missed (the bar can register
	// after a fast task already finished).
	mu.Lock()
	ids := make([]string, 0, len(bars))
	for id := range bars {
		ids = append(ids, id)
	}
	mu.Unlock()
	for _, id := range ids {
		task, ok := queue.GetTask(id)
		if !ok {
			continue
		}
		switch task.State {
		case transfer.TaskCompleted:
			finish(id, nil)
		case transfer.TaskFailed:
			finish(id, task.Error)
		case transfer.TaskCancelled:
			err := task.Error
			if err == nil {
				err = errors.New("cancelled")
			}
			finish(id, err)
		}
	}

	ui.Wait()

	stats := queue.Stats()
	fmt.Printf("%d transferred, %d failed, %d cancelled (of %d)\n",
		stats.Completed, stats.Failed, stats.Cancelled, submitted)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d transfers failed", stats.Failed, submitted)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

type barState struct {
	bar   *progress.ItemBar
	bytes int64
	done  bool
}
