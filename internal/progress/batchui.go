package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// BatchUI renders one progress bar per concurrent transfer using mpb.
// On a non-TTY it falls back to plain line output.
type BatchUI struct {
	progress   *mpb.Progress
	isTerminal bool
	totalItems int
	started    int32
}

// ItemBar tracks one file within a BatchUI.
type ItemBar struct {
	bar       *mpb.Bar
	ui        *BatchUI
	index     int
	name      string
	size      int64
	startTime time.Time
	current   int64
	lastTick  time.Time
}

// NewBatchUI creates a multi-bar UI for the given number of items.
func NewBatchUI(totalItems int) *BatchUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		enableANSI(os.Stderr)
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &BatchUI{
		progress:   p,
		isTerminal: isTerminal,
		totalItems: totalItems,
	}
}

// AddBar creates a bar for one file.
func (u *BatchUI) AddBar(path string, size int64) *ItemBar {
	index := int(atomic.AddInt32(&u.started, 1))
	name := shortPath(path, 2)

	ib := &ItemBar{
		ui:        u,
		index:     index,
		name:      name,
		size:      size,
		startTime: time.Now(),
		lastTick:  time.Now(),
	}

	if u.isTerminal {
		ib.bar = u.progress.New(size,
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s", index, u.totalItems, name), decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 30, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s (%.1f MiB)\n",
			index, u.totalItems, name, float64(size)/(1024*1024))
	}
	return ib
}

// Add advances the bar by n bytes.
func (b *ItemBar) Add(n int64) {
	b.current += n
	if b.bar == nil {
		return
	}
	now := time.Now()
	b.bar.EwmaIncrInt64(n, now.Sub(b.lastTick))
	b.lastTick = now
}

// Complete finishes the bar and prints a one-line summary above the
// remaining bars.
func (b *ItemBar) Complete(err error) {
	elapsed := time.Since(b.startTime)

	var msg string
	if err == nil {
		if b.bar != nil {
			b.bar.SetCurrent(b.size)
			b.bar.SetTotal(b.size, true)
		}
		speed := float64(b.size) / elapsed.Seconds() / (1024 * 1024)
		msg = fmt.Sprintf("done  %s (%.1f MiB, %s, %.1f MiB/s)\n",
			b.name, float64(b.size)/(1024*1024), elapsed.Round(time.Second), speed)
	} else {
		if b.bar != nil {
			b.bar.Abort(false)
		}
		msg = fmt.Sprintf("fail  %s: %v\n", b.name, err)
	}

	// Write through mpb's writer so in-flight bars are not corrupted
	if b.ui.isTerminal && b.ui.progress != nil {
		b.ui.progress.Write([]byte(msg))
	} else {
		fmt.Fprint(os.Stderr, msg)
	}
}

// Wait blocks until all bars complete.
func (u *BatchUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// LogWriter returns a writer that safely prints above the bars.
func (u *BatchUI) LogWriter() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// IsTerminal reports whether bars are actually rendered.
func (u *BatchUI) IsTerminal() bool {
	return u.isTerminal
}

// shortPath keeps the last n path components.
func shortPath(path string, n int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= n {
		return filepath.Base(path)
	}
	return "…/" + strings.Join(parts[len(parts)-n:], "/")
}
