package units

import (
	"sync"
	"time"
)

type rateSample struct {
	at    time.Time
	bytes int64
}

// RateCalculator tracks cumulative byte counts over a sliding window and
// derives current and average transfer rates plus an ETA.
type RateCalculator struct {
	mu         sync.Mutex
	windowSize int
	samples    []rateSample
	startedAt  time.Time
	lastBytes  int64
}

// NewRateCalculator creates a calculator keeping windowSize samples
// (10 when zero or negative).
func NewRateCalculator(windowSize int) *RateCalculator {
	if windowSize <= 0 {
		windowSize = 10
	}
	return &RateCalculator{
		windowSize: windowSize,
		startedAt:  time.Now(),
	}
}

// AddSample records the cumulative number of bytes transferred so far.
func (r *RateCalculator) AddSample(bytesTransferred int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastBytes = bytesTransferred
	r.samples = append(r.samples, rateSample{at: time.Now(), bytes: bytesTransferred})
	if len(r.samples) > r.windowSize {
		r.samples = r.samples[len(r.samples)-r.windowSize:]
	}
}

// CurrentRate returns bytes/sec over the sample window, 0 with fewer than
// two samples.
func (r *RateCalculator) CurrentRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.samples) < 2 {
		return 0
	}
	first := r.samples[0]
	last := r.samples[len(r.samples)-1]
	elapsed := last.at.Sub(first.at).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(last.bytes-first.bytes) / elapsed
}

// AverageRate returns bytes/sec since the calculator was created.
func (r *RateCalculator) AverageRate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.startedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(r.lastBytes) / elapsed
}

// ETA estimates the remaining time for totalBytes given the current rate.
// Returns -1 when no estimate is possible yet.
func (r *RateCalculator) ETA(totalBytes int64) time.Duration {
	rate := r.CurrentRate()
	if rate <= 0 {
		return -1
	}

	r.mu.Lock()
	remaining := totalBytes - r.lastBytes
	r.mu.Unlock()

	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/rate) * time.Second
}

// Progress returns completion as 0.0-1.0 for totalBytes.
func (r *RateCalculator) Progress(totalBytes int64) float64 {
	if totalBytes <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := float64(r.lastBytes) / float64(totalBytes)
	if p > 1 {
		p = 1
	}
	return p
}

// Reset clears all samples and restarts the average window.
func (r *RateCalculator) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = nil
	r.lastBytes = 0
	r.startedAt = time.Now()
}
