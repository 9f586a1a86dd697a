package renderer

import (
	"sync"
	"sync/atomic"
)

// ProgressFunc receives the completed percentage of a render, 0 to 100
type ProgressFunc func(percent int)

// ProgressTracker counts finished scanlines and reports the percentage only
// when it changes. RowDone may be called from any goroutine.
type ProgressTracker struct {
	height    int
	completed atomic.Int64
	mu        sync.Mutex
	last      int
	callback  ProgressFunc
}

// NewProgressTracker creates a tracker for a frame with the given number of rows.
// A nil callback disables reporting.
func NewProgressTracker(height int, callback ProgressFunc) *ProgressTracker {
	return &ProgressTracker{
		height:   height,
		last:     -1,
		callback: callback,
	}
}

// RowDone records one finished scanline
func (p *ProgressTracker) RowDone() {
	completed := int(p.completed.Add(1))
	if p.callback == nil {
		return
	}

	percent := Percent(completed-1, p.height)

	p.mu.Lock()
	defer p.mu.Unlock()
	if percent > p.last {
		p.last = percent
		p.callback(percent)
	}
}

// Completed returns the number of scanlines finished so far
func (p *ProgressTracker) Completed() int {
	return int(p.completed.Load())
}

// Percent returns floor(100*row/(height-1)), the progress after scanline row
func Percent(row, height int) int {
	if height <= 1 {
		return 100
	}
	return 100 * row / (height - 1)
}
