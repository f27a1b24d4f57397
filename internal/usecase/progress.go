package usecase

import (
	"sync"
	"time"

	"github.com/studiokawa/proofroom"
)

// progressEmitInterval bounds callback frequency: object stores fire byte
// progress per network event, which can be very chatty.
const progressEmitInterval = 150 * time.Millisecond

// progressTracker aggregates per-file upload fractions into one batch-level
// progress report. The percentage is the arithmetic mean of all fractions.
// Safe for concurrent use by the upload goroutines of a window.
type progressTracker struct {
	mu        sync.Mutex
	fractions []float64
	completed int
	emit      func(proofroom.UploadProgress)
	lastEmit  time.Time
}

func newProgressTracker(total int, emit func(proofroom.UploadProgress)) *progressTracker {
	return &progressTracker{
		fractions: make([]float64, total),
		emit:      emit,
	}
}

// update records the in-flight fraction for one file.
func (t *progressTracker) update(index int, fraction float64) {
	if t.emit == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fractions[index] = clamp01(fraction)
	t.flushLocked(false)
}

// settle marks one file as finished (succeeded or failed) at the given
// final fraction.
func (t *progressTracker) settle(index int, fraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fractions[index] = clamp01(fraction)
	t.completed++
	t.flushLocked(true)
}

// done emits a final report unconditionally.
func (t *progressTracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushLocked(true)
}

func (t *progressTracker) flushLocked(force bool) {
	if t.emit == nil {
		return
	}
	now := time.Now()
	if !force && now.Sub(t.lastEmit) < progressEmitInterval {
		return
	}
	t.lastEmit = now

	var sum float64
	for _, f := range t.fractions {
		sum += f
	}
	total := len(t.fractions)
	mean := 0.0
	if total > 0 {
		mean = sum / float64(total)
	}
	status := proofroom.UploadStatusUploading
	if t.completed >= total {
		status = proofroom.UploadStatusDone
	}
	t.emit(proofroom.UploadProgress{
		Percentage: mean * 100,
		Completed:  t.completed,
		Total:      total,
		Status:     status,
	})
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
