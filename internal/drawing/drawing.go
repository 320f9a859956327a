// Package drawing buffers local stroke samples into batches and replays
// received drawing events onto a rendering surface. The surface itself
// (canvas painting, undo snapshot history) is an external collaborator.
package drawing

import (
	"sync"
	"time"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
)

// DefaultBatchSize bounds per-message overhead; latency is bounded by
// flushing on pointer release.
const DefaultBatchSize = 5

// Surface is the rendering collaborator. It owns its own bounded undo
// history of raster snapshots.
type Surface interface {
	DrawStroke(stroke entity.Stroke)
	FloodFill(x, y int, color string)
	PushSnapshot()
	Undo()
}

// Batcher accumulates stroke samples and flushes them as a StrokeBatch
// when the buffer reaches the batch size or the pointer is released,
// whichever comes first.
type Batcher struct {
	mu      sync.Mutex
	size    int
	buffer  []entity.Stroke
	onBatch func(entity.StrokeBatch)
}

func NewBatcher(size int, onBatch func(entity.StrokeBatch)) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}

	return &Batcher{size: size, onBatch: onBatch}
}

// Add buffers one stroke sample, flushing when the batch fills up.
func (that *Batcher) Add(stroke entity.Stroke) {
	that.mu.Lock()
	that.buffer = append(that.buffer, stroke)
	full := len(that.buffer) >= that.size
	var batch *entity.StrokeBatch
	if full {
		batch = that.take()
	}
	that.mu.Unlock()

	if batch != nil {
		that.onBatch(*batch)
	}
}

// Flush emits whatever is buffered; called on pointer release.
func (that *Batcher) Flush() {
	that.mu.Lock()
	batch := that.take()
	that.mu.Unlock()

	if batch != nil {
		that.onBatch(*batch)
	}
}

func (that *Batcher) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.buffer)
}

func (that *Batcher) take() *entity.StrokeBatch {
	if len(that.buffer) == 0 {
		return nil
	}

	batch := &entity.StrokeBatch{
		Strokes:    that.buffer,
		CapturedAt: time.Now().UnixMilli(),
	}
	that.buffer = nil

	return batch
}
