// Package batching implements the loader's batch-size controller: a
// watermark- and memory-pressure-driven adjustment of how many lines the
// producer groups into one batch, exposed as a single stateful sizer so
// the producer loop can query and update it on every flush.
package batching

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AdaptiveBatcher tracks the producer's current batch size and adjusts it
// in response to input-queue depth and host memory pressure.
type AdaptiveBatcher struct {
	min, max int32
	current  int32
	logger   *logrus.Logger
}

// NewAdaptiveBatcher builds a batcher bounded to [min, max], starting at
// initial (clamped into range). logger may be nil, in which case the
// standard logger is used.
func NewAdaptiveBatcher(min, max, initial int, logger *logrus.Logger) *AdaptiveBatcher {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	if initial <= 0 {
		initial = min
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AdaptiveBatcher{
		min:     int32(min),
		max:     int32(max),
		current: int32(clamp32(int32(initial), int32(min), int32(max))),
		logger:  logger,
	}
}

// CurrentBatchSize returns the batch size the next flush should use.
func (b *AdaptiveBatcher) CurrentBatchSize() int {
	return int(atomic.LoadInt32(&b.current))
}

// Adapt recomputes and stores the next batch size from the input queue
// depth and host memory pressure: memory pressure forces a reduction to
// the minimum regardless of depth; otherwise depth above the high
// watermark halves the size (floored at min), depth below the low
// watermark doubles it (capped at max), and depth in between leaves it
// unchanged. It returns the size now in effect.
func (b *AdaptiveBatcher) Adapt(depth, lowWatermark, highWatermark int, underMemoryPressure bool) int {
	current := atomic.LoadInt32(&b.current)
	min, max := b.min, b.max

	var next int32
	switch {
	case underMemoryPressure:
		next = min
	case highWatermark > 0 && depth > highWatermark:
		next = clamp32(current/2, min, max)
	case depth < lowWatermark:
		next = clamp32(current*2, min, max)
	default:
		next = current
	}

	if next != current {
		b.logger.WithFields(logrus.Fields{
			"component": "batching",
			"operation": "Adapt",
			"from":      current,
			"to":        next,
			"pressure":  underMemoryPressure,
		}).Info("adjusted batch size")
	}

	atomic.StoreInt32(&b.current, next)
	return int(next)
}

func clamp32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
