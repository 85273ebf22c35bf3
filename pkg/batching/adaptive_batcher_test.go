package batching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAdaptiveBatcher_ClampsInitialToRange(t *testing.T) {
	b := NewAdaptiveBatcher(10, 100, 5, nil)
	assert.Equal(t, 10, b.CurrentBatchSize())

	b = NewAdaptiveBatcher(10, 100, 500, nil)
	assert.Equal(t, 100, b.CurrentBatchSize())
}

func TestAdapt_MemoryPressureForcesMinimum(t *testing.T) {
	b := NewAdaptiveBatcher(10, 1000, 500, nil)
	next := b.Adapt(0, 1, 100, true)
	assert.Equal(t, 10, next)
	assert.Equal(t, 10, b.CurrentBatchSize())
}

func TestAdapt_HighWatermarkHalvesFlooredAtMin(t *testing.T) {
	b := NewAdaptiveBatcher(4, 1000, 16, nil)
	next := b.Adapt(50, 1, 20, false)
	assert.Equal(t, 8, next)

	b = NewAdaptiveBatcher(10, 1000, 15, nil)
	next = b.Adapt(50, 1, 20, false)
	assert.Equal(t, 10, next)
}

func TestAdapt_LowWatermarkDoublesCappedAtMax(t *testing.T) {
	b := NewAdaptiveBatcher(10, 100, 60, nil)
	next := b.Adapt(0, 5, 20, false)
	assert.Equal(t, 100, next)
}

func TestAdapt_BetweenWatermarksLeavesUnchanged(t *testing.T) {
	b := NewAdaptiveBatcher(10, 1000, 100, nil)
	next := b.Adapt(10, 5, 20, false)
	assert.Equal(t, 100, next)
}
