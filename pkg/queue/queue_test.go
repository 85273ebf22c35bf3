package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushTryPop_FIFO(t *testing.T) {
	q := New[int](0)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	v, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTryPop_EmptyQueue(t *testing.T) {
	q := New[int](0)
	_, ok := q.TryPop()
	assert.False(t, ok)
}

func TestWaitAndPop_BlocksUntilPush(t *testing.T) {
	q := New[string](0)

	var got string
	var ok bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, ok = q.WaitAndPop()
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push("hello")
	wg.Wait()

	assert.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestWaitAndPop_ReturnsFalseAfterDoneAndDrained(t *testing.T) {
	q := New[int](0)
	q.Push(1)
	q.Done()

	v, ok := q.WaitAndPop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = q.WaitAndPop()
	assert.False(t, ok)
}

func TestDone_Idempotent(t *testing.T) {
	q := New[int](0)
	q.Done()
	q.Done()
	assert.True(t, q.IsDone())
}

func TestPush_AfterDoneIsNoOp(t *testing.T) {
	q := New[int](0)
	q.Done()
	q.Push(1)
	assert.True(t, q.Empty())
}

func TestSize_TracksPushAndPop(t *testing.T) {
	q := New[int](0)
	assert.Equal(t, 0, q.Size())
	q.Push(1)
	q.Push(2)
	assert.Equal(t, 2, q.Size())
	q.TryPop()
	assert.Equal(t, 1, q.Size())
}

func TestWaitAndPop_UnblocksAllWaitersOnDone(t *testing.T) {
	q := New[int](0)

	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, ok := q.WaitAndPop()
			results[idx] = ok
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	q.Done()
	wg.Wait()

	for _, ok := range results {
		assert.False(t, ok)
	}
}
