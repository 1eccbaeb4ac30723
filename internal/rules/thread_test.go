package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestThreadPool_GetPut(t *testing.T) {
	pool := NewThreadPool(5, nil)

	thread := pool.Get("test1")
	require.NotNil(t, thread, "Get returned nil")
	assert.Equal(t, "test1", thread.Name, "thread.Name")

	pool.Put(thread)
	assert.Equal(t, 1, pool.Size(), "pool size after put")

	// Reused thread takes the new name
	thread2 := pool.Get("test2")
	assert.Equal(t, 0, pool.Size(), "pool size after get")
	assert.Equal(t, "test2", thread2.Name, "thread.Name after reuse")
}

func TestThreadPool_MaxSize(t *testing.T) {
	pool := NewThreadPool(2, nil)

	threads := make([]*starlark.Thread, 3)
	for i := 0; i < 3; i++ {
		threads[i] = pool.Get("test")
	}
	for _, thread := range threads {
		pool.Put(thread)
	}

	assert.Equal(t, 2, pool.Size(), "pool size should be max (2)")
}

func TestThreadPool_Concurrent(t *testing.T) {
	pool := NewThreadPool(4, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			thread := pool.Get("worker")
			pool.Put(thread)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, pool.Size(), 4)
}
