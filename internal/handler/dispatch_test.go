package handler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(2, 8)
	defer p.Close()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		ok := p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		})
		require.True(t, ok)
	}
	wg.Wait()
	assert.Equal(t, int32(10), ran.Load())
}

func TestPoolRecoversPanics(t *testing.T) {
	p := NewPool(1, 4)
	defer p.Close()

	done := make(chan struct{})
	require.True(t, p.Submit(func() { panic("boom") }))
	require.True(t, p.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}

func TestPoolDropsWhenSaturated(t *testing.T) {
	p := NewPool(1, 1)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	require.True(t, p.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	// Worker busy: one slot in the queue, then drops.
	require.True(t, p.Submit(func() {}))
	assert.False(t, p.Submit(func() {}))

	close(block)
}
