package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	p, err := New("gen", Config{}, nil)
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, "gen", p.Name())
	assert.Equal(t, DefaultConfig().Capacity, p.Cap())
}

func TestSubmit_RunsAllTasks(t *testing.T) {
	p, err := New("gen", Config{Capacity: 3}, nil)
	require.NoError(t, err)
	defer p.Release()

	var counter atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(50), counter.Load())
	assert.Equal(t, int64(50), p.Stats().Submitted)
}

func TestSubmit_BoundsConcurrency(t *testing.T) {
	p, err := New("gen", Config{Capacity: 2}, nil)
	require.NoError(t, err)
	defer p.Release()

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestSubmit_RecoversPanics(t *testing.T) {
	p, err := New("gen", Config{Capacity: 1}, nil)
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	assert.Eventually(t, func() bool { return p.Stats().Panics == 1 }, time.Second, 5*time.Millisecond)

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Submit(func() {
		defer wg.Done()
		ran.Store(true)
	}))
	wg.Wait()
	assert.True(t, ran.Load())
}

func TestSubmit_Nonblocking(t *testing.T) {
	p, err := New("gen", Config{Capacity: 1, Nonblocking: true}, nil)
	require.NoError(t, err)
	defer p.Release()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolOverload)
	assert.Equal(t, int64(1), p.Stats().Rejected)
	close(block)
}

func TestRelease(t *testing.T) {
	p, err := New("gen", Config{Capacity: 1}, nil)
	require.NoError(t, err)

	p.Release()
	p.Release()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}
