package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolLimitsParallelism(t *testing.T) {
	pool := NewPool(2)

	var current, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Run(context.Background(), func() error {
				n := atomic.AddInt64(&current, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	assert.Equal(t, 0, pool.Active())
}

func TestPoolUnboundedWhenLimitNonPositive(t *testing.T) {
	pool := NewPool(0)
	require.Equal(t, 0, pool.Limit())

	// With no semaphore every task runs immediately.
	start := make(chan struct{})
	var running int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(context.Background(), func() error {
				atomic.AddInt64(&running, 1)
				<-start
				return nil
			})
		}()
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&running) == 4
	}, time.Second, time.Millisecond)
	close(start)
	wg.Wait()
}

func TestPoolRunObservesCancellation(t *testing.T) {
	pool := NewPool(1)

	release := make(chan struct{})
	go pool.Run(context.Background(), func() error {
		<-release
		return nil
	})

	// Wait for the slot to be held.
	require.Eventually(t, func() bool { return pool.Active() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Run(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestPoolReleasesSlotOnTaskError(t *testing.T) {
	pool := NewPool(1)

	wantErr := assert.AnError
	err := pool.Run(context.Background(), func() error { return wantErr })
	require.ErrorIs(t, err, wantErr)

	// The slot must be free for the next task.
	done := make(chan error, 1)
	go func() {
		done <- pool.Run(context.Background(), func() error { return nil })
	}()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("slot was not released after task error")
	}
}
