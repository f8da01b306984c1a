package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesSameKey(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	var running, maxRunning atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), 1, func() error {
				n := running.Add(1)
				if n > maxRunning.Load() {
					maxRunning.Store(n)
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Equal(t, 1, m.QueueCount())
}

func TestManager_ReturnsFnError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	want := assert.AnError
	assert.ErrorIs(t, m.Execute(context.Background(), 2, func() error { return want }), want)
}

func TestManager_Timeout(t *testing.T) {
	m := New(&Config{WriteTimeout: 20 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), 3, func() error { <-release; return nil })
	}()
	time.Sleep(5 * time.Millisecond)

	err := m.Execute(context.Background(), 3, func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteTimeout)
	close(release)
}

func TestManager_CleanupIdle(t *testing.T) {
	m := New(&Config{IdleTimeout: time.Hour}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), 4, func() error { return nil }))
	assert.Equal(t, 1, m.QueueCount())

	m.cleanup(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, m.QueueCount())

	require.NoError(t, m.Execute(context.Background(), 4, func() error { return nil }))
}

func TestManager_ClosedRejects(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Shutdown(context.Background()))
	assert.ErrorIs(t, m.Execute(context.Background(), 5, func() error { return nil }), ErrWriteQueueClosed)
}
