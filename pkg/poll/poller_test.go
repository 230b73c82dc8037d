package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollerRunsTask(t *testing.T) {
	var runs atomic.Int32
	p := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	p.Stop()
}

func TestPollerSingleFlight(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once
	var runs atomic.Int32
	p := New("test", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		startedOnce.Do(func() { close(started) })
		<-block
		return nil
	}, zap.NewNop())

	go p.TriggerNow(context.Background())
	<-started

	// Second trigger must be refused while the first run is still executing.
	assert.False(t, p.TriggerNow(context.Background()))
	close(block)

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.TriggerNow(context.Background()))
	assert.Equal(t, int32(2), runs.Load())
}

func TestPollerObserver(t *testing.T) {
	var observed atomic.Int32
	p := New("obs", time.Hour, func(ctx context.Context) error { return nil }, zap.NewNop(),
		WithObserver(func(name string, err error) {
			if name == "obs" && err == nil {
				observed.Add(1)
			}
		}))

	p.TriggerNow(context.Background())
	assert.Equal(t, int32(1), observed.Load())
}

func TestPollerStopWaitsForRun(t *testing.T) {
	p := New("stop", 5*time.Millisecond, func(ctx context.Context) error { return nil }, zap.NewNop())
	ctx := context.Background()
	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	p.Stop()
	// Stop is idempotent.
	p.Stop()
}
