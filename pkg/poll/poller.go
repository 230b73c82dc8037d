package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Task is one poll tick. A returned error is logged and reported but does not
// stop the loop.
type Task func(context.Context) error

// Poller runs a task on a fixed interval. At most one run is in flight at any
// time: if a tick fires while the previous run is still executing, that tick
// is skipped rather than overlapped.
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger
	onRun    func(name string, err error)

	inFlight atomic.Bool
	cancel   context.CancelFunc
	mu       sync.Mutex
	done     chan struct{}
	started  bool
}

// Option customises a Poller.
type Option func(*Poller)

// WithObserver registers a callback invoked after every completed run.
func WithObserver(fn func(name string, err error)) Option {
	return func(p *Poller) { p.onRun = fn }
}

// New constructs a poller. interval must be positive.
func New(name string, interval time.Duration, task Task, logger *zap.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Poller{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the poll loop. The first run happens after one interval.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.runOnce(ctx)
			}
		}
	}()
	p.logger.Sugar().Infow("poller started", "poller", p.name, "interval", p.interval)
}

// Stop terminates the loop and waits for an in-flight run to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	done := p.done
	p.mu.Unlock()
	<-done
	p.logger.Sugar().Infow("poller stopped", "poller", p.name)
}

// TriggerNow runs the task immediately unless a run is already in flight.
// Returns false if the run was skipped.
func (p *Poller) TriggerNow(ctx context.Context) bool {
	return p.runOnce(ctx)
}

func (p *Poller) runOnce(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Sugar().Debugw("poll tick skipped, previous run in flight", "poller", p.name)
		return false
	}
	defer p.inFlight.Store(false)

	err := p.task(ctx)
	if err != nil && ctx.Err() == nil {
		p.logger.Sugar().Warnw("poll run failed", "poller", p.name, "error", err)
	}
	if p.onRun != nil {
		p.onRun(p.name, err)
	}
	return true
}
