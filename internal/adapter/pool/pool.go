// Package pool bounds concurrent calls to the generation collaborator.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed   = errors.New("worker pool is closed")
	ErrPoolOverload = errors.New("worker pool is overloaded")
)

// Config controls the worker pool.
type Config struct {
	// Capacity is the maximum number of concurrently running tasks.
	Capacity       int
	ExpiryDuration time.Duration
	// Nonblocking makes Submit fail with ErrPoolOverload instead of waiting.
	Nonblocking bool
}

// DefaultConfig returns a pool sized for a rate-limited remote API.
func DefaultConfig() Config {
	return Config{
		Capacity:       4,
		ExpiryDuration: 30 * time.Second,
	}
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Submitted int64
	Completed int64
	Rejected  int64
	Panics    int64
}

// Pool is a named ants pool with task accounting.
type Pool struct {
	name   string
	pool   *ants.Pool
	logger *zap.Logger

	submitted atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64
	panics    atomic.Int64

	closed   atomic.Bool
	closedMu sync.Mutex
}

// New creates a pool. A nil logger disables logging.
func New(name string, cfg Config, logger *zap.Logger) (*Pool, error) {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.ExpiryDuration <= 0 {
		cfg.ExpiryDuration = DefaultConfig().ExpiryDuration
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{name: name, logger: logger.Named("pool")}

	pool, err := ants.NewPool(cfg.Capacity,
		ants.WithExpiryDuration(cfg.ExpiryDuration),
		ants.WithNonblocking(cfg.Nonblocking),
		ants.WithPanicHandler(func(r interface{}) {
			p.panics.Add(1)
			p.logger.Error("worker panic recovered", zap.String("pool", name), zap.Any("panic", r))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	p.pool = pool

	p.logger.Debug("worker pool created", zap.String("pool", name), zap.Int("capacity", cfg.Capacity))
	return p, nil
}

func (p *Pool) Name() string { return p.name }

func (p *Pool) Cap() int { return p.pool.Cap() }

func (p *Pool) Running() int { return p.pool.Running() }

// Submit queues task for execution. With a blocking pool it waits for a free
// worker; callers that need cancellation check their context inside task.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	err := p.pool.Submit(func() {
		defer p.completed.Add(1)
		task()
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			p.rejected.Add(1)
			return ErrPoolOverload
		}
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	p.submitted.Add(1)
	return nil
}

// Release closes the pool. Running tasks are not interrupted.
func (p *Pool) Release() {
	p.closedMu.Lock()
	defer p.closedMu.Unlock()

	if p.closed.Load() {
		return
	}
	p.closed.Store(true)
	p.pool.Release()
	p.logger.Debug("worker pool released", zap.String("pool", p.name))
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Rejected:  p.rejected.Load(),
		Panics:    p.panics.Load(),
	}
}
