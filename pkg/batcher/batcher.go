// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by TryAdd when the queue has no free slot.
	ErrQueueFull = errors.New("batcher queue is full")
	// ErrStopped is returned when adding to a batcher after Stop.
	ErrStopped = errors.New("batcher is stopped")
)

// FlushFunc writes a batch. The slice is reused after it returns.
type FlushFunc[T any] func(context.Context, []T) error

// Config controls batch size, cadence and throughput.
type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	// QueueSize defaults to twice FlushSize.
	QueueSize int
	// RPS caps flushes per second; zero means unlimited.
	RPS int
}

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	flush   FlushFunc[T]
	onFlush func(size int, err error)
	itemsCh chan T
	cfg     Config
	rl      ratelimit.Limiter
	logger  *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
	// mu guards closed; senders hold the read lock while handing off an item.
	mu     sync.RWMutex
	closed bool
}

// Option customizes a Batcher.
type Option[T any] func(*Batcher[T])

// WithFlushHook registers fn to be called after every flush attempt.
func WithFlushHook[T any](fn func(size int, err error)) Option[T] {
	return func(b *Batcher[T]) {
		b.onFlush = fn
	}
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flush FlushFunc[T], cfg Config, opts ...Option[T]) (*Batcher[T], error) {
	if flush == nil {
		return nil, errors.New("flush func is required")
	}
	if cfg.FlushSize <= 0 {
		return nil, errors.New("flush size must be positive")
	}
	if cfg.FlushInterval <= 0 {
		return nil, errors.New("flush interval must be positive")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.FlushSize * 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rl := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		rl = ratelimit.New(cfg.RPS)
	}

	b := &Batcher[T]{
		flush:   flush,
		itemsCh: make(chan T, cfg.QueueSize),
		cfg:     cfg,
		rl:      rl,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Start begins the background flushing loop. Canceling ctx has the same
// effect as Stop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes pending items and stops the loop. It is safe to call twice.
func (b *Batcher[T]) Stop() {
	b.close()
	b.wg.Wait()
}

// close rejects new items. Once it returns no sender is mid hand-off, so a
// drain afterwards sees every accepted item.
func (b *Batcher[T]) close() {
	b.stopOnce.Do(func() {
		close(b.stop)
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
	})
}

// Add queues an item, waiting for a free slot until ctx is done.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

// TryAdd queues an item without waiting.
func (b *Batcher[T]) TryAdd(item T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStopped
	}

	select {
	case b.itemsCh <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued items not yet picked up by the loop.
func (b *Batcher[T]) Pending() int {
	return len(b.itemsCh)
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.FlushSize)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		err := b.flush(ctx, buf)
		if err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		if b.onFlush != nil {
			b.onFlush(len(buf), err)
		}
		buf = buf[:0]
	}

	// drain closes the batcher and moves whatever is still queued into the
	// final flushes, which must outlive the parent context.
	drain := func() {
		b.close()
		ctx := context.WithoutCancel(ctx)
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
				if len(buf) >= b.cfg.FlushSize {
					flush(ctx)
				}
			default:
				flush(ctx)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.cfg.FlushSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
