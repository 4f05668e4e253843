// Package archive copies accepted blocks to durable storage in the background.
// The archive is write-only: it is never read back into the chain.
package archive

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sensorledger/internal/model"
	"github.com/goodnatureofminers/sensorledger/pkg/batcher"
)

// Writer queues accepted blocks and flushes them to a Repository in batches.
type Writer struct {
	batcher *batcher.Batcher[model.BlockRecord]
	metrics Metrics
	logger  *zap.Logger
}

// NewWriter builds a Writer flushing through repo.InsertBlocks.
func NewWriter(repo Repository, metrics Metrics, cfg batcher.Config, logger *zap.Logger) (*Writer, error) {
	if repo == nil {
		return nil, errors.New("archive repository is required")
	}
	if metrics == nil {
		return nil, errors.New("archive metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b, err := batcher.New[model.BlockRecord](logger, repo.InsertBlocks, cfg,
		batcher.WithFlushHook[model.BlockRecord](func(size int, err error) {
			if err == nil {
				metrics.ObserveFlush(size)
			}
		}))
	if err != nil {
		return nil, fmt.Errorf("create archive batcher: %w", err)
	}

	return &Writer{batcher: b, metrics: metrics, logger: logger}, nil
}

// Start runs the flush loop. It keeps running after ctx is canceled so that
// blocks accepted during shutdown still reach the repository; only Stop ends it.
func (w *Writer) Start(ctx context.Context) {
	w.batcher.Start(context.WithoutCancel(ctx))
}

// Stop flushes queued blocks and waits for the writer loop to exit.
func (w *Writer) Stop() {
	w.batcher.Stop()
}

// Archive queues rec without blocking. A full queue drops the block.
func (w *Writer) Archive(_ context.Context, rec model.BlockRecord) error {
	err := w.batcher.TryAdd(rec)
	w.metrics.ObserveEnqueue(err)
	if err != nil {
		return fmt.Errorf("archive block %d: %w", rec.Index, err)
	}
	return nil
}
