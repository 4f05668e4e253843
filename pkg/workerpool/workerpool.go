// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Process runs process over items with workerCount goroutines and stops at the
// first error, which it returns.
func Process[T any](ctx context.Context, workerCount int, items []T, process func(context.Context, T) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	run(ctx, workerCount, items, func(ctx context.Context, item T) {
		if err := process(ctx, item); err != nil {
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}
	})

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// ProcessAll runs process over every item and joins all errors.
// Only ctx cancellation stops it early.
func ProcessAll[T any](ctx context.Context, workerCount int, items []T, process func(context.Context, T) error) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	run(ctx, workerCount, items, func(ctx context.Context, item T) {
		if err := process(ctx, item); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	})

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func run[T any](ctx context.Context, workerCount int, items []T, handle func(context.Context, T)) {
	if workerCount <= 0 {
		workerCount = 1
	}

	tasks := make(chan T, workerCount)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if ctx.Err() != nil {
					continue
				}
				handle(ctx, item)
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- item:
		}
	}
	close(tasks)
	wg.Wait()
}
