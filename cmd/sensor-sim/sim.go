package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/sensorledger/internal/clock"
	"github.com/goodnatureofminers/sensorledger/internal/model"
	"github.com/goodnatureofminers/sensorledger/pkg/workerpool"
)

const maxConsecutiveResyncs = 3

var errNotDuplicate = errors.New("replayed block was not acknowledged as duplicate")

type simulator struct {
	client   *ledgerClient
	builder  *chainBuilder
	rng      *rand.Rand
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func newSimulator(client *ledgerClient, genesisIndex uint64, seed uint64, interval time.Duration, logger *zap.Logger) *simulator {
	return &simulator{
		client:   client,
		builder:  newChainBuilder(genesisIndex),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// readDistance fakes an ultrasonic reading in centimetres.
func (s *simulator) readDistance() float64 {
	return math.Round((2+s.rng.Float64()*398)*100) / 100
}

// Run uploads count readings and returns the blocks the server accepted.
func (s *simulator) Run(ctx context.Context, count int) ([]model.BlockRecord, error) {
	sent := make([]model.BlockRecord, 0, count)
	resyncs := 0

	for len(sent) < count {
		distance := s.readDistance()
		rec := s.builder.Next(distance, s.now().UnixMilli())

		res, err := s.client.Upload(ctx, rec)
		if err != nil {
			rej, ok := asRejected(err)
			if !ok || !resyncable(rej.Result.Code) || resyncs >= maxConsecutiveResyncs {
				return sent, fmt.Errorf("upload block %d: %w", rec.Index, err)
			}
			resyncs++
			s.logger.Warn("chain out of sync, resyncing",
				zap.Uint64("index", rec.Index),
				zap.String("code", rej.Result.Code),
				zap.Uint64p("expected_index", rej.Result.ExpectedIndex))
			if err := s.resync(ctx, rej.Result.ExpectedIndex); err != nil {
				return sent, err
			}
			continue
		}

		resyncs = 0
		sent = append(sent, rec)
		s.logger.Info("block uploaded",
			zap.Uint64("index", res.Index),
			zap.Float64("distance", rec.Distance),
			zap.String("time", rec.ClockTime()),
			zap.Bool("duplicate", res.Duplicate))

		if len(sent) < count && s.interval > 0 {
			if err := clock.Sleep(ctx, s.interval); err != nil {
				return sent, err
			}
		}
	}
	return sent, nil
}

// resync continues the local chain from the server's tip.
func (s *simulator) resync(ctx context.Context, expected *uint64) error {
	blocks, err := s.client.Blocks(ctx)
	if err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	if len(blocks) > 0 {
		s.builder.Rebase(blocks[len(blocks)-1])
	} else if expected != nil {
		s.builder = newChainBuilder(*expected)
	}
	s.logger.Info("resynced chain", zap.Stringer("chain", s.builder))
	return nil
}

func resyncable(code string) bool {
	switch code {
	case "index_gap", "duplicate_index", "chain_mismatch":
		return true
	default:
		return false
	}
}

// replay re-uploads blocks concurrently; every one must come back as a duplicate.
func replay(ctx context.Context, client *ledgerClient, blocks []model.BlockRecord, workers int, failFast bool) error {
	check := func(ctx context.Context, rec model.BlockRecord) error {
		res, err := client.Upload(ctx, rec)
		if err != nil {
			return fmt.Errorf("replay block %d: %w", rec.Index, err)
		}
		if !res.Duplicate {
			return fmt.Errorf("block %d: %w", rec.Index, errNotDuplicate)
		}
		return nil
	}

	if failFast {
		return workerpool.Process(ctx, workers, blocks, check)
	}
	return workerpool.ProcessAll(ctx, workers, blocks, check)
}
