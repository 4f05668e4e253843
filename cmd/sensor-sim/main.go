package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	ServerURL      string        `long:"server" env:"SENSOR_SIM_SERVER" description:"ledger HTTP base URL" default:"http://127.0.0.1:5000"`
	Count          int           `long:"count" env:"SENSOR_SIM_COUNT" description:"number of readings to upload" default:"10"`
	Interval       time.Duration `long:"interval" env:"SENSOR_SIM_INTERVAL" description:"delay between readings" default:"1s"`
	GenesisIndex   uint64        `long:"genesis-index" env:"SENSOR_SIM_GENESIS_INDEX" description:"index of the first block" default:"0"`
	Seed           uint64        `long:"seed" env:"SENSOR_SIM_SEED" description:"seed for simulated readings" default:"1"`
	Retries        int           `long:"retries" env:"SENSOR_SIM_RETRIES" description:"retries per upload on transport or server errors" default:"5"`
	RetryDelay     time.Duration `long:"retry-delay" env:"SENSOR_SIM_RETRY_DELAY" description:"initial retry delay" default:"200ms"`
	HTTPTimeout    time.Duration `long:"http-timeout" env:"SENSOR_SIM_HTTP_TIMEOUT" description:"timeout per HTTP request" default:"5s"`
	ReplayWorkers  int           `long:"replay-workers" env:"SENSOR_SIM_REPLAY_WORKERS" description:"re-upload every block with this many workers to verify duplicate acks; 0 disables" default:"0"`
	ReplayFailFast bool          `long:"replay-fail-fast" env:"SENSOR_SIM_REPLAY_FAIL_FAST" description:"stop the replay at the first failure"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("sensor simulator failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got %d", cfg.Retries)
	}
	retry := retryPolicy{
		MaxRetries:      uint64(cfg.Retries),
		InitialInterval: cfg.RetryDelay,
		Notify: func(err error, delay time.Duration) {
			logger.Warn("upload failed, retrying", zap.Duration("delay", delay), zap.Error(err))
		},
	}
	client := newLedgerClient(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout}, retry)

	sim := newSimulator(client, cfg.GenesisIndex, cfg.Seed, cfg.Interval, logger)
	sent, err := sim.Run(ctx, cfg.Count)
	if err != nil {
		return err
	}
	logger.Info("upload finished", zap.Int("blocks", len(sent)))

	if cfg.ReplayWorkers > 0 {
		if err := replay(ctx, client, sent, cfg.ReplayWorkers, cfg.ReplayFailFast); err != nil {
			return err
		}
		logger.Info("replay acknowledged every block as duplicate", zap.Int("workers", cfg.ReplayWorkers))
	}
	return nil
}
