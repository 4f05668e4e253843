package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/sensorledger/internal/archive"
	"github.com/goodnatureofminers/sensorledger/internal/archive/clickhouse"
	"github.com/goodnatureofminers/sensorledger/internal/chainstore"
	"github.com/goodnatureofminers/sensorledger/internal/metrics"
	"github.com/goodnatureofminers/sensorledger/internal/service"
	"github.com/goodnatureofminers/sensorledger/internal/transport"
	"github.com/goodnatureofminers/sensorledger/pkg/batcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := parseConfig(os.Args)
	if errors.Is(err, errHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogProduction)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("sensorledger failed", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	store := chainstore.NewMemoryStore(
		chainstore.WithGenesisIndex(cfg.GenesisIndex),
		chainstore.WithLinkageEnforced(!cfg.PermissiveLinkage),
	)
	prometheus.MustRegister(metrics.NewChain(store))
	feed := service.NewFeed()

	var archiver service.Archiver
	if cfg.ClickhouseDSN != "" {
		writer, closeArchive, err := startArchive(ctx, cfg, logger.Named("archive"))
		if err != nil {
			return err
		}
		defer closeArchive()
		archiver = writer
	} else {
		logger.Info("block archive disabled")
	}

	ingest, err := service.NewIngestionService(store, metrics.NewIngestion(), archiver, feed, service.IngestionConfig{
		LenientPayload:        cfg.LenientPayload,
		AllowNegativeDistance: cfg.AllowNegativeDistance,
		RequireHexHashes:      cfg.RequireHexHashes,
		GenesisIndex:          cfg.GenesisIndex,
		MaxPayloadBytes:       cfg.MaxPayloadBytes,
	}, logger.Named("ingestion"))
	if err != nil {
		return fmt.Errorf("init ingestion service: %w", err)
	}
	query, err := service.NewQueryService(store, feed)
	if err != nil {
		return fmt.Errorf("init query service: %w", err)
	}

	health := transport.NewHealthHandler()
	if err := startGRPCServer(ctx, cfg.Addr, health, logger); err != nil {
		return err
	}

	healthConn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial health service: %w", err)
	}
	defer func() {
		_ = healthConn.Close()
	}()

	// Shutdown does not cancel request contexts, so streams are told separately.
	closing := make(chan struct{})
	router, err := transport.NewRouter(ingest, query, grpc_health_v1.NewHealthClient(healthConn), transport.RouterConfig{
		UploadRPS:    cfg.UploadRPS,
		MaxBodyBytes: int64(cfg.MaxPayloadBytes),
		Closing:      closing,
	}, logger)
	if err != nil {
		return fmt.Errorf("init router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", router)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	s.RegisterOnShutdown(func() { close(closing) })

	// The archive is closed by a deferred call, so run must not return while
	// Shutdown is still finishing in-flight uploads.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		health.Drain()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", cfg.RestAddr),
		zap.Uint64("genesis_index", cfg.GenesisIndex),
		zap.Bool("linkage_enforced", !cfg.PermissiveLinkage),
		zap.Bool("lenient_payload", cfg.LenientPayload))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	<-shutdownDone
	return nil
}

func startGRPCServer(ctx context.Context, addr string, health grpc_health_v1.HealthServer, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpc_health_v1.RegisterHealthServer(grpcServer, health)
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", addr, err)
	}
	go func() {
		logger.Info("Starting gRPC server", zap.String("addr", addr))
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()
	return nil
}

// startArchive connects the ClickHouse archive. The returned func flushes
// queued blocks and closes the connection.
func startArchive(ctx context.Context, cfg config, logger *zap.Logger) (*archive.Writer, func(), error) {
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewArchiveRepository())
	if err != nil {
		return nil, nil, fmt.Errorf("init archive repository: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		logger.Warn("archive not reachable at startup", zap.Error(err))
	}

	writer, err := archive.NewWriter(repo, metrics.NewArchive(), batcher.Config{
		FlushSize:     cfg.ArchiveBatchSize,
		FlushInterval: cfg.ArchiveFlushInterval,
		QueueSize:     cfg.ArchiveBatchSize * 10,
		RPS:           cfg.ArchiveRPS,
	}, logger)
	if err != nil {
		_ = repo.Close()
		return nil, nil, fmt.Errorf("init archive writer: %w", err)
	}
	writer.Start(ctx)
	logger.Info("block archive enabled", zap.Int("batch_size", cfg.ArchiveBatchSize))

	return writer, func() {
		writer.Stop()
		if err := repo.Close(); err != nil {
			logger.Warn("close archive repository", zap.Error(err))
		}
	}, nil
}
