// Package service implements block ingestion and read-only queries over the chain store.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/sensorledger/internal/chainstore"
	"github.com/goodnatureofminers/sensorledger/internal/model"
	"go.uber.org/zap"
)

const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
)

// IngestionConfig holds payload policies applied before a record reaches the store.
type IngestionConfig struct {
	// LenientPayload accepts payloads with missing fields (index excepted),
	// filling zero values and logging a warning.
	LenientPayload        bool
	AllowNegativeDistance bool
	// RequireHexHashes demands 64-character hex hashes. The genesis block may
	// carry prevHash "0".
	RequireHexHashes bool
	// GenesisIndex is the index of the first block of the chain.
	GenesisIndex uint64
	// MaxPayloadBytes limits the raw body size; zero disables the check.
	MaxPayloadBytes int
}

// IngestionService validates uploads and appends them to the chain store.
type IngestionService struct {
	store    ChainStore
	metrics  IngestionMetrics
	archiver Archiver
	feed     *Feed
	cfg      IngestionConfig
	logger   *zap.Logger
}

// NewIngestionService builds the ingestion service. archiver and feed are optional.
func NewIngestionService(
	store ChainStore,
	metrics IngestionMetrics,
	archiver Archiver,
	feed *Feed,
	cfg IngestionConfig,
	logger *zap.Logger,
) (*IngestionService, error) {
	if store == nil {
		return nil, errors.New("chain store is required")
	}
	if metrics == nil {
		return nil, errors.New("ingestion metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestionService{
		store:    store,
		metrics:  metrics,
		archiver: archiver,
		feed:     feed,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Submit decodes raw, validates it against the chain and appends it.
// Resubmitting an already stored record with identical fields is acknowledged
// as a duplicate without appending. Every rejection is an *IngestError.
func (s *IngestionService) Submit(ctx context.Context, raw []byte) (model.Ack, error) {
	started := time.Now()

	decoded, ierr := s.decode(raw)
	if ierr != nil {
		s.observeRejected(nil, ierr, started)
		return model.Ack{}, ierr
	}
	rec := decoded.record
	if len(decoded.missing) > 0 {
		s.logger.Warn("accepting payload with missing fields",
			zap.Uint64("index", rec.Index),
			zap.Strings("missing", decoded.missing))
	}

	if err := ctx.Err(); err != nil {
		ierr = &IngestError{Code: CodeInternal, Reason: "request canceled before append", Err: err}
		s.observeRejected(&rec, ierr, started)
		return model.Ack{}, ierr
	}

	res, err := s.store.TryAppend(rec)
	if err != nil {
		if isIdenticalDuplicate(err, rec) {
			s.observeAccepted(rec, outcomeDuplicate, started)
			return model.Ack{Index: rec.Index, Duplicate: true}, nil
		}
		ierr = rejectionToIngestError(err)
		s.observeRejected(&rec, ierr, started)
		return model.Ack{}, ierr
	}

	if res.LinkageMismatch {
		s.metrics.ObserveLinkageMismatch()
		s.logger.Warn("accepted block with mismatching prev hash",
			zap.Uint64("index", rec.Index),
			zap.String("prev_hash", rec.PrevHash))
	}
	s.observeAccepted(rec, outcomeAccepted, started)

	if s.feed != nil {
		s.feed.Publish(rec)
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, rec); err != nil {
			s.logger.Warn("archive block failed", zap.Uint64("index", rec.Index), zap.Error(err))
		}
	}

	return model.Ack{Index: rec.Index}, nil
}

func isIdenticalDuplicate(err error, rec model.BlockRecord) bool {
	var rejection *chainstore.RejectionError
	if !errors.As(err, &rejection) || !errors.Is(rejection.Reason, chainstore.ErrDuplicateIndex) {
		return false
	}
	return rejection.Existing != nil && rejection.Existing.Equal(rec)
}

func rejectionToIngestError(err error) *IngestError {
	var rejection *chainstore.RejectionError
	if !errors.As(err, &rejection) {
		return &IngestError{Code: CodeInternal, Reason: "append failed", Err: err}
	}
	expected := rejection.ExpectedIndex
	switch {
	case errors.Is(rejection.Reason, chainstore.ErrIndexGap):
		return &IngestError{Code: CodeIndexGap, Reason: "index does not follow chain tip", ExpectedIndex: &expected, Err: err}
	case errors.Is(rejection.Reason, chainstore.ErrDuplicateIndex):
		return &IngestError{Code: CodeDuplicateIndex, Reason: "index already present with different content", ExpectedIndex: &expected, Err: err}
	case errors.Is(rejection.Reason, chainstore.ErrChainMismatch):
		return &IngestError{Code: CodeChainMismatch, Reason: "prevHash does not match chain tip", ExpectedIndex: &expected, Err: err}
	default:
		return &IngestError{Code: CodeInternal, Reason: "append failed", Err: err}
	}
}

func (s *IngestionService) observeAccepted(rec model.BlockRecord, outcome string, started time.Time) {
	s.metrics.ObserveSubmission(outcome, "", started)
	s.logger.Info("received block",
		zap.Uint64("index", rec.Index),
		zap.Float64("distance", rec.Distance),
		zap.String("time", rec.ClockTime()),
		zap.String("outcome", outcome))
}

func (s *IngestionService) observeRejected(rec *model.BlockRecord, ierr *IngestError, started time.Time) {
	s.metrics.ObserveSubmission(outcomeRejected, string(ierr.Code), started)
	fields := []zap.Field{
		zap.String("outcome", outcomeRejected),
		zap.String("code", string(ierr.Code)),
		zap.String("reason", ierr.Reason),
	}
	if rec != nil {
		fields = append(fields, zap.Uint64("index", rec.Index), zap.String("time", rec.ClockTime()))
	}
	if ierr.ExpectedIndex != nil {
		fields = append(fields, zap.Uint64("expected_index", *ierr.ExpectedIndex))
	}
	if ierr.Err != nil {
		fields = append(fields, zap.Error(ierr.Err))
	}
	s.logger.Warn("rejected block", fields...)
}
