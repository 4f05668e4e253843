package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainStore interface {
		TryAppend(rec model.BlockRecord) (model.AppendResult, error)
		Snapshot() []model.BlockRecord
		Len() int
		Tip() (model.ChainTip, bool)
	}
	IngestionMetrics interface {
		ObserveSubmission(outcome, code string, started time.Time)
		ObserveLinkageMismatch()
	}
	Archiver interface {
		Archive(ctx context.Context, rec model.BlockRecord) error
	}
)
