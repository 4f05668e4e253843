package archive

import (
	"context"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlocks(ctx context.Context, blocks []model.BlockRecord) error
	}

	Metrics interface {
		ObserveEnqueue(err error)
		ObserveFlush(size int)
	}
)
