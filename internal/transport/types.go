package transport

import (
	"context"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Ingestor interface {
		Submit(ctx context.Context, raw []byte) (model.Ack, error)
	}

	BlockQuerier interface {
		ListAll() []model.BlockRecord
		Count() int
		Tip() (model.ChainTip, bool)
		Subscribe(buffer int) (<-chan model.BlockRecord, func())
	}
)
