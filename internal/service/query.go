package service

import (
	"errors"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

// QueryService is the read-only projection of the chain handed to presentation code.
type QueryService struct {
	store ChainStore
	feed  *Feed
}

// NewQueryService returns a QueryService over store. feed may be nil, in which
// case Subscribe returns a closed channel.
func NewQueryService(store ChainStore, feed *Feed) (*QueryService, error) {
	if store == nil {
		return nil, errors.New("chain store is required")
	}
	return &QueryService{store: store, feed: feed}, nil
}

// ListAll returns a point-in-time copy of every accepted block in index order.
func (q *QueryService) ListAll() []model.BlockRecord {
	return q.store.Snapshot()
}

// Count returns the number of accepted blocks.
func (q *QueryService) Count() int {
	return q.store.Len()
}

// Tip returns the current chain tip.
func (q *QueryService) Tip() (model.ChainTip, bool) {
	return q.store.Tip()
}

// Subscribe streams blocks accepted after the call.
func (q *QueryService) Subscribe(buffer int) (<-chan model.BlockRecord, func()) {
	if q.feed == nil {
		ch := make(chan model.BlockRecord)
		close(ch)
		return ch, func() {}
	}
	return q.feed.Subscribe(buffer)
}
