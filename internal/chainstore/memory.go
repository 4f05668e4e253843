// Package chainstore keeps the authoritative append-only sequence of accepted blocks.
package chainstore

import (
	"sync"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

// ChainStore is the append-only ledger consumed by the ingestion and query services.
type ChainStore interface {
	TryAppend(rec model.BlockRecord) (model.AppendResult, error)
	Snapshot() []model.BlockRecord
	Len() int
	Tip() (model.ChainTip, bool)
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithGenesisIndex sets the index the first record must carry.
func WithGenesisIndex(index uint64) Option {
	return func(s *MemoryStore) {
		s.genesisIndex = index
	}
}

// WithLinkageEnforced toggles rejection of records whose prevHash does not
// match the tip. When disabled the mismatch is only reported in AppendResult.
func WithLinkageEnforced(enforced bool) Option {
	return func(s *MemoryStore) {
		s.enforceLinkage = enforced
	}
}

// MemoryStore keeps a contiguous chain from the genesis index to the tip.
// It is safe for concurrent use.
type MemoryStore struct {
	genesisIndex   uint64
	enforceLinkage bool

	mu     sync.RWMutex
	blocks []model.BlockRecord // blocks[i].Index == genesisIndex+i
}

// NewMemoryStore returns an empty store enforcing chain linkage unless configured otherwise.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{enforceLinkage: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenesisIndex returns the configured index of the first record.
func (s *MemoryStore) GenesisIndex() uint64 {
	return s.genesisIndex
}

// LinkageEnforced reports whether prevHash mismatches are rejected.
func (s *MemoryStore) LinkageEnforced() bool {
	return s.enforceLinkage
}

// TryAppend validates rec against the tip and appends it. The tip advances in
// the same critical section as the append, so readers never see one without the other.
func (s *MemoryStore) TryAppend(rec model.BlockRecord) (model.AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.blocks) == 0 {
		if rec.Index != s.genesisIndex {
			return model.AppendResult{}, &RejectionError{Reason: ErrIndexGap, ExpectedIndex: s.genesisIndex}
		}
		s.blocks = append(s.blocks, rec)
		return model.AppendResult{Tip: model.ChainTip{Index: rec.Index, Hash: rec.Hash}}, nil
	}

	tip := s.blocks[len(s.blocks)-1]
	next := tip.Index + 1

	if rec.Index <= tip.Index {
		rejection := &RejectionError{Reason: ErrDuplicateIndex, ExpectedIndex: next}
		if rec.Index >= s.genesisIndex {
			existing := s.blocks[rec.Index-s.genesisIndex]
			rejection.Existing = &existing
		}
		return model.AppendResult{}, rejection
	}
	if rec.Index != next {
		return model.AppendResult{}, &RejectionError{Reason: ErrIndexGap, ExpectedIndex: next}
	}

	mismatch := rec.PrevHash != tip.Hash
	if mismatch && s.enforceLinkage {
		return model.AppendResult{}, &RejectionError{
			Reason:        ErrChainMismatch,
			ExpectedIndex: next,
			ExpectedHash:  tip.Hash,
		}
	}

	s.blocks = append(s.blocks, rec)
	return model.AppendResult{
		Tip:             model.ChainTip{Index: rec.Index, Hash: rec.Hash},
		LinkageMismatch: mismatch,
	}, nil
}

// Snapshot returns an independent copy of all accepted records in index order.
func (s *MemoryStore) Snapshot() []model.BlockRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BlockRecord, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Len returns the number of accepted records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

// Tip returns the most recently accepted index and hash; ok is false for an empty store.
func (s *MemoryStore) Tip() (tip model.ChainTip, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.blocks) == 0 {
		return model.ChainTip{}, false
	}
	last := s.blocks[len(s.blocks)-1]
	return model.ChainTip{Index: last.Index, Hash: last.Hash}, true
}
