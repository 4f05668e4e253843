package chainstore

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

var (
	// ErrIndexGap means the record does not immediately follow the chain tip.
	ErrIndexGap = errors.New("index does not follow chain tip")
	// ErrDuplicateIndex means the index is already occupied.
	ErrDuplicateIndex = errors.New("index already present")
	// ErrChainMismatch means prevHash does not match the stored tip hash.
	ErrChainMismatch = errors.New("prev hash does not match chain tip")
)

// RejectionError is returned by TryAppend for records it refuses to store.
type RejectionError struct {
	Reason        error
	ExpectedIndex uint64
	// ExpectedHash is set for ErrChainMismatch.
	ExpectedHash string
	// Existing holds the stored record for ErrDuplicateIndex when one is present
	// at the submitted index.
	Existing *model.BlockRecord
}

func (e *RejectionError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrChainMismatch):
		return fmt.Sprintf("%v: expected prev hash %q", e.Reason, e.ExpectedHash)
	default:
		return fmt.Sprintf("%v: expected index %d", e.Reason, e.ExpectedIndex)
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}
