// Package model defines domain models for sensor block ingestion.
package model

import (
	"math"
	"time"
)

// BlockRecord is one sensor observation committed to the chain.
type BlockRecord struct {
	Index     uint64  `json:"index"`
	Distance  float64 `json:"distance"`
	Timestamp int64   `json:"timestamp"`
	PrevHash  string  `json:"prevHash"`
	Hash      string  `json:"hash"`
}

// Equal reports whether both records carry identical field values.
func (b BlockRecord) Equal(other BlockRecord) bool {
	return b.Index == other.Index &&
		math.Float64bits(b.Distance) == math.Float64bits(other.Distance) &&
		b.Timestamp == other.Timestamp &&
		b.PrevHash == other.PrevHash &&
		b.Hash == other.Hash
}

// Time converts the client supplied millisecond timestamp.
func (b BlockRecord) Time() time.Time {
	return time.UnixMilli(b.Timestamp)
}

// ClockTime formats the timestamp as local HH:MM:SS, or N/A when unset.
func (b BlockRecord) ClockTime() string {
	if b.Timestamp <= 0 {
		return "N/A"
	}
	return b.Time().Format(time.TimeOnly)
}

// ChainTip is the most recently accepted index and hash.
type ChainTip struct {
	Index uint64 `json:"index"`
	Hash  string `json:"hash"`
}

// AppendResult describes a successful append.
type AppendResult struct {
	Tip ChainTip
	// LinkageMismatch is set when prevHash did not match the previous tip
	// but the store runs with permissive linkage.
	LinkageMismatch bool
}

// Ack acknowledges an accepted submission.
type Ack struct {
	Index     uint64
	Duplicate bool
}
