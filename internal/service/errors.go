package service

import (
	"fmt"
)

// Code is a stable, documented rejection reason that uploading nodes can branch on.
type Code string

const (
	CodeMalformedPayload Code = "malformed_payload"
	CodeIndexGap         Code = "index_gap"
	CodeDuplicateIndex   Code = "duplicate_index"
	CodeChainMismatch    Code = "chain_mismatch"
	CodeInternal         Code = "internal_error"
)

// IngestError is returned by Submit for every rejected submission.
type IngestError struct {
	Code   Code
	Reason string
	// ExpectedIndex is the next index the chain accepts, when known.
	ExpectedIndex *uint64
	Err           error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

func malformed(reason string, err error) *IngestError {
	return &IngestError{Code: CodeMalformedPayload, Reason: reason, Err: err}
}
