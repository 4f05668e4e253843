package service

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/sensorledger/internal/jsonx"
	"github.com/goodnatureofminers/sensorledger/internal/model"
	"github.com/goodnatureofminers/sensorledger/pkg/safe"
)

// genesisPrevHash is the prevHash nodes send on the first block of a chain.
const genesisPrevHash = "0"

var (
	errPayloadTooLarge = errors.New("payload too large")
	errHashLength      = fmt.Errorf("hash must be %d hex characters", chainhash.MaxHashStringSize)
)

// blockPayload is the wire shape of an upload. Pointer fields tell a missing
// field apart from a zero value.
type blockPayload struct {
	Index     *int64   `json:"index"`
	Distance  *float64 `json:"distance"`
	Timestamp *int64   `json:"timestamp"`
	PrevHash  *string  `json:"prevHash"`
	Hash      *string  `json:"hash"`
}

// decodeResult is a typed record plus the fields lenient mode had to fill in.
type decodeResult struct {
	record  model.BlockRecord
	missing []string
}

func (s *IngestionService) decode(raw []byte) (decodeResult, *IngestError) {
	if s.cfg.MaxPayloadBytes > 0 && len(raw) > s.cfg.MaxPayloadBytes {
		return decodeResult{}, malformed(fmt.Sprintf("payload exceeds %d bytes", s.cfg.MaxPayloadBytes), errPayloadTooLarge)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return decodeResult{}, malformed("no JSON received", nil)
	}
	if trimmed[0] != '{' {
		return decodeResult{}, malformed("payload must be a JSON object", nil)
	}

	var p blockPayload
	if err := jsonx.Unmarshal(trimmed, &p); err != nil {
		return decodeResult{}, malformed("invalid JSON payload", err)
	}

	if p.Index == nil {
		return decodeResult{}, malformed("missing required field: index", nil)
	}
	index, err := safe.Uint64(*p.Index)
	if err != nil {
		return decodeResult{}, malformed("index must be non-negative", err)
	}

	res := decodeResult{record: model.BlockRecord{Index: index}}
	if p.Distance != nil {
		res.record.Distance = *p.Distance
	} else {
		res.missing = append(res.missing, "distance")
	}
	if p.Timestamp != nil {
		res.record.Timestamp = *p.Timestamp
	} else {
		res.missing = append(res.missing, "timestamp")
	}
	if p.PrevHash != nil {
		res.record.PrevHash = *p.PrevHash
	} else {
		res.missing = append(res.missing, "prevHash")
	}
	if p.Hash != nil {
		res.record.Hash = *p.Hash
	} else {
		res.missing = append(res.missing, "hash")
	}

	if len(res.missing) > 0 && !s.cfg.LenientPayload {
		return decodeResult{}, malformed("missing required fields: "+strings.Join(res.missing, ", "), nil)
	}
	if ierr := s.checkPolicy(res.record); ierr != nil {
		return decodeResult{}, ierr
	}
	return res, nil
}

func (s *IngestionService) checkPolicy(rec model.BlockRecord) *IngestError {
	if math.IsNaN(rec.Distance) || math.IsInf(rec.Distance, 0) {
		return malformed("distance must be a finite number", nil)
	}
	if rec.Distance < 0 && !s.cfg.AllowNegativeDistance {
		return malformed("distance must not be negative", nil)
	}
	if rec.Hash == "" && !s.cfg.LenientPayload {
		return malformed("hash must not be empty", nil)
	}
	if s.cfg.RequireHexHashes {
		if err := checkHexHash(rec.Hash); err != nil {
			return malformed("hash is not a 256-bit hex string", err)
		}
		genesis := rec.Index == s.cfg.GenesisIndex && rec.PrevHash == genesisPrevHash
		if !genesis {
			if err := checkHexHash(rec.PrevHash); err != nil {
				return malformed("prevHash is not a 256-bit hex string", err)
			}
		}
	}
	return nil
}

// checkHexHash requires a full-length hash; NewHashFromStr alone zero-pads short input.
func checkHexHash(h string) error {
	if len(h) != chainhash.MaxHashStringSize {
		return errHashLength
	}
	_, err := chainhash.NewHashFromStr(h)
	return err
}
