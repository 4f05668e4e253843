package main

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

// genesisPrevHash is what a device reports as prevHash for its first block.
const genesisPrevHash = "0"

// blockHash is the double SHA-256 of the block fields, hex encoded.
func blockHash(index uint64, distance float64, timestamp int64, prevHash string) string {
	payload := strconv.FormatUint(index, 10) + "|" +
		strconv.FormatFloat(distance, 'f', 2, 64) + "|" +
		strconv.FormatInt(timestamp, 10) + "|" +
		prevHash
	return chainhash.DoubleHashH([]byte(payload)).String()
}

// chainBuilder produces hash-linked sensor blocks.
type chainBuilder struct {
	next     uint64
	prevHash string
}

func newChainBuilder(genesisIndex uint64) *chainBuilder {
	return &chainBuilder{next: genesisIndex, prevHash: genesisPrevHash}
}

// Next seals a reading into the next block of the chain.
func (c *chainBuilder) Next(distance float64, timestamp int64) model.BlockRecord {
	rec := model.BlockRecord{
		Index:     c.next,
		Distance:  distance,
		Timestamp: timestamp,
		PrevHash:  c.prevHash,
	}
	rec.Hash = blockHash(rec.Index, rec.Distance, rec.Timestamp, rec.PrevHash)
	c.next++
	c.prevHash = rec.Hash
	return rec
}

// Rebase continues the chain after tip, as reported by the server.
func (c *chainBuilder) Rebase(tip model.BlockRecord) {
	c.next = tip.Index + 1
	c.prevHash = tip.Hash
}

func (c *chainBuilder) String() string {
	return fmt.Sprintf("next=%d prev=%s", c.next, c.prevHash)
}
