package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

const insertBlocksQuery = `
INSERT INTO sensor_blocks (
	block_index,
	distance,
	timestamp_ms,
	prev_hash,
	hash
) VALUES`

// InsertBlocks appends block rows to the archive table.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.BlockRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			block.Index,
			block.Distance,
			block.Timestamp,
			block.PrevHash,
			block.Hash,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block %d: %w", block.Index, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
