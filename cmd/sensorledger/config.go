package main

import (
	"errors"
	"time"

	"github.com/jessevdk/go-flags"
)

type config struct {
	Addr     string `long:"addr" env:"SENSORLEDGER_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr string `long:"rest-addr" env:"SENSORLEDGER_REST_ADDR" description:"HTTP listen address" default:":5000"`

	GenesisIndex          uint64 `long:"genesis-index" env:"SENSORLEDGER_GENESIS_INDEX" description:"index expected for the first block" default:"0"`
	PermissiveLinkage     bool   `long:"permissive-linkage" env:"SENSORLEDGER_PERMISSIVE_LINKAGE" description:"accept blocks whose prevHash does not match the tip (logged and counted)"`
	LenientPayload        bool   `long:"lenient-payload" env:"SENSORLEDGER_LENIENT_PAYLOAD" description:"accept payloads with missing fields other than index"`
	AllowNegativeDistance bool   `long:"allow-negative-distance" env:"SENSORLEDGER_ALLOW_NEGATIVE_DISTANCE" description:"accept negative distance readings"`
	RequireHexHashes      bool   `long:"require-hex-hashes" env:"SENSORLEDGER_REQUIRE_HEX_HASHES" description:"require hash and prevHash to be 256-bit hex strings"`
	MaxPayloadBytes       int    `long:"max-payload-bytes" env:"SENSORLEDGER_MAX_PAYLOAD_BYTES" description:"maximum upload body size" default:"4096"`
	UploadRPS             int    `long:"upload-rps" env:"SENSORLEDGER_UPLOAD_RPS" description:"upload requests per second, 0 for unlimited" default:"0"`

	ClickhouseDSN        string        `long:"clickhouse-dsn" env:"SENSORLEDGER_CLICKHOUSE_DSN" description:"ClickHouse DSN for the block archive; empty disables archiving"`
	ArchiveBatchSize     int           `long:"archive-batch-size" env:"SENSORLEDGER_ARCHIVE_BATCH_SIZE" description:"blocks per archive insert" default:"100"`
	ArchiveFlushInterval time.Duration `long:"archive-flush-interval" env:"SENSORLEDGER_ARCHIVE_FLUSH_INTERVAL" description:"maximum delay before queued blocks are archived" default:"2s"`
	ArchiveRPS           int           `long:"archive-rps" env:"SENSORLEDGER_ARCHIVE_RPS" description:"archive inserts per second" default:"10"`

	LogProduction bool `long:"log-production" env:"SENSORLEDGER_LOG_PRODUCTION" description:"use JSON production logging"`
}

var errHelp = errors.New("help requested")

func parseConfig(args []string) (config, error) {
	cfg := config{}
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return cfg, errHelp
		}
		return cfg, err
	}
	if cfg.MaxPayloadBytes <= 0 {
		return cfg, errors.New("max-payload-bytes must be positive")
	}
	if cfg.UploadRPS < 0 {
		return cfg, errors.New("upload-rps must not be negative")
	}
	return cfg, nil
}
