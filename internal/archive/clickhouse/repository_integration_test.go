package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	tcClickhouse "github.com/testcontainers/testcontainers-go/modules/clickhouse"

	"github.com/goodnatureofminers/sensorledger/internal/model"
)

const (
	clickhouseImage = "clickhouse/clickhouse-server:25.11"
)

type RepositorySuite struct {
	suite.Suite
	ctx        context.Context
	cancel     context.CancelFunc
	container  *tcClickhouse.ClickHouseContainer
	dsn        string
	repo       *Repository
	metrics    *MockMetrics
	metricsCtl *gomock.Controller
	testCtx    context.Context
	testCancel context.CancelFunc
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping clickhouse integration suite in short mode")
	}
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)

	container, err := tcClickhouse.Run(s.ctx,
		clickhouseImage,
		tcClickhouse.WithUsername("default"),
		tcClickhouse.WithDatabase("default"),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)
	s.dsn = dsn
}

func (s *RepositorySuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *RepositorySuite) SetupTest() {
	s.testCtx, s.testCancel = context.WithTimeout(context.Background(), time.Minute)
	s.metricsCtl = gomock.NewController(s.T())
	s.metrics = NewMockMetrics(s.metricsCtl)

	s.Require().NoError(applyMigrations(s.dsn, true))

	repo, err := NewRepository(s.dsn, s.metrics)
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RepositorySuite) TearDownTest() {
	if s.testCancel != nil {
		s.testCancel()
	}
	if s.repo != nil {
		s.Require().NoError(s.repo.Close())
	}
	s.Require().NoError(applyMigrations(s.dsn, false))
	if s.metricsCtl != nil {
		s.metricsCtl.Finish()
	}
}

func (s *RepositorySuite) TestPing() {
	s.metrics.EXPECT().Observe("ping", gomock.Nil(), gomock.Any())
	s.Require().NoError(s.repo.Ping(s.testCtx))
}

func (s *RepositorySuite) TestInsertBlocks() {
	blocks := []model.BlockRecord{
		{Index: 0, Distance: 12.5, Timestamp: 1700000000000, PrevHash: "0", Hash: "h0"},
		{Index: 1, Distance: 10, Timestamp: 1700000001000, PrevHash: "h0", Hash: "h1"},
	}

	s.metrics.EXPECT().Observe("insert_blocks", gomock.Nil(), gomock.Any()).Times(1)
	s.Require().NoError(s.repo.InsertBlocks(s.testCtx, blocks))

	rows, err := s.repo.conn.Query(s.testCtx, `
SELECT block_index, distance, timestamp_ms, prev_hash, hash
FROM sensor_blocks FINAL
ORDER BY block_index`)
	s.Require().NoError(err)
	defer func() {
		s.Require().NoError(rows.Close())
	}()

	var got []model.BlockRecord
	for rows.Next() {
		var b model.BlockRecord
		s.Require().NoError(rows.Scan(&b.Index, &b.Distance, &b.Timestamp, &b.PrevHash, &b.Hash))
		got = append(got, b)
	}
	s.Require().NoError(rows.Err())
	s.Equal(blocks, got)
}

func (s *RepositorySuite) TestInsertBlocksReplacesSameIndex() {
	block := model.BlockRecord{Index: 5, Distance: 1, Timestamp: 1, PrevHash: "h4", Hash: "h5"}

	s.metrics.EXPECT().Observe("insert_blocks", gomock.Nil(), gomock.Any()).Times(2)
	s.Require().NoError(s.repo.InsertBlocks(s.testCtx, []model.BlockRecord{block}))
	s.Require().NoError(s.repo.InsertBlocks(s.testCtx, []model.BlockRecord{block}))

	row := s.repo.conn.QueryRow(s.testCtx, `SELECT count() FROM sensor_blocks FINAL`)
	var count uint64
	s.Require().NoError(row.Scan(&count))
	s.Equal(uint64(1), count)
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working dir: %w", err)
	}

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir, nil
		}
		next := filepath.Dir(dir)
		if next == dir {
			return "", fmt.Errorf("go.mod not found from %s", dir)
		}
		dir = next
	}
}

func applyMigrations(dsn string, up bool) error {
	root, err := moduleRoot()
	if err != nil {
		return err
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.Join(root, "migrations", "clickhouse"))
	m, err := migrate.New(sourceURL, withMultiStatement(dsn))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()

	if up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate (up=%t): %w", up, err)
	}
	return nil
}

func withMultiStatement(dsn string) string {
	if strings.Contains(dsn, "x-multi-statement=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "x-multi-statement=true"
}
