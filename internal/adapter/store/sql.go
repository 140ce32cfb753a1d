package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	_ "github.com/sijms/go-ora/v2"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

// SQLStore is a Store over database/sql.
type SQLStore struct {
	db        *sql.DB
	dialect   dialect
	table     string
	batchSize int
	logger    *slog.Logger
}

func openSQL(ctx context.Context, d dialect, dsn, table string, batchSize int, logger *slog.Logger) (*SQLStore, error) {
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driverName, err)
	}
	return &SQLStore{db: db, dialect: d, table: table, batchSize: batchSize, logger: logger}, nil
}

// EnsureTable implements Store.
func (s *SQLStore) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable(s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert implements Store. Each batch is committed in its own transaction.
func (s *SQLStore) Upsert(ctx context.Context, records []domain.OutputRecord) error {
	for batch := range slices.Chunk(records, s.batchSize) {
		if err := s.upsertBatch(ctx, batch); err != nil {
			return err
		}
		s.logger.Debug("batch upserted", "driver", s.dialect.driverName, "rows", len(batch))
	}
	return nil
}

func (s *SQLStore) upsertBatch(ctx context.Context, batch []domain.OutputRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	perStmt := s.dialect.maxRows
	if perStmt == 0 {
		perStmt = len(batch)
	}
	for group := range slices.Chunk(batch, perStmt) {
		args := make([]any, 0, len(group)*len(domain.OutputColumns))
		for _, r := range group {
			args = append(args, recordArgs(r)...)
		}
		if _, err := tx.ExecContext(ctx, s.dialect.upsert(s.table, len(group)), args...); err != nil {
			return fmt.Errorf("upsert into %s: %w", s.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Query implements Store.
func (s *SQLStore) Query(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rs, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
