package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

// PostgresStore is a Store over a pgx connection pool.
type PostgresStore struct {
	pool      *pgxpool.Pool
	table     string
	batchSize int
	logger    *slog.Logger
}

func openPostgres(ctx context.Context, dsn, table string, batchSize int, logger *slog.Logger) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool, table: table, batchSize: batchSize, logger: logger}, nil
}

// EnsureTable implements Store.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresCreateTable(s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert implements Store. Each batch is sent as one pgx.Batch inside a
// transaction.
func (s *PostgresStore) Upsert(ctx context.Context, records []domain.OutputRecord) error {
	stmt := postgresUpsert(s.table)
	for chunk := range slices.Chunk(records, s.batchSize) {
		if err := s.upsertBatch(ctx, stmt, chunk); err != nil {
			return err
		}
		s.logger.Debug("batch upserted", "driver", "postgres", "rows", len(chunk))
	}
	return nil
}

func (s *PostgresStore) upsertBatch(ctx context.Context, stmt string, chunk []domain.OutputRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	b := &pgx.Batch{}
	for _, r := range chunk {
		b.Queue(stmt, recordArgs(r)...)
	}
	br := tx.SendBatch(ctx, b)
	for range chunk {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("upsert into %s: %w", s.table, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Query implements Store.
func (s *PostgresStore) Query(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := &ResultSet{Columns: make([]string, len(fields))}
	for i, f := range fields {
		rs.Columns[i] = f.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
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
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
