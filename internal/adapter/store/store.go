// Package store upserts output records into a relational table and runs
// ad-hoc queries against it. MySQL and Oracle go through database/sql;
// PostgreSQL uses a pgx pool.
package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/listing-enrichment-etl/internal/config"
	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

const connectTimeout = 10 * time.Second

// Store is a table of output records keyed by apn.
type Store interface {
	// EnsureTable creates the table when it does not exist.
	EnsureTable(ctx context.Context) error
	// Upsert inserts or replaces records by apn, in batches.
	Upsert(ctx context.Context, records []domain.OutputRecord) error
	// Query runs an arbitrary statement and returns all result rows.
	Query(ctx context.Context, query string) (*ResultSet, error)
	Close() error
}

// ResultSet is a fully read query result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Open connects to the store described by cfg and pings it.
func Open(ctx context.Context, cfg config.DBConfig, batchSize int, logger *slog.Logger) (Store, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case config.DriverMySQL:
		s, err = openSQL(ctx, mysqlDialect, MySQLDSN(cfg), cfg.Table, batchSize, logger)
	case config.DriverOracle:
		s, err = openSQL(ctx, oracleDialect, OracleDSN(cfg), cfg.Table, batchSize, logger)
	case config.DriverPostgres:
		s, err = openPostgres(ctx, PostgresDSN(cfg), cfg.Table, batchSize, logger)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Loader adapts a Store to pipeline.Loader.
type Loader struct {
	store Store
	name  string
}

// NewLoader creates a Loader labelled name, usually the driver.
func NewLoader(s Store, name string) *Loader {
	return &Loader{store: s, name: name}
}

// Name implements pipeline.Loader.
func (l *Loader) Name() string { return l.name }

// Load implements pipeline.Loader.
func (l *Loader) Load(ctx context.Context, records []domain.OutputRecord) error {
	return l.store.Upsert(ctx, records)
}

// recordArgs flattens a record into statement arguments in
// domain.OutputColumns order. Null fields become untyped nil.
func recordArgs(r domain.OutputRecord) []any {
	var rain any
	if r.AvgRainInches != nil {
		rain = float64(*r.AvgRainInches)
	}
	return []any{
		r.APN,
		r.FullAddress,
		nullable(r.Price),
		nullable(r.Beds),
		nullable(r.Baths),
		nullable(r.Sqft),
		nullable(r.PricePerSqft),
		r.Status,
		nullable(r.FloodZone),
		rain,
	}
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// FormatValue renders a scanned column value as text. NULL is the empty
// string.
func FormatValue(v any) string {
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		v = dv
	}
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}
