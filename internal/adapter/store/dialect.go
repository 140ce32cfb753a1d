package store

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/listing-enrichment-etl/internal/domain"
)

// dialect holds the statements that differ between database/sql backends.
type dialect struct {
	driverName  string
	createTable func(table string) string
	// upsert returns a statement writing rows records at once.
	upsert func(table string, rows int) string
	// maxRows caps rows per upsert statement; 0 means the batch size.
	maxRows int
}

var mysqlDialect = dialect{
	driverName: "mysql",
	createTable: func(table string) string {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  apn VARCHAR(32) NOT NULL PRIMARY KEY,
  full_address VARCHAR(512) NOT NULL,
  price BIGINT NULL,
  beds BIGINT NULL,
  baths BIGINT NULL,
  sqft BIGINT NULL,
  price_per_sqft BIGINT NULL,
  status VARCHAR(16) NOT NULL,
  flood_zone VARCHAR(16) NULL,
  avg_rain_inches DOUBLE NULL
)`, table)
	},
	upsert: mysqlReplace,
}

var oracleDialect = dialect{
	driverName: "oracle",
	createTable: func(table string) string {
		// ORA-00955: name is already used by an existing object.
		return fmt.Sprintf(`BEGIN
  EXECUTE IMMEDIATE 'CREATE TABLE %s (
    apn VARCHAR2(32) NOT NULL PRIMARY KEY,
    full_address VARCHAR2(512) NOT NULL,
    price NUMBER(19),
    beds NUMBER(19),
    baths NUMBER(19),
    sqft NUMBER(19),
    price_per_sqft NUMBER(19),
    status VARCHAR2(16) NOT NULL,
    flood_zone VARCHAR2(16),
    avg_rain_inches BINARY_DOUBLE
  )';
EXCEPTION
  WHEN OTHERS THEN
    IF SQLCODE != -955 THEN RAISE; END IF;
END;`, table)
	},
	upsert:  oracleMerge,
	maxRows: 1,
}

// mysqlReplace builds a multi-row REPLACE INTO keyed by the primary key.
func mysqlReplace(table string, rows int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(domain.OutputColumns)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = row
	}
	return fmt.Sprintf("REPLACE INTO %s (%s) VALUES %s",
		table, strings.Join(domain.OutputColumns, ", "), strings.Join(values, ", "))
}

// oracleMerge builds a single-row MERGE with positional binds.
func oracleMerge(table string, _ int) string {
	cols := domain.OutputColumns
	selects := make([]string, len(cols))
	sets := make([]string, 0, len(cols)-1)
	inserts := make([]string, len(cols))
	for i, c := range cols {
		selects[i] = fmt.Sprintf(":%d AS %s", i+1, c)
		inserts[i] = "s." + c
		if c != "apn" {
			sets = append(sets, fmt.Sprintf("d.%s = s.%s", c, c))
		}
	}
	return fmt.Sprintf(
		"MERGE INTO %s d USING (SELECT %s FROM dual) s ON (d.apn = s.apn) "+
			"WHEN MATCHED THEN UPDATE SET %s "+
			"WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
		table,
		strings.Join(selects, ", "),
		strings.Join(sets, ", "),
		strings.Join(cols, ", "),
		strings.Join(inserts, ", "),
	)
}

// postgresUpsert builds a single-row INSERT ... ON CONFLICT for pgx batches.
func postgresUpsert(table string) string {
	cols := domain.OutputColumns
	params := make([]string, len(cols))
	sets := make([]string, 0, len(cols)-1)
	for i, c := range cols {
		params[i] = fmt.Sprintf("$%d", i+1)
		if c != "apn" {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (apn) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(sets, ", "))
}

func postgresCreateTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  apn TEXT PRIMARY KEY,
  full_address TEXT NOT NULL,
  price BIGINT,
  beds BIGINT,
  baths BIGINT,
  sqft BIGINT,
  price_per_sqft BIGINT,
  status TEXT NOT NULL,
  flood_zone TEXT,
  avg_rain_inches DOUBLE PRECISION
)`, table)
}
