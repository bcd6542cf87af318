package snapshot

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteTable is the long-format table read from SQLite snapshots.
const DefaultSQLiteTable = "prices"

type sqliteLoader struct{}

func (sqliteLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Load reads rows of (ts, item, tier, price); a NULL price is a missing cell.
func (sqliteLoader) Load(path string, opt Options) (*prices.Table, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadSQLite(db, tableName(opt.SQLiteTable))
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func tableName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultSQLiteTable
	}
	return name
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func loadSQLite(db *sql.DB, table string) (*prices.Table, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT ts, item, tier, price FROM %s", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	b := prices.NewBuilder()
	n := 0
	for rows.Next() {
		n++
		var (
			rawTS    any
			item     string
			tierName string
			price    sql.NullFloat64
		)
		if err := rows.Scan(&rawTS, &item, &tierName, &price); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", n, err)
		}
		ts, ok := sqliteTime(rawTS)
		if !ok {
			return nil, fmt.Errorf("row %d: invalid timestamp %v: %w", n, rawTS, ErrMalformed)
		}
		tier, err := prices.ParseTier(tierName)
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", n, err, ErrMalformed)
		}
		p := prices.Missing
		if price.Valid {
			p = prices.Known(price.Float64)
		}
		b.Add(ts, strings.TrimSpace(item), tier, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return b.Build(), nil
}

// sqliteTime accepts text timestamps, unix seconds and driver-decoded times.
func sqliteTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return parseTimeMaybe(strings.TrimSpace(x))
	case []byte:
		return parseTimeMaybe(strings.TrimSpace(string(x)))
	case int64:
		return time.Unix(x, 0), true
	case float64:
		sec := int64(x)
		return time.Unix(sec, int64((x-float64(sec))*1e9)), true
	}
	return time.Time{}, false
}

const createPricesSQL = `
CREATE TABLE IF NOT EXISTS %s (
	ts    TEXT NOT NULL,
	item  TEXT NOT NULL,
	tier  TEXT NOT NULL,
	price REAL,
	PRIMARY KEY (ts, item, tier)
)`

// WriteSQLite exports t into the long-format table of a SQLite file, replacing
// rows that share (ts, item, tier). Missing cells are stored as NULL.
func WriteSQLite(path string, t *prices.Table, table string) (int, error) {
	db, err := openSQLite(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return writeSQLite(db, t, tableName(table))
}

func writeSQLite(db *sql.DB, t *prices.Table, table string) (int, error) {
	if _, err := db.Exec(fmt.Sprintf(createPricesSQL, quoteIdent(table))); err != nil {
		return 0, fmt.Errorf("create %s: %w", table, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT OR REPLACE INTO %s (ts, item, tier, price) VALUES (?, ?, ?, ?)", quoteIdent(table)))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for i, ts := range t.Times {
		stamp := ts.UTC().Format(time.RFC3339Nano)
		for _, item := range t.Items {
			for _, tier := range prices.Tiers {
				p := t.At(prices.Key{Item: item, Tier: tier}, i)
				var v any
				if p.Valid {
					v = p.Value
				}
				if _, err := stmt.Exec(stamp, item, tier.String(), v); err != nil {
					return n, fmt.Errorf("insert %s %s/%s: %w", stamp, item, tier, err)
				}
				n++
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
