package snapshot

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"

	_ "modernc.org/sqlite"
)

func TestSQLiteRoundTrip(t *testing.T) {
	b := prices.NewBuilder()
	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	b.Add(t1, "Blé", prices.X1, prices.Known(1))
	b.Add(t1, "Blé", prices.X10, prices.Known(9.5))
	b.Add(t2, "Blé", prices.X100, prices.Known(120))
	b.Add(t2, "Orge", prices.X1, prices.Known(2.25))
	src := b.Build()

	path := filepath.Join(t.TempDir(), "prices.db")
	n, err := WriteSQLite(path, src, "")
	if err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}
	if want := src.Len() * len(src.Items) * len(prices.Tiers); n != want {
		t.Fatalf("rows written = %d, want %d", n, want)
	}

	got, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 2 || len(got.Items) != 2 {
		t.Fatalf("shape = %d rows, %v", got.Len(), got.Items)
	}
	if !got.Times[1].Equal(t2) {
		t.Fatalf("time = %v, want %v", got.Times[1], t2)
	}
	for _, item := range src.Items {
		for _, tier := range prices.Tiers {
			k := prices.Key{Item: item, Tier: tier}
			for i := 0; i < src.Len(); i++ {
				if a, b := src.At(k, i), got.At(k, i); a != b {
					t.Fatalf("%s row %d = %v, want %v", k, i, b, a)
				}
			}
		}
	}
}

func TestSQLiteLoad_UnixSecondsAndCustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`CREATE TABLE quotes (ts INTEGER, item TEXT, tier TEXT, price REAL)`,
		`INSERT INTO quotes VALUES (1709287200, 'Ail', 'x1', 3)`,
		`INSERT INTO quotes VALUES (1709287200, 'Ail', 'x100', NULL)`,
		`INSERT INTO quotes VALUES (1709290800, 'Ail', 'X10', 31)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	db.Close()

	opt := DefaultOptions()
	opt.SQLiteTable = "quotes"
	tbl, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if want := time.Unix(1709287200, 0).UTC(); !tbl.Times[0].Equal(want) {
		t.Fatalf("time = %v, want %v", tbl.Times[0], want)
	}
	if p := tbl.At(prices.Key{Item: "Ail", Tier: prices.X10}, 1); p.Value != 31 {
		t.Fatalf("x10 = %v", p)
	}
	if p := tbl.At(prices.Key{Item: "Ail", Tier: prices.X100}, 0); p.Valid {
		t.Fatalf("NULL price must be missing, got %v", p)
	}

	opt.SQLiteTable = "nope"
	if _, err := Load(path, opt); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestSQLiteLoad_BadTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, s := range []string{
		`CREATE TABLE prices (ts TEXT, item TEXT, tier TEXT, price REAL)`,
		`INSERT INTO prices VALUES ('2024-03-01T10:00:00Z', 'Ail', 'x7', 1)`,
	} {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	db.Close()
	if _, err := Load(path, DefaultOptions()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestWriteSQLite_ReplacesRowsInMemory(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	// each connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	b := prices.NewBuilder()
	b.Add(ts, "Ail", prices.X1, prices.Known(3))
	if _, err := writeSQLite(db, b.Build(), "quotes"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	b = prices.NewBuilder()
	b.Add(ts, "Ail", prices.X1, prices.Known(4))
	if _, err := writeSQLite(db, b.Build(), "quotes"); err != nil {
		t.Fatalf("second write: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("rows = %d, want 3 (one per tier)", n)
	}
	tbl, err := loadSQLite(db, "quotes")
	if err != nil {
		t.Fatalf("loadSQLite: %v", err)
	}
	if p := tbl.At(prices.Key{Item: "Ail", Tier: prices.X1}, 0); p.Value != 4 {
		t.Fatalf("x1 = %v, want replaced value 4", p)
	}
}
