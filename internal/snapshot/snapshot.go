package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/pricewatch-cli/internal/logging"
	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

// Options controls how a snapshot file is read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
	// SQLiteTable names the long-format table in SQLite snapshots.
	SQLiteTable string

	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{SheetIndex: 1, SQLiteTable: DefaultSQLiteTable}
}

// Loader reads one snapshot format.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*prices.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

var (
	// ErrUnsupported indicates no loader handles the file extension.
	ErrUnsupported = errors.New("unsupported snapshot format")
	// ErrMalformed indicates the file does not follow the snapshot layout.
	ErrMalformed = errors.New("malformed snapshot")
)

// Load reads the snapshot at path with the first loader that accepts it.
func Load(path string, opt Options) (*prices.Table, error) {
	log := logging.OrDiscard(opt.Logger)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("snapshot not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		t, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		log.Debug("snapshot loaded", "file", filepath.Base(path), "rows", t.Len(), "items", len(t.Items))
		return t, nil
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(sqliteLoader{})
}
