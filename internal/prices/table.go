package prices

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Tier is the pack size a price is quoted for.
type Tier int

const (
	X1 Tier = iota
	X10
	X100
)

// Tiers lists every tier in index order (0 -> x1, 1 -> x10, 2 -> x100).
var Tiers = [3]Tier{X1, X10, X100}

func (t Tier) String() string {
	switch t {
	case X1:
		return "x1"
	case X10:
		return "x10"
	case X100:
		return "x100"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Multiplier returns the pack size (1, 10 or 100).
func (t Tier) Multiplier() float64 {
	switch t {
	case X10:
		return 10
	case X100:
		return 100
	default:
		return 1
	}
}

// ParseTier accepts "x1", "x10", "x100" (case-insensitive) and the bare sizes.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x1", "1":
		return X1, nil
	case "x10", "10":
		return X10, nil
	case "x100", "100":
		return X100, nil
	}
	return 0, fmt.Errorf("unknown tier %q (use x1, x10 or x100)", s)
}

// Price is one optional cell. The zero value is missing.
type Price struct {
	Value float64
	Valid bool
}

// Missing is the absent marker.
var Missing = Price{}

// Known wraps a present value.
func Known(v float64) Price { return Price{Value: v, Valid: true} }

func (p Price) String() string {
	if !p.Valid {
		return "NA"
	}
	return fmt.Sprintf("%g", p.Value)
}

// Key addresses one column of a Table.
type Key struct {
	Item string
	Tier Tier
}

func (k Key) String() string { return k.Item + "/" + k.Tier.String() }

var (
	// ErrUnknownItem is returned when an item has no columns in the table.
	ErrUnknownItem = errors.New("unknown item")
	// ErrNotComputable marks a ratio whose denominator is zero or absent.
	ErrNotComputable = errors.New("not computable")
	// ErrTooFewRows is returned when an operation needs more observations than the table holds.
	ErrTooFewRows = errors.New("not enough observations")
)

// Table is a time-ordered price table with columns keyed by (item, tier).
// Every item carries all three tier columns; absent cells are Missing.
type Table struct {
	Times []time.Time
	Items []string
	cols  map[Key][]Price
}

// NewTable allocates an all-missing table. times must be ascending.
func NewTable(times []time.Time, items []string) *Table {
	t := &Table{
		Times: append([]time.Time(nil), times...),
		Items: append([]string(nil), items...),
		cols:  make(map[Key][]Price, len(items)*len(Tiers)),
	}
	for _, it := range items {
		for _, tier := range Tiers {
			t.cols[Key{it, tier}] = make([]Price, len(times))
		}
	}
	return t
}

// Len returns the number of observations.
func (t *Table) Len() int { return len(t.Times) }

// HasItem reports whether the table carries columns for item.
func (t *Table) HasItem(item string) bool {
	_, ok := t.cols[Key{item, X1}]
	return ok
}

// At returns the cell at row for key; unknown keys and rows are Missing.
func (t *Table) At(k Key, row int) Price {
	col, ok := t.cols[k]
	if !ok || row < 0 || row >= len(col) {
		return Missing
	}
	return col[row]
}

// Set writes a cell. Unknown keys are ignored.
func (t *Table) Set(k Key, row int, p Price) {
	col, ok := t.cols[k]
	if !ok || row < 0 || row >= len(col) {
		return
	}
	col[row] = p
}

// Column returns a copy of one column.
func (t *Table) Column(k Key) ([]Price, error) {
	col, ok := t.cols[k]
	if !ok {
		return nil, fmt.Errorf("column %s: %w", k, ErrUnknownItem)
	}
	return append([]Price(nil), col...), nil
}

// Series returns one column as a time series.
func (t *Table) Series(k Key) (Series, error) {
	col, err := t.Column(k)
	if err != nil {
		return Series{}, err
	}
	return Series{Times: append([]time.Time(nil), t.Times...), Values: col}, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Times: append([]time.Time(nil), t.Times...),
		Items: append([]string(nil), t.Items...),
		cols:  make(map[Key][]Price, len(t.cols)),
	}
	for k, col := range t.cols {
		out.cols[k] = append([]Price(nil), col...)
	}
	return out
}

// Tail returns a copy holding the last n rows (all rows if n exceeds Len).
func (t *Table) Tail(n int) *Table {
	if n < 0 {
		n = 0
	}
	start := len(t.Times) - n
	if start < 0 {
		start = 0
	}
	out := NewTable(t.Times[start:], t.Items)
	for k, col := range t.cols {
		copy(out.cols[k], col[start:])
	}
	return out
}

// Select returns a copy restricted to the given items, in the given order.
func (t *Table) Select(items ...string) (*Table, error) {
	for _, it := range items {
		if !t.HasItem(it) {
			return nil, fmt.Errorf("%q: %w", it, ErrUnknownItem)
		}
	}
	out := NewTable(t.Times, items)
	for _, it := range items {
		for _, tier := range Tiers {
			k := Key{it, tier}
			copy(out.cols[k], t.cols[k])
		}
	}
	return out, nil
}

// PerUnit returns a copy where x10 and x100 prices are divided by their pack size.
func (t *Table) PerUnit() *Table {
	out := t.Clone()
	for k, col := range out.cols {
		m := k.Tier.Multiplier()
		if m == 1 {
			continue
		}
		for i, p := range col {
			if p.Valid {
				col[i] = Known(p.Value / m)
			}
		}
	}
	return out
}

// Row returns the three tier prices of item at row.
func (t *Table) Row(item string, row int) [3]Price {
	var out [3]Price
	for i, tier := range Tiers {
		out[i] = t.At(Key{item, tier}, row)
	}
	return out
}

// Builder accumulates observations in any order and produces a Table.
type Builder struct {
	items   []string
	seen    map[string]bool
	rows    map[time.Time]map[Key]Price
	ordered []time.Time
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: map[string]bool{}, rows: map[time.Time]map[Key]Price{}}
}

// AddItem registers an item even if it never receives a value.
func (b *Builder) AddItem(item string) {
	if !b.seen[item] {
		b.seen[item] = true
		b.items = append(b.items, item)
	}
}

// Add records one cell. Timestamps are normalized to UTC. For a repeated
// timestamp and key the later present value wins; Missing never hides a value.
func (b *Builder) Add(ts time.Time, item string, tier Tier, p Price) {
	b.AddItem(item)
	ts = ts.UTC()
	r, ok := b.rows[ts]
	if !ok {
		r = map[Key]Price{}
		b.rows[ts] = r
		b.ordered = append(b.ordered, ts)
	}
	if p.Valid || r[Key{item, tier}] == Missing {
		r[Key{item, tier}] = p
	}
}

// Build sorts the rows by time and returns the Table.
func (b *Builder) Build() *Table {
	times := append([]time.Time(nil), b.ordered...)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	t := NewTable(times, b.items)
	for i, ts := range times {
		for k, p := range b.rows[ts] {
			t.Set(k, i, p)
		}
	}
	return t
}
