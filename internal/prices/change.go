package prices

import (
	"fmt"
	"math"
	"sort"
)

// Change is one flagged (item, tier) pair.
type Change struct {
	Item      string
	Tier      Tier
	Variation float64
}

// Variation compares the last two rows of one column: (latest-previous)/previous.
// It returns ErrNotComputable when either value is missing or previous is zero.
func Variation(t *Table, k Key) (float64, error) {
	if !t.HasItem(k.Item) {
		return 0, fmt.Errorf("%q: %w", k.Item, ErrUnknownItem)
	}
	n := t.Len()
	if n < 2 {
		return 0, fmt.Errorf("variation needs 2 rows, have %d: %w", n, ErrTooFewRows)
	}
	prev, last := t.At(k, n-2), t.At(k, n-1)
	if !prev.Valid || !last.Valid || prev.Value == 0 {
		return 0, fmt.Errorf("%s: %w", k, ErrNotComputable)
	}
	return (last.Value - prev.Value) / prev.Value, nil
}

// ChangeScan is the result of scanning a table for large swings.
type ChangeScan struct {
	Changes []Change
	// Skipped lists the pairs whose variation was not computable.
	Skipped []Key
}

// Changes flags every (item, tier) whose variation between the last two rows has an
// absolute value of at least threshold. Pairs that are not computable are recorded
// in Skipped and never flagged. A zero variation is never flagged, and a NaN
// threshold flags nothing.
func Changes(t *Table, threshold float64) (ChangeScan, error) {
	var scan ChangeScan
	if t.Len() < 2 {
		return scan, fmt.Errorf("change scan needs 2 rows, have %d: %w", t.Len(), ErrTooFewRows)
	}
	for _, it := range t.Items {
		for _, tier := range Tiers {
			k := Key{it, tier}
			v, err := Variation(t, k)
			if err != nil {
				scan.Skipped = append(scan.Skipped, k)
				continue
			}
			if v != 0 && math.Abs(v) >= threshold {
				scan.Changes = append(scan.Changes, Change{Item: it, Tier: tier, Variation: v})
			}
		}
	}
	return scan, nil
}

// Items returns the distinct flagged item names in first-trigger order.
func (s ChangeScan) Items() []string {
	return ChangedItems(s.Changes)
}

// ChangedItems de-duplicates the item names of changes, keeping first occurrence order.
func ChangedItems(changes []Change) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range changes {
		if !seen[c.Item] {
			seen[c.Item] = true
			out = append(out, c.Item)
		}
	}
	return out
}

// SortChanges orders changes by item name, keeping tier order within an item.
func SortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Item < changes[j].Item })
}
