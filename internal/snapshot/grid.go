package snapshot

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

type gridColumn struct {
	item string
	tier prices.Tier
}

// tableFromGrid converts a wide grid into a Table. Row 0 holds item names (an
// empty cell repeats the item to its left), row 1 holds tier names and column 0
// holds timestamps. A row carrying only an index label right after the headers
// is skipped.
func tableFromGrid(grid [][]string, opt Options, serialDates bool) (*prices.Table, error) {
	if len(grid) < 2 {
		return nil, fmt.Errorf("need item and tier header rows, have %d rows: %w", len(grid), ErrMalformed)
	}
	items, tiers := grid[0], grid[1]
	ncol := len(items)
	if len(tiers) > ncol {
		ncol = len(tiers)
	}
	cols := make([]*gridColumn, ncol)
	b := prices.NewBuilder()
	prev := ""
	for j := 1; j < ncol; j++ {
		name := strings.TrimSpace(cell(items, j))
		tierName := strings.TrimSpace(cell(tiers, j))
		if name == "" && tierName == "" {
			continue
		}
		if name == "" {
			name = prev
		}
		if name == "" {
			return nil, fmt.Errorf("column %d has tier %q but no item: %w", j+1, tierName, ErrMalformed)
		}
		tier, err := prices.ParseTier(tierName)
		if err != nil {
			return nil, fmt.Errorf("column %d (%s): %v: %w", j+1, name, err, ErrMalformed)
		}
		prev = name
		cols[j] = &gridColumn{item: name, tier: tier}
		b.AddItem(name)
	}

	for i := 2; i < len(grid); i++ {
		rec := grid[i]
		if blankRow(rec) {
			continue
		}
		raw := strings.TrimSpace(cell(rec, 0))
		ts, ok := parseTimeMaybe(raw)
		if !ok && serialDates {
			ts, ok = parseExcelSerial(raw)
		}
		if !ok {
			if i == 2 && blankRow(rec[1:]) {
				continue
			}
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+1, raw, ErrMalformed)
		}
		for j, c := range cols {
			if c == nil {
				continue
			}
			v := strings.TrimSpace(cell(rec, j))
			if isMissing(v) {
				b.Add(ts, c.item, c.tier, prices.Missing)
				continue
			}
			x, ok := parseNumeric(v, opt)
			if !ok {
				return nil, fmt.Errorf("row %d column %d: invalid price %q: %w", i+1, j+1, v, ErrMalformed)
			}
			b.Add(ts, c.item, c.tier, prices.Known(x))
		}
	}
	return b.Build(), nil
}

func cell(rec []string, j int) string {
	if j < len(rec) {
		return rec[j]
	}
	return ""
}

func blankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "na", "n/a", "null", "none", "-":
		return true
	}
	return false
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05", "2006-01-02T15:04:05",
		"2006-01-02 15:04", "2006-01-02", "2006/01/02 15:04:05", "2006/01/02",
		"02/01/2006 15:04", "02/01/2006",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// parseExcelSerial converts a spreadsheet date serial (days since 1899-12-30).
func parseExcelSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return time.Time{}, false
	}
	days := math.Floor(f)
	secs := math.Round((f - days) * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), true
}

// groupedThousands matches integers grouped by commas, such as 1,200 or 125,000.
var groupedThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if groupedThousands.MatchString(raw) {
			dec = '.'
			thou = ','
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
