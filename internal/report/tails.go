package report

import (
	"fmt"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

var tierHeaders = []string{"Time", "x1", "x10", "x100"}

// Tails renders the last size rows of each item. The title carries the
// time-weighted x100 mean computed after completion without backfill.
func Tails(t *prices.Table, items []string, size int) ([]*Table, error) {
	completed := t.Clone()
	prices.Complete(completed, prices.CompleteOptions{})
	tail := t.Tail(size)
	out := make([]*Table, 0, len(items))
	for _, item := range items {
		if !t.HasItem(item) {
			return nil, fmt.Errorf("tails %q: %w", item, prices.ErrUnknownItem)
		}
		tbl := &Table{Title: meanTitle(completed, item), Headers: tierHeaders}
		for i, ts := range tail.Times {
			row := tail.Row(item, i)
			tbl.AddRow(formatTime(ts), FormatPrice(row[0]), FormatPrice(row[1]), FormatPrice(row[2]))
		}
		out = append(out, tbl)
	}
	return out, nil
}

// MultiTails shows raw, hourly and daily tails of each item side by side. Each
// block is bottom-aligned so the latest rows share a line.
func MultiTails(t *prices.Table, items []string, size int) ([]*Table, error) {
	blocks := []*prices.Table{
		t.Tail(size),
		prices.ResampleTable(t, prices.Hour, true).Tail(size),
		prices.ResampleTable(t, prices.Day, true).Tail(size),
	}
	headers := append([]string(nil), tierHeaders...)
	for _, suffix := range []string{"_H", "_D"} {
		for _, h := range tierHeaders {
			headers = append(headers, h+suffix)
		}
	}
	nrows := 0
	for _, b := range blocks {
		if b.Len() > nrows {
			nrows = b.Len()
		}
	}

	out := make([]*Table, 0, len(items))
	for _, item := range items {
		if !t.HasItem(item) {
			return nil, fmt.Errorf("multitails %q: %w", item, prices.ErrUnknownItem)
		}
		tbl := &Table{Title: meanTitle(t, item), Headers: headers}
		for i := 0; i < nrows; i++ {
			var cells []string
			for _, b := range blocks {
				j := i - (nrows - b.Len())
				if j < 0 {
					cells = append(cells, "", "", "", "")
					continue
				}
				row := b.Row(item, j)
				cells = append(cells, formatTime(b.Times[j]), FormatPrice(row[0]), FormatPrice(row[1]), FormatPrice(row[2]))
			}
			tbl.AddRow(cells...)
		}
		out = append(out, tbl)
	}
	return out, nil
}

func x100Mean(t *prices.Table, item string) (float64, error) {
	s, err := t.Series(prices.Key{Item: item, Tier: prices.X100})
	if err != nil {
		return 0, err
	}
	return prices.Mean(s)
}

func meanTitle(t *prices.Table, item string) string {
	return fmt.Sprintf("%s    x100 mean: %s", item, fixed2(x100Mean(t, item)))
}
