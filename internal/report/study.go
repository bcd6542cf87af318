package report

import (
	"fmt"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

// Study gathers everything worth knowing about a few items: alignment summary,
// the last 14 days and 100 hours, price deciles and the current price.
func Study(t *prices.Table, items []string) ([]Section, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("study needs at least one item")
	}
	for _, item := range items {
		if !t.HasItem(item) {
			return nil, fmt.Errorf("study %q: %w", item, prices.ErrUnknownItem)
		}
	}

	align := &Table{Headers: []string{"Item", "A1 mean", "P(A1≥1)", "A2 mean", "P(A2≥1)"}}
	for _, item := range items {
		row := []string{item}
		for _, bulk := range []int{1, 2} {
			row = append(row,
				fixed2(prices.AlignmentMean(t, item, bulk)),
				percent(prices.AlignmentPercent(t, item, bulk)))
		}
		align.AddRow(row...)
	}

	days, err := Tails(prices.ResampleTable(t, prices.Day, true), items, 14)
	if err != nil {
		return nil, err
	}
	hours, err := Tails(prices.ResampleTable(t, prices.Hour, true), items, 100)
	if err != nil {
		return nil, err
	}
	current, err := Tails(t, items, 1)
	if err != nil {
		return nil, err
	}

	var deciles []*Table
	for _, item := range items {
		dt := &Table{Title: item, Headers: []string{"#", "x1", "x10", "x100"}}
		for i := 0; i <= 10; i++ {
			row := []string{fmt.Sprintf("%d", i)}
			for _, tier := range prices.Tiers {
				s, _ := t.Series(prices.Key{Item: item, Tier: tier})
				q, err := prices.SeriesQuantile(s, float64(i)/10)
				if err != nil {
					row = append(row, NA)
					continue
				}
				row = append(row, trimFloat(q))
			}
			dt.AddRow(row...)
		}
		deciles = append(deciles, dt)
	}

	return []Section{
		{Name: "Alignment", Tables: []*Table{align}},
		{Name: "Last 14 days", Tables: days},
		{Name: "Last 100 hours", Tables: hours},
		{Name: "Deciles", Tables: deciles},
		{Name: "Current price", Tables: current},
	}, nil
}
