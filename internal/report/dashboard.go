package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

// DashboardOptions tunes the default report.
type DashboardOptions struct {
	// Freq resamples the table before scanning when non-zero.
	Freq      prices.Freq
	Threshold float64
	AlphaSort bool
	TailSize  int
}

// Dashboard lists the items whose latest price moved by at least the threshold,
// with their daily and detailed tails and a variation table.
func Dashboard(t *prices.Table, opt DashboardOptions) ([]Section, error) {
	db := t
	if opt.Freq > 0 {
		db = prices.ResampleTable(t, opt.Freq, true)
	}
	scan, err := prices.Changes(db, opt.Threshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	changes := scan.Changes
	if opt.AlphaSort {
		prices.SortChanges(changes)
	}
	items := prices.ChangedItems(changes)
	size := opt.TailSize
	if size <= 0 {
		size = 10
	}

	var overview, detailed []*Table
	if len(items) > 0 {
		sel, err := db.Select(items...)
		if err != nil {
			return nil, err
		}
		if overview, err = Tails(prices.ResampleTable(sel, prices.Day, true), items, size); err != nil {
			return nil, err
		}
		if detailed, err = Tails(db, items, size); err != nil {
			return nil, err
		}
	}

	vt := &Table{
		Title:   fmt.Sprintf("%d items of interest:", len(items)),
		Headers: []string{"Item", "Quantity", "Variation"},
	}
	for _, c := range changes {
		vt.AddRow(c.Item, c.Tier.String(), FormatVariation(c.Variation))
	}

	summary := Section{Name: "Changes", Tables: []*Table{vt}}
	summary.Lines = append(summary.Lines, fmt.Sprintf("Threshold: %s", percent(opt.Threshold, nil)))
	if opt.Freq > 0 {
		summary.Lines = append(summary.Lines, fmt.Sprintf("Resampled: %s", opt.Freq))
	}
	if len(scan.Skipped) > 0 {
		summary.Lines = append(summary.Lines, fmt.Sprintf("Not computable: %s", joinKeys(scan.Skipped)))
	}
	return []Section{
		{Name: "Overview", Tables: overview},
		{Name: "Detailed", Tables: detailed},
		summary,
	}, nil
}

// ChangeTable lists the flagged items for thresholds 0.05, 0.10, ... 1.00.
func ChangeTable(t *prices.Table) (*Table, error) {
	out := &Table{Headers: []string{"Threshold", "Count", "Items"}}
	for i := 1; i <= 20; i++ {
		th := float64(i) / 20
		scan, err := prices.Changes(t, th)
		if err != nil {
			return nil, fmt.Errorf("change table: %w", err)
		}
		items := scan.Items()
		out.AddRow(fmt.Sprintf("%.2f", th), fmt.Sprintf("%d", len(items)), strings.Join(items, ", "))
	}
	return out, nil
}

func joinKeys(keys []prices.Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
