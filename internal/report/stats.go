package report

import (
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
)

// StdTable shows, per item, the normalized std of each per-unit tier price, the
// two mean alignments and their relative distance.
func StdTable(t *prices.Table) *Table {
	out := &Table{Headers: []string{"Item", "x1", "x10", "x100", "Alignment 1", "Alignment 2", "Alignment distance"}}
	pu := t.PerUnit()
	for _, item := range t.Items {
		row := []string{item}
		for _, tier := range prices.Tiers {
			row = append(row, fixed2(normalizedStd(pu, prices.Key{Item: item, Tier: tier})))
		}
		a1, err1 := prices.AlignmentMean(t, item, 1)
		a2, err2 := prices.AlignmentMean(t, item, 2)
		row = append(row, fixed2(a1, err1), fixed2(a2, err2), alignmentDistance(a1, a2, err1, err2))
		out.AddRow(row...)
	}
	return out
}

func normalizedStd(t *prices.Table, k prices.Key) (float64, error) {
	s, err := t.Series(k)
	if err != nil {
		return 0, err
	}
	n, err := prices.Normalize(s)
	if err != nil {
		return 0, err
	}
	return prices.Std(n)
}

// alignmentDistance renders |a2-a1| relative to the larger and the smaller mean.
func alignmentDistance(a1, a2 float64, err1, err2 error) string {
	if err1 != nil || err2 != nil {
		return NA
	}
	lo, hi := math.Min(a1, a2), math.Max(a1, a2)
	if lo <= 0 {
		return NA
	}
	d := math.Abs(a2 - a1)
	return percent(d/hi, nil) + "-" + percent(d/lo, nil)
}

// AlignmentStdTable shows the std of both minute-resampled alignments and the
// ratio of the second to the first.
func AlignmentStdTable(t *prices.Table) *Table {
	out := &Table{Headers: []string{"Item", "Al_1 std", "Al_2 std", "Ratio"}}
	for _, item := range t.Items {
		s1, err1 := alignmentStd(t, item, 1)
		s2, err2 := alignmentStd(t, item, 2)
		ratio := NA
		if err1 == nil && err2 == nil && s1 != 0 {
			ratio = fmt.Sprintf("%.2f", s2/s1)
		}
		out.AddRow(item, fixed2(s1, err1), fixed2(s2, err2), ratio)
	}
	return out
}

func alignmentStd(t *prices.Table, item string, bulk int) (float64, error) {
	s, err := prices.MinuteAlignment(t, item, bulk)
	if err != nil {
		return 0, err
	}
	return prices.Std(s)
}

// AlignmentInfo describes one alignment of item after minute resampling and
// reports how often it sits above and below 1.
func AlignmentInfo(t *prices.Table, item string, bulk int) (*Table, error) {
	s, err := prices.MinuteAlignment(t, item, bulk)
	if err != nil {
		return nil, err
	}
	out := &Table{
		Title:   fmt.Sprintf("%s alignment %d description (resampled by minute):", item, bulk),
		Headers: []string{"Stat", "Value"},
	}
	sum, err := prices.Describe(s)
	if err != nil {
		out.AddRow("count", "0")
		out.AddRow("Above 1", NA)
		out.AddRow("Below 1", NA)
		return out, nil
	}
	std := NA
	if sum.StdOK {
		std = fmt.Sprintf("%.6f", sum.Std)
	}
	out.AddRow("count", fmt.Sprintf("%d", sum.Count))
	out.AddRow("mean", fmt.Sprintf("%.6f", sum.Mean))
	out.AddRow("std", std)
	out.AddRow("min", fmt.Sprintf("%.6f", sum.Min))
	out.AddRow("25%", fmt.Sprintf("%.6f", sum.Q25))
	out.AddRow("50%", fmt.Sprintf("%.6f", sum.Q50))
	out.AddRow("75%", fmt.Sprintf("%.6f", sum.Q75))
	out.AddRow("max", fmt.Sprintf("%.6f", sum.Max))

	above := 0
	for _, v := range s.Valid() {
		if v >= 1 {
			above++
		}
	}
	share := float64(above) / float64(sum.Count)
	out.AddRow("Above 1", percent(share, nil))
	out.AddRow("Below 1", percent(1-share, nil))
	return out, nil
}

// WeekendTable compares per-unit x100 prices on weekdays and weekends (UTC),
// after completion with backfill.
func WeekendTable(t *prices.Table) *Table {
	out := &Table{Headers: []string{"Item", "Stat", "week", "weekend", "diff"}}
	c := t.Clone()
	prices.Complete(c, prices.CompleteOptions{Backfill: true})
	for _, item := range c.Items {
		col, _ := c.Column(prices.Key{Item: item, Tier: prices.X100})
		var week, weekend []float64
		for i, p := range col {
			if !p.Valid {
				continue
			}
			v := p.Value / prices.X100.Multiplier()
			switch c.Times[i].Weekday() {
			case time.Saturday, time.Sunday:
				weekend = append(weekend, v)
			default:
				week = append(week, v)
			}
		}
		out.AddRow(weekRow(item, "mean", mean(week), mean(weekend))...)
		out.AddRow(weekRow(item, "median", median(week), median(weekend))...)
	}
	return out
}

func weekRow(item, stat string, week, weekend prices.Price) []string {
	diff := NA
	if week.Valid && weekend.Valid && week.Value != 0 {
		diff = percent((weekend.Value-week.Value)/week.Value, nil)
	}
	return []string{item, stat, fixedPrice(week), fixedPrice(weekend), diff}
}

func fixedPrice(p prices.Price) string {
	if !p.Valid {
		return NA
	}
	return fmt.Sprintf("%.2f", p.Value)
}

func mean(vals []float64) prices.Price {
	if len(vals) == 0 {
		return prices.Missing
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return prices.Known(sum / float64(len(vals)))
}

func median(vals []float64) prices.Price {
	if len(vals) == 0 {
		return prices.Missing
	}
	return prices.Known(prices.Median(vals))
}
