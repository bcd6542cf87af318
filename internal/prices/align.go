package prices

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadBulk is returned for a bulk level other than 1 or 2.
var ErrBadBulk = errors.New("bulk level must be 1 or 2")

// Alignment returns tier[bulk] / (tier[bulk-1] * 10) for every row of item.
// 1.0 means the bigger pack costs exactly ten of the smaller one. Rows where
// either price is missing or the smaller one is zero are Missing.
func Alignment(t *Table, item string, bulk int) (Series, error) {
	if bulk != 1 && bulk != 2 {
		return Series{}, fmt.Errorf("alignment %d: %w", bulk, ErrBadBulk)
	}
	if !t.HasItem(item) {
		return Series{}, fmt.Errorf("%q: %w", item, ErrUnknownItem)
	}
	hi, lo := Key{item, Tiers[bulk]}, Key{item, Tiers[bulk-1]}
	out := Series{Times: append([]time.Time(nil), t.Times...), Values: make([]Price, t.Len())}
	for i := range t.Times {
		a, err := ratio(t.At(hi, i), t.At(lo, i))
		if err == nil {
			out.Values[i] = Known(a)
		}
	}
	return out, nil
}

func ratio(hi, lo Price) (float64, error) {
	if !hi.Valid || !lo.Valid || lo.Value == 0 {
		return 0, ErrNotComputable
	}
	return hi.Value / (lo.Value * 10), nil
}

// AlignmentMean is the time-weighted mean alignment (see Mean).
func AlignmentMean(t *Table, item string, bulk int) (float64, error) {
	s, err := Alignment(t, item, bulk)
	if err != nil {
		return 0, err
	}
	return Mean(s)
}

// AlignmentPercent is the share of minutes, after minute resampling with
// interpolation, where the alignment is at least 1.
func AlignmentPercent(t *Table, item string, bulk int) (float64, error) {
	s, err := Alignment(t, item, bulk)
	if err != nil {
		return 0, err
	}
	vals := Resample(s, Minute, true).Valid()
	if len(vals) == 0 {
		return 0, ErrNotComputable
	}
	above := 0
	for _, v := range vals {
		if v >= 1 {
			above++
		}
	}
	return float64(above) / float64(len(vals)), nil
}

// MinuteAlignment is the alignment series resampled to minutes, gaps dropped.
// It feeds the alignment std table and the alignment description.
func MinuteAlignment(t *Table, item string, bulk int) (Series, error) {
	s, err := Alignment(t, item, bulk)
	if err != nil {
		return Series{}, err
	}
	return Resample(s, Minute, true).DropMissing(), nil
}
