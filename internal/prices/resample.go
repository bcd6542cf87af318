package prices

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Series is a single time-indexed column.
type Series struct {
	Times  []time.Time
	Values []Price
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Times) }

// Valid returns the present values in time order.
func (s Series) Valid() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, p := range s.Values {
		if p.Valid {
			out = append(out, p.Value)
		}
	}
	return out
}

// DropMissing returns a copy without the absent points.
func (s Series) DropMissing() Series {
	var out Series
	for i, p := range s.Values {
		if p.Valid {
			out.Times = append(out.Times, s.Times[i])
			out.Values = append(out.Values, p)
		}
	}
	return out
}

// Freq is a fixed bucket width.
type Freq time.Duration

const (
	Minute = Freq(time.Minute)
	Hour   = Freq(time.Hour)
	Day    = Freq(24 * time.Hour)
)

// ParseFreq accepts the short aliases T/min, H/h, D/d and any positive Go duration
// that is a whole number of minutes.
func ParseFreq(s string) (Freq, error) {
	switch strings.TrimSpace(s) {
	case "T", "min", "m":
		return Minute, nil
	case "H", "h":
		return Hour, nil
	case "D", "d":
		return Day, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse frequency %q: %w", s, err)
	}
	if d < time.Minute || d%time.Minute != 0 {
		return 0, fmt.Errorf("frequency %q must be a positive whole number of minutes", s)
	}
	return Freq(d), nil
}

func (f Freq) String() string {
	switch f {
	case Minute:
		return "T"
	case Hour:
		return "H"
	case Day:
		return "D"
	}
	return time.Duration(f).String()
}

// Resample sums all present values inside each minute, then takes the median of
// those minute sums inside each freq bucket. Minutes without any observation are
// absent rather than zero. Buckets run from the first to the last observation;
// empty buckets are Missing unless interpolate is set, in which case interior gaps
// are filled linearly and trailing gaps carry the last value.
func Resample(s Series, freq Freq, interpolate bool) Series {
	return resampleRange(s, freq, interpolate, time.Time{}, time.Time{})
}

// ResampleTable applies Resample to every column on a shared bucket grid that spans
// the whole table.
func ResampleTable(t *Table, freq Freq, interpolate bool) *Table {
	if t.Len() == 0 {
		return NewTable(nil, t.Items)
	}
	from, to := t.Times[0], t.Times[len(t.Times)-1]
	var out *Table
	for _, it := range t.Items {
		for _, tier := range Tiers {
			k := Key{it, tier}
			s := Series{Times: t.Times, Values: t.cols[k]}
			r := resampleRange(s, freq, interpolate, from, to)
			if out == nil {
				out = NewTable(r.Times, t.Items)
			}
			copy(out.cols[k], r.Values)
		}
	}
	if out == nil {
		out = NewTable(bucketGrid(from, to, freq), t.Items)
	}
	return out
}

func resampleRange(s Series, freq Freq, interpolate bool, from, to time.Time) Series {
	if freq <= 0 {
		freq = Minute
	}
	if from.IsZero() || to.IsZero() {
		if s.Len() == 0 {
			return Series{}
		}
		from, to = s.Times[0], s.Times[s.Len()-1]
	}
	// Stage 1: minute sums, only for minutes that saw a value.
	minutes := map[time.Time]float64{}
	for i, p := range s.Values {
		if !p.Valid {
			continue
		}
		m := s.Times[i].Truncate(time.Minute)
		minutes[m] += p.Value
	}
	// Stage 2: median of the minute sums per target bucket.
	buckets := map[time.Time][]float64{}
	for m, v := range minutes {
		b := m.Truncate(time.Duration(freq))
		buckets[b] = append(buckets[b], v)
	}
	grid := bucketGrid(from, to, freq)
	out := Series{Times: grid, Values: make([]Price, len(grid))}
	for i, b := range grid {
		if vals, ok := buckets[b]; ok {
			out.Values[i] = Known(Median(vals))
		}
	}
	if interpolate {
		out = Interpolate(out)
	}
	return out
}

func bucketGrid(from, to time.Time, freq Freq) []time.Time {
	start := from.Truncate(time.Duration(freq))
	end := to.Truncate(time.Duration(freq))
	var grid []time.Time
	for b := start; !b.After(end); b = b.Add(time.Duration(freq)) {
		grid = append(grid, b)
	}
	return grid
}

// Interpolate fills interior gaps linearly along the time axis and carries the last
// present value over trailing gaps. Leading gaps stay Missing.
func Interpolate(s Series) Series {
	out := Series{Times: s.Times, Values: append([]Price(nil), s.Values...)}
	prev := -1
	for i, p := range out.Values {
		if !p.Valid {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			x0, x1 := out.Times[prev], out.Times[i]
			y0, y1 := out.Values[prev].Value, p.Value
			span := x1.Sub(x0).Seconds()
			for j := prev + 1; j < i; j++ {
				w := out.Times[j].Sub(x0).Seconds() / span
				out.Values[j] = Known(y0 + (y1-y0)*w)
			}
		}
		prev = i
	}
	if prev >= 0 {
		for j := prev + 1; j < len(out.Values); j++ {
			out.Values[j] = out.Values[prev]
		}
	}
	return out
}

// Median returns the median of vals (mean of the middle pair for even counts).
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	return Quantile(cp, 0.5)
}
