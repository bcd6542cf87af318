package prices

import (
	"math"
	"sort"
	"time"
)

// Quantile interpolates linearly between the closest ranks of an ascending slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// SeriesQuantile returns the q-quantile of the present values of s.
func SeriesQuantile(s Series, q float64) (float64, error) {
	vals := s.Valid()
	if len(vals) == 0 {
		return 0, ErrNotComputable
	}
	sort.Float64s(vals)
	return Quantile(vals, q), nil
}

// Std is the sample standard deviation (n-1) of the present values.
func Std(s Series) (float64, error) {
	vals := s.Valid()
	if len(vals) < 2 {
		return 0, ErrNotComputable
	}
	var n, mean, m2 float64
	for _, x := range vals {
		n++
		delta := x - mean
		mean += delta / n
		m2 += delta * (x - mean)
	}
	return math.Sqrt(m2 / (n - 1)), nil
}

// Mean is the time-weighted mean of s: values are summed per minute, the minute
// grid is linearly interpolated, and the grid is averaged.
func Mean(s Series) (float64, error) {
	r := Resample(s, Minute, true)
	vals := r.Valid()
	if len(vals) == 0 {
		return 0, ErrNotComputable
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals)), nil
}

// Normalize divides every present value by Mean(s).
func Normalize(s Series) (Series, error) {
	mean, err := Mean(s)
	if err != nil {
		return Series{}, err
	}
	if mean == 0 {
		return Series{}, ErrNotComputable
	}
	out := Series{Times: s.Times, Values: make([]Price, len(s.Values))}
	for i, p := range s.Values {
		if p.Valid {
			out.Values[i] = Known(p.Value / mean)
		}
	}
	return out, nil
}

// Summary is a describe()-style breakdown of a series.
type Summary struct {
	Count              int
	Mean, Std          float64
	Min, Q25, Q50, Q75 float64
	Max                float64
	From, To           time.Time
	StdOK              bool
}

// Describe summarizes the present values of s.
func Describe(s Series) (Summary, error) {
	clean := s.DropMissing()
	vals := clean.Valid()
	if len(vals) == 0 {
		return Summary{}, ErrNotComputable
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	out := Summary{
		Count: len(vals),
		Mean:  sum / float64(len(vals)),
		Min:   sorted[0],
		Q25:   Quantile(sorted, 0.25),
		Q50:   Quantile(sorted, 0.5),
		Q75:   Quantile(sorted, 0.75),
		Max:   sorted[len(sorted)-1],
		From:  clean.Times[0],
		To:    clean.Times[len(clean.Times)-1],
	}
	if std, err := Std(clean); err == nil {
		out.Std, out.StdOK = std, true
	}
	return out, nil
}
