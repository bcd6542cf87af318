package prices

// CompleteOptions controls Complete.
type CompleteOptions struct {
	// Backfill copies the next later present value into cells the tier rules could not fill.
	Backfill bool
}

// CompleteStats counts the cells Complete filled.
type CompleteStats struct {
	Derived    int
	Backfilled int
	Remaining  int
}

// Complete fills missing cells in place. For every item and row the rules run in
// order, each one seeing the values written by the previous ones:
//
//	x10  <- x100 / 10
//	x10  <- x1 * 10
//	x1   <- x10 / 10
//	x100 <- x10 * 10
//	x100 <- x1 * 100
//
// A rule only fires when its target is missing and its source is present.
// With Backfill, each column then takes the next later present value for any
// cell still missing. Cells with no source stay Missing.
func Complete(t *Table, opt CompleteOptions) CompleteStats {
	var st CompleteStats
	for _, it := range t.Items {
		x1 := t.cols[Key{it, X1}]
		x10 := t.cols[Key{it, X10}]
		x100 := t.cols[Key{it, X100}]
		for i := range t.Times {
			if fill(&x10[i], x100[i], div10) {
				st.Derived++
			}
			if fill(&x10[i], x1[i], mul10) {
				st.Derived++
			}
			if fill(&x1[i], x10[i], div10) {
				st.Derived++
			}
			if fill(&x100[i], x10[i], mul10) {
				st.Derived++
			}
			if fill(&x100[i], x1[i], mul100) {
				st.Derived++
			}
		}
	}
	if opt.Backfill {
		for _, it := range t.Items {
			for _, tier := range Tiers {
				st.Backfilled += backfill(t.cols[Key{it, tier}])
			}
		}
	}
	for _, col := range t.cols {
		for _, p := range col {
			if !p.Valid {
				st.Remaining++
			}
		}
	}
	return st
}

func div10(v float64) float64  { return v / 10 }
func mul10(v float64) float64  { return v * 10 }
func mul100(v float64) float64 { return v * 100 }

func fill(dst *Price, src Price, derive func(float64) float64) bool {
	if dst.Valid || !src.Valid {
		return false
	}
	*dst = Known(derive(src.Value))
	return true
}

func backfill(col []Price) int {
	n := 0
	next := Missing
	for i := len(col) - 1; i >= 0; i-- {
		if col[i].Valid {
			next = col[i]
			continue
		}
		if next.Valid {
			col[i] = next
			n++
		}
	}
	return n
}
