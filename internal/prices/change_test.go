package prices

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestChanges_FlagsLargeSwing(t *testing.T) {
	tbl := buildTable(t, "A", row{f(10), f(100), f(1000)}, row{f(14), f(100), f(1000)})
	v, err := Variation(tbl, Key{"A", X1})
	if err != nil {
		t.Fatalf("Variation: %v", err)
	}
	if math.Abs(v-0.4) > 1e-12 {
		t.Fatalf("variation = %v, want 0.4", v)
	}
	scan, err := Changes(tbl, 0.3)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(scan.Changes) != 1 || scan.Changes[0].Item != "A" || scan.Changes[0].Tier != X1 {
		t.Fatalf("changes = %+v", scan.Changes)
	}
	if !reflect.DeepEqual(scan.Items(), []string{"A"}) {
		t.Fatalf("items = %v", scan.Items())
	}
}

func TestChanges_FlatNeverFlags(t *testing.T) {
	tbl := buildTable(t, "A", row{f(5), f(50), f(500)}, row{f(5), f(50), f(500)})
	for _, thr := range []float64{0, 0.01, 0.3, 1, math.NaN()} {
		scan, err := Changes(tbl, thr)
		if err != nil {
			t.Fatalf("Changes(%v): %v", thr, err)
		}
		if len(scan.Changes) != 0 {
			t.Fatalf("threshold %v flagged a flat series: %+v", thr, scan.Changes)
		}
	}
	v, err := Variation(tbl, Key{"A", X10})
	if err != nil || v != 0 {
		t.Fatalf("variation = %v, %v; want exactly 0", v, err)
	}
}

func TestChanges_ZeroOrMissingPreviousIsSkipped(t *testing.T) {
	b := NewBuilder()
	b.Add(at(0), "A", X1, Known(0))
	b.Add(at(60), "A", X1, Known(3))
	b.Add(at(60), "A", X10, Known(30))
	b.Add(at(0), "B", X1, Known(1))
	b.Add(at(60), "B", X1, Known(2))
	tbl := b.Build()

	if _, err := Variation(tbl, Key{"A", X1}); !errors.Is(err, ErrNotComputable) {
		t.Fatalf("zero previous err = %v", err)
	}
	if _, err := Variation(tbl, Key{"A", X10}); !errors.Is(err, ErrNotComputable) {
		t.Fatalf("missing previous err = %v", err)
	}
	scan, err := Changes(tbl, 0.3)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(scan.Changes) != 1 || scan.Changes[0].Item != "B" {
		t.Fatalf("changes = %+v", scan.Changes)
	}
	if len(scan.Skipped) != 5 {
		t.Fatalf("skipped = %v, want 5 pairs", scan.Skipped)
	}
}

func TestChanges_OrderAndDedup(t *testing.T) {
	b := NewBuilder()
	for _, item := range []string{"Zinc", "Ail", "Blé"} {
		b.Add(at(0), item, X1, Known(10))
		b.Add(at(0), item, X10, Known(100))
	}
	b.Add(at(60), "Zinc", X1, Known(20))
	b.Add(at(60), "Zinc", X10, Known(200))
	b.Add(at(60), "Ail", X1, Known(10))
	b.Add(at(60), "Ail", X10, Known(50))
	b.Add(at(60), "Blé", X1, Known(1))
	b.Add(at(60), "Blé", X10, Known(100))
	tbl := b.Build()

	scan, err := Changes(tbl, 0.3)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if got, want := scan.Items(), []string{"Zinc", "Ail", "Blé"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	if len(scan.Changes) != 4 {
		t.Fatalf("changes = %+v", scan.Changes)
	}
	SortChanges(scan.Changes)
	if scan.Changes[0].Item != "Ail" || scan.Changes[3].Item != "Zinc" || scan.Changes[3].Tier != X10 {
		t.Fatalf("sorted = %+v", scan.Changes)
	}
}

func TestChanges_TooFewRows(t *testing.T) {
	tbl := buildTable(t, "A", row{f(1), nil, nil})
	if _, err := Changes(tbl, 0.3); !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("err = %v, want ErrTooFewRows", err)
	}
}
