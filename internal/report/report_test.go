package report

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	"github.com/google/uuid"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) // a Friday

type itemRows struct {
	item string
	rows [][3]float64
}

var na = math.NaN()

// build lays rows out hourly from t0; NaN marks a missing cell.
func build(series ...itemRows) *prices.Table {
	b := prices.NewBuilder()
	for _, s := range series {
		for i, r := range s.rows {
			ts := t0.Add(time.Duration(i) * time.Hour)
			for j, tier := range prices.Tiers {
				p := prices.Missing
				if !math.IsNaN(r[j]) {
					p = prices.Known(r[j])
				}
				b.Add(ts, s.item, tier, p)
			}
		}
	}
	return b.Build()
}

func aligned(n int) itemRows {
	rows := make([][3]float64, n)
	for i := range rows {
		rows[i] = [3]float64{1, 10, 100}
	}
	return itemRows{"Ail", rows}
}

func TestTableMarkdown(t *testing.T) {
	tbl := &Table{Title: "Prices", Headers: []string{"Item", "x1"}}
	tbl.AddRow("Blé", "1")
	tbl.AddRow("a|b")
	want := "Prices\n\n" +
		"| Item | x1  |\n" +
		"| ---- | --- |\n" +
		"| Blé  | 1   |\n" +
		"| a/b  |     |\n"
	if got := tbl.Markdown(); got != want {
		t.Fatalf("markdown:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatVariation(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.4, "+ 40  %"},
		{-0.05, "- 5   %"},
		{1, "+ 100 %"},
	}
	for _, tt := range tests {
		if got := FormatVariation(tt.in); got != tt.want {
			t.Errorf("FormatVariation(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatPrice(prices.Known(9.5)); got != "9.5" {
		t.Errorf("FormatPrice(9.5) = %q", got)
	}
	if got := FormatPrice(prices.Known(100)); got != "100" {
		t.Errorf("FormatPrice(100) = %q", got)
	}
	if got := FormatPrice(prices.Missing); got != NA {
		t.Errorf("FormatPrice(missing) = %q", got)
	}
}

func TestDashboard(t *testing.T) {
	tbl := build(
		itemRows{"Orge", [][3]float64{{1, 10, 100}, {1, 10, 100}}},
		itemRows{"Blé", [][3]float64{{10, na, na}, {14, na, na}}},
	)
	secs, err := Dashboard(tbl, DashboardOptions{Threshold: 0.3})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(secs) != 3 || secs[0].Name != "Overview" || secs[1].Name != "Detailed" {
		t.Fatalf("sections = %+v", secs)
	}

	overview := secs[0].Tables
	if len(overview) != 1 {
		t.Fatalf("overview tables = %d, want 1", len(overview))
	}
	if overview[0].Title != "Blé    x100 mean: 1200.00" {
		t.Fatalf("overview title = %q", overview[0].Title)
	}
	if got := strings.Join(overview[0].Rows[0], ","); got != "2024-03-01 00:00,12,NA,NA" {
		t.Fatalf("daily row = %s", got)
	}
	if rows := secs[1].Tables[0].Rows; len(rows) != 2 || rows[1][1] != "14" {
		t.Fatalf("detailed rows = %v", rows)
	}

	vt := secs[2].Tables[0]
	if vt.Title != "1 items of interest:" {
		t.Fatalf("variation title = %q", vt.Title)
	}
	if got := strings.Join(vt.Rows[0], ","); got != "Blé,x1,+ 40  %" {
		t.Fatalf("variation row = %s", got)
	}
	notes := strings.Join(secs[2].Lines, "\n")
	if !strings.Contains(notes, "Not computable: Blé/x10, Blé/x100") {
		t.Fatalf("notes = %s", notes)
	}
}

func TestDashboard_AlphaSortAndTooFewRows(t *testing.T) {
	tbl := build(
		itemRows{"Seigle", [][3]float64{{1, na, na}, {2, na, na}}},
		itemRows{"Avoine", [][3]float64{{1, na, na}, {2, na, na}}},
	)
	secs, err := Dashboard(tbl, DashboardOptions{Threshold: 0.3, AlphaSort: true})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	rows := secs[2].Tables[0].Rows
	if rows[0][0] != "Avoine" || rows[1][0] != "Seigle" {
		t.Fatalf("alphasort rows = %v", rows)
	}

	if _, err := Dashboard(tbl.Tail(1), DashboardOptions{Threshold: 0.3}); !errors.Is(err, prices.ErrTooFewRows) {
		t.Fatalf("err = %v, want ErrTooFewRows", err)
	}
}

func TestChangeTable(t *testing.T) {
	tbl := build(itemRows{"Blé", [][3]float64{{10, na, na}, {14, na, na}}})
	ct, err := ChangeTable(tbl)
	if err != nil {
		t.Fatalf("ChangeTable: %v", err)
	}
	if len(ct.Rows) != 20 {
		t.Fatalf("rows = %d, want 20", len(ct.Rows))
	}
	if got := strings.Join(ct.Rows[7], ","); got != "0.40,1,Blé" {
		t.Fatalf("0.40 row = %s", got)
	}
	if got := strings.Join(ct.Rows[8], ","); got != "0.45,0," {
		t.Fatalf("0.45 row = %s", got)
	}
}

func TestTailsAndMultiTails(t *testing.T) {
	tbl := build(aligned(3))
	tails, err := Tails(tbl, []string{"Ail"}, 2)
	if err != nil {
		t.Fatalf("Tails: %v", err)
	}
	if len(tails[0].Rows) != 2 || tails[0].Rows[1][0] != "2024-03-01 12:00" {
		t.Fatalf("tails rows = %v", tails[0].Rows)
	}

	multi, err := MultiTails(tbl, []string{"Ail"}, 10)
	if err != nil {
		t.Fatalf("MultiTails: %v", err)
	}
	rows := multi[0].Rows
	if len(multi[0].Headers) != 12 || len(rows) != 3 {
		t.Fatalf("multitails shape = %d headers, %d rows", len(multi[0].Headers), len(rows))
	}
	if rows[0][8] != "" || rows[2][8] != "2024-03-01 00:00" || rows[2][11] != "100" {
		t.Fatalf("daily block not bottom aligned: %v", rows)
	}

	if _, err := Tails(tbl, []string{"Nope"}, 2); !errors.Is(err, prices.ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
}

func TestStdTables(t *testing.T) {
	tbl := build(aligned(3), itemRows{"Orge", [][3]float64{{2, na, na}, {3, na, na}, {4, na, na}}})

	st := StdTable(tbl)
	if got := strings.Join(st.Rows[0], ","); got != "Ail,0.00,0.00,0.00,1.00,1.00,0%-0%" {
		t.Fatalf("std row = %s", got)
	}
	if row := st.Rows[1]; row[2] != NA || row[4] != NA || row[6] != NA {
		t.Fatalf("incomplete item row = %v", row)
	}

	at := AlignmentStdTable(tbl)
	if got := strings.Join(at.Rows[0], ","); got != "Ail,0.00,0.00,NA" {
		t.Fatalf("alignment std row = %s", got)
	}
	if got := strings.Join(at.Rows[1], ","); got != "Orge,NA,NA,NA" {
		t.Fatalf("alignment std row = %s", got)
	}
}

func TestAlignmentInfo(t *testing.T) {
	tbl := build(aligned(3))
	info, err := AlignmentInfo(tbl, "Ail", 2)
	if err != nil {
		t.Fatalf("AlignmentInfo: %v", err)
	}
	got := map[string]string{}
	for _, r := range info.Rows {
		got[r[0]] = r[1]
	}
	if got["count"] != "121" || got["mean"] != "1.000000" || got["Above 1"] != "100%" || got["Below 1"] != "0%" {
		t.Fatalf("info = %v", got)
	}

	if _, err := AlignmentInfo(tbl, "Nope", 2); !errors.Is(err, prices.ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
	if _, err := AlignmentInfo(tbl, "Ail", 3); !errors.Is(err, prices.ErrBadBulk) {
		t.Fatalf("err = %v, want ErrBadBulk", err)
	}
}

func TestWeekendTable(t *testing.T) {
	b := prices.NewBuilder()
	fri := t0
	sat := t0.Add(24 * time.Hour)
	b.Add(fri, "Ail", prices.X100, prices.Known(100))
	b.Add(fri.Add(time.Hour), "Ail", prices.X100, prices.Known(200))
	b.Add(sat, "Ail", prices.X100, prices.Known(300))
	b.Add(fri, "Orge", prices.X100, prices.Missing)
	b.Add(sat, "Orge", prices.X100, prices.Known(50))
	tbl := b.Build()

	wt := WeekendTable(tbl)
	if got := strings.Join(wt.Rows[0], ","); got != "Ail,mean,1.50,3.00,100%" {
		t.Fatalf("mean row = %s", got)
	}
	if got := strings.Join(wt.Rows[1], ","); got != "Ail,median,1.50,3.00,100%" {
		t.Fatalf("median row = %s", got)
	}
	if got := strings.Join(wt.Rows[2], ","); got != "Orge,mean,0.50,0.50,0%" {
		t.Fatalf("backfilled row = %s", got)
	}
}

func TestStudy(t *testing.T) {
	tbl := build(aligned(3))
	secs, err := Study(tbl, []string{"Ail"})
	if err != nil {
		t.Fatalf("Study: %v", err)
	}
	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = s.Name
	}
	if got := strings.Join(names, "|"); got != "Alignment|Last 14 days|Last 100 hours|Deciles|Current price" {
		t.Fatalf("sections = %s", got)
	}
	if got := strings.Join(secs[0].Tables[0].Rows[0], ","); got != "Ail,1.00,100%,1.00,100%" {
		t.Fatalf("alignment row = %s", got)
	}
	dec := secs[3].Tables[0]
	if len(dec.Rows) != 11 || strings.Join(dec.Rows[10], ",") != "10,1,10,100" {
		t.Fatalf("deciles = %v", dec.Rows)
	}
	if rows := secs[4].Tables[0].Rows; len(rows) != 1 {
		t.Fatalf("current price rows = %v", rows)
	}

	if _, err := Study(tbl, []string{"Nope"}); !errors.Is(err, prices.ErrUnknownItem) {
		t.Fatalf("err = %v, want ErrUnknownItem", err)
	}
}

func TestDocumentMarkdown(t *testing.T) {
	doc := NewDocument("prices.csv")
	if _, err := uuid.Parse(doc.RunID); err != nil {
		t.Fatalf("run id %q: %v", doc.RunID, err)
	}
	tbl := &Table{Headers: []string{"Item"}}
	tbl.AddRow("Ail")
	doc.Add(Section{Name: "Changes", Lines: []string{"Threshold: 30%"}, Tables: []*Table{tbl}})
	md := doc.Markdown()
	for _, want := range []string{"[PRICE REPORT]", "Snapshot: prices.csv", "Run: " + doc.RunID, "[CHANGES]\nThreshold: 30%\n\n| Item |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
