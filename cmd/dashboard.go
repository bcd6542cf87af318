package cmd

import (
	"fmt"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	"github.com/KaramelBytes/pricewatch-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	dashFreq      string
	dashAlphaSort bool
	dashThreshold float64
	dashTail      int
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the items whose latest price moved by at least the threshold",
	Long: `Compares the last two rows of every item and pack size. Items whose price moved
by at least the threshold are listed with their daily and detailed tails and a
variation table. With --freq the table is resampled first (T, H, D or a duration
such as 15m).`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	t, c, err := loadTable()
	if err != nil {
		return err
	}
	opt := report.DashboardOptions{
		Threshold: c.Threshold,
		AlphaSort: c.AlphaSort,
		TailSize:  c.TailSize,
	}
	freq := c.Freq
	// The root command has none of these flags, so Changed stays false there.
	f := cmd.Flags()
	if f.Changed("freq") {
		freq = dashFreq
	}
	if f.Changed("alphasort") {
		opt.AlphaSort = dashAlphaSort
	}
	if f.Changed("threshold") {
		opt.Threshold = dashThreshold
	}
	if f.Changed("tail") && dashTail > 0 {
		opt.TailSize = dashTail
	}
	if opt.Freq, err = parseFreqFlag(freq); err != nil {
		return err
	}
	secs, err := report.Dashboard(t, opt)
	if err != nil {
		return err
	}
	logger.Debug("dashboard built", "rows", t.Len(), "items", len(t.Items), "freq", freq)
	doc := newDocument(c)
	doc.Add(secs...)
	if len(secs[0].Tables) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no price moved by %.0f%% or more\n", opt.Threshold*100)
	}
	return emit(cmd, doc)
}

var changedThreshold float64

var changedCmd = &cobra.Command{
	Use:   "changed",
	Short: "List items whose price changed by at least the threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		th := c.Threshold
		if cmd.Flags().Changed("threshold") {
			th = changedThreshold
		}
		scan, err := prices.Changes(t, th)
		if err != nil {
			return err
		}
		tbl := &report.Table{Headers: []string{"Item", "Quantity", "Variation"}}
		for _, ch := range scan.Changes {
			tbl.AddRow(ch.Item, ch.Tier.String(), report.FormatVariation(ch.Variation))
		}
		sec := report.Section{Name: "Changed", Tables: []*report.Table{tbl}}
		for _, item := range scan.Items() {
			sec.Lines = append(sec.Lines, "- "+item)
		}
		if len(scan.Skipped) > 0 {
			logger.Debug("variation not computable", "pairs", len(scan.Skipped))
		}
		doc := newDocument(c)
		doc.Add(sec)
		return emit(cmd, doc)
	},
}

var changeTableCmd = &cobra.Command{
	Use:   "changetable",
	Short: "Show the changed items for thresholds 0.05 to 1.00",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		tbl, err := report.ChangeTable(t)
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables("Change table", tbl)
		return emit(cmd, doc)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(changedCmd)
	rootCmd.AddCommand(changeTableCmd)
	dashboardCmd.Flags().StringVar(&dashFreq, "freq", "", "resample before scanning (T, H, D, 15m...)")
	dashboardCmd.Flags().BoolVar(&dashAlphaSort, "alphasort", false, "sort items alphabetically")
	dashboardCmd.Flags().Float64Var(&dashThreshold, "threshold", 0.3, "minimum absolute relative change")
	dashboardCmd.Flags().IntVar(&dashTail, "tail", 10, "rows shown per item")
	changedCmd.Flags().Float64Var(&changedThreshold, "threshold", 0.3, "minimum absolute relative change")
}
