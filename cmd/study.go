package cmd

import (
	"fmt"

	"github.com/KaramelBytes/pricewatch-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	tailsMulti bool
	tailsSize  int
)

var studyCmd = &cobra.Command{
	Use:   "study <item>...",
	Short: "Alignment, recent tails, deciles and current price of items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		secs, err := report.Study(t, args)
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.Add(secs...)
		return emit(cmd, doc)
	},
}

var alignCmd = &cobra.Command{
	Use:   "align <item>",
	Short: "Std line and both alignment descriptions of one item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		item := args[0]
		sel, err := t.Select(item)
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables("Std", report.StdTable(sel))
		for _, bulk := range []int{2, 1} {
			info, err := report.AlignmentInfo(t, item, bulk)
			if err != nil {
				return err
			}
			doc.AddTables(fmt.Sprintf("Alignment %d", bulk), info)
		}
		return emit(cmd, doc)
	},
}

var tailsCmd = &cobra.Command{
	Use:   "tails [item]...",
	Short: "Show the last rows of items (all items by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		items := args
		if len(items) == 0 {
			items = t.Items
		}
		size := c.TailSize
		if cmd.Flags().Changed("size") && tailsSize > 0 {
			size = tailsSize
		}
		build := report.Tails
		name := "Tails"
		if tailsMulti {
			build = report.MultiTails
			name = "Raw, hourly and daily tails"
		}
		tables, err := build(t, items, size)
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables(name, tables...)
		return emit(cmd, doc)
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(tailsCmd)
	tailsCmd.Flags().BoolVar(&tailsMulti, "multi", false, "add hourly and daily resampled tails side by side")
	tailsCmd.Flags().IntVar(&tailsSize, "size", 10, "rows shown per item")
}
