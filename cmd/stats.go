package cmd

import (
	"github.com/KaramelBytes/pricewatch-cli/internal/report"
	"github.com/spf13/cobra"
)

var stdTableCmd = &cobra.Command{
	Use:   "stdtable",
	Short: "Normalized std of per-unit prices and mean alignments per item",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables("Std table", report.StdTable(t))
		return emit(cmd, doc)
	},
}

var alignStdCmd = &cobra.Command{
	Use:   "alignstd",
	Short: "Std of both alignments per item and their ratio",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables("Alignment std", report.AlignmentStdTable(t))
		return emit(cmd, doc)
	},
}

var weekendCmd = &cobra.Command{
	Use:   "weekend",
	Short: "Compare per-unit x100 prices on weekdays and weekends",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.AddTables("Weekend", report.WeekendTable(t))
		return emit(cmd, doc)
	},
}

func init() {
	rootCmd.AddCommand(stdTableCmd)
	rootCmd.AddCommand(alignStdCmd)
	rootCmd.AddCommand(weekendCmd)
}
