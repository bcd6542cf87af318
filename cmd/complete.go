package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	"github.com/KaramelBytes/pricewatch-cli/internal/report"
	"github.com/KaramelBytes/pricewatch-cli/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	completeBackfill bool
	completeTail     int
	exportComplete   bool
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Fill missing prices from the other pack sizes and later rows",
	Long: `Derives missing x1/x10/x100 prices from the other pack sizes of the same row
(x10 from x100/10 then x1*10, x1 from x10/10, x100 from x10*10 then x1*100).
With backfill, cells still missing take the next later value of their column.
The snapshot itself is never modified; use 'export --complete' to save the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		backfill := c.Backfill
		if cmd.Flags().Changed("backfill") {
			backfill = completeBackfill
		}
		size := c.TailSize
		if cmd.Flags().Changed("tail") && completeTail > 0 {
			size = completeTail
		}
		st := prices.Complete(t, prices.CompleteOptions{Backfill: backfill})
		logger.Debug("completion done", "derived", st.Derived, "backfilled", st.Backfilled, "remaining", st.Remaining)

		tails, err := report.Tails(t, t.Items, size)
		if err != nil {
			return err
		}
		doc := newDocument(c)
		doc.Add(report.Section{
			Name: "Completion",
			Lines: []string{
				"Derived: " + strconv.Itoa(st.Derived),
				"Backfilled: " + strconv.Itoa(st.Backfilled),
				"Still missing: " + strconv.Itoa(st.Remaining),
			},
		})
		doc.AddTables("Completed tails", tails...)
		return emit(cmd, doc)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <out.db>",
	Short: "Write the price table into a SQLite database",
	Long: `Writes one row per (timestamp, item, pack size) into the configured SQLite table
(default "prices"). Existing rows with the same key are replaced. The exported
database can be used as a snapshot, but the loaded snapshot itself is never
an accepted target.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, c, err := loadTable()
		if err != nil {
			return err
		}
		if sameFile(args[0], c.Snapshot) {
			return fmt.Errorf("export: %s is the loaded snapshot; choose another output file", args[0])
		}
		if exportComplete {
			prices.Complete(t, prices.CompleteOptions{Backfill: c.Backfill})
		}
		n, err := snapshot.WriteSQLite(args[0], t, c.SQLiteTable)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d rows (%d items) to %s\n", n, len(t.Items), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(exportCmd)
	completeCmd.Flags().BoolVar(&completeBackfill, "backfill", true, "fill remaining gaps from later rows (overrides config)")
	completeCmd.Flags().IntVar(&completeTail, "tail", 10, "rows shown per item")
	exportCmd.Flags().BoolVar(&exportComplete, "complete", false, "complete missing prices before exporting")
}
