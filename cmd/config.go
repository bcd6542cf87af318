package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/pricewatch-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set pricewatch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "snapshot: %s\n", c.Snapshot)
		fmt.Fprintf(out, "sqlite_table: %s\n", c.SQLiteTable)
		fmt.Fprintf(out, "threshold: %.3f\n", c.Threshold)
		if c.Freq != "" {
			fmt.Fprintf(out, "freq: %s\n", c.Freq)
		}
		fmt.Fprintf(out, "alphasort: %t\n", c.AlphaSort)
		fmt.Fprintf(out, "tail_size: %d\n", c.TailSize)
		fmt.Fprintf(out, "backfill: %t\n", c.Backfill)
		if c.Decimal != "" {
			fmt.Fprintf(out, "decimal: %q\n", c.Decimal)
		}
		if c.Thousands != "" {
			fmt.Fprintf(out, "thousands: %q\n", c.Thousands)
		}
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file and env only, so a --snapshot override is not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "snapshot":
			c.Snapshot = val
		case "sqlite_table":
			c.SQLiteTable = val
		case "threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for threshold: %w", err)
			}
			c.Threshold = f
		case "freq":
			c.Freq = val
		case "alphasort", "backfill":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "alphasort" {
				c.AlphaSort = b
			} else {
				c.Backfill = b
			}
		case "tail_size", "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			if key == "tail_size" {
				c.TailSize = i
			} else {
				c.SheetIndex = i
			}
		case "decimal":
			c.Decimal = val
		case "thousands":
			c.Thousands = val
		case "sheet_name":
			c.SheetName = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
