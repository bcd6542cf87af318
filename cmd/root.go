package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/pricewatch-cli/internal/config"
	"github.com/KaramelBytes/pricewatch-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	snapshotFlag string
	outputPath   string
	outputFormat string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "pricewatch: reports on an in-game item price table",
	Long: `pricewatch reads a price table (one column per item and pack size x1/x10/x100)
and reports on price swings, completion of missing prices, resampled tails,
pack alignment and weekday/weekend differences.

Without a sub-command it prints the dashboard.`,
	RunE: runDashboard,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.pricewatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "", "price snapshot (.csv, .tsv, .xlsx, .db); overrides config")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "markdown", "report format: markdown|json")
}

func loadConfig() {
	logger = logging.New(os.Stderr, debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	if rootCmd.PersistentFlags().Changed("snapshot") && snapshotFlag != "" {
		c.Snapshot = snapshotFlag
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug("config loaded", "snapshot", cfg.Snapshot, "threshold", cfg.Threshold, "freq", cfg.Freq)
}

// settings returns the loaded configuration, or an error describing why none is usable.
func settings() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if snapshotFlag != "" {
		c.Snapshot = snapshotFlag
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
