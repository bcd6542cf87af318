package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "github.com/KaramelBytes/pricewatch-cli/internal/config"
	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	"github.com/KaramelBytes/pricewatch-cli/internal/report"
	"github.com/KaramelBytes/pricewatch-cli/internal/snapshot"
	"github.com/KaramelBytes/pricewatch-cli/internal/utils"
	"github.com/spf13/cobra"
)

func snapshotOptions(c *cfgpkg.Global) snapshot.Options {
	opt := snapshot.DefaultOptions()
	opt.DecimalSeparator = cfgpkg.Rune(c.Decimal)
	opt.ThousandsSeparator = cfgpkg.Rune(c.Thousands)
	opt.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	if c.SQLiteTable != "" {
		opt.SQLiteTable = c.SQLiteTable
	}
	opt.Logger = logger
	return opt
}

// loadTable reads the configured snapshot.
func loadTable() (*prices.Table, *cfgpkg.Global, error) {
	c, err := settings()
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(c.Snapshot) == "" {
		return nil, nil, fmt.Errorf("no snapshot configured (use --snapshot or 'pricewatch config set snapshot <path>')")
	}
	t, err := snapshot.Load(c.Snapshot, snapshotOptions(c))
	if err != nil {
		return nil, nil, err
	}
	if len(t.Items) == 0 {
		fmt.Fprintf(os.Stderr, "⚠ Warning: snapshot %s has no items\n", filepath.Base(c.Snapshot))
	}
	return t, c, nil
}

func newDocument(c *cfgpkg.Global) *report.Document {
	return report.NewDocument(filepath.Base(c.Snapshot))
}

// emit renders doc in the selected format to --output or stdout.
func emit(cmd *cobra.Command, doc *report.Document) error {
	var data []byte
	switch strings.ToLower(outputFormat) {
	case "", "markdown", "md":
		data = []byte(doc.Markdown())
	case "json":
		b, err := utils.PrettyJSON(doc)
		if err != nil {
			return err
		}
		data = append(b, '\n')
	default:
		return fmt.Errorf("unknown format %q (use markdown or json)", outputFormat)
	}
	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := utils.SafeWriteFile(outputPath, data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Report written to %s\n", outputPath)
	return nil
}

// sameFile reports whether a and b name the same existing file.
func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

func parseFreqFlag(s string) (prices.Freq, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return prices.ParseFreq(s)
}
