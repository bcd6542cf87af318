package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Threshold != 0.3 || !c.Backfill || c.TailSize != 10 || c.SheetIndex != 1 || c.SQLiteTable != "prices" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pw.yaml")
	body := "snapshot: /data/prices.xlsx\nthreshold: 0.5\nfreq: H\nbackfill: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRICEWATCH_TAIL_SIZE", "25")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Snapshot != "/data/prices.xlsx" || c.Threshold != 0.5 || c.Freq != "H" || c.Backfill {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.TailSize != 25 {
		t.Fatalf("env override not applied: tail_size=%d", c.TailSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("HOME", t.TempDir())
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c.Snapshot = "feed.db"
	c.Decimal = ","
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Snapshot != "feed.db" || Rune(again.Decimal) != ',' {
		t.Fatalf("round trip lost values: %+v", again)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Global {
		return &Global{Threshold: 0.3, TailSize: 10, SheetIndex: 1}
	}
	tests := map[string]func(*Global){
		"negative threshold": func(c *Global) { c.Threshold = -0.1 },
		"bad freq":           func(c *Global) { c.Freq = "fortnight" },
		"sub-minute freq":    func(c *Global) { c.Freq = "30s" },
		"zero tail":          func(c *Global) { c.TailSize = 0 },
		"zero sheet":         func(c *Global) { c.SheetIndex = 0 },
		"long separator":     func(c *Global) { c.Decimal = ",," },
		"same separators":    func(c *Global) { c.Decimal, c.Thousands = ",", "," },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("base config: %v", err)
	}
	if Rune("") != 0 {
		t.Fatalf("Rune of empty string must be 0")
	}
}
