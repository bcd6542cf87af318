package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/KaramelBytes/pricewatch-cli/internal/prices"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Snapshot is the price table read by every report.
	Snapshot    string `mapstructure:"snapshot" yaml:"snapshot"`
	SQLiteTable string `mapstructure:"sqlite_table" yaml:"sqlite_table"`

	// Change detection and dashboard
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	Freq      string  `mapstructure:"freq" yaml:"freq"`
	AlphaSort bool    `mapstructure:"alphasort" yaml:"alphasort"`
	TailSize  int     `mapstructure:"tail_size" yaml:"tail_size"`

	// Completion
	Backfill bool `mapstructure:"backfill" yaml:"backfill"`

	// Numeric locale and XLSX sheet selection
	Decimal    string `mapstructure:"decimal" yaml:"decimal"`
	Thousands  string `mapstructure:"thousands" yaml:"thousands"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks value ranges. An empty Freq means no resampling.
func (c *Global) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 {
		return fmt.Errorf("threshold must be >= 0, got %v: %w", c.Threshold, ErrInvalid)
	}
	if c.Freq != "" {
		if _, err := prices.ParseFreq(c.Freq); err != nil {
			return fmt.Errorf("freq: %v: %w", err, ErrInvalid)
		}
	}
	if c.TailSize < 1 {
		return fmt.Errorf("tail_size must be >= 1, got %d: %w", c.TailSize, ErrInvalid)
	}
	if c.SheetIndex < 1 {
		return fmt.Errorf("sheet_index is 1-based, got %d: %w", c.SheetIndex, ErrInvalid)
	}
	for name, v := range map[string]string{"decimal": c.Decimal, "thousands": c.Thousands} {
		if utf8.RuneCountInString(v) > 1 {
			return fmt.Errorf("%s must be a single character, got %q: %w", name, v, ErrInvalid)
		}
	}
	if c.Decimal != "" && c.Decimal == c.Thousands {
		return fmt.Errorf("decimal and thousands separators are both %q: %w", c.Decimal, ErrInvalid)
	}
	return nil
}

// Rune returns the single character of a separator setting, or 0 when unset.
func Rune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// Dir returns ~/.pricewatch.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".pricewatch"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.pricewatch/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICEWATCH")
	v.AutomaticEnv()

	v.SetDefault("snapshot", "prices.csv")
	v.SetDefault("sqlite_table", "prices")
	v.SetDefault("threshold", 0.3)
	v.SetDefault("freq", "")
	v.SetDefault("alphasort", false)
	v.SetDefault("tail_size", 10)
	v.SetDefault("backfill", true)
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
