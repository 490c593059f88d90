package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level tallied.yaml configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Limits    LimitsConfig    `yaml:"limits"`
	Cache     CacheConfig     `yaml:"cache"`
	Recurring RecurringConfig `yaml:"recurring"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
}

// LimitsConfig bounds what the normalizer accepts.
type LimitsConfig struct {
	AmountCeiling  string `yaml:"amount_ceiling"` // decimal string
	MaxDescription int    `yaml:"max_description"`
}

// CacheConfig controls the analytics cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
}

// RecurringConfig controls recurring-charge detection tolerances.
type RecurringConfig struct {
	AmountTolerance   float64 `yaml:"amount_tolerance"` // relative, 0.02 = 2%
	IntervalDays      int     `yaml:"interval_days"`
	IntervalTolerance int     `yaml:"interval_tolerance_days"`
	MinOccurrences    int     `yaml:"min_occurrences"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	TopCategories int    `yaml:"top_categories"`
	Budget        string `yaml:"budget"` // decimal string, monthly budget for insight payloads
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a tallied.yaml file from disk, then applies environment
// overrides. A .env file next to the process, if present, is loaded
// first (missing is fine).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(dataDir string) *Config {
	return &Config{
		DataDir: dataDir,
		Limits: LimitsConfig{
			AmountCeiling:  "1000000000",
			MaxDescription: 200,
		},
		Cache: CacheConfig{
			Capacity: 24,
		},
		Recurring: RecurringConfig{
			AmountTolerance:   0.02,
			IntervalDays:      30,
			IntervalTolerance: 3,
			MinOccurrences:    3,
		},
		Report: ReportConfig{
			TopCategories: 5,
			Budget:        "0",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TALLIED_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TALLIED_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// AmountCeiling parses the configured ceiling, falling back to the
// default on a malformed value.
func (c *Config) AmountCeiling() decimal.Decimal {
	d, err := decimal.NewFromString(c.Limits.AmountCeiling)
	if err != nil || !d.IsPositive() {
		return decimal.NewFromInt(1_000_000_000)
	}
	return d
}

// Budget parses the configured monthly budget; malformed values are zero.
func (c *Config) Budget() decimal.Decimal {
	d, err := decimal.NewFromString(c.Report.Budget)
	if err != nil {
		return decimal.Zero
	}
	return d
}
