// Package config loads merger configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mosaicops/mosaic-merger/internal/logging"
	"github.com/mosaicops/mosaic-merger/internal/metrics"
)

type Config struct {
	Source  SourceConfig   `yaml:"source"`
	Output  OutputConfig   `yaml:"output"`
	Merge   MergeConfig    `yaml:"merge"`
	Report  ReportConfig   `yaml:"report"`
	Logging logging.Config `yaml:"logging"`
	Metrics metrics.Config `yaml:"metrics"`
}

type SourceConfig struct {
	Mode      string `yaml:"mode"`       // "local" | "bucket"
	LocalPath string `yaml:"local_path"` // directory for local mode
	BucketURL string `yaml:"bucket_url"` // file://, gs:// or s3:// URL
	Prefix    string `yaml:"prefix"`
}

type OutputConfig struct {
	Backend   string `yaml:"backend"` // "local" | "bucket"
	LocalDir  string `yaml:"local_dir"`
	BucketURL string `yaml:"bucket_url"`
	Prefix    string `yaml:"prefix"`
}

type MergeConfig struct {
	Quality        int `yaml:"quality"`          // JPEG quality 1-100
	GroupTimeoutMs int `yaml:"group_timeout_ms"` // per-group deadline, 0 disables
}

type ReportConfig struct {
	Archive     bool `yaml:"archive"`
	Spreadsheet bool `yaml:"spreadsheet"`
}

// Load reads configuration from path (optional; "" uses defaults), applies
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Source: SourceConfig{
			Mode:      "local",
			LocalPath: "./images",
		},
		Output: OutputConfig{
			Backend:  "local",
			LocalDir: "./out",
			Prefix:   "merged/",
		},
		Merge: MergeConfig{
			Quality: 95,
		},
		Report: ReportConfig{
			Archive:     true,
			Spreadsheet: true,
		},
		Logging: logging.Config{
			Format: "text",
			Level:  "info",
		},
		Metrics: metrics.Config{
			Enabled: false,
			Address: ":9090",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Source.Mode = getenvDefault("SOURCE_MODE", cfg.Source.Mode)
	cfg.Source.LocalPath = getenvDefault("SOURCE_PATH", cfg.Source.LocalPath)
	cfg.Source.BucketURL = getenvDefault("SOURCE_BUCKET_URL", cfg.Source.BucketURL)
	cfg.Output.Backend = getenvDefault("OUTPUT_BACKEND", cfg.Output.Backend)
	cfg.Output.LocalDir = getenvDefault("OUTPUT_DIR", cfg.Output.LocalDir)
	cfg.Output.BucketURL = getenvDefault("OUTPUT_BUCKET_URL", cfg.Output.BucketURL)
	cfg.Logging.Format = getenvDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.Level = getenvDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Metrics.Address = getenvDefault("METRICS_ADDR", cfg.Metrics.Address)

	if v := os.Getenv("MERGE_QUALITY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Merge.Quality = parsed
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true"
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Source.Mode {
	case "local":
		if c.Source.LocalPath == "" {
			return fmt.Errorf("source.local_path is required for local mode")
		}
	case "bucket":
		if c.Source.BucketURL == "" {
			return fmt.Errorf("source.bucket_url is required for bucket mode")
		}
	default:
		return fmt.Errorf("unknown source.mode: %s", c.Source.Mode)
	}

	switch c.Output.Backend {
	case "local":
		if c.Output.LocalDir == "" {
			return fmt.Errorf("output.local_dir is required for local backend")
		}
	case "bucket":
		if c.Output.BucketURL == "" {
			return fmt.Errorf("output.bucket_url is required for bucket backend")
		}
	default:
		return fmt.Errorf("unknown output.backend: %s", c.Output.Backend)
	}

	if c.Merge.Quality < 1 || c.Merge.Quality > 100 {
		return fmt.Errorf("merge.quality must be in 1..100, got %d", c.Merge.Quality)
	}
	if c.Merge.GroupTimeoutMs < 0 {
		return fmt.Errorf("merge.group_timeout_ms must not be negative")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
