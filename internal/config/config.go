// Package config holds the tool settings the CLI shell reads from an
// optional soxkit.yaml file. Everything has a default; a missing file is
// not an error.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/junjidragonfox/soxkit/internal/convert"
)

// Config is the full tool configuration.
type Config struct {
	// MessageLocation says where chat exports keep their messages array:
	// auto, top or conversation. The exporter changed this between versions.
	MessageLocation string `yaml:"message_location"`
	// ScanMode selects the image URL heuristic: strict (path extension
	// only) or loose (extension anywhere before ? or end of string).
	ScanMode string `yaml:"scan_mode"`
	// DownloadTimeoutSecs bounds each avatar GET request.
	DownloadTimeoutSecs int `yaml:"download_timeout_secs"`
	// MaxScanDepth bounds the recursive image URL scan.
	MaxScanDepth int `yaml:"max_scan_depth"`
	// ErrorDetailLimit caps how many per-item failure messages are shown.
	ErrorDetailLimit int `yaml:"error_detail_limit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MessageLocation:     "auto",
		ScanMode:            "strict",
		DownloadTimeoutSecs: 15,
		MaxScanDepth:        20,
		ErrorDetailLimit:    10,
	}
}

// Load parses raw YAML over the defaults. For production use LoadFromFile.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.ScanMode != "strict" && cfg.ScanMode != "loose" {
		return nil, errors.Errorf("invalid scan_mode %q: must be strict or loose", cfg.ScanMode)
	}
	if cfg.DownloadTimeoutSecs <= 0 {
		return nil, errors.Errorf("invalid download_timeout_secs %d: must be positive", cfg.DownloadTimeoutSecs)
	}
	if cfg.MaxScanDepth <= 0 {
		return nil, errors.Errorf("invalid max_scan_depth %d: must be positive", cfg.MaxScanDepth)
	}

	return &cfg, nil
}

// LoadFromFile reads the config file at path. A missing file yields pure
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		return &cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Load(data)
}

// Location returns the configured message location as a typed value.
func (c *Config) Location() (convert.MessageLocation, error) {
	return convert.ParseMessageLocation(c.MessageLocation)
}

// Loose reports whether the loose URL heuristic is selected.
func (c *Config) Loose() bool {
	return c.ScanMode == "loose"
}
