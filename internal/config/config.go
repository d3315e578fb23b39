// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/edge-mtf-mcp/internal/sfr"
)

// Luminance modes understood by imaging.ToGrayscale.
var luminanceModes = []string{"luma", "bt601", "lightness", "red"}

// Config holds the server settings.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	// HTTPAddr enables the HTTP transport when non-empty (e.g. ":8080").
	HTTPAddr string `toml:"http_addr"`

	Measurement Measurement `toml:"measurement"`
	Azure       Azure       `toml:"azure"`
}

// Measurement holds the defaults applied to mtf_* tool calls that omit them.
type Measurement struct {
	PixelPitchUM       float64   `toml:"pixel_pitch_um"`
	BinningFactor      int       `toml:"binning_factor"`
	Luminance          string    `toml:"luminance"`
	ReadoutFrequencies []float64 `toml:"readout_frequencies"`
	ContrastThresholds []float64 `toml:"contrast_thresholds"`
}

// Azure holds the storage account used for azblob:// image paths.
type Azure struct {
	Account string `toml:"account"`
	Key     string `toml:"key"`
}

// BlobEnabled reports whether azblob:// paths can be resolved.
func (a Azure) BlobEnabled() bool {
	return a.Account != "" && a.Key != ""
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Measurement: Measurement{
			PixelPitchUM:       2.0,
			BinningFactor:      4,
			Luminance:          "luma",
			ReadoutFrequencies: []float64{2.5, 7.5, 15, 30},
			ContrastThresholds: []float64{0.1, 0.5},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.LogLevel = getEnvOrDefault("EDGE_MTF_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("EDGE_MTF_LOG_FORMAT", c.LogFormat)
	c.HTTPAddr = getEnvOrDefault("EDGE_MTF_HTTP_ADDR", c.HTTPAddr)
	c.Measurement.Luminance = getEnvOrDefault("EDGE_MTF_LUMINANCE", c.Measurement.Luminance)
	c.Azure.Account = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", c.Azure.Account)
	c.Azure.Key = getEnvOrDefault("AZURE_STORAGE_KEY", c.Azure.Key)

	if v := os.Getenv("EDGE_MTF_PIXEL_PITCH_UM"); v != "" {
		pitch, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid EDGE_MTF_PIXEL_PITCH_UM: %q", v)
		}
		c.Measurement.PixelPitchUM = pitch
	}
	if v := os.Getenv("EDGE_MTF_BINNING"); v != "" {
		fac, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid EDGE_MTF_BINNING: %q", v)
		}
		c.Measurement.BinningFactor = fac
	}
	return nil
}

// Validate checks the measurement defaults and enumerated settings.
func (c *Config) Validate() error {
	m := c.Measurement
	if !(m.PixelPitchUM > 0) {
		return fmt.Errorf("pixel pitch must be > 0 µm (got %v)", m.PixelPitchUM)
	}
	if m.BinningFactor < 1 || m.BinningFactor > sfr.MaxBinningFactor {
		return fmt.Errorf("binning factor must be in [1, %d] (got %d)", sfr.MaxBinningFactor, m.BinningFactor)
	}
	if !contains(luminanceModes, m.Luminance) {
		return fmt.Errorf("unknown luminance mode %q (want one of %s)", m.Luminance, strings.Join(luminanceModes, ", "))
	}
	for _, v := range m.ContrastThresholds {
		if !(v > 0 && v < 1) {
			return fmt.Errorf("contrast threshold %v outside (0, 1)", v)
		}
	}
	for _, f := range m.ReadoutFrequencies {
		if f < 0 {
			return fmt.Errorf("readout frequency must be >= 0 (got %v)", f)
		}
	}
	if (c.Azure.Account == "") != (c.Azure.Key == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
