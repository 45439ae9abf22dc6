// Package config loads the YAML configuration of the demo program.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flavioheleno/ssd1306"
	"github.com/flavioheleno/ssd1306/internal/log"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Config is the top-level application configuration.
type Config struct {
	// Bus is the I²C bus name as known to periph.io's i2creg ("" picks the
	// first one, e.g. "/dev/i2c-1" or "1").
	Bus string `yaml:"bus"`

	// Speed is the bus clock, e.g. "400kHz". Empty keeps the host default.
	Speed string `yaml:"speed"`

	// Address is the 7 bit device address, usually 0x3C or 0x3D.
	Address uint16 `yaml:"address"`

	// Height is the panel height in rows: 32 or 64.
	Height int `yaml:"height"`

	// ChargePump is "internal" or "external".
	ChargePump string `yaml:"charge_pump"`

	FlipHorizontal bool `yaml:"flip_horizontal"`
	FlipVertical   bool `yaml:"flip_vertical"`

	// DirtyThreshold overrides the full update threshold. 0 keeps the
	// panel default.
	DirtyThreshold int `yaml:"dirty_threshold"`

	// Refresh is a cron schedule for redrawing the screen. Descriptors such
	// as "@every 1s" are accepted.
	Refresh string `yaml:"refresh"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level"`
}

const (
	defaultSpeed   = "400kHz"
	defaultRefresh = "@every 1s"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bus:        "",
		Speed:      defaultSpeed,
		Address:    ssd1306.DefaultAddr,
		Height:     64,
		ChargePump: "internal",
		Refresh:    defaultRefresh,
		LogLevel:   "info",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave.
func (c *Config) Normalize() {
	if c.Address == 0 {
		c.Address = ssd1306.DefaultAddr
	}
	if c.Height == 0 {
		c.Height = 64
	}
	c.ChargePump = strings.ToLower(strings.TrimSpace(c.ChargePump))
	if c.ChargePump == "" {
		c.ChargePump = "internal"
	}
	if c.Refresh == "" {
		c.Refresh = defaultRefresh
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Height != 32 && c.Height != 64 {
		return fmt.Errorf("config: height must be 32 or 64, got %d", c.Height)
	}
	if c.Address > 0x7F {
		return fmt.Errorf("config: address %#x is not a 7 bit address", c.Address)
	}
	switch c.ChargePump {
	case "internal", "external":
	default:
		return fmt.Errorf("config: unknown charge_pump %q", c.ChargePump)
	}
	if c.DirtyThreshold < 0 {
		return errors.New("config: dirty_threshold must not be negative")
	}
	if _, err := c.Frequency(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		return fmt.Errorf("config: refresh: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Frequency parses Speed. It returns 0 when Speed is empty.
func (c *Config) Frequency() (physic.Frequency, error) {
	if c.Speed == "" {
		return 0, nil
	}
	var f physic.Frequency
	if err := f.Set(c.Speed); err != nil {
		return 0, fmt.Errorf("config: speed: %w", err)
	}
	return f, nil
}

// Opts converts the panel settings to driver options.
func (c *Config) Opts() *ssd1306.Opts {
	o := &ssd1306.Opts{
		Geometry:       ssd1306.Geometry(c.Height),
		ChargePump:     ssd1306.ChargePumpInternal,
		FlipHorizontal: c.FlipHorizontal,
		FlipVertical:   c.FlipVertical,
		Addr:           c.Address,
		DirtyThreshold: c.DirtyThreshold,
	}
	if c.ChargePump == "external" {
		o.ChargePump = ssd1306.ChargePumpExternal
	}
	return o
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there with
//     0600 perms and returned.
//   - Otherwise the YAML is read, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ssd1306-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
