// Package config loads and saves the kepatuhan TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds all kepatuhan configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Report     ReportConfig     `toml:"report"`
	Serve      ServeConfig      `toml:"serve"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds the default dataset selection.
type GeneralConfig struct {
	Category string `toml:"category" validate:"required,oneof=HIBURAN 'MAKAN MINUM'"`
	Year     int    `toml:"year" validate:"min=2000,max=2100"`
	Sheet    string `toml:"sheet,omitempty"`
	DataFile string `toml:"data_file,omitempty"`
}

// ReportConfig holds report sizing.
type ReportConfig struct {
	TopN         int `toml:"top_n" validate:"min=1,max=1000"`
	RecordsLimit int `toml:"records_limit" validate:"min=0"`
}

// ServeConfig holds HTTP service settings.
type ServeConfig struct {
	Addr           string   `toml:"addr" validate:"required,hostname_port"`
	ReloadInterval Duration `toml:"reload_interval"`
	RateLimit      int      `toml:"rate_limit" validate:"min=0"` // requests per minute per IP, 0 disables
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var validate = validator.New()

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Category: "HIBURAN",
			Year:     time.Now().Year(),
		},
		Report: ReportConfig{
			TopN:         5,
			RecordsLimit: 10,
		},
		Serve: ServeConfig{
			Addr:           "127.0.0.1:8787",
			ReloadInterval: Duration{30 * time.Second},
			RateLimit:      120,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.Serve.ReloadInterval.Duration < 0 {
			return errors.New("invalid config: serve.reload_interval must not be negative")
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kepatuhan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kepatuhan")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Keys missing from the file keep their default values.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
