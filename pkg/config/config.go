// Package config loads relline settings from a TOML file.
//
// The default location follows the XDG base directory convention:
// $XDG_CONFIG_HOME/relline/config.toml, or ~/.config/relline/config.toml.
// A missing default file is not an error; every key has a default.
//
//	settle_delay = "80ms"
//	stroke_color = "#dee2e6"
//	default_color = "#339af0"
//
//	[render]
//	scale = 2.0
//	elements = true
//	labels = true
//
//	[view]
//	step = 40
//
//	[serve]
//	addr = ":8080"
//	max_body_bytes = 1048576
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/relline/pkg/errors"
	"github.com/matzehuels/relline/pkg/overlay"
	"github.com/matzehuels/relline/pkg/refresh"
)

const appName = "relline"

// Environment variables read by ApplyEnv.
const (
	EnvAddr        = "RELLINE_ADDR"
	EnvSettleDelay = "RELLINE_SETTLE_DELAY"
)

// Config holds every setting relline reads from its config file.
type Config struct {
	SettleDelay  time.Duration `toml:"settle_delay"`
	StrokeColor  string        `toml:"stroke_color"`
	DefaultColor string        `toml:"default_color"`

	Render Render `toml:"render"`
	View   View   `toml:"view"`
	Serve  Serve  `toml:"serve"`
}

// Render configures `relline render` outputs.
type Render struct {
	Scale    float64 `toml:"scale"`
	Elements bool    `toml:"elements"`
	Labels   bool    `toml:"labels"`
}

// View configures the terminal viewer.
type View struct {
	// Step is the scroll distance of one key press, in scene pixels.
	Step float64 `toml:"step"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		SettleDelay:  refresh.DefaultDelay,
		StrokeColor:  overlay.DefaultStroke,
		DefaultColor: overlay.DefaultFill,
		Render:       Render{Scale: 2.0},
		View:         View{Step: 40},
		Serve:        Serve{Addr: ":8080", MaxBodyBytes: 1 << 20},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
			}
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if addr := getenv(EnvAddr); addr != "" {
		c.Serve.Addr = addr
	}
	if v := getenv(EnvSettleDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvSettleDelay)
		}
		c.SettleDelay = d
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.SettleDelay < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "settle_delay must not be negative, got %s", c.SettleDelay)
	case c.Render.Scale <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive, got %g", c.Render.Scale)
	case c.View.Step <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "view.step must be positive, got %g", c.View.Step)
	case c.Serve.MaxBodyBytes <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "serve.max_body_bytes must be positive, got %d", c.Serve.MaxBodyBytes)
	}
	return nil
}

// OverlayOptions returns the overlay options these settings imply.
func (c *Config) OverlayOptions() []overlay.Option {
	opts := []overlay.Option{overlay.WithDelay(c.SettleDelay)}
	if c.StrokeColor != "" {
		opts = append(opts, overlay.WithStrokeColor(c.StrokeColor))
	}
	if c.DefaultColor != "" {
		opts = append(opts, overlay.WithDefaultColor(c.DefaultColor))
	}
	return opts
}
