// Package config loads and watches the on-disk TOML configuration for
// the gamepad registry and its tools.
//
// A configuration file tunes registry behavior (dead zone, missed-report
// policy, rumble tick source), backend selection, and logging. Loading a
// missing file writes one populated with defaults, so a host always has
// a file to edit afterwards.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zohnannor/girl"
	"github.com/zohnannor/girl/pkg"
)

// Duration wraps time.Duration so intervals read as "16ms" in the file.
type Duration time.Duration

// UnmarshalText parses a duration string like "250ms" or "1s".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration in time.Duration notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the full on-disk configuration.
type Config struct {
	Input   InputConfig   `toml:"input"`
	Rumble  RumbleConfig  `toml:"rumble"`
	Backend BackendConfig `toml:"backend"`
	Log     LogConfig     `toml:"log"`
}

// InputConfig tunes how reports fold into device snapshots.
type InputConfig struct {
	// StickDeadzone is the per-axis dead zone in [0,1).
	StickDeadzone float64 `toml:"stick_deadzone"`

	// MissedReports selects "hold" or "decay" for analog values on
	// updates without a report.
	MissedReports string `toml:"missed_reports"`

	// DecayRate scales analog values toward zero per missed update,
	// in [0,1]. Only meaningful with MissedReports = "decay".
	DecayRate float64 `toml:"decay_rate"`
}

// RumbleConfig tunes how rumble countdowns are charged.
type RumbleConfig struct {
	// Tick selects "wall" for elapsed wall-clock time or "fixed" for a
	// constant interval per update.
	Tick string `toml:"tick"`

	// FixedInterval is the interval charged per update with Tick =
	// "fixed".
	FixedInterval Duration `toml:"fixed_interval"`
}

// BackendConfig selects the device backend.
type BackendConfig struct {
	// Driver is "auto", "linux", "hid", or "sim".
	Driver string `toml:"driver"`
}

// LogConfig tunes library logging.
type LogConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			StickDeadzone: girl.DefaultStickDeadzone,
			MissedReports: "hold",
			DecayRate:     0.2,
		},
		Rumble: RumbleConfig{
			Tick:          "wall",
			FixedInterval: Duration(16 * time.Millisecond),
		},
		Backend: BackendConfig{
			Driver: "auto",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing
// file is created with default contents first. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks every field against its allowed range. Errors wrap
// pkg.ErrInvalidArgument.
func (c *Config) Validate() error {
	if c.Input.StickDeadzone < 0 || c.Input.StickDeadzone >= 1 {
		return fmt.Errorf("%w: input.stick_deadzone %v outside [0,1)",
			pkg.ErrInvalidArgument, c.Input.StickDeadzone)
	}
	switch c.Input.MissedReports {
	case "hold", "decay":
	default:
		return fmt.Errorf("%w: input.missed_reports %q, want hold or decay",
			pkg.ErrInvalidArgument, c.Input.MissedReports)
	}
	if c.Input.DecayRate < 0 || c.Input.DecayRate > 1 {
		return fmt.Errorf("%w: input.decay_rate %v outside [0,1]",
			pkg.ErrInvalidArgument, c.Input.DecayRate)
	}

	switch c.Rumble.Tick {
	case "wall":
	case "fixed":
		if c.Rumble.FixedInterval <= 0 {
			return fmt.Errorf("%w: rumble.fixed_interval %v with tick=fixed",
				pkg.ErrInvalidArgument, time.Duration(c.Rumble.FixedInterval))
		}
	default:
		return fmt.Errorf("%w: rumble.tick %q, want wall or fixed",
			pkg.ErrInvalidArgument, c.Rumble.Tick)
	}

	switch c.Backend.Driver {
	case "auto", "linux", "hid", "sim":
	default:
		return fmt.Errorf("%w: backend.driver %q, want auto, linux, hid, or sim",
			pkg.ErrInvalidArgument, c.Backend.Driver)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q, want debug, info, warn, or error",
			pkg.ErrInvalidArgument, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q, want text or json",
			pkg.ErrInvalidArgument, c.Log.Format)
	}
	return nil
}

// Options translates the input and rumble sections into registry
// options, for [girl.New] or [girl.Girl.Apply].
func (c *Config) Options() []girl.Option {
	opts := []girl.Option{
		girl.WithStickDeadzone(c.Input.StickDeadzone),
	}
	if c.Input.MissedReports == "decay" {
		opts = append(opts, girl.WithMissedReportDecay(c.Input.DecayRate))
	} else {
		opts = append(opts, girl.WithMissedReportHold())
	}
	if c.Rumble.Tick == "fixed" {
		opts = append(opts, girl.WithFixedTick(time.Duration(c.Rumble.FixedInterval)))
	} else {
		opts = append(opts, girl.WithWallClockTick())
	}
	return opts
}

// ApplyLogging points library logging at the configured level and
// format. This turns output on; without it the library stays silent.
func (c *Config) ApplyLogging() {
	pkg.SetLogLevel(c.LogLevel())
	switch c.Log.Format {
	case "json":
		pkg.SetLogFormat(pkg.LogFormatJSON)
	default:
		pkg.SetLogFormat(pkg.LogFormatText)
	}
}

// LogLevel maps the configured level name onto a slog level.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
