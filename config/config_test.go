package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zohnannor/girl"
	"github.com/zohnannor/girl/backend"
	"github.com/zohnannor/girl/backend/sim"
	"github.com/zohnannor/girl/pkg"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestLoad_MissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "girl", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Load did not create the missing file: %v", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := Default()
	want.Input.StickDeadzone = 0.25
	want.Input.MissedReports = "decay"
	want.Input.DecayRate = 0.5
	want.Rumble.Tick = "fixed"
	want.Rumble.FixedInterval = Duration(8 * time.Millisecond)
	want.Backend.Driver = "sim"
	want.Log.Level = "debug"
	want.Log.Format = "json"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not ]] toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed TOML")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[input]\nmissed_reports = \"banana\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, pkg.ErrInvalidArgument) {
		t.Errorf("Load() error = %v, want ErrInvalidArgument", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"deadzone negative", func(c *Config) { c.Input.StickDeadzone = -0.1 }},
		{"deadzone too large", func(c *Config) { c.Input.StickDeadzone = 1 }},
		{"bad missed policy", func(c *Config) { c.Input.MissedReports = "freeze" }},
		{"decay rate negative", func(c *Config) { c.Input.DecayRate = -1 }},
		{"decay rate too large", func(c *Config) { c.Input.DecayRate = 1.5 }},
		{"bad tick", func(c *Config) { c.Rumble.Tick = "cpu" }},
		{"fixed tick without interval", func(c *Config) {
			c.Rumble.Tick = "fixed"
			c.Rumble.FixedInterval = 0
		}},
		{"bad driver", func(c *Config) { c.Backend.Driver = "dos" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, pkg.ErrInvalidArgument) {
			t.Errorf("%s: Validate() = %v, want ErrInvalidArgument", tt.name, err)
		}
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("250ms")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if time.Duration(d) != 250*time.Millisecond {
		t.Errorf("UnmarshalText gave %v, want 250ms", time.Duration(d))
	}

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "250ms" {
		t.Errorf("MarshalText() = %q, want %q", text, "250ms")
	}

	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText accepted a non-duration")
	}
}

func TestOptions_DriveRegistry(t *testing.T) {
	cfg := Default()
	cfg.Input.StickDeadzone = 0.3

	b := sim.New()
	id := b.Connect(backend.DeviceInfo{Name: "Config Pad"})
	g, err := girl.New(b, cfg.Options()...)
	if err != nil {
		t.Fatalf("girl.New failed: %v", err)
	}
	defer g.Close()

	b.QueueReport(backend.Report{
		Device: id,
		Sticks: [2]backend.Vec2{{X: 0.25}, {X: 0.5}},
	})
	if err := g.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	pad, ok := g.Gamepad(0)
	if !ok {
		t.Fatal("Gamepad(0) returned no handle")
	}
	if got := pad.Stick(girl.SideLeft).X; got != 0 {
		t.Errorf("Stick(left).X = %v inside the configured dead zone, want 0", got)
	}
	if got := pad.Stick(girl.SideRight).X; got != 0.5 {
		t.Errorf("Stick(right).X = %v, want 0.5", got)
	}
}

func TestApplyLogging(t *testing.T) {
	prevLevel := pkg.GetLogLevel()
	defer func() {
		pkg.SetLogLevel(prevLevel)
		pkg.SetLogger(pkg.NewLogger(io.Discard, nil))
	}()

	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.ApplyLogging()

	if got := pkg.GetLogLevel(); got != slog.LevelDebug {
		t.Errorf("log level after ApplyLogging = %v, want debug", got)
	}
}

func TestLogLevel_Mapping(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Log.Level = tt.name
		if got := cfg.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWatch_ReloadOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ch := make(chan *Config, 1)
	stop, err := Watch(path, func(c *Config) {
		select {
		case ch <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer stop()

	cfg := Default()
	cfg.Input.StickDeadzone = 0.42
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Input.StickDeadzone != 0.42 {
			t.Errorf("reloaded stick_deadzone = %v, want 0.42", got.Input.StickDeadzone)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s of a config write")
	}

	// A write that fails validation must not reach the callback.
	if err := os.WriteFile(path, []byte("[input]\nmissed_reports = \"banana\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-ch:
		t.Errorf("invalid config delivered: %+v", got)
	case <-time.After(500 * time.Millisecond):
	}
}
