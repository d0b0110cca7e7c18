package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "semi_implicit" {
		t.Errorf("expected integrator semi_implicit, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if diff := cmp.Diff(physics.DefaultParams(), cfg.Params()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("slide")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Body.Y != cfg.World.Height-cfg.Body.Radius {
		t.Errorf("expected body on the floor, got y %f", cfg.Body.Y)
	}
	if GetPreset("nope") != nil {
		t.Error("expected nil for unknown preset")
	}

	cfg.Body.VX = 99
	if GetPreset("slide").Body.VX == 99 {
		t.Error("presets should not share state")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, nil},
		{"negative mass", func(c *Config) { c.Body.Mass = -1 }, dynamo.ErrInvalidMass},
		{"zero radius", func(c *Config) { c.Body.Radius = 0 }, dynamo.ErrInvalidRadius},
		{"bouncy floor", func(c *Config) { c.Contact.FloorBounce = 1.2 }, dynamo.ErrParameterBounds},
		{"negative gravity", func(c *Config) { c.World.Gravity = -1 }, dynamo.ErrParameterBounds},
		{"NaN lift scale", func(c *Config) { c.Aero.LiftScale = math.NaN() }, dynamo.ErrParameterBounds},
		{"infinite lift scale", func(c *Config) { c.Aero.LiftScale = math.Inf(-1) }, dynamo.ErrParameterBounds},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk45" }, nil},
		{"no bodies", func(c *Config) { c.Body.Count = 0 }, nil},
		{"inverted pulse", func(c *Config) { c.Control.Pulses = []Pulse{{Start: 2, End: 1}} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aerosim.yaml")
	cfg := GetPreset("storm")
	cfg.Seed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWorldConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Integrator = "verlet"
	wc, err := cfg.WorldConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wc.Integrator.Name() != "verlet" {
		t.Errorf("expected verlet, got %s", wc.Integrator.Name())
	}
	if wc.Width != DefaultWidth || wc.Height != DefaultHeight {
		t.Errorf("expected %vx%v, got %vx%v", DefaultWidth, DefaultHeight, wc.Width, wc.Height)
	}
}

func TestSetGet(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("aero.drag", 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Aero.Drag != 0.5 {
		t.Errorf("expected drag 0.5, got %f", cfg.Aero.Drag)
	}
	if err := cfg.Set("body.count", 3); err != nil || cfg.Body.Count != 3 {
		t.Errorf("expected count 3, got %d (%v)", cfg.Body.Count, err)
	}
	if v, err := cfg.Get("body.mass"); err != nil || v != DefaultMass {
		t.Errorf("expected mass %v, got %v (%v)", DefaultMass, v, err)
	}
	if err := cfg.Set("body.colour", 1); err == nil {
		t.Error("expected error for unknown param")
	}

	for _, name := range ParamNames() {
		if _, err := cfg.Get(name); err != nil {
			t.Errorf("listed param %s not gettable: %v", name, err)
		}
	}
}
