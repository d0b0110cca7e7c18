package config

import (
	"math"
	"sort"
)

// Presets tweak the defaults into named scenarios.
var Presets = map[string]func(*Config){
	"drop": func(c *Config) {},
	"glide": func(c *Config) {
		c.Body.X, c.Body.Y = 2, 4
		c.Body.VX = 14
		c.Body.AngleOfAttack = 12
		c.Duration = 6
	},
	"slide": func(c *Config) {
		c.Body.X = 3
		c.Body.Y = c.World.Height - c.Body.Radius
		c.Body.VX = 8
		c.Duration = 4
	},
	"wall": func(c *Config) {
		c.Body.X, c.Body.Y = 15, 10
		c.Body.VX = 20
		c.Duration = 8
	},
	"hover": func(c *Config) {
		c.Controller = "pid"
		c.Body.Y = 15
		c.Control.Target = 6
		c.Duration = 20
	},
	"storm": func(c *Config) {
		c.Controller = "schedule"
		c.Body.Count = 4
		c.Control.Pulses = []Pulse{
			{Start: 0.5, End: 1.5, FX: 60},
			{Start: 3, End: 3.5, FY: -120, AngleDelta: 1},
			{Start: 5, End: 6, FX: -60},
		}
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	tweak, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	tweak(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Radians converts the configured angle of attack.
func (b BodyConfig) Radians() float64 {
	return b.AngleOfAttack * math.Pi / 180
}
