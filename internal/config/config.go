package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/integrators"
	"github.com/san-kum/aerosim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultWidth    = 30.0
	DefaultHeight   = 20.0
	DefaultX        = 8.0
	DefaultY        = 8.0
	DefaultRadius   = 0.3
	DefaultMass     = 3.0
	DefaultKp       = 40.0
	DefaultKi       = 2.0
	DefaultKd       = 25.0
)

type Config struct {
	Integrator string        `yaml:"integrator"`
	Controller string        `yaml:"controller"`
	Dt         float64       `yaml:"dt"`
	Duration   float64       `yaml:"duration"`
	Seed       int64         `yaml:"seed"`
	World      FieldConfig   `yaml:"world"`
	Body       BodyConfig    `yaml:"body"`
	Aero       AeroConfig    `yaml:"aero"`
	Contact    ContactConfig `yaml:"contact"`
	Control    ControlConfig `yaml:"control"`
}

type FieldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Gravity float64 `yaml:"gravity"`
}

type BodyConfig struct {
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	VX            float64 `yaml:"vx"`
	VY            float64 `yaml:"vy"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	AngleOfAttack float64 `yaml:"aoa_deg"`
	Count         int     `yaml:"count"`
}

type AeroConfig struct {
	AirDensity   float64 `yaml:"air_density"`
	Drag         float64 `yaml:"drag"`
	LiftScale    float64 `yaml:"lift_scale"`
	AspectRatio  float64 `yaml:"aspect_ratio"`
	Efficiency   float64 `yaml:"efficiency"`
	SpeedEpsilon float64 `yaml:"speed_epsilon"`
}

type ContactConfig struct {
	Friction      float64 `yaml:"friction"`
	WallBounce    float64 `yaml:"wall_bounce"`
	FloorBounce   float64 `yaml:"floor_bounce"`
	CeilingBounce float64 `yaml:"ceiling_bounce"`
	RestVelocity  float64 `yaml:"rest_velocity"`
	Sleep         float64 `yaml:"sleep"`
}

// Pulse applies a constant force and angle change between Start and End seconds.
type Pulse struct {
	Start      float64 `yaml:"start"`
	End        float64 `yaml:"end"`
	FX         float64 `yaml:"fx"`
	FY         float64 `yaml:"fy"`
	AngleDelta float64 `yaml:"aoa_delta_deg"`
}

type ControlConfig struct {
	ThrustX float64 `yaml:"thrust_x"`
	ThrustY float64 `yaml:"thrust_y"`
	Kp      float64 `yaml:"kp"`
	Ki      float64 `yaml:"ki"`
	Kd      float64 `yaml:"kd"`
	Target  float64 `yaml:"target"`
	Pulses  []Pulse `yaml:"pulses,omitempty"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Integrator: integrators.Default,
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		World: FieldConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Gravity: physics.DefaultGravity,
		},
		Body: BodyConfig{
			X:      DefaultX,
			Y:      DefaultY,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
			Count:  1,
		},
		Aero: AeroConfig{
			AirDensity:   p.AirDensity,
			Drag:         p.DragCoefficient,
			LiftScale:    p.LiftCoefficientScale,
			AspectRatio:  p.AspectRatio,
			Efficiency:   p.Efficiency,
			SpeedEpsilon: p.SpeedEpsilon,
		},
		Contact: ContactConfig{
			Friction:      p.Friction,
			WallBounce:    p.WallRestitution,
			FloorBounce:   p.FloorRestitution,
			CeilingBounce: p.CeilingRestitution,
			RestVelocity:  p.RestVelocity,
			Sleep:         p.SleepThreshold,
		},
		Control: ControlConfig{
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
			Target: DefaultY,
		},
	}
}

// Load reads a YAML file on top of the defaults, so partial files are fine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Control.Pulses = append([]Pulse(nil), c.Control.Pulses...)
	return &out
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		AirDensity:           c.Aero.AirDensity,
		DragCoefficient:      c.Aero.Drag,
		LiftCoefficientScale: c.Aero.LiftScale,
		AspectRatio:          c.Aero.AspectRatio,
		Efficiency:           c.Aero.Efficiency,
		SpeedEpsilon:         c.Aero.SpeedEpsilon,
		Friction:             c.Contact.Friction,
		WallRestitution:      c.Contact.WallBounce,
		FloorRestitution:     c.Contact.FloorBounce,
		CeilingRestitution:   c.Contact.CeilingBounce,
		RestVelocity:         c.Contact.RestVelocity,
		SleepThreshold:       c.Contact.Sleep,
	}
}

func (c *Config) WorldConfig() (physics.WorldConfig, error) {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return physics.WorldConfig{}, err
	}
	return physics.WorldConfig{
		Width:      c.World.Width,
		Height:     c.World.Height,
		Gravity:    c.World.Gravity,
		Params:     c.Params(),
		Integrator: integ,
	}, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !(c.Dt > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %v", c.Dt))
	}
	if !(c.Duration > 0) {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	}
	if !(c.Body.Mass > 0) {
		errs = append(errs, fmt.Errorf("mass %v: %w", c.Body.Mass, dynamo.ErrInvalidMass))
	}
	if !(c.Body.Radius > 0) {
		errs = append(errs, fmt.Errorf("radius %v: %w", c.Body.Radius, dynamo.ErrInvalidRadius))
	}
	if c.Body.Count < 1 {
		errs = append(errs, fmt.Errorf("body count must be at least 1, got %d", c.Body.Count))
	}
	for i, p := range c.Control.Pulses {
		if p.End < p.Start {
			errs = append(errs, fmt.Errorf("pulse %d ends before it starts", i))
		}
	}
	wc, err := c.WorldConfig()
	if err != nil {
		errs = append(errs, err)
	} else if err := wc.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
