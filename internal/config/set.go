package config

import (
	"fmt"
	"sort"
)

func (c *Config) fields() map[string]*float64 {
	return map[string]*float64{
		"dt":                     &c.Dt,
		"duration":               &c.Duration,
		"world.width":            &c.World.Width,
		"world.height":           &c.World.Height,
		"world.gravity":          &c.World.Gravity,
		"body.x":                 &c.Body.X,
		"body.y":                 &c.Body.Y,
		"body.vx":                &c.Body.VX,
		"body.vy":                &c.Body.VY,
		"body.radius":            &c.Body.Radius,
		"body.mass":              &c.Body.Mass,
		"body.aoa_deg":           &c.Body.AngleOfAttack,
		"aero.air_density":       &c.Aero.AirDensity,
		"aero.drag":              &c.Aero.Drag,
		"aero.lift_scale":        &c.Aero.LiftScale,
		"aero.aspect_ratio":      &c.Aero.AspectRatio,
		"aero.efficiency":        &c.Aero.Efficiency,
		"contact.friction":       &c.Contact.Friction,
		"contact.wall_bounce":    &c.Contact.WallBounce,
		"contact.floor_bounce":   &c.Contact.FloorBounce,
		"contact.ceiling_bounce": &c.Contact.CeilingBounce,
		"contact.rest_velocity":  &c.Contact.RestVelocity,
		"contact.sleep":          &c.Contact.Sleep,
		"control.thrust_x":       &c.Control.ThrustX,
		"control.thrust_y":       &c.Control.ThrustY,
		"control.kp":             &c.Control.Kp,
		"control.ki":             &c.Control.Ki,
		"control.kd":             &c.Control.Kd,
		"control.target":         &c.Control.Target,
	}
}

// Set assigns a numeric field by its dotted yaml path, e.g. "aero.drag".
func (c *Config) Set(name string, value float64) error {
	if name == "body.count" {
		c.Body.Count = int(value)
		return nil
	}
	p, ok := c.fields()[name]
	if !ok {
		return fmt.Errorf("unknown param: %s", name)
	}
	*p = value
	return nil
}

func (c *Config) Get(name string) (float64, error) {
	if name == "body.count" {
		return float64(c.Body.Count), nil
	}
	p, ok := c.fields()[name]
	if !ok {
		return 0, fmt.Errorf("unknown param: %s", name)
	}
	return *p, nil
}

// ParamNames lists every key accepted by Set.
func ParamNames() []string {
	var c Config
	names := []string{"body.count"}
	for name := range c.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
