package control

import (
	"fmt"
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// PID holds a body at a target y (screen coordinates, y down). Gains are
// accelerations, scaled by the body's mass; gravity is fed forward.
type PID struct {
	Kp      float64
	Ki      float64
	Kd      float64
	Target  float64
	Gravity float64
	// Limit caps the force magnitude; zero means unlimited.
	Limit float64

	integral float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target, gravity float64) *PID {
	return &PID{
		Kp:      kp,
		Ki:      ki,
		Kd:      kd,
		Target:  target,
		Gravity: gravity,
		first:   true,
	}
}

func (p *PID) Compute(s dynamo.Snapshot, t float64) dynamo.Command {
	err := p.Target - s.Position[1]

	if p.first {
		p.prevT = t
		p.first = false
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += err * dt
		p.prevT = t
	}

	// de/dt is -vy since the target is fixed.
	a := p.Kp*err + p.Ki*p.integral - p.Kd*s.Velocity[1] - p.Gravity
	f := s.Mass * a
	if p.Limit > 0 {
		f = math.Max(-p.Limit, math.Min(p.Limit, f))
	}
	return dynamo.Command{Force: dynamo.Vec2{0, f}}
}

// Reset clears integral state
func (p *PID) Reset() {
	p.integral = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":     p.Kp,
		"ki":     p.Ki,
		"kd":     p.Kd,
		"target": p.Target,
		"limit":  p.Limit,
	}
}

func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "target":
		p.Target = value
	case "limit":
		if value < 0 {
			return fmt.Errorf("limit must be non-negative, got %v", value)
		}
		p.Limit = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
