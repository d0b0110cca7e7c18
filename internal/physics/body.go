package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

const (
	MinAngleOfAttack = -20 * math.Pi / 180
	MaxAngleOfAttack = 45 * math.Pi / 180
)

// Body is a circle with a point-mass. Fields are reachable only through the
// accessors so acceleration cannot be written around ApplyForce.
type Body struct {
	handle   dynamo.Handle
	pos      dynamo.Vec2
	vel      dynamo.Vec2
	acc      dynamo.Vec2
	radius   float64
	mass     float64
	onGround bool
	aoa      float64
	phase    Phase
	contacts dynamo.ContactEvent
}

// NewBody validates mass and radius and returns a body at rest phase.
func NewBody(pos, vel dynamo.Vec2, radius, mass float64) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("new body: mass %v: %w", mass, dynamo.ErrInvalidMass)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("new body: radius %v: %w", radius, dynamo.ErrInvalidRadius)
	}
	if !dynamo.Finite(pos) || !dynamo.Finite(vel) {
		return nil, fmt.Errorf("new body: %w", dynamo.ErrInvalidState)
	}
	return &Body{pos: pos, vel: vel, radius: radius, mass: mass}, nil
}

func (b *Body) Handle() dynamo.Handle         { return b.handle }
func (b *Body) Position() dynamo.Vec2         { return b.pos }
func (b *Body) Velocity() dynamo.Vec2         { return b.vel }
func (b *Body) Acceleration() dynamo.Vec2     { return b.acc }
func (b *Body) Radius() float64               { return b.radius }
func (b *Body) Mass() float64                 { return b.mass }
func (b *Body) OnGround() bool                { return b.onGround }
func (b *Body) AngleOfAttack() float64        { return b.aoa }
func (b *Body) Phase() Phase                  { return b.phase }
func (b *Body) Contacts() dynamo.ContactEvent { return b.contacts }
func (b *Body) CrossSectionalArea() float64   { return math.Pi * b.radius * b.radius }

// AdjustAngleOfAttack adds delta radians and clamps to the allowed range.
func (b *Body) AdjustAngleOfAttack(delta float64) {
	b.SetAngleOfAttack(b.aoa + delta)
}

func (b *Body) SetAngleOfAttack(aoa float64) {
	if math.IsNaN(aoa) {
		return
	}
	b.aoa = ClampAngleOfAttack(aoa)
}

func ClampAngleOfAttack(aoa float64) float64 {
	return math.Max(MinAngleOfAttack, math.Min(MaxAngleOfAttack, aoa))
}

func (b *Body) Snapshot() dynamo.Snapshot {
	return dynamo.Snapshot{
		Handle:        b.handle,
		Position:      b.pos,
		Velocity:      b.vel,
		Acceleration:  b.acc,
		Radius:        b.radius,
		Mass:          b.mass,
		AngleOfAttack: b.aoa,
		OnGround:      b.onGround,
		Contacts:      b.contacts,
	}
}
