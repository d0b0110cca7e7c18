package integrators

import "github.com/san-kum/aerosim/internal/dynamo"

// SemiImplicitEuler updates velocity first and moves with the new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "semi_implicit" }

func (e *SemiImplicitEuler) Advance(pos, vel, acc dynamo.Vec2, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	v := vel.Add(acc.Mul(dt))
	return pos.Add(v.Mul(dt)), v
}

// Euler is the explicit variant: position moves with the stale velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Advance(pos, vel, acc dynamo.Vec2, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	return pos.Add(vel.Mul(dt)), vel.Add(acc.Mul(dt))
}
