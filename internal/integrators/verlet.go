package integrators

import "github.com/san-kum/aerosim/internal/dynamo"

// Verlet is velocity Verlet with the acceleration held constant over the
// step, which is exact for a single pending force sum.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Advance(pos, vel, acc dynamo.Vec2, dt float64) (dynamo.Vec2, dynamo.Vec2) {
	p := pos.Add(vel.Mul(dt)).Add(acc.Mul(0.5 * dt * dt))
	return p, vel.Add(acc.Mul(dt))
}
