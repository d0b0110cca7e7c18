package physics

import "github.com/san-kum/aerosim/internal/dynamo"

// ApplyForce converts a force in newtons into acceleration and adds it to the
// pending sum for the next integration.
func (b *Body) ApplyForce(f dynamo.Vec2) {
	b.acc = b.acc.Add(f.Mul(1 / b.mass))
}

// clearAcceleration is the integrator's reset; nothing else zeroes acc.
func (b *Body) clearAcceleration() {
	b.acc = dynamo.Vec2{}
}
