package physics

import (
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// Contact handles friction against the floor and the four boundaries.
type Contact struct {
	params        *Params
	width, height float64
	gravity       float64
	integ         dynamo.Integrator
}

func NewContact(p *Params, width, height, gravity float64, integ dynamo.Integrator) *Contact {
	return &Contact{params: p, width: width, height: height, gravity: gravity, integ: integ}
}

// PredictGround reports whether the body will be on or below the floor after
// integrating its current acceleration over dt.
func (c *Contact) PredictGround(b *Body, dt float64) bool {
	pos, _ := c.integ.Advance(b.pos, b.vel, b.acc, dt)
	return pos[1]+b.radius >= c.height
}

// ApplyFriction sets the predicted ground flag and, when grounded, applies
// Coulomb friction against horizontal motion. Friction never reverses vx.
func (c *Contact) ApplyFriction(b *Body, dt float64) {
	b.onGround = c.PredictGround(b, dt)
	if !b.onGround {
		return
	}

	vx := b.vel[0]
	if math.Abs(vx) < c.params.SpeedEpsilon || vx == 0 {
		return
	}

	free := vx + b.acc[0]*dt
	if free*vx <= 0 {
		return
	}

	mag := c.params.Friction * b.mass * c.gravity
	if stop := math.Abs(free) * b.mass / dt; mag > stop {
		mag = stop
	}
	b.ApplyForce(dynamo.Vec2{-math.Copysign(mag, vx), 0})
}

// ResolveBoundaries clamps the body into the field and reflects the inbound
// velocity component with the boundary's restitution.
func (c *Contact) ResolveBoundaries(b *Body) dynamo.ContactEvent {
	var ev dynamo.ContactEvent
	r := b.radius

	if b.pos[0]+r >= c.width {
		b.pos[0] = c.width - r
		if b.vel[0] > 0 {
			b.vel[0] = -b.vel[0] * c.params.WallRestitution
		}
		ev |= dynamo.HitRight
	}
	if b.pos[0]-r <= 0 {
		b.pos[0] = r
		if b.vel[0] < 0 {
			b.vel[0] = -b.vel[0] * c.params.WallRestitution
		}
		ev |= dynamo.HitLeft
	}

	if b.pos[1]+r >= c.height {
		b.pos[1] = c.height - r
		ev |= dynamo.HitFloor
		if b.vel[1] > c.params.RestVelocity {
			b.vel[1] = -b.vel[1] * c.params.FloorRestitution
			b.onGround = false
			ev |= dynamo.Bounced
		} else {
			b.vel[1] = 0
			b.onGround = true
			ev |= dynamo.Rested
		}
	} else {
		b.onGround = false
	}

	if b.pos[1]-r <= 0 {
		b.pos[1] = r
		if b.vel[1] < 0 {
			b.vel[1] = -b.vel[1] * c.params.CeilingRestitution
			ev |= dynamo.Bounced
		}
		ev |= dynamo.HitCeiling
	}

	return ev
}

// SleepClamp zeroes negligible horizontal drift while resting.
func (c *Contact) SleepClamp(b *Body) {
	if b.onGround && math.Abs(b.vel[0]) < c.params.SleepThreshold {
		b.vel[0] = 0
	}
}
