package physics

import (
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// Aerodynamics applies drag, lift and induced drag for a circle in still air.
type Aerodynamics struct {
	params *Params
}

func NewAerodynamics(p *Params) *Aerodynamics {
	return &Aerodynamics{params: p}
}

// LiftCoefficient is scale*sin(2*aoa) after clamping aoa.
func (a *Aerodynamics) LiftCoefficient(aoa float64) float64 {
	return a.params.LiftCoefficientScale * math.Sin(2*ClampAngleOfAttack(aoa))
}

// InducedDragCoefficient is Cl^2 / (pi * AR * e).
func (a *Aerodynamics) InducedDragCoefficient(cl float64) float64 {
	return cl * cl / (math.Pi * a.params.AspectRatio * a.params.Efficiency)
}

func (a *Aerodynamics) dynamicPressure(b *Body) float64 {
	speed := dynamo.Speed(b.vel)
	return 0.5 * a.params.AirDensity * speed * speed
}

func (a *Aerodynamics) moving(b *Body) bool {
	speed := dynamo.Speed(b.vel)
	return speed > 0 && speed >= a.params.SpeedEpsilon
}

func (a *Aerodynamics) ApplyDrag(b *Body) {
	a.applyAlongVelocity(b, a.params.DragCoefficient, -1)
}

func (a *Aerodynamics) ApplyLift(b *Body) {
	a.applyLift(b, a.LiftCoefficient(b.aoa))
}

func (a *Aerodynamics) ApplyInducedDrag(b *Body) {
	a.applyAlongVelocity(b, a.InducedDragCoefficient(a.LiftCoefficient(b.aoa)), -1)
}

// Apply runs all three forces from a single lift coefficient.
func (a *Aerodynamics) Apply(b *Body) {
	if !a.moving(b) {
		return
	}
	cl := a.LiftCoefficient(b.aoa)
	a.applyAlongVelocity(b, a.params.DragCoefficient, -1)
	a.applyLift(b, cl)
	a.applyAlongVelocity(b, a.InducedDragCoefficient(cl), -1)
}

func (a *Aerodynamics) applyAlongVelocity(b *Body, coeff, sign float64) {
	if !a.moving(b) || coeff == 0 {
		return
	}
	mag := a.dynamicPressure(b) * coeff * b.CrossSectionalArea()
	dir := b.vel.Mul(1 / dynamo.Speed(b.vel))
	b.ApplyForce(dir.Mul(sign * mag))
}

func (a *Aerodynamics) applyLift(b *Body, cl float64) {
	if !a.moving(b) || cl == 0 {
		return
	}
	mag := a.dynamicPressure(b) * cl * b.CrossSectionalArea()
	dir := dynamo.Perp(b.vel.Mul(1 / dynamo.Speed(b.vel)))
	b.ApplyForce(dir.Mul(mag))
}
