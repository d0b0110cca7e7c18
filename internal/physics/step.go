package physics

import "github.com/san-kum/aerosim/internal/dynamo"

// Phase is the last completed stage of a body's step.
type Phase uint8

const (
	Idle Phase = iota
	GravityApplied
	AerodynamicsApplied
	FrictionChecked
	Integrated
	BoundaryResolved
	SleepClamped
)

var phaseNames = [...]string{
	"idle",
	"gravity_applied",
	"aerodynamics_applied",
	"friction_checked",
	"integrated",
	"boundary_resolved",
	"sleep_clamped",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// PhaseHook observes each transition of the step pipeline.
type PhaseHook func(b *Body, p Phase)

// Stepper runs the per-body pipeline.
type Stepper struct {
	gravity float64
	aero    *Aerodynamics
	contact *Contact
	integ   dynamo.Integrator
	hook    PhaseHook
}

func NewStepper(gravity float64, aero *Aerodynamics, contact *Contact, integ dynamo.Integrator) *Stepper {
	return &Stepper{gravity: gravity, aero: aero, contact: contact, integ: integ}
}

type stage struct {
	phase Phase
	run   func(s *Stepper, b *Body, dt float64) dynamo.ContactEvent
}

var pipeline = [...]stage{
	{GravityApplied, (*Stepper).applyGravity},
	{AerodynamicsApplied, func(s *Stepper, b *Body, _ float64) dynamo.ContactEvent {
		s.aero.Apply(b)
		return 0
	}},
	{FrictionChecked, func(s *Stepper, b *Body, dt float64) dynamo.ContactEvent {
		s.contact.ApplyFriction(b, dt)
		return 0
	}},
	{Integrated, (*Stepper).integrate},
	{BoundaryResolved, func(s *Stepper, b *Body, _ float64) dynamo.ContactEvent {
		return s.contact.ResolveBoundaries(b)
	}},
	{SleepClamped, func(s *Stepper, b *Body, _ float64) dynamo.ContactEvent {
		s.contact.SleepClamp(b)
		return 0
	}},
}

// Step advances b by dt and returns the boundary contacts of the step.
// A non-positive dt leaves the body untouched. Stepper holds no per-body
// state, so distinct bodies may share one Stepper concurrently.
func (s *Stepper) Step(b *Body, dt float64) dynamo.ContactEvent {
	if dt <= 0 {
		return 0
	}
	var ev dynamo.ContactEvent
	for _, st := range pipeline {
		ev |= st.run(s, b, dt)
		s.transition(b, st.phase)
	}
	b.contacts = ev
	s.transition(b, Idle)
	return ev
}

func (s *Stepper) transition(b *Body, p Phase) {
	b.phase = p
	if s.hook != nil {
		s.hook(b, p)
	}
}

func (s *Stepper) applyGravity(b *Body, _ float64) dynamo.ContactEvent {
	b.ApplyForce(dynamo.Vec2{0, b.mass * s.gravity})
	return 0
}

func (s *Stepper) integrate(b *Body, dt float64) dynamo.ContactEvent {
	b.pos, b.vel = s.integ.Advance(b.pos, b.vel, b.acc, dt)
	b.clearAcceleration()
	return 0
}
