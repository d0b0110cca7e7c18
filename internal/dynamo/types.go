package dynamo

// Handle addresses a body inside a world.
type Handle uint32

// Snapshot is the externally visible state of a body after a step.
type Snapshot struct {
	Handle        Handle
	Position      Vec2
	Velocity      Vec2
	Acceleration  Vec2
	Radius        float64
	Mass          float64
	AngleOfAttack float64
	OnGround      bool
	Contacts      ContactEvent
}

func (s Snapshot) IsValid() bool {
	return Finite(s.Position) && Finite(s.Velocity) && Finite(s.Acceleration)
}

// Energy returns kinetic plus potential energy in a world of the given
// height and gravity, with the floor as zero.
func (s Snapshot) Energy(height, gravity float64) float64 {
	ke := 0.5 * s.Mass * s.Velocity.Dot(s.Velocity)
	pe := s.Mass * gravity * (height - s.Radius - s.Position[1])
	return ke + pe
}

// Command is the external input captured before a tick.
type Command struct {
	Force      Vec2
	AngleDelta float64
}

func (c Command) IsZero() bool {
	return c.Force == (Vec2{}) && c.AngleDelta == 0
}

// Integrator advances position and velocity under a constant acceleration
// over dt. It must be a pure function of its inputs.
type Integrator interface {
	Name() string
	Advance(pos, vel, acc Vec2, dt float64) (Vec2, Vec2)
}

type Controller interface {
	Compute(s Snapshot, t float64) Command
}

// Metric accumulates a scalar over every body snapshot of a run.
type Metric interface {
	Name() string
	Observe(s Snapshot, u Command, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot, u Command, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
