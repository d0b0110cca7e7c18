package metrics

import (
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// Bounces counts floor, wall and ceiling reflections.
type Bounces struct {
	count int
}

func NewBounces() *Bounces { return &Bounces{} }

func (b *Bounces) Name() string { return "bounces" }

func (b *Bounces) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	if s.Contacts.Has(dynamo.Bounced) {
		b.count++
	}
}

func (b *Bounces) Value() float64 { return float64(b.count) }
func (b *Bounces) Reset()         { b.count = 0 }

// GroundTime is the fraction of samples spent resting on the floor.
type GroundTime struct {
	grounded int
	samples  int
}

func NewGroundTime() *GroundTime { return &GroundTime{} }

func (g *GroundTime) Name() string { return "ground_time" }

func (g *GroundTime) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	if s.OnGround {
		g.grounded++
	}
	g.samples++
}

func (g *GroundTime) Value() float64 {
	if g.samples == 0 {
		return 0
	}
	return float64(g.grounded) / float64(g.samples)
}

func (g *GroundTime) Reset() {
	g.grounded = 0
	g.samples = 0
}

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	m.max = math.Max(m.max, dynamo.Speed(s.Velocity))
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Distance is the horizontal path length summed over bodies.
type Distance struct {
	last  map[dynamo.Handle]float64
	total float64
}

func NewDistance() *Distance {
	return &Distance{last: make(map[dynamo.Handle]float64)}
}

func (d *Distance) Name() string { return "distance" }

func (d *Distance) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	x := s.Position[0]
	if prev, ok := d.last[s.Handle]; ok {
		d.total += math.Abs(x - prev)
	}
	d.last[s.Handle] = x
}

func (d *Distance) Value() float64 { return d.total }

func (d *Distance) Reset() {
	clear(d.last)
	d.total = 0
}

// Defaults returns the standard metric set for a world of the given height.
func Defaults(height, gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(height, gravity),
		NewEnergyLoss(height, gravity),
		NewBounces(),
		NewGroundTime(),
		NewMaxSpeed(),
		NewDistance(),
		NewControlEffort(),
	}
}
