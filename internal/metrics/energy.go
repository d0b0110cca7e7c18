package metrics

import (
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// Energy is the mean mechanical energy over all samples.
type Energy struct {
	name        string
	height      float64
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(height, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		height:  height,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	e.totalEnergy += s.Energy(e.height, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the fraction of each body's first observed energy that has
// been dissipated, averaged over bodies. Negative means energy was added,
// which only external forces can do.
type EnergyLoss struct {
	name    string
	height  float64
	gravity float64
	initial map[dynamo.Handle]float64
	current map[dynamo.Handle]float64
}

func NewEnergyLoss(height, gravity float64) *EnergyLoss {
	return &EnergyLoss{
		name:    "energy_loss",
		height:  height,
		gravity: gravity,
		initial: make(map[dynamo.Handle]float64),
		current: make(map[dynamo.Handle]float64),
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(s dynamo.Snapshot, u dynamo.Command, t float64) {
	energy := s.Energy(e.height, e.gravity)
	if _, ok := e.initial[s.Handle]; !ok {
		e.initial[s.Handle] = energy
	}
	e.current[s.Handle] = energy
}

func (e *EnergyLoss) Value() float64 {
	sum, n := 0.0, 0
	for h, e0 := range e.initial {
		if e0 == 0 {
			continue
		}
		sum += (e0 - e.current[h]) / math.Abs(e0)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (e *EnergyLoss) Reset() {
	clear(e.initial)
	clear(e.current)
}
