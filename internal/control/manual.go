package control

import (
	"math"
	"sync"

	"github.com/san-kum/aerosim/internal/dynamo"
)

const (
	// WindForce is the horizontal push of one wind key, in newtons.
	WindForce = 10.1
	// AngleStep is one angle-of-attack key press.
	AngleStep = math.Pi / 180
)

// Manual turns keyboard state into commands. Held input applies every step
// until released; pulses apply to the next step only. Safe for use from an
// input goroutine while the sim loop calls Compute.
type Manual struct {
	mu      sync.Mutex
	held    dynamo.Command
	pending dynamo.Command
}

func NewManual() *Manual {
	return &Manual{}
}

// Hold replaces the held command.
func (m *Manual) Hold(u dynamo.Command) {
	m.mu.Lock()
	m.held = u
	m.mu.Unlock()
}

// Wind holds a horizontal force of dir*WindForce; dir 0 releases it.
func (m *Manual) Wind(dir float64) {
	m.mu.Lock()
	m.held.Force[0] = dir * WindForce
	m.mu.Unlock()
}

// Pulse queues u for the next Compute only.
func (m *Manual) Pulse(u dynamo.Command) {
	m.mu.Lock()
	m.pending.Force = m.pending.Force.Add(u.Force)
	m.pending.AngleDelta += u.AngleDelta
	m.mu.Unlock()
}

func (m *Manual) Tilt(steps float64) {
	m.Pulse(dynamo.Command{AngleDelta: steps * AngleStep})
}

func (m *Manual) Release() {
	m.mu.Lock()
	m.held = dynamo.Command{}
	m.pending = dynamo.Command{}
	m.mu.Unlock()
}

func (m *Manual) Compute(s dynamo.Snapshot, t float64) dynamo.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := dynamo.Command{
		Force:      m.held.Force.Add(m.pending.Force),
		AngleDelta: m.held.AngleDelta + m.pending.AngleDelta,
	}
	m.pending = dynamo.Command{}
	return u
}
