package control

import (
	"sort"

	"github.com/san-kum/aerosim/internal/dynamo"
)

// Pulse is a force applied on [Start, End). AngleDelta is applied once,
// on the first step inside the window.
type Pulse struct {
	Start      float64
	End        float64
	Force      dynamo.Vec2
	AngleDelta float64
}

type Schedule struct {
	pulses []Pulse
	fired  []bool
}

func NewSchedule(pulses []Pulse) *Schedule {
	ps := append([]Pulse(nil), pulses...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Start < ps[j].Start })
	return &Schedule{pulses: ps, fired: make([]bool, len(ps))}
}

func (s *Schedule) Compute(snap dynamo.Snapshot, t float64) dynamo.Command {
	var u dynamo.Command
	for i, p := range s.pulses {
		if t < p.Start {
			break
		}
		if t >= p.End {
			continue
		}
		u.Force = u.Force.Add(p.Force)
		if !s.fired[i] {
			u.AngleDelta += p.AngleDelta
			s.fired[i] = true
		}
	}
	return u
}

func (s *Schedule) Reset() {
	clear(s.fired)
}
