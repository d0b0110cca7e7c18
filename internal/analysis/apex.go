package analysis

import (
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/sim"
)

// Apex is the highest point of one flight. Height is measured from the
// lowest point of the body to the floor.
type Apex struct {
	Time   float64
	Height float64
}

// Apexes scans one body's track for the frames where it stops rising
// (screen vy turns from negative to non-negative) while airborne.
func Apexes(frames []sim.Frame, h dynamo.Handle, worldHeight float64) []Apex {
	var out []Apex
	prevVy, have := 0.0, false
	for _, f := range frames {
		s, ok := f.Body(h)
		if !ok {
			continue
		}
		vy := s.Velocity[1]
		if have && prevVy < 0 && vy >= 0 && !s.OnGround {
			out = append(out, Apex{Time: f.Time, Height: worldHeight - s.Position[1] - s.Radius})
		}
		prevVy, have = vy, true
	}
	return out
}

// BounceDecay is the mean ratio of successive apex heights, or 0 with fewer
// than two apexes.
func BounceDecay(apexes []Apex) float64 {
	if len(apexes) < 2 {
		return 0
	}
	sum, n := 0.0, 0
	for i := 1; i < len(apexes); i++ {
		if apexes[i-1].Height <= 0 {
			continue
		}
		sum += apexes[i].Height / apexes[i-1].Height
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
