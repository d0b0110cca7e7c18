package sim

import (
	"fmt"

	"github.com/san-kum/aerosim/internal/dynamo"
)

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
	// ValidateState stops the run at the first NaN or Inf snapshot.
	ValidateState bool
	// Parallel steps bodies concurrently with World.StepAll.
	Parallel bool
}

// Frame holds every body's snapshot at one instant, ordered by handle.
type Frame struct {
	Time     float64
	Bodies   []dynamo.Snapshot
	Commands []dynamo.Command
}

func (f Frame) IsValid() bool {
	for _, s := range f.Bodies {
		if !s.IsValid() {
			return false
		}
	}
	return true
}

// Body returns the snapshot for h, if present.
func (f Frame) Body(h dynamo.Handle) (dynamo.Snapshot, bool) {
	for _, s := range f.Bodies {
		if s.Handle == h {
			return s, true
		}
	}
	return dynamo.Snapshot{}, false
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Track returns one body's snapshots across the run.
func (r *Result) Track(h dynamo.Handle) []dynamo.Snapshot {
	out := make([]dynamo.Snapshot, 0, len(r.Frames))
	for _, f := range r.Frames {
		if s, ok := f.Body(h); ok {
			out = append(out, s)
		}
	}
	return out
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("t=%.4f step=%d: %s", e.Time, e.Step, e.Message)
}
