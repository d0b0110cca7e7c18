package control

import "github.com/san-kum/aerosim/internal/dynamo"

// Sum adds the commands of several controllers. Nil entries are skipped.
type Sum []dynamo.Controller

func (s Sum) Compute(snap dynamo.Snapshot, t float64) dynamo.Command {
	var u dynamo.Command
	for _, c := range s {
		if c == nil {
			continue
		}
		v := c.Compute(snap, t)
		u.Force = u.Force.Add(v.Force)
		u.AngleDelta += v.AngleDelta
	}
	return u
}
