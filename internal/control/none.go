package control

import "github.com/san-kum/aerosim/internal/dynamo"

type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Compute(s dynamo.Snapshot, t float64) dynamo.Command {
	return dynamo.Command{}
}

// Constant pushes with the same force every step.
type Constant struct {
	Force dynamo.Vec2
}

func NewConstant(fx, fy float64) *Constant {
	return &Constant{Force: dynamo.Vec2{fx, fy}}
}

func (c *Constant) Compute(s dynamo.Snapshot, t float64) dynamo.Command {
	return dynamo.Command{Force: c.Force}
}
