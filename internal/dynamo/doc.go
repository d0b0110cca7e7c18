// Package dynamo provides the shared primitives of the body simulator.
//
// The package defines the value types and interfaces exchanged between the
// physics core and its drivers:
//
//   - [Vec2]: planar vector in meters (y grows downward)
//   - [Snapshot]: read-only copy of a body's state for renderers and recorders
//   - [Command]: external input applied before a step
//   - [Integrator]: shared advance function for prediction and integration
//   - [Controller]: produces commands from snapshots
//   - [Metric] and [Observer]: per-step accumulators and hooks
//
// # Example
//
//	w, _ := physics.NewWorld(physics.DefaultWorldConfig())
//	h, _ := w.CreateBody(dynamo.Vec2{8, 8}, dynamo.Vec2{}, 0.3, 3)
//	snap, _ := w.Step(h, 1.0/60)
//
// # Thread Safety
//
// A body must only be stepped by one goroutine at a time. Distinct bodies
// share no mutable state and may be stepped in parallel.
package dynamo
