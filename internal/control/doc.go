// Package control provides the external input sources that push bodies
// around between steps.
//
// Controllers implement the [dynamo.Controller] interface and return a
// [dynamo.Command] holding a force and an angle-of-attack change:
//
//   - [None]: no input
//   - [Constant]: fixed thrust
//   - [Manual]: keyboard wind and angle of attack
//   - [PID]: altitude hold
//   - [Schedule]: time-windowed force pulses
//
// # Usage
//
//	pid := control.NewPID(40, 2, 25, 6, 9.81) // Kp, Ki, Kd, target y, g
//	u := pid.Compute(snapshot, t)
//	world.Apply(snapshot.Handle, u)
//
// Controllers are stateful and serve one body each. [PID] implements
// [dynamo.Configurable] for live tuning.
package control
