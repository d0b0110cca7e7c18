// Package physics advances circular rigid bodies inside a rectangular field.
//
// Each [World] owns its bodies and configuration. A step runs a fixed
// pipeline per body:
//
//	gravity -> aerodynamics -> predictive friction -> integration
//	        -> boundary resolution -> sleep clamp
//
// Every force enters through [Body.ApplyForce]; the pending acceleration is
// unexported and only cleared by the integration phase.
//
// Ground contact is predicted before integration (so friction sees the
// pre-integration acceleration) and confirmed by the boundary resolver
// afterwards. The two may disagree for one frame; the resolver's value is
// the one reported for the step.
package physics
