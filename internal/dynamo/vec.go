package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a planar vector. Screen orientation: origin top-left, y down.
type Vec2 = mgl64.Vec2

// Perp rotates v by a quarter turn counter-clockwise as drawn on a y-down
// screen, so a rightward vector maps to an upward one.
func Perp(v Vec2) Vec2 {
	return Vec2{v[1], -v[0]}
}

// Finite reports whether both components are neither NaN nor Inf.
func Finite(v Vec2) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Speed returns |v|.
func Speed(v Vec2) float64 {
	return math.Hypot(v[0], v[1])
}
