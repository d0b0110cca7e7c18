package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/aerosim/internal/dynamo"
)

const (
	DefaultGravity              = 9.81
	DefaultAirDensity           = 1.225
	DefaultDragCoefficient      = 0.38
	DefaultLiftCoefficientScale = 1.0
	DefaultAspectRatio          = 1.0
	DefaultEfficiency           = 0.9
	DefaultSpeedEpsilon         = 1e-6
	DefaultFriction             = 0.7
	DefaultWallRestitution      = 0.5
	DefaultFloorRestitution     = 0.9
	DefaultCeilingRestitution   = 0.5
	DefaultRestVelocity         = 1.0
	DefaultSleepThreshold       = 0.01
)

// Params holds the tunable aerodynamic and contact constants.
type Params struct {
	AirDensity           float64
	DragCoefficient      float64
	LiftCoefficientScale float64
	AspectRatio          float64
	Efficiency           float64
	SpeedEpsilon         float64

	Friction           float64
	WallRestitution    float64
	FloorRestitution   float64
	CeilingRestitution float64
	RestVelocity       float64
	SleepThreshold     float64
}

func DefaultParams() Params {
	return Params{
		AirDensity:           DefaultAirDensity,
		DragCoefficient:      DefaultDragCoefficient,
		LiftCoefficientScale: DefaultLiftCoefficientScale,
		AspectRatio:          DefaultAspectRatio,
		Efficiency:           DefaultEfficiency,
		SpeedEpsilon:         DefaultSpeedEpsilon,
		Friction:             DefaultFriction,
		WallRestitution:      DefaultWallRestitution,
		FloorRestitution:     DefaultFloorRestitution,
		CeilingRestitution:   DefaultCeilingRestitution,
		RestVelocity:         DefaultRestVelocity,
		SleepThreshold:       DefaultSleepThreshold,
	}
}

func (p Params) Validate() error {
	nonNegative := map[string]float64{
		"air_density":    p.AirDensity,
		"drag":           p.DragCoefficient,
		"friction":       p.Friction,
		"rest_velocity":  p.RestVelocity,
		"sleep":          p.SleepThreshold,
		"speed_epsilon":  p.SpeedEpsilon,
		"wall_bounce":    p.WallRestitution,
		"floor_bounce":   p.FloorRestitution,
		"ceiling_bounce": p.CeilingRestitution,
	}
	for name, v := range nonNegative {
		if !(v >= 0) {
			return fmt.Errorf("%s = %v: %w", name, v, dynamo.ErrParameterBounds)
		}
	}
	if math.IsNaN(p.LiftCoefficientScale) || math.IsInf(p.LiftCoefficientScale, 0) {
		return fmt.Errorf("lift_scale = %v: %w", p.LiftCoefficientScale, dynamo.ErrParameterBounds)
	}
	if !(p.AspectRatio > 0) || !(p.Efficiency > 0) {
		return fmt.Errorf("aspect ratio and efficiency must be positive: %w", dynamo.ErrParameterBounds)
	}
	for name, e := range map[string]float64{"wall_bounce": p.WallRestitution, "floor_bounce": p.FloorRestitution, "ceiling_bounce": p.CeilingRestitution} {
		if e > 1 {
			return fmt.Errorf("%s = %v exceeds 1: %w", name, e, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (p *Params) GetParams() map[string]float64 {
	return map[string]float64{
		"air_density":    p.AirDensity,
		"drag":           p.DragCoefficient,
		"lift_scale":     p.LiftCoefficientScale,
		"aspect_ratio":   p.AspectRatio,
		"efficiency":     p.Efficiency,
		"friction":       p.Friction,
		"wall_bounce":    p.WallRestitution,
		"floor_bounce":   p.FloorRestitution,
		"ceiling_bounce": p.CeilingRestitution,
		"rest_velocity":  p.RestVelocity,
		"sleep":          p.SleepThreshold,
	}
}

func (p *Params) SetParam(name string, value float64) error {
	next := *p
	switch name {
	case "air_density":
		next.AirDensity = value
	case "drag":
		next.DragCoefficient = value
	case "lift_scale":
		next.LiftCoefficientScale = value
	case "aspect_ratio":
		next.AspectRatio = value
	case "efficiency":
		next.Efficiency = value
	case "friction":
		next.Friction = value
	case "wall_bounce":
		next.WallRestitution = value
	case "floor_bounce":
		next.FloorRestitution = value
	case "ceiling_bounce":
		next.CeilingRestitution = value
	case "rest_velocity":
		next.RestVelocity = value
	case "sleep":
		next.SleepThreshold = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}
