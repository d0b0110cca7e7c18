package metrics

import (
	"testing"

	"github.com/san-kum/aerosim/internal/dynamo"
)

func TestMotionMetrics(t *testing.T) {
	samples := []dynamo.Snapshot{
		body(1, 1, 10, 5, 0),
		{Handle: 1, Position: dynamo.Vec2{2, 19.7}, Velocity: dynamo.Vec2{5, -9}, Contacts: dynamo.HitFloor | dynamo.Bounced},
		{Handle: 1, Position: dynamo.Vec2{4, 19.7}, Velocity: dynamo.Vec2{3, 0}, OnGround: true, Contacts: dynamo.HitFloor | dynamo.Rested},
		{Handle: 1, Position: dynamo.Vec2{3, 19.7}, Velocity: dynamo.Vec2{-1, 0}, OnGround: true},
	}

	tests := []struct {
		metric dynamo.Metric
		want   float64
	}{
		{NewBounces(), 1},
		{NewGroundTime(), 0.5},
		{NewMaxSpeed(), dynamo.Speed(dynamo.Vec2{5, -9})},
		{NewDistance(), 4},
		{NewControlEffort(), 5},
	}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			for i, s := range samples {
				tt.metric.Observe(s, dynamo.Command{Force: dynamo.Vec2{3, 4}}, float64(i))
			}
			if got := tt.metric.Value(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			tt.metric.Reset()
			if got := tt.metric.Value(); got != 0 {
				t.Errorf("expected 0 after reset, got %v", got)
			}
		})
	}
}

func TestDefaultsNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults(20, 9.81) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if !seen["bounces"] || !seen["energy_loss"] {
		t.Errorf("missing expected metrics in %v", seen)
	}
}
