package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/aerosim/internal/control"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/physics"
)

func newTestSim(t *testing.T, bodies int) (*Simulator, []dynamo.Handle) {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultWorldConfig())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	handles := make([]dynamo.Handle, bodies)
	for i := range handles {
		handles[i], err = w.CreateBody(dynamo.Vec2{8 + float64(i)*2, 8}, dynamo.Vec2{}, 0.3, 3)
		if err != nil {
			t.Fatalf("create body: %v", err)
		}
	}
	return New(w, nil), handles
}

func TestSimulatorRun(t *testing.T) {
	sim, handles := newTestSim(t, 1)

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	first, _ := result.Frames[1].Body(handles[0])
	if math.Abs(first.Velocity[1]-0.981) > 1e-9 {
		t.Errorf("expected vy 0.981 after one step, got %v", first.Velocity[1])
	}
	if got := result.Final().Time; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %v", got)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim, _ := newTestSim(t, 1)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s dynamo.Snapshot, u dynamo.Command, time float64) {
	t.count++
	t.sum += u.Force[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim, handles := newTestSim(t, 2)
	sim.SetController(handles[0], control.NewConstant(4, 0))

	metric := &testMetric{}
	sim.AddMetric(metric)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["test"]; !ok || got != 2 {
		t.Errorf("expected mean force 2 in result, got %v (%v)", got, ok)
	}
	if metric.count != 20 {
		t.Errorf("expected 20 observations, got %d", metric.count)
	}
}

func TestSimulatorControllerPushes(t *testing.T) {
	sim, handles := newTestSim(t, 1)
	sim.SetController(handles[0], control.NewConstant(30, 0))

	result, err := sim.Run(context.Background(), Config{Dt: 0.05, Duration: 0.5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	final, _ := result.Final().Body(handles[0])
	if final.Velocity[0] <= 0 {
		t.Errorf("expected rightward velocity, got %v", final.Velocity)
	}

	sim.SetController(handles[0], nil)
	frame, err := sim.Tick(context.Background(), 0, 0.05, false)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if !frame.Commands[0].IsZero() {
		t.Errorf("expected no command after removing controller, got %+v", frame.Commands[0])
	}
}

func TestSimulatorParallelMatchesSequential(t *testing.T) {
	seq, _ := newTestSim(t, 4)
	par, _ := newTestSim(t, 4)

	a, err := seq.Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 2})
	if err != nil {
		t.Fatalf("sequential run: %v", err)
	}
	b, err := par.Run(context.Background(), Config{Dt: 1.0 / 60, Duration: 2, Parallel: true})
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	fa, fb := a.Final(), b.Final()
	for i := range fa.Bodies {
		if fa.Bodies[i] != fb.Bodies[i] {
			t.Errorf("body %d: expected %+v, got %+v", i, fa.Bodies[i], fb.Bodies[i])
		}
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim, _ := newTestSim(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Frames) != 1 {
		t.Error("expected partial result with the initial frame")
	}
}

type cancelAt struct {
	at     float64
	cancel context.CancelFunc
}

func (c cancelAt) Compute(s dynamo.Snapshot, t float64) dynamo.Command {
	if t >= c.at {
		c.cancel()
	}
	return dynamo.Command{}
}

func TestSimulatorCanceledMidParallelRun(t *testing.T) {
	sim, handles := newTestSim(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for _, h := range handles {
		sim.SetController(h, cancelAt{at: 0.45, cancel: cancel})
	}

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1, Parallel: true})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected 5 steps before cancel, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 0 {
		t.Errorf("expected cancel not recorded as a step error, got %v", result.Errors)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim, _ := newTestSim(t, 1)
	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 10}, func(f Frame) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

type recorder struct {
	times []float64
}

func (r *recorder) OnStep(s dynamo.Snapshot, u dynamo.Command, t float64) {
	r.times = append(r.times, t)
}

func TestSimulatorObservers(t *testing.T) {
	sim, _ := newTestSim(t, 1)
	rec := &recorder{}
	sim.AddObserver(rec)

	if _, err := sim.Run(context.Background(), Config{Dt: 0.25, Duration: 1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(rec.times) != 4 {
		t.Fatalf("expected 4 observations, got %d", len(rec.times))
	}
	if rec.times[3] != 1 {
		t.Errorf("expected last observation at t=1, got %v", rec.times[3])
	}
}
