package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/logging"
	"github.com/san-kum/aerosim/internal/physics"
)

// Simulator drives a world through time, feeding controller commands in
// before each step and metrics and observers after it.
type Simulator struct {
	world       *physics.World
	controllers map[dynamo.Handle]dynamo.Controller
	metrics     []dynamo.Metric
	observers   []dynamo.Observer
	log         *logging.Logger
}

func New(world *physics.World, log *logging.Logger) *Simulator {
	if log == nil {
		log = logging.Nop()
	}
	return &Simulator{
		world:       world,
		controllers: make(map[dynamo.Handle]dynamo.Controller),
		metrics:     make([]dynamo.Metric, 0),
		observers:   make([]dynamo.Observer, 0),
		log:         log,
	}
}

func (s *Simulator) World() *physics.World { return s.world }

// SetController assigns c to the body; nil removes it.
func (s *Simulator) SetController(h dynamo.Handle, c dynamo.Controller) {
	if c == nil {
		delete(s.controllers, h)
		return
	}
	s.controllers[h] = c
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Frame captures the current state of every body.
func (s *Simulator) Frame(t float64) Frame {
	handles := s.world.Handles()
	f := Frame{Time: t, Bodies: make([]dynamo.Snapshot, 0, len(handles))}
	for _, h := range handles {
		if snap, err := s.world.Snapshot(h); err == nil {
			f.Bodies = append(f.Bodies, snap)
		}
	}
	return f
}

// Tick applies controller commands, steps every body by dt and returns the
// resulting frame stamped t+dt.
func (s *Simulator) Tick(ctx context.Context, t, dt float64, parallel bool) (Frame, error) {
	handles := s.world.Handles()
	cmds := make([]dynamo.Command, len(handles))
	for i, h := range handles {
		c, ok := s.controllers[h]
		if !ok {
			continue
		}
		snap, err := s.world.Snapshot(h)
		if err != nil {
			return Frame{}, err
		}
		cmds[i] = c.Compute(snap, t)
		if err := s.world.Apply(h, cmds[i]); err != nil {
			return Frame{}, &dynamo.SimulationError{Time: t, Handle: h, Wrapped: err}
		}
	}

	frame := Frame{Time: t + dt, Commands: cmds}
	if parallel {
		snaps, err := s.world.StepAll(ctx, dt)
		if err != nil {
			return Frame{}, err
		}
		frame.Bodies = snaps
	} else {
		frame.Bodies = make([]dynamo.Snapshot, len(handles))
		for i, h := range handles {
			snap, err := s.world.Step(h, dt)
			if err != nil {
				return Frame{}, &dynamo.SimulationError{Time: t, Handle: h, Wrapped: err}
			}
			frame.Bodies[i] = snap
		}
	}

	for i, snap := range frame.Bodies {
		if snap.Contacts != 0 {
			s.log.Debug(ctx, "contact", "body", snap.Handle, "t", frame.Time, "events", snap.Contacts.String())
		}
		for _, m := range s.metrics {
			m.Observe(snap, cmds[i], frame.Time)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap, cmds[i], frame.Time)
		}
	}
	return frame, nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, s.Frame(t))
	s.log.Info(ctx, "run started", "bodies", s.world.Len(), "dt", cfg.Dt, "steps", steps)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.log.Warn(ctx, "run canceled", "step", i)
			return result, ctx.Err()
		default:
		}

		frame, err := s.Tick(ctx, t, cfg.Dt, cfg.Parallel)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Warn(ctx, "run canceled", "step", i)
				return result, ctx.Err()
			}
			result.Errors = append(result.Errors, err)
			s.log.Error(ctx, "step failed", err, "step", i)
			break
		}

		if cfg.ValidateState && !frame.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.log.Error(ctx, "state diverged", err, "step", i)
			break
		}

		t = frame.Time
		result.StepsTaken++
		result.Frames = append(result.Frames, frame)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Info(ctx, "run finished", "steps", result.StepsTaken, "errors", len(result.Errors))
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps until the duration elapses or callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := s.Tick(ctx, t, cfg.Dt, cfg.Parallel)
		if err != nil {
			return err
		}
		t = frame.Time

		if cfg.ValidateState && !frame.IsValid() {
			return fmt.Errorf("t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
		if !callback(frame) {
			return nil
		}
	}
	return nil
}
