package physics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/integrators"
	"golang.org/x/sync/errgroup"
)

// WorldConfig describes the field and the constants shared by all bodies.
type WorldConfig struct {
	Width      float64
	Height     float64
	Gravity    float64
	Params     Params
	Integrator dynamo.Integrator
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:      30,
		Height:     20,
		Gravity:    DefaultGravity,
		Params:     DefaultParams(),
		Integrator: integrators.NewSemiImplicitEuler(),
	}
}

func (c WorldConfig) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("world %vx%v: %w", c.Width, c.Height, dynamo.ErrParameterBounds)
	}
	if c.Gravity < 0 || math.IsNaN(c.Gravity) {
		return fmt.Errorf("gravity %v: %w", c.Gravity, dynamo.ErrParameterBounds)
	}
	return c.Params.Validate()
}

type Option func(*World)

// WithPhaseHook installs a hook called on every pipeline transition. The
// hook runs on the stepping goroutine and must be safe for concurrent use
// when StepAll is used.
func WithPhaseHook(h PhaseHook) Option {
	return func(w *World) { w.stepper.hook = h }
}

// World is the simulation context: configuration plus the bodies it owns.
type World struct {
	cfg     WorldConfig
	params  *Params
	stepper *Stepper

	mu     sync.RWMutex
	bodies map[dynamo.Handle]*Body
	next   dynamo.Handle
}

func NewWorld(cfg WorldConfig, opts ...Option) (*World, error) {
	if cfg.Integrator == nil {
		cfg.Integrator = integrators.NewSemiImplicitEuler()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	params := cfg.Params
	w := &World{
		cfg:    cfg,
		params: &params,
		bodies: make(map[dynamo.Handle]*Body),
		next:   1,
	}
	aero := NewAerodynamics(w.params)
	contact := NewContact(w.params, cfg.Width, cfg.Height, cfg.Gravity, cfg.Integrator)
	w.stepper = NewStepper(cfg.Gravity, aero, contact, cfg.Integrator)

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *World) Config() WorldConfig {
	cfg := w.cfg
	cfg.Params = *w.params
	return cfg
}

// Params exposes the live constants for runtime tuning. Changing them while
// bodies are being stepped is a data race.
func (w *World) Params() *Params { return w.params }

// CreateBody adds a body and returns its handle. The body must fit in the
// field; its position is clamped inside the boundaries.
func (w *World) CreateBody(pos, vel dynamo.Vec2, radius, mass float64) (dynamo.Handle, error) {
	b, err := NewBody(pos, vel, radius, mass)
	if err != nil {
		return 0, err
	}
	if 2*radius > w.cfg.Width || 2*radius > w.cfg.Height {
		return 0, fmt.Errorf("radius %v does not fit %vx%v world: %w", radius, w.cfg.Width, w.cfg.Height, dynamo.ErrParameterBounds)
	}
	b.pos[0] = math.Max(radius, math.Min(w.cfg.Width-radius, b.pos[0]))
	b.pos[1] = math.Max(radius, math.Min(w.cfg.Height-radius, b.pos[1]))

	w.mu.Lock()
	defer w.mu.Unlock()
	b.handle = w.next
	w.next++
	w.bodies[b.handle] = b
	return b.handle, nil
}

func (w *World) body(h dynamo.Handle) (*Body, error) {
	w.mu.RLock()
	b, ok := w.bodies[h]
	w.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", h, dynamo.ErrUnknownBody)
	}
	return b, nil
}

// ApplyExternalForce queues f for the next step through the accumulator.
func (w *World) ApplyExternalForce(h dynamo.Handle, f dynamo.Vec2) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	if !dynamo.Finite(f) {
		return fmt.Errorf("force %v: %w", f, dynamo.ErrInvalidState)
	}
	b.ApplyForce(f)
	return nil
}

func (w *World) AdjustAngleOfAttack(h dynamo.Handle, delta float64) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.AdjustAngleOfAttack(delta)
	return nil
}

func (w *World) SetAngleOfAttack(h dynamo.Handle, aoa float64) error {
	b, err := w.body(h)
	if err != nil {
		return err
	}
	b.SetAngleOfAttack(aoa)
	return nil
}

// Apply routes a captured command into the body before its step.
func (w *World) Apply(h dynamo.Handle, u dynamo.Command) error {
	if u.Force != (dynamo.Vec2{}) {
		if err := w.ApplyExternalForce(h, u.Force); err != nil {
			return err
		}
	}
	if u.AngleDelta != 0 {
		return w.AdjustAngleOfAttack(h, u.AngleDelta)
	}
	return nil
}

// Step runs one pipeline pass on the body. dt <= 0 is a no-op.
func (w *World) Step(h dynamo.Handle, dt float64) (dynamo.Snapshot, error) {
	b, err := w.body(h)
	if err != nil {
		return dynamo.Snapshot{}, err
	}
	w.stepper.Step(b, dt)
	return b.Snapshot(), nil
}

// StepAll steps every body once, one goroutine per body, and returns the
// snapshots ordered by handle.
func (w *World) StepAll(ctx context.Context, dt float64) ([]dynamo.Snapshot, error) {
	handles := w.Handles()
	snaps := make([]dynamo.Snapshot, len(handles))

	g, ctx := errgroup.WithContext(ctx)
	for i, h := range handles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := w.Step(h, dt)
			if err != nil {
				return err
			}
			snaps[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

func (w *World) Snapshot(h dynamo.Handle) (dynamo.Snapshot, error) {
	b, err := w.body(h)
	if err != nil {
		return dynamo.Snapshot{}, err
	}
	return b.Snapshot(), nil
}

func (w *World) Handles() []dynamo.Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	handles := make([]dynamo.Handle, 0, len(w.bodies))
	for h := range w.bodies {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Energy returns kinetic plus potential energy with the floor as zero.
func (w *World) Energy(s dynamo.Snapshot) float64 {
	return s.Energy(w.cfg.Height, w.cfg.Gravity)
}
