package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/logging"
	"github.com/san-kum/aerosim/internal/physics"
	"github.com/san-kum/aerosim/internal/sim"
)

// spawnGap is the free space left between neighbouring bodies.
const spawnGap = 0.5

type Experiment struct {
	cfg         *config.Config
	registry    *Registry
	log         *logging.Logger
	randSource  *rand.Rand
	world       *physics.World
	simulator   *sim.Simulator
	handles     []dynamo.Handle
	controllers map[dynamo.Handle]dynamo.Controller
}

func New(cfg *config.Config, registry *Registry, log *logging.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Experiment{
		cfg:         cfg,
		registry:    registry,
		log:         log,
		randSource:  rand.New(rand.NewSource(cfg.Seed)),
		controllers: make(map[dynamo.Handle]dynamo.Controller),
	}
}

// Setup validates the config, builds the world, spawns the bodies and wires
// one controller per body plus the default metrics.
func (e *Experiment) Setup(opts ...physics.Option) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	wc, err := e.cfg.WorldConfig()
	if err != nil {
		return err
	}
	world, err := physics.NewWorld(wc, opts...)
	if err != nil {
		return err
	}

	e.world = world
	e.simulator = sim.New(world, e.log)
	e.handles = e.handles[:0]
	clear(e.controllers)

	b := e.cfg.Body
	spacing := 2*b.Radius + spawnGap
	for i := 0; i < b.Count; i++ {
		pos := dynamo.Vec2{b.X + float64(i)*spacing, b.Y}
		vel := dynamo.Vec2{b.VX, b.VY}
		if e.cfg.Seed != 0 && b.Count > 1 {
			vel = vel.Add(dynamo.Vec2{e.randSource.Float64() - 0.5, e.randSource.Float64() - 0.5})
		}
		h, err := world.CreateBody(pos, vel, b.Radius, b.Mass)
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if err := world.SetAngleOfAttack(h, b.Radians()); err != nil {
			return err
		}

		ctrl, err := e.registry.GetController(e.cfg.Controller, e.cfg)
		if err != nil {
			return err
		}
		e.controllers[h] = ctrl
		e.simulator.SetController(h, ctrl)
		e.handles = append(e.handles, h)
	}

	for _, m := range e.registry.DefaultMetrics(e.cfg) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
		Parallel:      e.cfg.Body.Count > 1,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Config() *config.Config                       { return e.cfg }
func (e *Experiment) World() *physics.World                        { return e.world }
func (e *Experiment) Handles() []dynamo.Handle                     { return e.handles }
func (e *Experiment) Controller(h dynamo.Handle) dynamo.Controller { return e.controllers[h] }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Build is New followed by Setup.
func Build(cfg *config.Config, registry *Registry, log *logging.Logger) (*Experiment, error) {
	e := New(cfg, registry, log)
	if err := e.Setup(); err != nil {
		return nil, err
	}
	return e, nil
}
