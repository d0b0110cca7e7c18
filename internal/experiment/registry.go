package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/control"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/integrators"
	"github.com/san-kum/aerosim/internal/metrics"
)

// ControllerFactory builds one controller per body from the run config.
type ControllerFactory func(cfg *config.Config) dynamo.Controller

type Registry struct {
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]ControllerFactory),
	}

	r.controllers["none"] = func(*config.Config) dynamo.Controller { return control.NewNone() }
	r.controllers["constant"] = func(cfg *config.Config) dynamo.Controller {
		return control.NewConstant(cfg.Control.ThrustX, cfg.Control.ThrustY)
	}
	r.controllers["pid"] = func(cfg *config.Config) dynamo.Controller {
		c := cfg.Control
		return control.NewPID(c.Kp, c.Ki, c.Kd, c.Target, cfg.World.Gravity)
	}
	r.controllers["schedule"] = func(cfg *config.Config) dynamo.Controller {
		pulses := make([]control.Pulse, len(cfg.Control.Pulses))
		for i, p := range cfg.Control.Pulses {
			pulses[i] = control.Pulse{
				Start:      p.Start,
				End:        p.End,
				Force:      dynamo.Vec2{p.FX, p.FY},
				AngleDelta: p.AngleDelta * math.Pi / 180,
			}
		}
		return control.NewSchedule(pulses)
	}
	r.controllers["manual"] = func(*config.Config) dynamo.Controller { return control.NewManual() }

	return r
}

// Register adds or replaces a controller factory.
func (r *Registry) Register(name string, f ControllerFactory) {
	r.controllers[name] = f
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	return integrators.Get(name)
}

func (r *Registry) GetController(name string, cfg *config.Config) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	return metrics.Defaults(cfg.World.Height, cfg.World.Gravity)
}
