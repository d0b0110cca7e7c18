package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/aerosim/internal/experiment"
	"github.com/san-kum/aerosim/internal/sim"
)

// Point is one evaluated parameter combination.
type Point struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize picks the largest metric value instead of the smallest.
	Maximize bool
	// Workers bounds concurrent runs; zero uses every CPU.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Combinations expands the grid in row-major order.
func (g *GridSearch) Combinations() []map[string]float64 {
	combos := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(combos)*len(g.ranges[i]))
		for _, base := range combos {
			for _, val := range g.ranges[i] {
				p := make(map[string]float64, len(base)+1)
				for k, v := range base {
					p[k] = v
				}
				p[name] = val
				next = append(next, p)
			}
		}
		combos = next
	}
	return combos
}

// Search runs every combination and returns all points plus the best one.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) ([]Point, Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, Point{}, fmt.Errorf("%d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	combos := g.Combinations()
	jobs := make([]sim.Job, len(combos))
	for i, params := range combos {
		jobs[i] = func(ctx context.Context) (*sim.Result, error) {
			exp, err := buildExperiment(params)
			if err != nil {
				return nil, fmt.Errorf("build %v: %w", params, err)
			}
			return exp.Run(ctx)
		}
	}

	results, err := sim.NewEnsemble(g.Workers).Run(ctx, jobs)
	if err != nil {
		return nil, Point{}, err
	}

	points := make([]Point, len(combos))
	best := Point{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	for i, res := range results {
		val, ok := res.Metrics[metricName]
		if !ok {
			return nil, Point{}, fmt.Errorf("unknown metric: %s", metricName)
		}
		points[i] = Point{Params: combos[i], Value: val}
		if (g.Maximize && val > best.Value) || (!g.Maximize && val < best.Value) {
			best = points[i]
		}
	}
	return points, best, nil
}
