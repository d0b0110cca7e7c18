package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/san-kum/aerosim/internal/automation"
	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/experiment"
	"github.com/san-kum/aerosim/internal/gui"
	"github.com/san-kum/aerosim/internal/logging"
	"github.com/san-kum/aerosim/internal/optim"
	"github.com/san-kum/aerosim/internal/storage"
	"github.com/san-kum/aerosim/internal/viz"
	"github.com/spf13/cobra"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := preset
	if name == "" {
		name = "run"
	}

	exp, err := experiment.Build(cfg, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	fmt.Printf("running %s (%d bodies, %s, %s)...\n", name, cfg.Body.Count, cfg.Integrator, cfg.Controller)
	start := time.Now()
	result, err := exp.Run(ctx)
	if result == nil {
		return err
	}
	if err != nil {
		log.Warn(ctx, "run stopped early", "err", err, "steps", result.StepsTaken)
	}
	elapsed := time.Since(start)

	runID, saveErr := st.Save(name, cfg, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)
	return err
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, experiment.NewRegistry(), logging.Nop())
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, experiment.NewRegistry(), log)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	fmt.Printf("comparing integrators (dt=%.4f, duration=%.1fs)\n\n", base.Dt, base.Duration)
	fmt.Printf("%-14s  %-10s  %-10s  %-12s  %-8s  %-10s\n", "integrator", "final_x", "final_y", "energy_loss", "bounces", "time_ms")
	fmt.Println(strings.Repeat("-", 72))

	for _, name := range args {
		cfg := base.Clone()
		cfg.Integrator = name

		exp, err := experiment.Build(cfg, registry, log)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-14s  error: %v\n", name, err)
			continue
		}

		final, _ := result.Final().Body(exp.Handles()[0])
		fmt.Printf("%-14s  %10.4f  %10.4f  %12.4f  %8.0f  %10.2f\n", name,
			final.Position[0], final.Position[1], result.Metrics["energy_loss"], result.Metrics["bounces"],
			float64(elapsed.Microseconds())/1000)
	}
	return nil
}

// parseGrid reads "name=v1,v2,..." into a parameter name and its values.
func parseGrid(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("invalid grid %q, want name=v1,v2,...", s)
	}
	parts := strings.Split(list, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("grid %s: %w", name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, s := range sweepParams {
		name, values, err := parseGrid(s)
		if err != nil {
			return err
		}
		if _, err := base.Get(name); err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(config.ParamNames(), ", "))
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize
	gs.Workers = workers
	registry := experiment.NewRegistry()

	fmt.Printf("sweeping %d combinations for %s\n\n", len(gs.Combinations()), sweepMetric)
	points, best, err := gs.Search(ctx, func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.Set(k, v); err != nil {
				return nil, err
			}
		}
		return experiment.Build(cfg, registry, logging.Nop())
	}, sweepMetric)
	if err != nil {
		return err
	}

	for _, p := range points {
		fmt.Printf("  %s  %s=%.6f\n", formatParams(names, p.Params), sweepMetric, p.Value)
	}
	fmt.Printf("\nbest: %s  %s=%.6f\n", formatParams(names, best.Params), sweepMetric, best.Value)
	return nil
}

func formatParams(names []string, params map[string]float64) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%g", n, params[n])
	}
	return strings.Join(parts, " ")
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), log)
	for _, r := range results {
		id, saveErr := st.Save(r.Label, r.Config, r.Result)
		if saveErr != nil {
			return saveErr
		}
		final := r.Result.Final()
		var b dynamo.Snapshot
		if len(final.Bodies) > 0 {
			b = final.Bodies[0]
		}
		fmt.Printf("  %-12s %-28s steps=%-6d final=(%.3f, %.3f) energy_loss=%.4f\n",
			r.Label, id, r.Result.StepsTaken, b.Position[0], b.Position[1], r.Result.Metrics["energy_loss"])
	}
	return err
}
