package main

import (
	"fmt"
	"os"

	"github.com/san-kum/aerosim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	posX       float64
	posY       float64
	velX       float64
	velY       float64
	radius     float64
	mass       float64
	aoa        float64
	integrator string
	controller string
	thrustX    float64
	thrustY    float64
	target     float64
	numBodies  int
	// sweep
	sweepParams []string
	sweepMetric string
	maximize    bool
	workers     int
	// plot
	plotBody uint32
	// export-svg
	svgScale float64

	log = logging.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aerosim",
		Short: "planar aerodynamics and contact lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".aerosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation headless and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	addSimFlags(windowCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot position and velocity of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint32Var(&plotBody, "body", 1, "body handle")

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "draw body paths inside the field",
		Args:  cobra.ExactArgs(1),
		RunE:  pathPlot,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export body trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 40, "pixels per meter")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same setup",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over config parameters",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter grid as name=v1,v2,...")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_loss", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize the metric instead of minimizing")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 uses every CPU)")
	_ = sweepCmd.MarkFlagRequired("param")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE:  configInit,
	}
	addSimFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, listCmd, plotCmd, pathCmd, analyzeCmd, exportJSONCmd, exportCSVCmd,
		exportSVGCmd, presetsCmd, compareCmd, sweepCmd, scenarioCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := defaults()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", d.Duration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for multi-body spawn jitter")
	cmd.Flags().Float64Var(&posX, "x", d.Body.X, "initial x")
	cmd.Flags().Float64Var(&posY, "y", d.Body.Y, "initial y (down is positive)")
	cmd.Flags().Float64Var(&velX, "vx", d.Body.VX, "initial horizontal velocity")
	cmd.Flags().Float64Var(&velY, "vy", d.Body.VY, "initial vertical velocity")
	cmd.Flags().Float64Var(&radius, "radius", d.Body.Radius, "body radius")
	cmd.Flags().Float64Var(&mass, "mass", d.Body.Mass, "body mass")
	cmd.Flags().Float64Var(&aoa, "aoa", d.Body.AngleOfAttack, "angle of attack in degrees")
	cmd.Flags().StringVar(&integrator, "integrator", d.Integrator, "integrator")
	cmd.Flags().StringVar(&controller, "controller", d.Controller, "controller")
	cmd.Flags().Float64Var(&thrustX, "thrust-x", 0, "constant controller force x")
	cmd.Flags().Float64Var(&thrustY, "thrust-y", 0, "constant controller force y")
	cmd.Flags().Float64Var(&target, "target", d.Control.Target, "pid altitude target (screen y)")
	cmd.Flags().IntVar(&numBodies, "bodies", d.Body.Count, "number of identical bodies")
}

func setupLogging() error {
	if logLevel == "" {
		log = logging.FromEnv()
		return nil
	}
	level, ok := logging.ParseLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level: %s", logLevel)
	}
	log = logging.New(os.Stderr, level)
	return nil
}
