package main

import (
	"context"
	"fmt"

	"github.com/san-kum/aerosim/internal/config"
	"github.com/spf13/cobra"
)

func defaults() *config.Config {
	return config.DefaultConfig()
}

// resolveConfig layers defaults, then a preset, then a config file, then
// any flags the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := defaults()
	source := "defaults"
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		source = "preset " + preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		source = configFile
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("x") {
		cfg.Body.X = posX
	}
	if flags.Changed("y") {
		cfg.Body.Y = posY
	}
	if flags.Changed("vx") {
		cfg.Body.VX = velX
	}
	if flags.Changed("vy") {
		cfg.Body.VY = velY
	}
	if flags.Changed("radius") {
		cfg.Body.Radius = radius
	}
	if flags.Changed("mass") {
		cfg.Body.Mass = mass
	}
	if flags.Changed("aoa") {
		cfg.Body.AngleOfAttack = aoa
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("thrust-x") {
		cfg.Control.ThrustX = thrustX
	}
	if flags.Changed("thrust-y") {
		cfg.Control.ThrustY = thrustY
	}
	if (flags.Changed("thrust-x") || flags.Changed("thrust-y")) && !flags.Changed("controller") && cfg.Controller == "none" {
		cfg.Controller = "constant"
	}
	if flags.Changed("target") {
		cfg.Control.Target = target
	}
	if flags.Changed("bodies") {
		cfg.Body.Count = numBodies
	}

	log.Debug(context.Background(), "config resolved", "source", source, "integrator", cfg.Integrator,
		"controller", cfg.Controller, "dt", cfg.Dt, "duration", cfg.Duration, "bodies", cfg.Body.Count)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configInit(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Printf("  %-8s controller=%-9s bodies=%d  duration=%.1fs\n", name, p.Controller, p.Body.Count, p.Duration)
	}
	return nil
}
