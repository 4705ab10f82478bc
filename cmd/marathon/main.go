package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"marathon/internal/config"
	"marathon/internal/display"
	"marathon/internal/sim"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "marathon",
		Short: "Wave-grouped runner field simulation",
		Long: `marathon simulates thousands of runners advancing along a wrapped 2D track.

Runners are grouped into speed waves, laid out on a collision-free starting
grid, and rasterized into a pixel buffer presented live. Press ESC to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRace(cmd)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Int("count", 0, "Override the runner count")
	rootCmd.PersistentFlags().Int64("seed", 0, "Fix the random seed (0 seeds from the clock)")
	rootCmd.PersistentFlags().String("motion", "", "Override the motion mode: linear or wander")
	rootCmd.PersistentFlags().Int("workers", 1, "Goroutines used to draw each frame")
	rootCmd.PersistentFlags().Bool("opencl", false, "Rasterize on an OpenCL device (linear motion, -tags opencl builds)")

	rootCmd.Flags().Bool("debug", false, "Show the FPS and simulation clock overlay")

	rootCmd.AddCommand(
		newBenchCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("marathon version %s\n", version)
		},
	}
}

// loadConfig reads the config file (or the defaults) and applies flag
// overrides on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if cmd.Flags().Changed("count") {
		cfg.Runners.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("motion") {
		cfg.Motion, _ = cmd.Flags().GetString("motion")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildRace constructs the simulation from the loaded configuration.
func buildRace(cfg *config.Config) (*sim.Race, error) {
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	race, err := sim.NewRace(simCfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Built %d runners in %d waves", race.Len(), race.Waves().Len())
	return race, nil
}

// runRace opens the window and drives the simulation until ESC, window close,
// or the time horizon. A display that cannot be created or updated is fatal.
func runRace(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	race, err := buildRace(cfg)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	debug, _ := cmd.Flags().GetBool("debug")
	opts := display.Options{
		Background: cfg.BackgroundColor(),
		TimeFactor: cfg.Time.Factor,
		Horizon:    cfg.Time.Horizon,
		Workers:    workers,
		Debug:      debug,
	}

	if useOpenCL, _ := cmd.Flags().GetBool("opencl"); useOpenCL {
		solver, err := sim.NewRunnerSolver(race, cfg.Canvas.Width, cfg.Canvas.Height)
		if err != nil {
			return fmt.Errorf("OpenCL initialization: %w", err)
		}
		defer solver.Close()
		log.Printf("OpenCL solver enabled (device: %s)", solver.DeviceName())
		opts.Solver = solver
	}

	game := display.New(race, cfg.Canvas.Width, cfg.Canvas.Height, opts)
	ebiten.SetWindowSize(cfg.Canvas.Width, cfg.Canvas.Height)
	ebiten.SetWindowTitle("Marathon - ESC to exit")
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
