package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"marathon/internal/sim"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run headless simulation ticks and report throughput",
		Long: `bench advances the simulation a fixed number of ticks into an in-memory
frame without opening a window, then reports the achieved tick rate. Useful
for comparing the serial, parallel, and OpenCL draw paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd)
		},
		SilenceUsage: true,
	}
	cmd.Flags().Int("ticks", 600, "Number of ticks to simulate")
	cmd.Flags().Float64("dt", 0.1, "Simulation time step per tick in seconds")
	cmd.Flags().String("cpuprofile", "", "Write a CPU profile to the given path")
	return cmd
}

func runBench(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	race, err := buildRace(cfg)
	if err != nil {
		return err
	}

	ticks, _ := cmd.Flags().GetInt("ticks")
	dt, _ := cmd.Flags().GetFloat64("dt")
	workers, _ := cmd.Flags().GetInt("workers")
	if ticks <= 0 || dt <= 0 {
		return fmt.Errorf("ticks and dt must be positive, got %d and %g", ticks, dt)
	}

	var solver *sim.RunnerSolver
	if useOpenCL, _ := cmd.Flags().GetBool("opencl"); useOpenCL {
		solver, err = sim.NewRunnerSolver(race, cfg.Canvas.Width, cfg.Canvas.Height)
		if err != nil {
			return fmt.Errorf("OpenCL initialization: %w", err)
		}
		defer solver.Close()
		log.Printf("OpenCL solver enabled (device: %s)", solver.DeviceName())
	}

	if path, _ := cmd.Flags().GetString("cpuprofile"); path != "" {
		stop, err := startCPUProfile(path)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer stop()
	}

	frame := sim.NewFrame(cfg.Canvas.Width, cfg.Canvas.Height)
	background := cfg.BackgroundColor()
	begin := time.Now()
	for i := 1; i <= ticks; i++ {
		t := dt * float64(i)
		if solver != nil {
			if err := solver.Draw(t, background, frame); err != nil {
				return err
			}
			continue
		}
		frame.Clear(background)
		race.DrawParallel(t, frame, workers)
	}
	elapsed := time.Since(begin)
	log.Printf("%d ticks of %d runners in %s (%.1f ticks/s)",
		ticks, race.Len(), elapsed.Round(time.Millisecond), float64(ticks)/elapsed.Seconds())
	return nil
}
