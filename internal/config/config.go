// Package config loads the simulation settings from YAML with defaults
// matching the reference race parameters.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"marathon/internal/sim"
)

// Config contains every startup setting for the simulation.
type Config struct {
	// Canvas sets the window and pixel buffer dimensions.
	Canvas CanvasConfig `yaml:"canvas"`

	// Runners configures the field size and the starting grid geometry.
	Runners RunnersConfig `yaml:"runners"`

	// Time maps wall clock to simulation time and bounds the run.
	Time TimeConfig `yaml:"time"`

	// Speed parameterizes the Gaussian the runner speeds are drawn from.
	Speed SpeedConfig `yaml:"speed"`

	// Noise configures self-estimation error and per-tick heading wander.
	Noise NoiseConfig `yaml:"noise"`

	// Motion selects the runner model: "linear" or "wander".
	Motion string `yaml:"motion"`

	// TrackHeight bounds lateral wander in track units. Zero selects the
	// height of one lane band.
	TrackHeight float64 `yaml:"track_height"`

	// Seed fixes all random draws for reproducible runs; zero seeds from the
	// clock.
	Seed int64 `yaml:"seed"`

	// Background is the clear color as an RRGGBB hex string.
	Background string `yaml:"background"`

	// Waves is the ordered speed band table. A wave without max is unbounded
	// above; the table must end unbounded or it is extended at build time.
	Waves []WaveConfig `yaml:"waves"`
}

// CanvasConfig sets the pixel buffer dimensions.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RunnersConfig describes the field and its starting grid.
type RunnersConfig struct {
	// Count is the number of runners simulated for the whole run.
	Count int `yaml:"count"`

	// Radius is the visual disk radius of one runner in pixels.
	Radius int `yaml:"radius"`

	// AlignedPerRow is the number of runners per starting column.
	AlignedPerRow int `yaml:"aligned_per_row"`

	// StartDistance is the grid spacing in track units.
	StartDistance int `yaml:"start_distance"`

	// GapCols is the number of empty columns between consecutive waves.
	GapCols int `yaml:"gap_cols"`
}

// TimeConfig bounds and scales the simulation clock.
type TimeConfig struct {
	// Horizon is the simulation time in seconds after which the run stops.
	Horizon float64 `yaml:"horizon"`

	// Factor is the simulated seconds elapsed per real second.
	Factor float64 `yaml:"factor"`
}

// SpeedConfig parameterizes the speed distribution.
type SpeedConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// NoiseConfig holds the Gaussian noise magnitudes.
type NoiseConfig struct {
	// PerceptionStdDev scales the one-time speed estimation error used for
	// wave classification. Zero classifies on true speed.
	PerceptionStdDev float64 `yaml:"perception_stddev"`

	// HeadingStdDev scales the per-tick heading perturbation in radians.
	HeadingStdDev float64 `yaml:"heading_stddev"`
}

// WaveConfig is one speed band. Max may be omitted for an unbounded band.
type WaveConfig struct {
	Min   float64  `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Color string   `yaml:"color"`
}

// Default returns the reference parameters: a 1920x1080 canvas, 20000 runners
// at speeds N(12, 2), a 600 s horizon at 10x wall clock, and the four-wave
// red/blue/green/white table.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 1920, Height: 1080},
		Runners: RunnersConfig{
			Count:         20000,
			Radius:        1,
			AlignedPerRow: 40,
			StartDistance: 2,
			GapCols:       2,
		},
		Time:  TimeConfig{Horizon: 600, Factor: 10},
		Speed: SpeedConfig{Mean: 12, StdDev: 2},
		Noise: NoiseConfig{
			PerceptionStdDev: 0.5,
			HeadingStdDev:    0.05,
		},
		Motion:     "linear",
		Background: "000000",
		Waves: []WaveConfig{
			{Min: 0, Max: f64(10), Color: "ff0000"},
			{Min: 10, Max: f64(12), Color: "0000ff"},
			{Min: 12, Max: f64(15), Color: "00ff00"},
			{Min: 15, Max: nil, Color: "ffffff"},
		},
	}
}

func f64(v float64) *float64 { return &v }

// LoadFromFile overlays the YAML file at path onto the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with. The wave table
// gets its deeper interval checks when the race is built.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Runners.Count <= 0 {
		return fmt.Errorf("runner count must be positive, got %d", c.Runners.Count)
	}
	if c.Runners.AlignedPerRow <= 0 || c.Runners.StartDistance <= 0 {
		return fmt.Errorf("starting grid must be positive, got %d per row at distance %d",
			c.Runners.AlignedPerRow, c.Runners.StartDistance)
	}
	if c.Runners.Radius < 0 || c.Runners.GapCols < 0 {
		return fmt.Errorf("radius and gap columns must not be negative")
	}
	if c.Time.Horizon <= 0 || c.Time.Factor <= 0 {
		return fmt.Errorf("time horizon and factor must be positive, got %g at %gx",
			c.Time.Horizon, c.Time.Factor)
	}
	if c.Speed.StdDev < 0 || c.Noise.PerceptionStdDev < 0 || c.Noise.HeadingStdDev < 0 {
		return fmt.Errorf("standard deviations must not be negative")
	}
	if _, err := c.MotionMode(); err != nil {
		return err
	}
	if _, err := parseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if len(c.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}
	for i, w := range c.Waves {
		if _, err := parseColor(w.Color); err != nil {
			return fmt.Errorf("wave %d: %w", i, err)
		}
	}
	return nil
}

// MotionMode translates the configured motion name.
func (c *Config) MotionMode() (sim.MotionMode, error) {
	switch c.Motion {
	case "linear", "":
		return sim.MotionLinear, nil
	case "wander":
		return sim.MotionWander, nil
	default:
		return 0, fmt.Errorf("unknown motion mode %q (want \"linear\" or \"wander\")", c.Motion)
	}
}

// BackgroundColor returns the parsed clear color.
func (c *Config) BackgroundColor() uint32 {
	color, err := parseColor(c.Background)
	if err != nil {
		return 0
	}
	return color
}

// SimConfig translates the loaded settings into the race build parameters.
func (c *Config) SimConfig() (sim.Config, error) {
	mode, err := c.MotionMode()
	if err != nil {
		return sim.Config{}, err
	}
	waves := make([]sim.Wave, len(c.Waves))
	for i, w := range c.Waves {
		color, err := parseColor(w.Color)
		if err != nil {
			return sim.Config{}, fmt.Errorf("wave %d: %w", i, err)
		}
		max := math.Inf(1)
		if w.Max != nil {
			max = *w.Max
		}
		waves[i] = sim.Wave{VMin: w.Min, VMax: max, Color: color}
	}
	return sim.Config{
		Runners:          c.Runners.Count,
		Radius:           c.Runners.Radius,
		AlignedPerRow:    c.Runners.AlignedPerRow,
		StartDistance:    c.Runners.StartDistance,
		GapCols:          c.Runners.GapCols,
		SpeedMean:        c.Speed.Mean,
		SpeedStdDev:      c.Speed.StdDev,
		PerceptionStdDev: c.Noise.PerceptionStdDev,
		HeadingStdDev:    c.Noise.HeadingStdDev,
		TrackHeight:      c.TrackHeight,
		Mode:             mode,
		Seed:             c.Seed,
		Waves:            waves,
	}, nil
}

// parseColor reads an RRGGBB hex string, with or without a leading '#'.
func parseColor(s string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(trimmed) != 6 {
		return 0, fmt.Errorf("color %q must be 6 hex digits", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
