package sim

import (
	"fmt"
	"math/rand"
	"time"
)

// minRunnerSpeed floors the Gaussian speed draw; the motion model assumes
// every runner makes forward progress.
const minRunnerSpeed = 0.01

// Config collects every knob needed to build and draw a race.
type Config struct {
	Runners       int
	Radius        int
	AlignedPerRow int
	StartDistance int
	GapCols       int

	SpeedMean        float64
	SpeedStdDev      float64
	PerceptionStdDev float64
	HeadingStdDev    float64

	// TrackHeight bounds the lateral wander of MotionWander runners. Zero
	// selects the visual height of one lane band.
	TrackHeight float64

	Mode MotionMode

	// Seed drives every random draw. Zero selects a time-based seed; any
	// other value makes builds and wander trajectories reproducible.
	Seed int64

	Waves []Wave
}

// Race owns the runner collection and the wave table, and advances and
// rasterizes all runners for a requested simulation time.
type Race struct {
	runners []*Runner
	waves   *WaveSet
	cfg     Config

	scratch []*Frame
}

// NewRace draws runner speeds from N(SpeedMean, SpeedStdDev), classifies each
// runner by its perceived speed, and lays out the starting grid.
func NewRace(cfg Config) (*Race, error) {
	waves, err := NewWaveSet(cfg.Waves)
	if err != nil {
		return nil, fmt.Errorf("wave table: %w", err)
	}
	if cfg.Runners <= 0 {
		return nil, fmt.Errorf("runner count must be positive, got %d", cfg.Runners)
	}
	if cfg.AlignedPerRow <= 0 || cfg.StartDistance <= 0 {
		return nil, fmt.Errorf("invalid grid: aligned per row %d, start distance %d",
			cfg.AlignedPerRow, cfg.StartDistance)
	}
	if cfg.GapCols < 0 || cfg.Radius < 0 {
		return nil, fmt.Errorf("invalid grid: gap columns %d, radius %d", cfg.GapCols, cfg.Radius)
	}
	if cfg.TrackHeight <= 0 {
		cfg.TrackHeight = float64(cfg.AlignedPerRow * cfg.StartDistance)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// One stream for the speed draws plus an independent stream per runner,
	// so per-tick wander noise never disturbs build-time draws.
	master := rand.New(rand.NewSource(cfg.Seed))
	runners := make([]*Runner, cfg.Runners)
	for i := range runners {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i) + 1))
		speed := master.NormFloat64()*cfg.SpeedStdDev + cfg.SpeedMean
		if speed < minRunnerSpeed {
			speed = minRunnerSpeed
		}
		// The perception draw is used only here; the runner keeps the wave
		// assignment, never the noise value itself.
		perceived := speed + rng.NormFloat64()*cfg.PerceptionStdDev
		runners[i] = &Runner{
			speed: speed,
			wave:  waves.Classify(perceived),
			rng:   rng,
		}
	}
	layoutStarts(runners, waves.Len(), cfg.AlignedPerRow, cfg.StartDistance, cfg.GapCols)

	return &Race{runners: runners, waves: waves, cfg: cfg}, nil
}

// Len returns the number of runners.
func (race *Race) Len() int { return len(race.runners) }

// Waves returns the validated wave table.
func (race *Race) Waves() *WaveSet { return race.waves }

// Mode returns the motion mode the race was built with.
func (race *Race) Mode() MotionMode { return race.cfg.Mode }

// Draw advances every runner to simulation time t and paints it into the
// frame. The caller clears the frame beforehand.
func (race *Race) Draw(t float64, f *Frame) {
	for _, r := range race.runners {
		r.advance(t, race.cfg.Mode, race.cfg.HeadingStdDev, race.cfg.TrackHeight)
		r.rasterize(f, race.waves.Wave(r.wave).Color,
			race.cfg.Radius, race.cfg.AlignedPerRow, race.cfg.StartDistance)
	}
}
