package sim

import (
	"fmt"
	"math"
	"testing"
)

func baseConfig() Config {
	return Config{
		Runners:       200,
		Radius:        1,
		AlignedPerRow: 5,
		StartDistance: 2,
		GapCols:       1,
		SpeedMean:     12,
		SpeedStdDev:   2,
		HeadingStdDev: 0.1,
		Mode:          MotionWander,
		Seed:          42,
		Waves:         testWaves(),
	}
}

func TestNewRaceClassifiesOnTrueSpeed(t *testing.T) {
	cfg := baseConfig()
	cfg.PerceptionStdDev = 0
	race, err := NewRace(cfg)
	if err != nil {
		t.Fatalf("NewRace failed: %v", err)
	}
	if race.Len() != cfg.Runners {
		t.Fatalf("Len() = %d, want %d", race.Len(), cfg.Runners)
	}
	for i, r := range race.runners {
		if r.speed < minRunnerSpeed {
			t.Errorf("runner %d: speed %g below floor", i, r.speed)
		}
		if want := race.waves.Classify(r.speed); r.wave != want {
			t.Errorf("runner %d: wave %d, want %d for speed %g", i, r.wave, want, r.speed)
		}
	}
}

func TestNewRacePerceivedClassificationStaysValid(t *testing.T) {
	cfg := baseConfig()
	cfg.PerceptionStdDev = 3
	race, err := NewRace(cfg)
	if err != nil {
		t.Fatalf("NewRace failed: %v", err)
	}
	misclassified := 0
	for i, r := range race.runners {
		if r.wave < 0 || r.wave >= race.waves.Len() {
			t.Fatalf("runner %d: wave index %d out of range", i, r.wave)
		}
		if r.wave != race.waves.Classify(r.speed) {
			misclassified++
		}
	}
	// With a 3 m/s estimation error over 2 m/s wide bands some runners must
	// seed into the wrong wave; that is the point of the perception model.
	if misclassified == 0 {
		t.Error("expected some runners to classify off their true speed")
	}
}

func TestNewRaceRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no runners", func(c *Config) { c.Runners = 0 }},
		{"no rows", func(c *Config) { c.AlignedPerRow = 0 }},
		{"no spacing", func(c *Config) { c.StartDistance = 0 }},
		{"negative gap", func(c *Config) { c.GapCols = -1 }},
		{"empty wave table", func(c *Config) { c.Waves = nil }},
		{"overlapping waves", func(c *Config) {
			c.Waves = []Wave{{VMin: 0, VMax: 10}, {VMin: 5, VMax: 15}}
		}},
	}
	for _, c := range cases {
		cfg := baseConfig()
		c.mutate(&cfg)
		if _, err := NewRace(cfg); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

func TestNewRaceDefaultsTrackHeight(t *testing.T) {
	cfg := baseConfig()
	cfg.TrackHeight = 0
	race, err := NewRace(cfg)
	if err != nil {
		t.Fatalf("NewRace failed: %v", err)
	}
	want := float64(cfg.AlignedPerRow * cfg.StartDistance)
	if race.cfg.TrackHeight != want {
		t.Errorf("TrackHeight = %g, want %g", race.cfg.TrackHeight, want)
	}
}

func TestDrawDeterministicForSeed(t *testing.T) {
	build := func() *Race {
		race, err := NewRace(baseConfig())
		if err != nil {
			t.Fatalf("NewRace failed: %v", err)
		}
		return race
	}
	a, b := build(), build()
	fa, fb := NewFrame(128, 128), NewFrame(128, 128)
	for _, tm := range []float64{0, 0.5, 1.0, 1.5} {
		fa.Clear(0)
		fb.Clear(0)
		a.Draw(tm, fa)
		b.Draw(tm, fb)
		for i := range fa.Pix {
			if fa.Pix[i] != fb.Pix[i] {
				t.Fatalf("t=%g: frames diverge at pixel %d", tm, i)
			}
		}
	}
}

func TestDrawParallelMatchesDraw(t *testing.T) {
	cfg := baseConfig()
	cfg.Mode = MotionLinear
	// One unbounded wave: with a single color, overwrite order cannot show
	// through where disks overlap, so the outputs must match byte for byte.
	cfg.Waves = []Wave{{VMin: 0, VMax: math.Inf(1), Color: 0xffffff}}
	race, err := NewRace(cfg)
	if err != nil {
		t.Fatalf("NewRace failed: %v", err)
	}
	serial := NewFrame(256, 128)
	parallel := NewFrame(256, 128)
	for _, tm := range []float64{0, 1.25, 7.5, 60} {
		serial.Clear(0x101010)
		parallel.Clear(0x101010)
		race.Draw(tm, serial)
		race.DrawParallel(tm, parallel, 4)
		for i := range serial.Pix {
			if serial.Pix[i] != parallel.Pix[i] {
				t.Fatalf("t=%g: serial and parallel draws diverge at pixel %d (%#x vs %#x)",
					tm, i, serial.Pix[i], parallel.Pix[i])
			}
		}
	}
}

func TestDrawParallelSingleWorkerFallsBack(t *testing.T) {
	race, err := NewRace(baseConfig())
	if err != nil {
		t.Fatalf("NewRace failed: %v", err)
	}
	f := NewFrame(64, 64)
	f.Clear(0)
	race.DrawParallel(1.0, f, 1)
	painted := 0
	for _, p := range f.Pix {
		if p != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Error("expected some painted pixels")
	}
}

func ExampleRace_Draw() {
	race, err := NewRace(Config{
		Runners:       4,
		Radius:        1,
		AlignedPerRow: 2,
		StartDistance: 2,
		GapCols:       1,
		SpeedMean:     12,
		SpeedStdDev:   2,
		Mode:          MotionLinear,
		Seed:          7,
		Waves:         testWaves(),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	f := NewFrame(64, 64)
	f.Clear(0x000000)
	race.Draw(1.0, f)
	fmt.Println(race.Len(), "runners drawn")
	// Output: 4 runners drawn
}
