// Package display owns the window, the frame pacing, and the simulation
// clock. It is thin glue around the core model: each tick it converts elapsed
// wall time to simulation time, lends the pixel buffer to the race for one
// draw call, and presents the result.
package display

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"marathon/internal/sim"
)

// Options configures the frame driver.
type Options struct {
	// Background is the clear color applied before every redraw.
	Background uint32

	// TimeFactor is the simulated seconds per real second.
	TimeFactor float64

	// Horizon stops the run once simulation time reaches it.
	Horizon float64

	// Workers fans the draw across goroutines when greater than one.
	Workers int

	// Solver, when non-nil, draws frames on the OpenCL device instead of the
	// CPU paths.
	Solver *sim.RunnerSolver

	// Debug shows the FPS and simulation clock overlay.
	Debug bool
}

// Game implements ebiten.Game. It owns the pixel buffer exclusively; the race
// borrows it only for the duration of one draw call.
type Game struct {
	race  *sim.Race
	frame *sim.Frame
	opts  Options

	started bool
	start   time.Time
	simTime float64
}

// New builds a frame driver for the race with a fresh pixel buffer.
func New(race *sim.Race, width, height int, opts Options) *Game {
	return &Game{
		race:  race,
		frame: sim.NewFrame(width, height),
		opts:  opts,
	}
}

// Update runs one tick: it checks the stop conditions, then clears and
// redraws the frame at the current simulation time. The wall clock starts on
// the first tick so window setup time never skews the race.
func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !g.started {
		g.start = time.Now()
		g.started = true
	}
	t := time.Since(g.start).Seconds() * g.opts.TimeFactor
	if t >= g.opts.Horizon {
		return ebiten.Termination
	}
	g.simTime = t

	if g.opts.Solver != nil {
		return g.opts.Solver.Draw(t, g.opts.Background, g.frame)
	}
	g.frame.Clear(g.opts.Background)
	if g.opts.Workers > 1 {
		g.race.DrawParallel(t, g.frame, g.opts.Workers)
	} else {
		g.race.Draw(t, g.frame)
	}
	return nil
}

// Draw presents the pixel buffer and the optional debug overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.frame.RGBA())
	if g.opts.Debug {
		msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nt: %.1fs / %.0fs",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.simTime, g.opts.Horizon)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by ebiten.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.frame.Width, g.frame.Height
}
