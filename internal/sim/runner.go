package sim

import "math"

// MotionMode selects how runners advance between frames.
type MotionMode int

const (
	// MotionLinear moves each runner down a straight lane at constant speed,
	// a pure function of its start position and the simulation clock.
	MotionLinear MotionMode = iota
	// MotionWander perturbs the heading with a fresh Gaussian sample every
	// tick and reflects runners off the lane edges.
	MotionWander
)

// Runner is one simulated participant. Position and lastT mutate every frame;
// speed and wave assignment are fixed at creation.
type Runner struct {
	startX, startY float64
	x, y           float64
	speed          float64
	lastT          float64
	wave           int
	rng            normSource
}

// advance moves the runner to simulation time t.
func (r *Runner) advance(t float64, mode MotionMode, headingSigma, trackHeight float64) {
	switch mode {
	case MotionLinear:
		r.x = r.startX + r.speed*t
		r.y = r.startY
	case MotionWander:
		dt := t - r.lastT
		angle := r.rng.NormFloat64() * headingSigma
		r.x += r.speed * math.Cos(angle) * dt
		r.y += r.speed * math.Sin(angle) * dt
		r.y = reflectY(r.y, trackHeight)
	}
	r.lastT = t
}

// reflectY bounces y back inside [0, trackHeight]. The reflection is applied
// once, so it only corrects excursions of at most one track height; callers
// must keep speed*dt below trackHeight.
func reflectY(y, trackHeight float64) float64 {
	if y < 0 {
		return -y
	}
	if y > trackHeight {
		return 2*trackHeight - y
	}
	return y
}

// rasterize paints the runner's disk into the frame with its wave color.
func (r *Runner) rasterize(f *Frame, color uint32, radius, alignedPerRow, startDistance int) {
	for dx := -(radius + 1); dx < radius; dx++ {
		for dy := -(radius + 1); dy < radius; dy++ {
			if dx*dx+dy*dy <= radius*radius {
				drawDot(f, r.x+float64(dx), r.y+float64(dy), color, alignedPerRow, startDistance)
			}
		}
	}
}

// drawDot maps a continuous track position to a pixel and writes it. The
// track wraps horizontally: every crossing of the frame width shifts the dot
// down by one lane stride (2*alignedPerRow*startDistance rows), stacking the
// course into bands below the first.
func drawDot(f *Frame, x, y float64, color uint32, alignedPerRow, startDistance int) {
	if x < 0 || y < 0 {
		return
	}
	px := int(x) % f.Width
	py := int(y) + 2*alignedPerRow*startDistance*(int(x)/f.Width)
	f.Set(px, py, color)
}
