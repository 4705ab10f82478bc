package sim

import (
	"math"
	"testing"
)

// fixedNorm replays a fixed sample sequence in place of a Gaussian source.
type fixedNorm struct {
	vals []float64
	i    int
}

func (f *fixedNorm) NormFloat64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func TestAdvanceLinear(t *testing.T) {
	r := &Runner{startX: 1, startY: 4, x: 1, y: 4, speed: 2}
	r.advance(3, MotionLinear, 0, 80)
	if r.x != 7 || r.y != 4 {
		t.Errorf("position = (%g, %g), want (7, 4)", r.x, r.y)
	}
	if r.lastT != 3 {
		t.Errorf("lastT = %g, want 3", r.lastT)
	}
	// Linear motion is a pure function of t, not of the previous position.
	r.advance(1, MotionLinear, 0, 80)
	if r.x != 3 || r.y != 4 {
		t.Errorf("position = (%g, %g), want (3, 4)", r.x, r.y)
	}
}

func TestAdvanceZeroDT(t *testing.T) {
	// With t equal to the last update time there is no displacement, no
	// matter how large the sampled heading perturbation is.
	rng := &fixedNorm{vals: []float64{3.0}}
	r := &Runner{x: 5, y: 6, speed: 12, lastT: 2, rng: rng}
	r.advance(2, MotionWander, 1.0, 80)
	if r.x != 5 || r.y != 6 {
		t.Errorf("position = (%g, %g), want (5, 6)", r.x, r.y)
	}
}

func TestAdvanceWanderStraight(t *testing.T) {
	// A zero heading sample degenerates to straight forward motion.
	rng := &fixedNorm{vals: []float64{0}}
	r := &Runner{x: 10, y: 20, speed: 4, lastT: 1, rng: rng}
	r.advance(3, MotionWander, 0.1, 80)
	if math.Abs(r.x-18) > 1e-12 || math.Abs(r.y-20) > 1e-12 {
		t.Errorf("position = (%g, %g), want (18, 20)", r.x, r.y)
	}
}

func TestAdvanceWanderReflects(t *testing.T) {
	// A heading of -pi/2 sends the runner straight up; the lane edge bounces
	// it back inside.
	rng := &fixedNorm{vals: []float64{-math.Pi / 2}}
	r := &Runner{x: 0, y: 3, speed: 5, lastT: 0, rng: rng}
	r.advance(1, MotionWander, 1.0, 80)
	if math.Abs(r.y-2) > 1e-9 {
		t.Errorf("y = %g, want 2 after reflecting off y=0", r.y)
	}
}

func TestReflectY(t *testing.T) {
	const h = 10.0
	cases := []struct {
		y, want float64
	}{
		{0, 0},
		{5, 5},
		{10, 10},
		{-3, 3},
		{13, 7},
		{-10, 10},
		{20, 0},
	}
	for _, c := range cases {
		if got := reflectY(c.y, h); got != c.want {
			t.Errorf("reflectY(%g, %g) = %g, want %g", c.y, h, got, c.want)
		}
	}
	// Inputs within one track height of the boundary always land in range.
	for y := -10.0; y <= 20; y += 0.25 {
		got := reflectY(y, h)
		if got < 0 || got > h {
			t.Errorf("reflectY(%g, %g) = %g, outside [0, %g]", y, h, got, h)
		}
	}
}

func TestDrawDotWrapMonotonic(t *testing.T) {
	const (
		width         = 10
		alignedPerRow = 4
		startDistance = 2
		stride        = 2 * alignedPerRow * startDistance
	)
	f := NewFrame(width, 200)
	var lastY = -1
	for k := 0; k < 4; k++ {
		f.Clear(0)
		drawDot(f, float64(5+width*k), 2, 0xffffff, alignedPerRow, startDistance)
		wantY := 2 + stride*k
		if got := f.At(5, wantY); got != 0xffffff {
			t.Errorf("wrap %d: pixel (5, %d) = %#x, want white", k, wantY, got)
		}
		if lastY >= 0 && wantY-lastY != stride {
			t.Errorf("wrap %d: band offset advanced by %d, want %d", k, wantY-lastY, stride)
		}
		lastY = wantY
	}
}

func TestRasterizeDisk(t *testing.T) {
	f := NewFrame(8, 8)
	r := &Runner{x: 4, y: 4}
	r.rasterize(f, 0x00ff00, 1, 1, 1)

	// Radius 1 with offsets in [-(r+1), r) keeps (0,0), (-1,0) and (0,-1).
	want := map[[2]int]bool{{4, 4}: true, {3, 4}: true, {4, 3}: true}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			painted := f.At(x, y) == 0x00ff00
			if painted != want[[2]int{x, y}] {
				t.Errorf("pixel (%d, %d) painted=%v, want %v", x, y, painted, want[[2]int{x, y}])
			}
		}
	}
}

func TestRasterizeOutOfBoundsSkipped(t *testing.T) {
	f := NewFrame(8, 8)
	cases := []struct {
		name string
		x, y float64
	}{
		{"below the course start", -5, 4},
		{"beyond the wrapped bands", 3, 1000},
		{"wrap lands past the frame bottom", 100, 4},
	}
	for _, c := range cases {
		f.Clear(0)
		r := &Runner{x: c.x, y: c.y}
		r.rasterize(f, 0xffffff, 1, 1, 1)
		for i, p := range f.Pix {
			if p != 0 {
				t.Errorf("%s: pixel %d modified to %#x", c.name, i, p)
				break
			}
		}
	}
}
