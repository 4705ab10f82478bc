package sim

// Frame is a flat 32-bit pixel buffer in 0xRRGGBB layout, indexed y*Width+x.
// It is owned by the frame driver and lent to the race for one draw call at a
// time.
type Frame struct {
	Width  int
	Height int
	Pix    []uint32

	rgba []byte
}

// NewFrame allocates a frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// Clear overwrites every pixel with the given color.
func (f *Frame) Clear(color uint32) {
	for i := range f.Pix {
		f.Pix[i] = color
	}
}

// Set writes a pixel. Coordinates outside the frame are dropped without
// error; runners short of the course or past its wrapped end are simply not
// visible.
func (f *Frame) Set(x, y int, color uint32) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = color
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) uint32 {
	return f.Pix[y*f.Width+x]
}

// RGBA converts the frame into the byte layout ebiten's WritePixels expects.
// The backing slice is reused between calls.
func (f *Frame) RGBA() []byte {
	if len(f.rgba) != len(f.Pix)*4 {
		f.rgba = make([]byte, len(f.Pix)*4)
	}
	for i, c := range f.Pix {
		base := i * 4
		f.rgba[base] = byte(c >> 16)
		f.rgba[base+1] = byte(c >> 8)
		f.rgba[base+2] = byte(c)
		f.rgba[base+3] = 0xff
	}
	return f.rgba
}
