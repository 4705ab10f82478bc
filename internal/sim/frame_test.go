package sim

import "testing"

func TestFrameClearAndSet(t *testing.T) {
	f := NewFrame(4, 3)
	f.Clear(0x123456)
	for i, p := range f.Pix {
		if p != 0x123456 {
			t.Fatalf("pixel %d = %#x after clear", i, p)
		}
	}
	f.Set(2, 1, 0xff0000)
	if got := f.At(2, 1); got != 0xff0000 {
		t.Errorf("At(2, 1) = %#x, want 0xff0000", got)
	}
	if got := f.At(1, 2); got != 0x123456 {
		t.Errorf("At(1, 2) = %#x, want clear color", got)
	}
}

func TestFrameSetOutOfBoundsIsSilent(t *testing.T) {
	f := NewFrame(4, 3)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		f.Set(p[0], p[1], 0xffffff)
	}
	for i, p := range f.Pix {
		if p != 0 {
			t.Errorf("pixel %d modified to %#x by out-of-bounds writes", i, p)
		}
	}
}

func TestFrameRGBA(t *testing.T) {
	f := NewFrame(2, 1)
	f.Set(0, 0, 0x112233)
	f.Set(1, 0, 0xffffff)
	rgba := f.RGBA()
	want := []byte{0x11, 0x22, 0x33, 0xff, 0xff, 0xff, 0xff, 0xff}
	if len(rgba) != len(want) {
		t.Fatalf("len = %d, want %d", len(rgba), len(want))
	}
	for i := range want {
		if rgba[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, rgba[i], want[i])
		}
	}
	// The conversion buffer is reused between frames.
	if &rgba[0] != &f.RGBA()[0] {
		t.Error("RGBA allocated a new buffer on the second call")
	}
}
