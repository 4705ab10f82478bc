package sim

import (
	"errors"
	"fmt"
	"math"
)

// Wave is a labeled speed interval with a display color. Runners whose
// perceived speed falls in [VMin, VMax) form one start group and are painted
// with the wave's color.
type Wave struct {
	VMin  float64
	VMax  float64
	Color uint32
}

// WaveSet is an ordered, validated wave table. The final interval is always
// unbounded above, so classification never fails.
type WaveSet struct {
	waves []Wave
}

// NewWaveSet validates and copies the table. Intervals must be non-empty,
// ascending, and non-overlapping. A finite upper bound on the last wave is
// extended to +Inf at construction rather than patched around at lookup time.
func NewWaveSet(waves []Wave) (*WaveSet, error) {
	if len(waves) == 0 {
		return nil, errors.New("wave table is empty")
	}
	for i, w := range waves {
		if !(w.VMin < w.VMax) {
			return nil, fmt.Errorf("wave %d: empty speed interval [%g, %g)", i, w.VMin, w.VMax)
		}
		if i > 0 && w.VMin < waves[i-1].VMax {
			return nil, fmt.Errorf("wave %d: interval [%g, %g) overlaps wave %d", i, w.VMin, w.VMax, i-1)
		}
	}
	owned := make([]Wave, len(waves))
	copy(owned, waves)
	owned[len(owned)-1].VMax = math.Inf(1)
	return &WaveSet{waves: owned}, nil
}

// Len returns the number of waves in the table.
func (ws *WaveSet) Len() int { return len(ws.waves) }

// Wave returns the wave at index i.
func (ws *WaveSet) Wave(i int) Wave { return ws.waves[i] }

// Classify returns the index of the first wave whose interval contains speed.
// Speeds below every interval land in the last wave, matching the reference
// behavior for outliers; everything at or above the first bound resolves by
// interval membership alone since the last bound is +Inf.
func (ws *WaveSet) Classify(speed float64) int {
	for i, w := range ws.waves {
		if speed >= w.VMin && speed < w.VMax {
			return i
		}
	}
	return len(ws.waves) - 1
}
