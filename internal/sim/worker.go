package sim

import "sync"

// unsetPixel marks untouched pixels in per-worker scratch frames. Wave colors
// are 24-bit 0xRRGGBB values, so the high byte never collides.
const unsetPixel uint32 = 0xff000000

// DrawParallel fans the per-runner work across workers. Runners can be
// anywhere on the track, so partitioning them does not partition the frame;
// each worker paints a private scratch frame and the results are merged with
// an overwrite pass afterward. When runners of different waves overlap on a
// pixel the merge order differs from Draw's runner order, which makes the
// overlapping pixels nondeterministic between the two paths.
func (race *Race) DrawParallel(t float64, dst *Frame, workers int) {
	if workers > len(race.runners) {
		workers = len(race.runners)
	}
	if workers <= 1 {
		race.Draw(t, dst)
		return
	}
	race.ensureScratch(workers, dst.Width, dst.Height)

	chunk := (len(race.runners) + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunk
		end := start + chunk
		if end > len(race.runners) {
			end = len(race.runners)
		}
		wg.Add(1)
		go func(f *Frame, runners []*Runner) {
			defer wg.Done()
			f.Clear(unsetPixel)
			for _, r := range runners {
				r.advance(t, race.cfg.Mode, race.cfg.HeadingStdDev, race.cfg.TrackHeight)
				r.rasterize(f, race.waves.Wave(r.wave).Color,
					race.cfg.Radius, race.cfg.AlignedPerRow, race.cfg.StartDistance)
			}
		}(race.scratch[i], race.runners[start:end])
	}
	wg.Wait()

	for _, f := range race.scratch {
		for i, c := range f.Pix {
			if c != unsetPixel {
				dst.Pix[i] = c
			}
		}
	}
}

// ensureScratch sizes the reusable per-worker frames to match the target.
func (race *Race) ensureScratch(workers, width, height int) {
	if len(race.scratch) >= workers &&
		race.scratch[0].Width == width && race.scratch[0].Height == height {
		race.scratch = race.scratch[:workers]
		return
	}
	race.scratch = make([]*Frame, workers)
	for i := range race.scratch {
		race.scratch[i] = NewFrame(width, height)
	}
}
