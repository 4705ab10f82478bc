package sim

// layoutStarts assigns collision-free starting coordinates, grouping runners
// by wave index. Columns fill top to bottom with exactly alignedPerRow
// runners each; runners keep their relative order inside a wave. After each
// wave the fill advances to a fresh column plus gapCols empty columns, so no
// two waves ever share a column and no two runners share a start pixel.
func layoutStarts(runners []*Runner, waveCount, alignedPerRow, startDistance, gapCols int) {
	row, col := 0, 0
	for wave := 0; wave < waveCount; wave++ {
		for _, r := range runners {
			if r.wave != wave {
				continue
			}
			r.startX = float64(col * startDistance)
			r.startY = float64(row * startDistance)
			r.x, r.y = r.startX, r.startY
			row++
			if row == alignedPerRow {
				row = 0
				col++
			}
		}
		if row != 0 {
			row = 0
			col++
		}
		col += gapCols
	}
}
