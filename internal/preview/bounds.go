package preview

// calculateSceneBounds folds min/max over every G-buffer position, seeded
// with the eye point. Padding lanes hold the eye position after import, so
// the full padded width is folded.
func (w *Worker) calculateSceneBounds() {
	minB := w.lastEye
	maxB := w.lastEye
	for y := 0; y < w.positions.Height; y++ {
		for gx := 0; gx < w.positions.PaddedWidth; gx++ {
			g := w.positions.Group(gx, y)
			for lane := 0; lane < 4; lane++ {
				v := g.Vec(lane)
				minB = minB.Min(v)
				maxB = maxB.Max(v)
			}
		}
	}
	w.minView = minB
	w.maxView = maxB
}
