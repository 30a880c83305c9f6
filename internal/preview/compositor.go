package preview

import (
	"lightpreview/internal/bitmap"
	"lightpreview/internal/mathutil"
	"lightpreview/internal/schedule"
)

// sendResult assembles the display image from all partial contributions and
// queues it to the host.
func (w *Worker) sendResult() {
	w.result = w.albedos.Clone()
	w.result.MulVec(w.estimatedUnshotAmbient())

	for _, l := range w.lights {
		li := w.infoFor(l)
		if li.totalContribution <= 0 {
			continue
		}
		if li.state != StatePartialResults && li.state != StateFullResults {
			continue
		}
		src := &li.contribution
		for y := 0; y < w.result.Height; y++ {
			yo := y & (schedule.Steps - 1)
			srcY := (y &^ (schedule.Steps - 1)) + w.table.ClosestLine[li.stage][yo]
			if srcY >= src.Height {
				srcY = src.Height - 1
			}
			for gx := 0; gx < w.result.PaddedWidth; gx++ {
				add := w.albedos.Group(gx, y).Mul(*src.Group(gx, srcY))
				*w.result.Group(gx, y) = w.result.Group(gx, y).Add(add)
			}
		}
	}

	bm := bitmap.New(w.result.Width, w.result.Height)
	for y := 0; y < w.result.Height; y++ {
		for x := 0; x < w.result.Width; x++ {
			c := w.result.Element(x, y)
			bm.SetPixel(x, y, c[0], c[1], c[2])
		}
	}
	w.out <- Result{Bitmap: bm, Generation: w.generation}

	w.lastSend = w.now()
	w.resultChanged = false
}

// estimatedUnshotAmbient derives a cheap ambient term from contributions
// known so far: hue of the weighted light-color sum at a fixed 0.05
// intensity.
func (w *Worker) estimatedUnshotAmbient() mathutil.Vec3 {
	const epsilon = 0.0001
	sum := mathutil.Vec3{epsilon, epsilon, epsilon}
	for _, l := range w.lights {
		li := w.infoFor(l)
		if li.state == StatePartialResults || li.state == StateFullResults {
			sum = sum.Add(l.Color.Scale(li.totalContribution))
		}
	}
	return sum.Normalize().Scale(0.05)
}
