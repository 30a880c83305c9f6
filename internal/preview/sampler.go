package preview

import (
	"sync"
	"time"

	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
	"lightpreview/internal/schedule"
)

// brightness below this (post-albedo) does not count toward a light's total
// contribution, so distant dim lights are not judged interesting
const contributionThreshold = 0.1 / 1024.0

const shadowBias = 0.02

// calculateForLight runs one refinement pass for l: the next set of lines
// on the bit-reversed schedule, split four ways by eligible-row index.
func (w *Worker) calculateForLight(l *light.Description) {
	if w.env != nil && !w.accBuilt {
		w.accBuilt = true
		start := time.Now()
		w.env.BuildAccelerationStructure()
		debugf("acceleration structure built in %.2f ms", float64(time.Since(start).Microseconds())/1000)
	}
	li := w.infoFor(l)
	li.contribution.SetSize(w.albedos.Width, w.albedos.Height)

	prevMask := uint32(0)
	newStage := 0
	if li.state == StatePartialResults {
		newStage = li.stage + 1
		prevMask = w.table.LineMask[li.stage]
	}
	calcMask := w.table.LineMask[newStage] &^ prevMask

	var totals [4]float64
	var wg sync.WaitGroup
	for t := 0; t < 4; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			totals[t] = w.calculateForLightTask(0b11, t, l, li, calcMask)
		}(t)
	}
	wg.Wait()

	passTotal := totals[0] + totals[1] + totals[2] + totals[3]
	if li.state == StatePartialResults {
		// passes accumulate: a pass whose scheduled rows all fall beyond a
		// short image must not erase earlier lines' contribution
		li.totalContribution += passTotal
	} else {
		li.totalContribution = passTotal
	}
	if li.totalContribution == 0 {
		li.contribution.SetSize(0, 0)
	} else {
		li.lastNonzeroTick = w.contributionTick
	}
	li.stage = newStage
	if newStage == schedule.Steps-1 {
		li.state = StateFullResults
	} else {
		li.state = StatePartialResults
	}
}

// calculateForLightTask computes this worker's share of the pass: eligible
// rows whose running index matches (lineMask, lineMatch). Returns the sum
// over lanes of the magnitude of the albedo-weighted light accumulated.
func (w *Worker) calculateForLightTask(lineMask, lineMatch int, l *light.Description, li *lightInfo, calcMask uint32) float64 {
	rslt := &li.contribution

	var totalLight mathutil.FourVec
	var lastLineTotal mathutil.FourVec
	workLine := 0
	for y := 0; y < rslt.Height; y++ {
		var lineTotal mathutil.FourVec
		ybit := uint32(1) << (y & (schedule.Steps - 1))
		if ybit&calcMask == 0 {
			// not scheduled this pass; carry the accumulator forward
			lineTotal = lastLineTotal
		} else {
			if workLine&lineMask == lineMatch {
				for gx := 0; gx < rslt.PaddedWidth; gx++ {
					pos := w.positions.Group(gx, y)
					nrm := w.normals.Group(gx, y)
					ladd := l.ComputeAtPoints(*pos, *nrm)
					if !ladd.AllZero() {
						w.applyShadows(l, *pos, &ladd)
						*rslt.Group(gx, y) = ladd
						ladd = ladd.Mul(*w.albedos.Group(gx, y))
						suppressBelowThreshold(&ladd)
						lineTotal = lineTotal.Add(ladd)
					} else {
						*rslt.Group(gx, y) = ladd
					}
				}
				totalLight = totalLight.Add(lineTotal)
			}
			workLine++
		}
		lastLineTotal = lineTotal
	}

	mag := totalLight.Length()
	return mag[0] + mag[1] + mag[2] + mag[3]
}

// applyShadows zeroes radiance lanes whose shadow ray hits an occluder
// nearer than the light.
func (w *Worker) applyShadows(l *light.Description, pos mathutil.FourVec, radiance *mathutil.FourVec) {
	if l.Kind == light.Ambient || w.env == nil {
		return
	}

	var dir mathutil.FourVec
	var rayLen mathutil.Lane4
	if l.Kind == light.Directional {
		dir = mathutil.DupVec3(l.Direction.Scale(-1))
		rayLen = mathutil.Lane4{1e9, 1e9, 1e9, 1e9}
	} else {
		dir, rayLen = mathutil.DupVec3(l.Position).Sub(pos).Normalized()
	}
	// slide toward the light to avoid self-intersection
	origin := pos.Add(dir.Scale(shadowBias))

	ids, dist := w.env.Trace4(origin, dir, 0, 1e9)
	for i := 0; i < 4; i++ {
		if ids[i] >= 0 && dist[i] < rayLen[i] {
			radiance.ZeroLane(i)
		}
	}
}

func suppressBelowThreshold(f *mathutil.FourVec) {
	for i := 0; i < 4; i++ {
		if f.X[i] <= contributionThreshold {
			f.X[i] = 0
		}
		if f.Y[i] <= contributionThreshold {
			f.Y[i] = 0
		}
		if f.Z[i] <= contributionThreshold {
			f.Z[i] = 0
		}
	}
}
