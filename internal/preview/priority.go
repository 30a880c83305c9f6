package preview

import "lightpreview/internal/light"

// isHighPriority reports whether a light deserves the priority shortcut: an
// uncalculated light whose position lies inside the current view bounds.
func (w *Worker) isHighPriority(li *lightInfo, l *light.Description) bool {
	return li.state == StateNew && l.Position.WithinAABB(w.minView, w.maxView)
}

// lowerPriority reports whether light a should yield the next refinement
// pass to light b. Fully refined lights never reach this comparison; the
// work filter excludes them upstream.
func (w *Worker) lowerPriority(a *lightInfo, la *light.Description, b *lightInfo, lb *light.Description) bool {
	aHigh := w.isHighPriority(a, la)
	bHigh := w.isHighPriority(b, lb)
	if aHigh && !bHigh {
		return false
	}
	if bHigh && !aHigh {
		return true
	}

	switch {
	case a.state == StateNew && b.state == StateNew:
		// closest to the eye first
		return a.distanceToEye > b.distanceToEye

	case a.state == StateNew && b.state == StateNoResults:
		// a known probable contributor beats a speculative new light
		return b.totalContribution > 0

	case a.state == StateNoResults && b.state == StateNew:
		return a.totalContribution == 0

	case a.state == StateNew && b.state == StatePartialResults:
		return true

	case a.state == StatePartialResults && b.state == StateNew:
		return false

	case a.state == StatePartialResults && b.state == StatePartialResults:
		if a.totalContribution == 0 && b.totalContribution == 0 {
			return b.lastNonzeroTick > a.lastNonzeroTick
		}
		if a.totalContribution == 0 {
			return true
		}
		if b.totalContribution == 0 {
			return false
		}
		// near-equal refinement: brighter first; else least refined first
		if absInt(a.stage-b.stage) <= 1 {
			return a.totalContribution < b.totalContribution
		}
		return a.stage > b.stage

	case a.state == StatePartialResults && b.state == StateNoResults,
		a.state == StateNoResults && b.state == StatePartialResults:
		if a.totalContribution == 0 && b.totalContribution == 0 {
			return b.lastNonzeroTick > a.lastNonzeroTick
		}
		if a.totalContribution == 0 {
			return true
		}
		if b.totalContribution == 0 {
			return false
		}
		return a.totalContribution < b.totalContribution

	case a.state == StateNoResults && b.state == StateNoResults:
		if a.totalContribution == 0 && b.totalContribution == 0 {
			return b.lastNonzeroTick > a.lastNonzeroTick
		}
		return a.totalContribution < b.totalContribution
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
