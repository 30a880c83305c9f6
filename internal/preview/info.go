package preview

import (
	"lightpreview/internal/light"
	"lightpreview/internal/vecmat"
)

// State tracks how far a light's incremental results have progressed.
type State int

const (
	// StateNew: nothing is known about this light yet.
	StateNew State = iota
	// StateNoResults: previous results were discarded.
	StateNoResults
	// StatePartialResults: some refinement passes are done.
	StatePartialResults
	// StateFullResults: every line has been computed.
	StateFullResults
)

// lightInfo is the incremental bookkeeping kept per object id. Entries
// persist for the worker's lifetime so a light that disappears and
// re-appears resumes with its prior contribution knowledge.
type lightInfo struct {
	objectID int
	state    State
	stage    int // refinement pass index, 0..schedule.Steps-1

	// contribution holds unshadowed-radiance-times-visibility per pixel,
	// pre-albedo; empty unless state is partial/full with nonzero total.
	contribution vecmat.Matrix

	totalContribution float64
	distanceToEye     float64
	lastNonzeroTick   int
}

func (li *lightInfo) discardResults() {
	li.contribution.SetSize(0, 0)
	if li.state != StateNew {
		li.state = StateNoResults
	}
}

func (li *lightInfo) hasWorkToDo() bool {
	return li.state != StateFullResults
}

// linkLights re-links the registry against a freshly received light list,
// creating StateNew entries for ids never seen before.
func (w *Worker) linkLights(lights []*light.Description) {
	for _, l := range lights {
		if _, ok := w.infos[l.ObjectID]; !ok {
			w.infos[l.ObjectID] = &lightInfo{objectID: l.ObjectID}
		}
	}
	w.lights = lights
}

// discardResults invalidates every light's cached work, bumps the tick
// counter, refreshes eye distances, and forces the next send.
func (w *Worker) discardResults() {
	for _, li := range w.infos {
		li.discardResults()
	}
	w.contributionTick++
	for _, l := range w.lights {
		li := w.infos[l.ObjectID]
		if l.Kind == light.Directional {
			li.distanceToEye = 0
		} else {
			li.distanceToEye = w.lastEye.DistTo(l.Position)
		}
	}
	w.resultChanged = true
	w.lastSend = w.now().Add(-(sendInterval - forceSendSlack))
}

// infoFor returns the registry entry for a light in the active list.
func (w *Worker) infoFor(l *light.Description) *lightInfo {
	return w.infos[l.ObjectID]
}
