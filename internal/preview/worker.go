// Package preview implements the incremental direct-lighting previewer: a
// single background worker that consumes scene messages, refines per-light
// shadowed contributions on a bit-reversed line schedule, and streams
// display bitmaps back to the host at a bounded rate.
package preview

import (
	"sync/atomic"
	"time"

	"lightpreview/internal/gbuffer"
	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
	"lightpreview/internal/schedule"
	"lightpreview/internal/trace"
	"lightpreview/internal/vecmat"
)

const (
	// sendInterval bounds how long a changed result may go unsent while
	// work remains.
	sendInterval = 10 * time.Second
	// forceSendSlack is how soon after an invalidation the next send may
	// go out.
	forceSendSlack = time.Second
)

// Worker owns all incremental lighting state. It is driven by Run on its
// own goroutine; the in and out channels are its only cross-thread
// surfaces.
type Worker struct {
	in  chan Message
	out chan Result

	table *schedule.Table

	lights []*light.Description
	infos  map[int]*lightInfo

	positions vecmat.Matrix
	normals   vecmat.Matrix
	albedos   vecmat.Matrix
	result    vecmat.Matrix

	env      *trace.Environment
	accBuilt bool

	lastEye          mathutil.Vec3
	minView, maxView mathutil.Vec3

	resultChanged    bool
	lastSend         time.Time
	contributionTick int
	generation       int

	pendingGBufs atomic.Int32

	now func() time.Time
}

// New creates a worker bound to the given queues. The in channel must be
// buffered; the worker polls it with len() between work units and blocks on
// it when idle.
func New(in chan Message, out chan Result) *Worker {
	return &Worker{
		in:               in,
		out:              out,
		table:            schedule.New(),
		infos:            make(map[int]*lightInfo),
		contributionTick: 1000000,
		generation:       -1,
		lastSend:         time.Unix(0, 0),
		now:              time.Now,
	}
}

// Start runs a worker on its own goroutine and returns it.
func Start(in chan Message, out chan Result) *Worker {
	w := New(in, out)
	go w.Run()
	return w
}

// NoteGBufferQueued is called by the producer when it enqueues a
// MsgSetGBuffers, letting it throttle against PendingGBuffers.
func (w *Worker) NoteGBufferQueued() {
	w.pendingGBufs.Add(1)
}

// PendingGBuffers returns the number of queued-but-unprocessed G-buffer
// messages.
func (w *Worker) PendingGBuffers() int32 {
	return w.pendingGBufs.Load()
}

// Run is the worker main loop: drain messages while idle or while any are
// waiting, perform one refinement unit otherwise, and pace result sends.
// Returns when MsgExit arrives.
func (w *Worker) Run() {
	for {
		for !w.anyUsefulWork() || len(w.in) > 0 {
			if w.handleMessage() {
				return
			}
		}
		if w.anyUsefulWork() {
			w.doWork()
		}
		if w.resultChanged {
			now := w.now()
			if now.Sub(w.lastSend) > sendInterval || !w.anyUsefulWork() {
				w.sendResult()
			}
		}
	}
}

// handleMessage blocks for one message and applies it. Returns true on
// MsgExit.
func (w *Worker) handleMessage() bool {
	msg := <-w.in
	switch msg.Kind {
	case MsgExit:
		return true

	case MsgSetLights:
		w.lastEye = msg.Eye
		w.linkLights(msg.Lights)
		w.discardResults()

	case MsgSetGeometry:
		if !w.handleGeometry(msg) {
			return false // malformed, results untouched
		}
		w.discardResults()

	case MsgSetGBuffers:
		if !w.handleGBuffers(msg) {
			return false
		}
		w.discardResults()
	}
	return false
}

func (w *Worker) handleGeometry(msg Message) bool {
	if len(msg.Triangles)%3 != 0 {
		return false
	}
	w.env = nil
	w.accBuilt = false
	if len(msg.Triangles) > 0 {
		env := &trace.Environment{}
		for i := 0; i+2 < len(msg.Triangles); i += 3 {
			env.AddTriangle(i, msg.Triangles[i], msg.Triangles[i+1], msg.Triangles[i+2],
				mathutil.Vec3{0.5, 0.5, 0.5})
		}
		w.env = env
	}
	return true
}

func (w *Worker) handleGBuffers(msg Message) bool {
	if !msg.Positions.Valid() || !msg.Normals.Valid() || !msg.Albedo.Valid() {
		return false
	}
	if !gbuffer.SameDims(msg.Positions, msg.Normals, msg.Albedo) {
		return false
	}
	w.lastEye = msg.Eye

	wd, ht := msg.Albedo.Width, msg.Albedo.Height
	w.albedos.FromRGBAFloat(wd, ht, msg.Albedo.Pix, mathutil.Vec3{})
	w.normals.FromRGBAFloat(wd, ht, msg.Normals.Pix, mathutil.Vec3{})
	// padding lanes take the eye position so the bounds fold stays exact
	w.positions.FromRGBAFloat(wd, ht, msg.Positions.Pix, w.lastEye)

	w.pendingGBufs.Add(-1)
	w.generation = msg.Generation
	w.calculateSceneBounds()
	return true
}

// anyUsefulWork reports whether a refinement unit would make progress:
// occluder geometry is present and some light is not fully refined.
func (w *Worker) anyUsefulWork() bool {
	for _, l := range w.lights {
		if w.infoFor(l).hasWorkToDo() {
			return w.env != nil
		}
	}
	return false
}

// doWork advances the highest-priority light by one refinement pass.
func (w *Worker) doWork() {
	var best *light.Description
	var bestInfo *lightInfo
	for _, l := range w.lights {
		li := w.infoFor(l)
		if !li.hasWorkToDo() {
			continue
		}
		if best == nil || w.lowerPriority(bestInfo, best, li, l) {
			best = l
			bestInfo = li
		}
	}
	if best != nil {
		w.calculateForLight(best)
		if bestInfo.totalContribution != 0 {
			w.resultChanged = true
		}
	}
}
