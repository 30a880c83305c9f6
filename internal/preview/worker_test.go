package preview

import (
	"testing"
	"time"

	"lightpreview/internal/gbuffer"
	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
	"lightpreview/internal/schedule"
)

func testWorker() *Worker {
	w := New(make(chan Message, 16), make(chan Result, 16))
	base := time.Unix(1000, 0)
	w.now = func() time.Time { return base }
	return w
}

// apply enqueues one message and lets the worker consume it.
func apply(w *Worker, msg Message) {
	w.in <- msg
	w.handleMessage()
}

// flatGBuffers builds a z=0 plane facing +z with unit albedo.
func flatGBuffers(wd, ht int) (pos, nrm, alb *gbuffer.Image) {
	pos = gbuffer.New(wd, ht)
	nrm = gbuffer.New(wd, ht)
	alb = gbuffer.New(wd, ht)
	for y := 0; y < ht; y++ {
		for x := 0; x < wd; x++ {
			pos.Set(x, y, float32(x), float32(y), 0)
			nrm.Set(x, y, 0, 0, 1)
			alb.Set(x, y, 1, 1, 1)
		}
	}
	return pos, nrm, alb
}

// farTriangle is an occluder far below the scene, present so shadow tracing
// is exercised without ever blocking a ray.
func farTriangle() []mathutil.Vec3 {
	return []mathutil.Vec3{
		{-1, -1, -10000}, {1, -1, -10000}, {0, 1, -10000},
	}
}

// blockerQuad spans [-100,100]^2 at the given z.
func blockerQuad(z float64) []mathutil.Vec3 {
	return []mathutil.Vec3{
		{-100, -100, z}, {100, -100, z}, {100, 100, z},
		{-100, -100, z}, {100, 100, z}, {-100, 100, z},
	}
}

// drainWork runs refinement units until none remain, with a hard cap so a
// scheduling bug cannot hang the test.
func drainWork(t *testing.T, w *Worker) int {
	t.Helper()
	limit := len(w.lights)*schedule.Steps + 1
	units := 0
	for w.anyUsefulWork() {
		if units > limit {
			t.Fatalf("work did not terminate within %d units", limit)
		}
		w.doWork()
		units++
	}
	return units
}

func setupScene(w *Worker, tris []mathutil.Vec3, lights []*light.Description, wd, ht int, gen int) {
	eye := mathutil.Vec3{0, 0, 20}
	apply(w, Message{Kind: MsgSetGeometry, Triangles: tris})
	apply(w, Message{Kind: MsgSetLights, Lights: lights, Eye: eye})
	pos, nrm, alb := flatGBuffers(wd, ht)
	w.NoteGBufferQueued()
	apply(w, Message{
		Kind:       MsgSetGBuffers,
		Eye:        eye,
		Positions:  pos,
		Normals:    nrm,
		Albedo:     alb,
		Generation: gen,
	})
}

func TestUnshadowedDirectionalFillsRed(t *testing.T) {
	w := testWorker()
	red := light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 0, 0})
	setupScene(w, farTriangle(), []*light.Description{red}, 4, 4, 7)

	drainWork(t, w)

	li := w.infos[1]
	if li.state != StateFullResults {
		t.Fatalf("state = %v, want full", li.state)
	}
	if li.stage != schedule.Steps-1 {
		t.Fatalf("stage = %d", li.stage)
	}
	if li.totalContribution <= 0 {
		t.Fatalf("totalContribution = %v", li.totalContribution)
	}

	w.sendResult()
	r := <-w.out
	if r.Generation != 7 {
		t.Fatalf("generation = %d, want 7", r.Generation)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			b, g, rr, a := r.Bitmap.At(x, y)
			if rr != 255 {
				t.Fatalf("(%d,%d) red = %d, want saturated", x, y, rr)
			}
			if g != 0 || b != 0 {
				t.Fatalf("(%d,%d) green/blue = %d/%d, want 0", x, y, g, b)
			}
			if a != 0 {
				t.Fatalf("(%d,%d) alpha = %d, want 0", x, y, a)
			}
		}
	}
}

func TestFullyOccludedLightContributesNothing(t *testing.T) {
	w := testWorker()
	l := light.NewPoint(1, mathutil.Vec3{1.5, 1.5, 10}, mathutil.Vec3{1, 1, 1}, 1, 0, 0)
	setupScene(w, blockerQuad(5), []*light.Description{l}, 4, 4, 0)

	drainWork(t, w)

	li := w.infos[1]
	if li.state != StateFullResults {
		t.Fatalf("state = %v, want full", li.state)
	}
	if li.totalContribution != 0 {
		t.Fatalf("totalContribution = %v, want 0", li.totalContribution)
	}
	if !li.contribution.Empty() {
		t.Fatal("contribution image should be freed")
	}

	// only the ambient term reaches the display image
	w.sendResult()
	r := <-w.out
	b, g, rr, _ := r.Bitmap.At(2, 2)
	if b != g || g != rr {
		t.Fatalf("ambient-only pixel should be gray, got b=%d g=%d r=%d", b, g, rr)
	}
	if rr > 80 {
		t.Fatalf("ambient-only pixel too bright: %d", rr)
	}
}

func TestNewLightInsideViewGoesFirst(t *testing.T) {
	w := testWorker()
	inView := light.NewPoint(1, mathutil.Vec3{1, 1, 1}, mathutil.Vec3{1, 1, 1}, 1, 0, 0)
	outView := light.NewPoint(2, mathutil.Vec3{500, 0, 0}, mathutil.Vec3{1, 1, 1}, 1, 0, 0)
	setupScene(w, farTriangle(), []*light.Description{outView, inView}, 4, 4, 0)

	w.doWork()

	if w.infos[1].state == StateNew {
		t.Fatal("in-view light should have been refined first")
	}
	if w.infos[2].state != StateNew {
		t.Fatalf("out-of-view light advanced first: %v", w.infos[2].state)
	}
}

func TestGBufferReplaceDiscardsResults(t *testing.T) {
	w := testWorker()
	l := light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 1, 1})
	setupScene(w, farTriangle(), []*light.Description{l}, 8, 8, 0)

	w.doWork()
	w.doWork()
	if w.infos[1].state != StatePartialResults {
		t.Fatalf("state = %v, want partial", w.infos[1].state)
	}

	pos, nrm, alb := flatGBuffers(16, 16)
	w.NoteGBufferQueued()
	apply(w, Message{Kind: MsgSetGBuffers, Positions: pos, Normals: nrm, Albedo: alb, Generation: 1})

	li := w.infos[1]
	if li.state != StateNoResults {
		t.Fatalf("state = %v, want no-results after replace", li.state)
	}
	if !li.contribution.Empty() {
		t.Fatal("contribution image should be cleared")
	}
	if !w.anyUsefulWork() {
		t.Fatal("replacement G-buffers should re-open work")
	}
}

func TestStageZeroReplicatesComputedLine(t *testing.T) {
	w := testWorker()
	l := light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 0, 0})
	setupScene(w, farTriangle(), []*light.Description{l}, 4, 32, 0)

	w.doWork()
	li := w.infos[1]
	if li.state != StatePartialResults || li.stage != 0 {
		t.Fatalf("state/stage = %v/%d, want partial/0", li.state, li.stage)
	}

	w.sendResult()
	r := <-w.out
	_, _, r0, _ := r.Bitmap.At(0, 0)
	if r0 == 0 {
		t.Fatal("computed row should be lit")
	}
	for y := 1; y < 32; y++ {
		for x := 0; x < 4; x++ {
			b0, g0, rr0, _ := r.Bitmap.At(x, 0)
			b, g, rr, _ := r.Bitmap.At(x, y)
			if b != b0 || g != g0 || rr != rr0 {
				t.Fatalf("row %d differs from computed row 0 at x=%d", y, x)
			}
		}
	}
}

func TestLightIDStabilityAcrossSetLights(t *testing.T) {
	w := testWorker()
	l1 := light.NewPoint(7, mathutil.Vec3{1.5, 1.5, 5}, mathutil.Vec3{1, 1, 1}, 1, 0, 0)
	setupScene(w, farTriangle(), []*light.Description{l1}, 4, 4, 0)

	drainWork(t, w)
	if w.infos[7].totalContribution <= 0 {
		t.Fatalf("expected positive contribution, got %v", w.infos[7].totalContribution)
	}
	savedTotal := w.infos[7].totalContribution

	l2 := light.NewPoint(9, mathutil.Vec3{0, 0, 5}, mathutil.Vec3{1, 1, 1}, 1, 0, 0)
	apply(w, Message{Kind: MsgSetLights, Lights: []*light.Description{l2, l1}, Eye: mathutil.Vec3{0, 0, 20}})

	if got := w.infos[7].state; got != StateNoResults {
		t.Fatalf("returning light state = %v, want no-results", got)
	}
	if w.infos[7].totalContribution != savedTotal {
		t.Fatalf("returning light lost its contribution: %v", w.infos[7].totalContribution)
	}
	if got := w.infos[9].state; got != StateNew {
		t.Fatalf("new light state = %v, want new", got)
	}
}

func TestSetLightsTwiceIsIdempotent(t *testing.T) {
	w := testWorker()
	lights := []*light.Description{
		light.NewPoint(1, mathutil.Vec3{1, 1, 1}, mathutil.Vec3{1, 1, 1}, 1, 0, 0),
		light.NewAmbient(2, mathutil.Vec3{0.1, 0.1, 0.1}),
	}
	apply(w, Message{Kind: MsgSetLights, Lights: lights})
	apply(w, Message{Kind: MsgSetLights, Lights: lights})

	if len(w.infos) != 2 {
		t.Fatalf("registry has %d entries, want 2", len(w.infos))
	}
	for id, li := range w.infos {
		if li.state != StateNew && li.state != StateNoResults {
			t.Fatalf("light %d state = %v after set", id, li.state)
		}
		if !li.contribution.Empty() {
			t.Fatalf("light %d has a stale contribution image", id)
		}
	}
}

func TestWorkTerminatesWithinBound(t *testing.T) {
	w := testWorker()
	lights := []*light.Description{
		light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 1, 1}),
		light.NewPoint(2, mathutil.Vec3{2, 2, 8}, mathutil.Vec3{1, 1, 1}, 1, 0, 0),
	}
	setupScene(w, farTriangle(), lights, 4, 4, 0)

	units := drainWork(t, w)
	if units > 2*schedule.Steps {
		t.Fatalf("took %d units, bound is %d", units, 2*schedule.Steps)
	}
	for id, li := range w.infos {
		if li.state != StateFullResults {
			t.Fatalf("light %d state = %v, want full", id, li.state)
		}
	}
}

func TestMalformedGeometryIsDropped(t *testing.T) {
	w := testWorker()
	l := light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 1, 1})
	setupScene(w, farTriangle(), []*light.Description{l}, 4, 4, 0)
	w.doWork()
	if w.infos[1].state != StatePartialResults {
		t.Fatalf("state = %v", w.infos[1].state)
	}

	// not a multiple of three vertices
	apply(w, Message{Kind: MsgSetGeometry, Triangles: []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}}})

	if w.env == nil {
		t.Fatal("malformed geometry should leave the environment alone")
	}
	if w.infos[1].state != StatePartialResults {
		t.Fatalf("malformed geometry discarded results: %v", w.infos[1].state)
	}
}

func TestMismatchedGBuffersAreDropped(t *testing.T) {
	w := testWorker()
	l := light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 1, 1})
	setupScene(w, farTriangle(), []*light.Description{l}, 4, 4, 0)
	w.doWork()

	pos, nrm, _ := flatGBuffers(4, 4)
	_, _, smallAlb := flatGBuffers(2, 2)
	w.NoteGBufferQueued()
	apply(w, Message{Kind: MsgSetGBuffers, Positions: pos, Normals: nrm, Albedo: smallAlb, Generation: 5})

	if w.albedos.Width != 4 {
		t.Fatalf("albedo matrix replaced by mismatched input: width %d", w.albedos.Width)
	}
	if w.infos[1].state != StatePartialResults {
		t.Fatalf("mismatched G-buffers discarded results: %v", w.infos[1].state)
	}
}

func TestDiscardResultsForcesNextSend(t *testing.T) {
	w := testWorker()
	w.discardResults()
	if !w.resultChanged {
		t.Fatal("discard should mark the result dirty")
	}
	if got := w.now().Sub(w.lastSend); got != sendInterval-forceSendSlack {
		t.Fatalf("send backoff after discard = %v, want %v", got, sendInterval-forceSendSlack)
	}
}

func TestPendingGBufferCounter(t *testing.T) {
	w := testWorker()
	w.NoteGBufferQueued()
	w.NoteGBufferQueued()
	if got := w.PendingGBuffers(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	pos, nrm, alb := flatGBuffers(2, 2)
	apply(w, Message{Kind: MsgSetGBuffers, Positions: pos, Normals: nrm, Albedo: alb})
	if got := w.PendingGBuffers(); got != 1 {
		t.Fatalf("pending = %d, want 1 after processing", got)
	}
}

func TestSceneBoundsIncludeEye(t *testing.T) {
	w := testWorker()
	l := light.NewAmbient(1, mathutil.Vec3{1, 1, 1})
	setupScene(w, farTriangle(), []*light.Description{l}, 4, 4, 0)

	if w.maxView[2] < 20 {
		t.Fatalf("bounds should reach the eye: max = %v", w.maxView)
	}
	if w.minView[0] > 0 || w.minView[2] > 0 {
		t.Fatalf("bounds should cover the surface: min = %v", w.minView)
	}
}

func TestHostDrainDropsStaleGenerations(t *testing.T) {
	out := make(chan Result, 8)
	h := &Host{}

	a := Result{Bitmap: nil, Generation: 1}
	b := Result{Bitmap: nil, Generation: 2}
	out <- a
	out <- b
	out <- a // stale
	if !h.Drain(out) {
		t.Fatal("drain should report an update")
	}
	if h.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", h.Generation())
	}
	if h.Drain(out) {
		t.Fatal("empty queue should not report an update")
	}
}

func TestRunLoopEndToEnd(t *testing.T) {
	in := make(chan Message, 16)
	out := make(chan Result, 16)
	w := Start(in, out)

	eye := mathutil.Vec3{0, 0, 20}
	in <- Message{Kind: MsgSetGeometry, Triangles: farTriangle()}
	in <- Message{Kind: MsgSetLights, Eye: eye, Lights: []*light.Description{
		light.NewDirectional(1, mathutil.Vec3{0, 0, -1}, mathutil.Vec3{1, 1, 1}),
	}}
	pos, nrm, alb := flatGBuffers(4, 4)
	w.NoteGBufferQueued()
	in <- Message{Kind: MsgSetGBuffers, Eye: eye, Positions: pos, Normals: nrm, Albedo: alb, Generation: 3}

	select {
	case r := <-out:
		if r.Generation != 3 {
			t.Fatalf("generation = %d, want 3", r.Generation)
		}
		if r.Bitmap == nil || r.Bitmap.Width != 4 {
			t.Fatalf("unexpected bitmap: %+v", r.Bitmap)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no result within 10s")
	}
	in <- Message{Kind: MsgExit}
}
