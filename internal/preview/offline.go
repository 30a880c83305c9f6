package preview

import (
	"fmt"

	"lightpreview/internal/bitmap"
	"lightpreview/internal/gbuffer"
	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
)

// RenderScene drives a worker to full convergence on a fixed scene and
// returns the final composited bitmap. The worker is driven from the calling
// goroutine without starting Run; the incremental send pacing is bypassed.
func RenderScene(eye mathutil.Vec3, triangles []mathutil.Vec3, lights []*light.Description,
	positions, normals, albedo *gbuffer.Image) (*bitmap.Image, error) {

	if len(triangles) == 0 || len(triangles)%3 != 0 {
		return nil, fmt.Errorf("preview: scene needs a whole number of triangles, got %d vertices", len(triangles))
	}
	if len(lights) == 0 {
		return nil, fmt.Errorf("preview: scene has no lights")
	}

	in := make(chan Message, 4)
	out := make(chan Result, 1)
	w := New(in, out)

	in <- Message{Kind: MsgSetGeometry, Triangles: triangles}
	if w.handleMessage() || w.env == nil {
		return nil, fmt.Errorf("preview: rejected geometry")
	}
	in <- Message{Kind: MsgSetLights, Lights: lights, Eye: eye}
	w.handleMessage()

	w.NoteGBufferQueued()
	in <- Message{
		Kind:      MsgSetGBuffers,
		Eye:       eye,
		Positions: positions,
		Normals:   normals,
		Albedo:    albedo,
	}
	w.handleMessage()
	if w.albedos.Empty() {
		return nil, fmt.Errorf("preview: rejected G-buffers")
	}

	for w.anyUsefulWork() {
		w.doWork()
	}
	w.sendResult()
	r := <-out
	return r.Bitmap, nil
}
