package preview

import (
	"lightpreview/internal/bitmap"
	"lightpreview/internal/gbuffer"
	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
)

// MessageKind discriminates host-to-worker messages.
type MessageKind int

const (
	// MsgExit terminates the worker.
	MsgExit MessageKind = iota
	// MsgSetLights replaces the light list.
	MsgSetLights
	// MsgSetGeometry replaces the occluder triangle soup.
	MsgSetGeometry
	// MsgSetGBuffers replaces the deferred G-buffers.
	MsgSetGBuffers
)

// Message is one host-to-worker request. Payload fields are read according
// to Kind; ownership of slices and images transfers to the worker.
type Message struct {
	Kind MessageKind

	// MsgSetLights
	Lights []*light.Description

	// MsgSetLights, MsgSetGBuffers
	Eye mathutil.Vec3

	// MsgSetGeometry: flat triangle soup, three vertices per triangle.
	// Empty means no geometry.
	Triangles []mathutil.Vec3

	// MsgSetGBuffers
	Positions *gbuffer.Image
	Normals   *gbuffer.Image
	Albedo    *gbuffer.Image

	// MsgSetGBuffers: carried through to the matching DisplayResult so the
	// host can drop stale frames.
	Generation int
}

// Result is one worker-to-host display update. The bitmap is owned by the
// receiver.
type Result struct {
	Bitmap     *bitmap.Image
	Generation int
}
