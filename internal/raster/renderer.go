package raster

import (
	"lightpreview/internal/gbuffer"
	"lightpreview/internal/mathutil"
	"lightpreview/internal/viewmatrix"
)

// RenderGBuffers projects a triangle soup through the camera and fills the
// three G-buffer layers the previewer consumes. verts is a flat sequence
// of vertex triples; albedo applies to every surface.
func RenderGBuffers(cam *viewmatrix.Camera, verts []mathutil.Vec3, albedo mathutil.Vec3) (positions, normals, alb *gbuffer.Image) {
	tg := NewTarget(cam.Width, cam.Height)

	px, py, pz := cam.ProjectVertices(verts)

	for i := 0; i+2 < len(verts); i += 3 {
		RasterizeTriangle(tg,
			[3]float64{px[i], px[i+1], px[i+2]},
			[3]float64{py[i], py[i+1], py[i+2]},
			[3]float64{pz[i], pz[i+1], pz[i+2]},
			[3]mathutil.Vec3{verts[i], verts[i+1], verts[i+2]},
			albedo,
		)
	}

	return tg.Positions, tg.Normals, tg.Albedo
}
