// Package viewmatrix builds the camera transform the G-buffer rasterizer
// uses: a look-at view matrix plus a perspective projection onto the pixel
// grid.
package viewmatrix

import (
	"math"

	"lightpreview/internal/mathutil"
)

// Camera is a positioned perspective camera over a fixed output size.
type Camera struct {
	Eye    mathutil.Vec3
	View   mathutil.Mat4
	Width  int
	Height int

	focal float64
	near  float64
}

// LookAt builds a camera at eye facing target. up is a hint; a degenerate
// frame (eye on target, up parallel to view) falls back to the identity
// orientation.
func LookAt(eye, target, up mathutil.Vec3, fovDeg float64, width, height int) *Camera {
	back := eye.Sub(target).Normalize()
	right := up.Cross(back).Normalize()
	if back.Len() == 0 || right.Len() == 0 {
		back = mathutil.Vec3{0, 0, 1}
		right = mathutil.Vec3{1, 0, 0}
	}
	camUp := back.Cross(right)

	r := mathutil.Mat3{
		right[0], right[1], right[2],
		camUp[0], camUp[1], camUp[2],
		back[0], back[1], back[2],
	}
	view := mathutil.FromMat3Translation(r, r.MulVec3(eye).Scale(-1))

	halfFOV := mathutil.Deg2Rad(fovDeg / 2)
	return &Camera{
		Eye:    eye,
		View:   view,
		Width:  width,
		Height: height,
		focal:  float64(height) / 2 / math.Tan(halfFOV),
		near:   0.1,
	}
}

// Orbit places an eye at distance dist from target, rotated yawDeg about
// the Y axis and pitchDeg about the X axis from the +Z viewing direction.
func Orbit(target mathutil.Vec3, dist, yawDeg, pitchDeg float64) mathutil.Vec3 {
	r := mathutil.Mat3Mul(
		mathutil.RotY(mathutil.Deg2Rad(yawDeg)),
		mathutil.RotX(mathutil.Deg2Rad(pitchDeg)),
	)
	return target.Add(r.MulVec3(mathutil.Vec3{0, 0, dist}))
}

// Project transforms a world point to pixel coordinates and camera depth.
// ok is false for points at or behind the near plane.
func (c *Camera) Project(v mathutil.Vec3) (px, py, depth float64, ok bool) {
	t := c.View.MulPoint(v)
	depth = -t[2]
	if depth <= c.near {
		return 0, 0, depth, false
	}
	f := c.focal / depth
	px = float64(c.Width)/2 + t[0]*f
	py = float64(c.Height)/2 - t[1]*f
	return px, py, depth, true
}

// ProjectVertices transforms world vertices to screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, camera depth); vertices
// behind the near plane get a non-positive pz.
func (c *Camera) ProjectVertices(verts []mathutil.Vec3) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, v := range verts {
		x, y, d, ok := c.Project(v)
		if !ok {
			pz[i] = 0
			continue
		}
		px[i], py[i], pz[i] = x, y, d
	}
	return px, py, pz
}
