package raster

import (
	"math"

	"lightpreview/internal/mathutil"
)

// RasterizeTriangle fills one triangle into the target: screen-space
// barycentric coverage, nearest-depth-wins, world position interpolated
// from the original vertices, flat face normal, constant albedo.
//
// This is the hot path. No allocations in the pixel loop.
func RasterizeTriangle(
	tg *Target,
	px, py, pz [3]float64,
	world [3]mathutil.Vec3,
	albedo mathutil.Vec3,
) {
	// Vertices at or behind the near plane carry a non-positive depth
	for _, z := range pz {
		if z <= 0 {
			return
		}
	}

	x0, y0, z0 := px[0], py[0], pz[0]
	x1, y1, z1 := px[1], py[1], pz[1]
	x2, y2, z2 := px[2], py[2], pz[2]

	// World-space face normal for flat shading downstream
	n := world[1].Sub(world[0]).Cross(world[2].Sub(world[0])).Normalize()
	if n.Len() == 0 {
		return
	}

	// Bounding box
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= tg.Width {
		maxX = tg.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= tg.Height {
		maxY = tg.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	nx, ny, nz := float32(n[0]), float32(n[1]), float32(n[2])
	ar, ag, ab := float32(albedo[0]), float32(albedo[1]), float32(albedo[2])

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * tg.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z >= tg.ZBuf[zIdx] {
				continue
			}
			tg.ZBuf[zIdx] = z

			wx := w0*world[0][0] + w1*world[1][0] + w2*world[2][0]
			wy := w0*world[0][1] + w1*world[1][1] + w2*world[2][1]
			wz := w0*world[0][2] + w1*world[1][2] + w2*world[2][2]

			tg.Positions.Set(sx, sy, float32(wx), float32(wy), float32(wz))
			tg.Normals.Set(sx, sy, nx, ny, nz)
			tg.Albedo.Set(sx, sy, ar, ag, ab)
		}
	}
}
