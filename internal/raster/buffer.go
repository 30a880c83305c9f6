// Package raster fills G-buffer layers from camera-projected triangle
// soups: per-pixel world position, face normal, and albedo behind a depth
// test. The previewer lights these layers; this package never shades.
package raster

import (
	"math"

	"lightpreview/internal/gbuffer"
)

// Target holds the G-buffer layers under construction plus the depth
// buffer that resolves visibility.
type Target struct {
	Width     int
	Height    int
	Positions *gbuffer.Image
	Normals   *gbuffer.Image
	Albedo    *gbuffer.Image
	ZBuf      []float64 // camera depth per pixel, initialized to +inf
}

// NewTarget allocates zeroed layers and a +inf z-buffer. Uncovered pixels
// keep a zero normal, which the lighting pass treats as unlit.
func NewTarget(w, h int) *Target {
	zbuf := make([]float64, w*h)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}
	return &Target{
		Width:     w,
		Height:    h,
		Positions: gbuffer.New(w, h),
		Normals:   gbuffer.New(w, h),
		Albedo:    gbuffer.New(w, h),
		ZBuf:      zbuf,
	}
}
