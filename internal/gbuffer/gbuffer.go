// Package gbuffer holds the deferred-shading inputs the previewer consumes:
// per-pixel world position, surface normal, and albedo as RGBA float
// bitmaps.
package gbuffer

// Image is an RGBA-interleaved float bitmap. Alpha is carried but ignored
// by the previewer.
type Image struct {
	Width  int
	Height int
	Pix    []float32 // len = Width*Height*4
}

// New allocates a zeroed image.
func New(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]float32, w*h*4)}
}

// Valid reports whether the pixel slice matches the declared dimensions.
func (im *Image) Valid() bool {
	return im != nil && im.Width >= 0 && im.Height >= 0 && len(im.Pix) == im.Width*im.Height*4
}

// Set stores an RGB value at x, y with alpha 1.
func (im *Image) Set(x, y int, r, g, b float32) {
	i := (y*im.Width + x) * 4
	im.Pix[i] = r
	im.Pix[i+1] = g
	im.Pix[i+2] = b
	im.Pix[i+3] = 1
}

// SameDims reports whether all images share identical dimensions.
func SameDims(images ...*Image) bool {
	for i := 1; i < len(images); i++ {
		if images[i].Width != images[0].Width || images[i].Height != images[0].Height {
			return false
		}
	}
	return true
}
