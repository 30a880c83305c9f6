// Package vecmat provides a dense 2D grid of three-channel float values laid
// out in groups of four horizontally adjacent pixels, the shape the lighting
// kernels consume.
package vecmat

import (
	"lightpreview/internal/mathutil"
)

// Matrix is a width×height grid of vec3 stored as rows of 4-wide groups.
// A zero Width marks an empty matrix. Assignment shares storage; use Clone
// when an independent copy is needed.
type Matrix struct {
	Width       int
	Height      int
	PaddedWidth int // groups per row, ceil(Width/4)
	Groups      []mathutil.FourVec
}

// SetSize resizes to w×h. Contents are preserved when the dimensions are
// unchanged and zeroed otherwise. SetSize(0, 0) empties the matrix and
// releases its storage.
func (m *Matrix) SetSize(w, h int) {
	if w == m.Width && h == m.Height && m.Groups != nil {
		return
	}
	m.Width = w
	m.Height = h
	if w <= 0 || h <= 0 {
		m.Width = 0
		m.Height = 0
		m.PaddedWidth = 0
		m.Groups = nil
		return
	}
	m.PaddedWidth = (w + 3) / 4
	m.Groups = make([]mathutil.FourVec, m.PaddedWidth*h)
}

// Empty reports whether the matrix holds no storage.
func (m *Matrix) Empty() bool {
	return m.Width == 0
}

// Group returns the group at group-column gx, row y.
func (m *Matrix) Group(gx, y int) *mathutil.FourVec {
	return &m.Groups[y*m.PaddedWidth+gx]
}

// Element returns the single pixel at x, y.
func (m *Matrix) Element(x, y int) mathutil.Vec3 {
	return m.Group(x/4, y).Vec(x & 3)
}

// SetElement stores v at pixel x, y.
func (m *Matrix) SetElement(x, y int, v mathutil.Vec3) {
	m.Group(x/4, y).SetVec(x&3, v)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() Matrix {
	out := Matrix{Width: m.Width, Height: m.Height, PaddedWidth: m.PaddedWidth}
	if len(m.Groups) > 0 {
		out.Groups = make([]mathutil.FourVec, len(m.Groups))
		copy(out.Groups, m.Groups)
	}
	return out
}

// FromRGBAFloat fills the matrix from interleaved RGBA float data, dropping
// alpha. Padding lanes beyond the real width are set to pad, so folds over
// the padded width see representative values.
func (m *Matrix) FromRGBAFloat(w, h int, data []float32, pad mathutil.Vec3) {
	m.SetSize(w, h)
	for y := 0; y < h; y++ {
		for gx := 0; gx < m.PaddedWidth; gx++ {
			g := m.Group(gx, y)
			for lane := 0; lane < 4; lane++ {
				x := gx*4 + lane
				if x >= w {
					g.SetVec(lane, pad)
					continue
				}
				i := (y*w + x) * 4
				g.SetVec(lane, mathutil.Vec3{
					float64(data[i]),
					float64(data[i+1]),
					float64(data[i+2]),
				})
			}
		}
	}
}

// MulVec scales every element (padding lanes included) by v.
func (m *Matrix) MulVec(v mathutil.Vec3) {
	f := mathutil.DupVec3(v)
	for i := range m.Groups {
		m.Groups[i] = m.Groups[i].Mul(f)
	}
}

// MulMatrix multiplies element-wise by o, which must have identical
// dimensions.
func (m *Matrix) MulMatrix(o *Matrix) {
	for i := range m.Groups {
		m.Groups[i] = m.Groups[i].Mul(o.Groups[i])
	}
}

// AddMatrix adds o element-wise; dimensions must match.
func (m *Matrix) AddMatrix(o *Matrix) {
	for i := range m.Groups {
		m.Groups[i] = m.Groups[i].Add(o.Groups[i])
	}
}
