package mathutil

import "math"

// Lane4 holds one scalar per lane for a group of four horizontally
// adjacent pixels.
type Lane4 [4]float64

// FourVec is a structure-of-arrays group of four Vec3 values, the unit the
// lighting kernels operate on.
type FourVec struct {
	X, Y, Z Lane4
}

// DupVec3 broadcasts v into all four lanes.
func DupVec3(v Vec3) FourVec {
	return FourVec{
		X: Lane4{v[0], v[0], v[0], v[0]},
		Y: Lane4{v[1], v[1], v[1], v[1]},
		Z: Lane4{v[2], v[2], v[2], v[2]},
	}
}

// Vec returns lane i as a Vec3.
func (f FourVec) Vec(i int) Vec3 {
	return Vec3{f.X[i], f.Y[i], f.Z[i]}
}

// SetVec stores v into lane i.
func (f *FourVec) SetVec(i int, v Vec3) {
	f.X[i] = v[0]
	f.Y[i] = v[1]
	f.Z[i] = v[2]
}

func (f FourVec) Add(o FourVec) FourVec {
	for i := 0; i < 4; i++ {
		f.X[i] += o.X[i]
		f.Y[i] += o.Y[i]
		f.Z[i] += o.Z[i]
	}
	return f
}

func (f FourVec) Sub(o FourVec) FourVec {
	for i := 0; i < 4; i++ {
		f.X[i] -= o.X[i]
		f.Y[i] -= o.Y[i]
		f.Z[i] -= o.Z[i]
	}
	return f
}

func (f FourVec) Mul(o FourVec) FourVec {
	for i := 0; i < 4; i++ {
		f.X[i] *= o.X[i]
		f.Y[i] *= o.Y[i]
		f.Z[i] *= o.Z[i]
	}
	return f
}

// Scale multiplies every lane by s.
func (f FourVec) Scale(s float64) FourVec {
	for i := 0; i < 4; i++ {
		f.X[i] *= s
		f.Y[i] *= s
		f.Z[i] *= s
	}
	return f
}

// Length returns the per-lane euclidean magnitude.
func (f FourVec) Length() Lane4 {
	var out Lane4
	for i := 0; i < 4; i++ {
		out[i] = math.Sqrt(f.X[i]*f.X[i] + f.Y[i]*f.Y[i] + f.Z[i]*f.Z[i])
	}
	return out
}

// AllZero reports whether every component of every lane is exactly zero.
func (f FourVec) AllZero() bool {
	for i := 0; i < 4; i++ {
		if f.X[i] != 0 || f.Y[i] != 0 || f.Z[i] != 0 {
			return false
		}
	}
	return true
}

// ZeroLane clears every component of lane i.
func (f *FourVec) ZeroLane(i int) {
	f.X[i] = 0
	f.Y[i] = 0
	f.Z[i] = 0
}

// Normalized returns per-lane unit vectors alongside the original lengths.
// Zero-length lanes come back zero.
func (f FourVec) Normalized() (FourVec, Lane4) {
	ln := f.Length()
	for i := 0; i < 4; i++ {
		if ln[i] < 1e-12 {
			f.ZeroLane(i)
			continue
		}
		inv := 1.0 / ln[i]
		f.X[i] *= inv
		f.Y[i] *= inv
		f.Z[i] *= inv
	}
	return f, ln
}
