// Package light defines the externally supplied light descriptions and their
// unshadowed direct-radiance evaluation.
package light

import (
	"math"

	"lightpreview/internal/mathutil"
)

// Kind enumerates the supported light types.
type Kind int

const (
	Directional Kind = iota
	Point
	Spot
	Ambient
)

// Description is one light as supplied by the host. ObjectID is stable
// across light-list updates and keys the incremental state kept for it.
type Description struct {
	ObjectID int
	Kind     Kind

	Position  mathutil.Vec3
	Direction mathutil.Vec3 // unit; directionals and spots
	Color     mathutil.Vec3 // linear RGB, non-negative

	// point/spot distance attenuation: 1 / (C + L*d + Q*d*d)
	ConstantAtten  float64
	LinearAtten    float64
	QuadraticAtten float64

	// spot cone, cosines of the half-angles (inner >= outer) and the
	// falloff exponent between them
	CosInnerCone float64
	CosOuterCone float64
	Exponent     float64
}

// NewDirectional builds a directional light shining along dir.
func NewDirectional(id int, dir, color mathutil.Vec3) *Description {
	return &Description{
		ObjectID:  id,
		Kind:      Directional,
		Direction: dir.Normalize(),
		Color:     color,
	}
}

// NewPoint builds a point light with the given attenuation coefficients.
func NewPoint(id int, pos, color mathutil.Vec3, constant, linear, quadratic float64) *Description {
	return &Description{
		ObjectID:       id,
		Kind:           Point,
		Position:       pos,
		Color:          color,
		ConstantAtten:  constant,
		LinearAtten:    linear,
		QuadraticAtten: quadratic,
	}
}

// NewSpot builds a spot light; inner and outer are the cone half-angles in
// radians.
func NewSpot(id int, pos, dir, color mathutil.Vec3, inner, outer, exponent float64) *Description {
	return &Description{
		ObjectID:      id,
		Kind:          Spot,
		Position:      pos,
		Direction:     dir.Normalize(),
		Color:         color,
		ConstantAtten: 1,
		CosInnerCone:  math.Cos(inner),
		CosOuterCone:  math.Cos(outer),
		Exponent:      exponent,
	}
}

// NewAmbient builds a constant-term light.
func NewAmbient(id int, color mathutil.Vec3) *Description {
	return &Description{ObjectID: id, Kind: Ambient, Color: color}
}

// ComputeAtPoints evaluates unshadowed radiance for four surface points at
// once. Lanes the light cannot reach geometrically (behind a directional's
// plane, outside a spot cone) come back exactly zero so callers can
// early-out before tracing shadow rays.
func (d *Description) ComputeAtPoints(pos, normal mathutil.FourVec) mathutil.FourVec {
	var out mathutil.FourVec
	switch d.Kind {
	case Ambient:
		out = mathutil.DupVec3(d.Color)

	case Directional:
		for i := 0; i < 4; i++ {
			ndl := -normal.Vec(i).Dot(d.Direction)
			if ndl <= 0 {
				continue
			}
			out.SetVec(i, d.Color.Scale(ndl))
		}

	case Point, Spot:
		for i := 0; i < 4; i++ {
			toLight := d.Position.Sub(pos.Vec(i))
			dist := toLight.Len()
			if dist < 1e-12 {
				continue
			}
			ldir := toLight.Scale(1.0 / dist)
			ndl := normal.Vec(i).Dot(ldir)
			if ndl <= 0 {
				continue
			}
			atten := d.ConstantAtten + d.LinearAtten*dist + d.QuadraticAtten*dist*dist
			if atten < 1e-12 {
				atten = 1e-12
			}
			scale := ndl / atten
			if d.Kind == Spot {
				rho := -ldir.Dot(d.Direction)
				if rho <= d.CosOuterCone {
					continue
				}
				if rho < d.CosInnerCone {
					denom := d.CosInnerCone - d.CosOuterCone
					if denom < 1e-12 {
						denom = 1e-12
					}
					scale *= math.Pow((rho-d.CosOuterCone)/denom, d.Exponent)
				}
			}
			out.SetVec(i, d.Color.Scale(scale))
		}
	}
	return out
}
