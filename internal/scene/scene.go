// Package scene parses the JSON scene files the offline harness feeds to
// the previewer: an eye position, an occluder triangle soup, and a light
// list.
package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"lightpreview/internal/light"
	"lightpreview/internal/mathutil"
)

// Scene is the decoded scene file.
type Scene struct {
	Eye       [3]float64   `json:"eye"`
	Triangles [][9]float64 `json:"triangles"`
	Lights    []LightDef   `json:"lights"`
}

// LightDef is one light entry. Kind selects which fields apply.
type LightDef struct {
	ID        int        `json:"id"`
	Kind      string     `json:"kind"` // directional, point, spot, ambient
	Position  [3]float64 `json:"position"`
	Direction [3]float64 `json:"direction"`
	Color     [3]float64 `json:"color"`
	Atten     [3]float64 `json:"atten"` // constant, linear, quadratic
	InnerDeg  float64    `json:"inner_deg"`
	OuterDeg  float64    `json:"outer_deg"`
	Exponent  float64    `json:"exponent"`
}

// Load reads and decodes a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return &s, nil
}

// EyeVec returns the eye position as a vector.
func (s *Scene) EyeVec() mathutil.Vec3 {
	return mathutil.Vec3(s.Eye)
}

// TriangleSoup flattens the triangle list into the vertex-triple sequence
// the previewer consumes.
func (s *Scene) TriangleSoup() []mathutil.Vec3 {
	out := make([]mathutil.Vec3, 0, len(s.Triangles)*3)
	for _, t := range s.Triangles {
		out = append(out,
			mathutil.Vec3{t[0], t[1], t[2]},
			mathutil.Vec3{t[3], t[4], t[5]},
			mathutil.Vec3{t[6], t[7], t[8]},
		)
	}
	return out
}

// BuildLights converts the light entries to descriptions. Unknown kinds are
// an error.
func (s *Scene) BuildLights() ([]*light.Description, error) {
	out := make([]*light.Description, 0, len(s.Lights))
	for i, d := range s.Lights {
		var l *light.Description
		switch d.Kind {
		case "directional":
			l = light.NewDirectional(d.ID, mathutil.Vec3(d.Direction), mathutil.Vec3(d.Color))
		case "point":
			c, ln, q := d.Atten[0], d.Atten[1], d.Atten[2]
			if c == 0 && ln == 0 && q == 0 {
				c = 1
			}
			l = light.NewPoint(d.ID, mathutil.Vec3(d.Position), mathutil.Vec3(d.Color), c, ln, q)
		case "spot":
			l = light.NewSpot(d.ID, mathutil.Vec3(d.Position), mathutil.Vec3(d.Direction), mathutil.Vec3(d.Color),
				d.InnerDeg*math.Pi/180, d.OuterDeg*math.Pi/180, d.Exponent)
		case "ambient":
			l = light.NewAmbient(d.ID, mathutil.Vec3(d.Color))
		default:
			return nil, fmt.Errorf("scene: light %d: unknown kind %q", i, d.Kind)
		}
		out = append(out, l)
	}
	return out, nil
}
