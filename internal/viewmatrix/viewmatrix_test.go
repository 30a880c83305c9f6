package viewmatrix

import (
	"math"
	"testing"

	"lightpreview/internal/mathutil"
)

func testCam() *Camera {
	return LookAt(mathutil.Vec3{0, 0, 10}, mathutil.Vec3{}, mathutil.Vec3{0, 1, 0}, 60, 16, 16)
}

func TestProjectCenter(t *testing.T) {
	c := testCam()
	px, py, depth, ok := c.Project(mathutil.Vec3{})
	if !ok {
		t.Fatal("target point should be visible")
	}
	if math.Abs(px-8) > 1e-9 || math.Abs(py-8) > 1e-9 {
		t.Errorf("target projects to (%v, %v), want image center", px, py)
	}
	if math.Abs(depth-10) > 1e-9 {
		t.Errorf("depth = %v, want 10", depth)
	}
}

func TestProjectScreenOrientation(t *testing.T) {
	c := testCam()
	_, pyUp, _, _ := c.Project(mathutil.Vec3{0, 1, 0})
	pxRight, _, _, _ := c.Project(mathutil.Vec3{1, 0, 0})
	if pyUp >= 8 {
		t.Errorf("world up projects to py=%v, want above center", pyUp)
	}
	if pxRight <= 8 {
		t.Errorf("world right projects to px=%v, want right of center", pxRight)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	c := testCam()
	if _, _, _, ok := c.Project(mathutil.Vec3{0, 0, 20}); ok {
		t.Error("point behind the eye should not project")
	}
	px, _, pz := c.ProjectVertices([]mathutil.Vec3{{0, 0, 20}, {0, 0, 0}})
	if pz[0] > 0 {
		t.Errorf("behind vertex pz = %v, want non-positive", pz[0])
	}
	if pz[1] <= 0 || px[1] != 8 {
		t.Errorf("visible vertex = (%v, depth %v)", px[1], pz[1])
	}
}

func TestPerspectiveShrinksWithDistance(t *testing.T) {
	c := testCam()
	pxNear, _, _, _ := c.Project(mathutil.Vec3{1, 0, 5})
	pxFar, _, _, _ := c.Project(mathutil.Vec3{1, 0, -20})
	if pxNear-8 <= pxFar-8 {
		t.Errorf("near offset %v should exceed far offset %v", pxNear-8, pxFar-8)
	}
}

func TestOrbit(t *testing.T) {
	target := mathutil.Vec3{1, 2, 3}

	eye := Orbit(target, 10, 0, 0)
	if !almostEq(eye, target.Add(mathutil.Vec3{0, 0, 10})) {
		t.Errorf("zero orbit eye = %v", eye)
	}

	eye = Orbit(target, 10, 90, 0)
	if !almostEq(eye, target.Add(mathutil.Vec3{10, 0, 0})) {
		t.Errorf("yaw 90 eye = %v", eye)
	}

	eye = Orbit(target, 10, 0, -90)
	if !almostEq(eye, target.Add(mathutil.Vec3{0, 10, 0})) {
		t.Errorf("pitch -90 eye = %v", eye)
	}
}

func TestLookAtDegenerateFallsBack(t *testing.T) {
	c := LookAt(mathutil.Vec3{}, mathutil.Vec3{}, mathutil.Vec3{0, 1, 0}, 60, 16, 16)
	_, _, depth, ok := c.Project(mathutil.Vec3{0, 0, -5})
	if !ok || math.Abs(depth-5) > 1e-9 {
		t.Errorf("fallback camera should look down -z, got depth %v ok %v", depth, ok)
	}
}

func almostEq(a, b mathutil.Vec3) bool {
	return a.DistTo(b) < 1e-9
}
