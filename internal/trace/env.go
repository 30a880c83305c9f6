// Package trace holds the ray-tracing environment the shadow sampler queries:
// a triangle soup with a lazily built bounding-volume hierarchy and a
// four-ray trace entry point.
package trace

import (
	"math"
	"sort"

	"lightpreview/internal/mathutil"
)

// Environment collects triangles and answers shadow queries against them.
// Build the acceleration structure once after the last AddTriangle; tracing
// an unbuilt or empty environment reports all misses.
type Environment struct {
	tris  []Triangle
	nodes []bvhNode
	order []int32 // triangle indices in leaf order
	built bool
}

type bvhNode struct {
	lo, hi mathutil.Vec3
	// leaf when count > 0: [first, first+count) indexes into order.
	// interior: left child at self+1, right child at right.
	first, count int32
	right        int32
}

const leafSize = 4

// AddTriangle appends one occluder. Invalidates any built structure.
func (e *Environment) AddTriangle(id int, v0, v1, v2, color mathutil.Vec3) {
	e.tris = append(e.tris, Triangle{ID: id, V0: v0, V1: v1, V2: v2, Color: color})
	e.built = false
}

// TriangleCount returns the number of occluders added.
func (e *Environment) TriangleCount() int {
	return len(e.tris)
}

// BuildAccelerationStructure constructs the BVH. Idempotent; a second call
// after no new triangles is a no-op.
func (e *Environment) BuildAccelerationStructure() {
	if e.built {
		return
	}
	e.nodes = e.nodes[:0]
	e.order = make([]int32, len(e.tris))
	for i := range e.order {
		e.order[i] = int32(i)
	}
	if len(e.tris) > 0 {
		e.buildNode(0, len(e.tris))
	}
	e.built = true
}

// buildNode splits order[first:first+count] at the median of the longest
// bounds axis, recursing depth-first so the left child is always self+1.
func (e *Environment) buildNode(first, count int) int32 {
	self := int32(len(e.nodes))
	e.nodes = append(e.nodes, bvhNode{})

	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, ti := range e.order[first : first+count] {
		tlo, thi := e.tris[ti].bounds()
		lo = lo.Min(tlo)
		hi = hi.Max(thi)
	}

	if count <= leafSize {
		e.nodes[self] = bvhNode{lo: lo, hi: hi, first: int32(first), count: int32(count)}
		return self
	}

	span := hi.Sub(lo)
	axis := 0
	if span[1] > span[axis] {
		axis = 1
	}
	if span[2] > span[axis] {
		axis = 2
	}
	seg := e.order[first : first+count]
	sort.Slice(seg, func(a, b int) bool {
		return e.tris[seg[a]].centroid()[axis] < e.tris[seg[b]].centroid()[axis]
	})
	mid := count / 2

	e.buildNode(first, mid)
	right := e.buildNode(first+mid, count-mid)
	e.nodes[self] = bvhNode{lo: lo, hi: hi, right: right}
	return self
}

// slab test against node bounds; returns false when the ray cannot hit the
// box closer than tBest.
func (n *bvhNode) hitBox(origin, invDir mathutil.Vec3, tBest float64) bool {
	tMin, tMax := 0.0, tBest
	for a := 0; a < 3; a++ {
		t1 := (n.lo[a] - origin[a]) * invDir[a]
		t2 := (n.hi[a] - origin[a]) * invDir[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}

// traceOne walks the BVH for a single ray and returns the nearest hit id
// and distance within [tMin, tMax], or (-1, tMax) on a miss.
func (e *Environment) traceOne(origin, dir mathutil.Vec3, tMin, tMax float64) (int32, float64) {
	if !e.built || len(e.nodes) == 0 {
		return -1, tMax
	}
	invDir := mathutil.Vec3{safeInv(dir[0]), safeInv(dir[1]), safeInv(dir[2])}

	bestID := int32(-1)
	bestT := tMax
	var stack [64]int32
	sp := 0
	stack[sp] = 0
	sp++
	for sp > 0 {
		sp--
		ni := stack[sp]
		n := &e.nodes[ni]
		if !n.hitBox(origin, invDir, bestT) {
			continue
		}
		if n.count > 0 {
			for _, ti := range e.order[n.first : n.first+n.count] {
				tri := &e.tris[ti]
				d := tri.intersect(origin, dir)
				if d >= tMin && d < bestT {
					bestT = d
					bestID = int32(tri.ID)
				}
			}
			continue
		}
		stack[sp] = n.right
		sp++
		stack[sp] = ni + 1
		sp++
	}
	return bestID, bestT
}

func safeInv(v float64) float64 {
	if v == 0 {
		return math.Inf(1)
	}
	return 1.0 / v
}

// Trace4 traces four rays with shared [tMin, tMax] interval. Lane i of ids
// is the nearest hit triangle id or -1 on a miss; dist holds the hit
// distance (tMax where missed).
func (e *Environment) Trace4(origin, dir mathutil.FourVec, tMin, tMax float64) (ids [4]int32, dist mathutil.Lane4) {
	for i := 0; i < 4; i++ {
		ids[i], dist[i] = e.traceOne(origin.Vec(i), dir.Vec(i), tMin, tMax)
	}
	return ids, dist
}
