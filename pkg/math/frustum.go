// pkg/math/frustum.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// The view frustum is the truncated pyramid of space visible to the
// camera, represented by six inward-facing half-space planes in camera
// coordinates (camera at the origin looking down -z). A frustum may be
// infinite, in which case the far plane is absent and everything beyond
// the near plane that passes the side planes is visible.

// Indices of the frustum planes.
const (
	FrustumBottom = iota
	FrustumTop
	FrustumLeft
	FrustumRight
	FrustumNear
	FrustumFar
)

// Aspect classifies a point or sphere with respect to the frustum.
type Aspect int

const (
	Outside Aspect = iota
	Inside
	Intersect
)

func (a Aspect) String() string {
	switch a {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "intersect"
	}
}

// Plane is a half space given by Normal·p + D >= 0.
type Plane struct {
	Normal [3]float64
	D      float64
}

func (pl Plane) SignedDistance(p [3]float64) float64 {
	return Dot3d(pl.Normal, p) + pl.D
}

type Frustum struct {
	Planes   [6]Plane
	infinite bool
}

// MakeFrustum returns the view frustum for the given vertical field of
// view (radians), aspect ratio, and near/far plane distances. Degenerate
// (zero or negative) distances are a caller contract violation; the
// result is undefined but no error is raised.
func MakeFrustum(fovY float64, aspectRatio float64, nearDist, farDist float64) Frustum {
	f := makeFrustumCommon(fovY, aspectRatio, nearDist)
	f.Planes[FrustumFar] = Plane{Normal: [3]float64{0, 0, 1}, D: farDist}
	return f
}

// MakeInfiniteFrustum is like MakeFrustum but with no far plane.
func MakeInfiniteFrustum(fovY float64, aspectRatio float64, nearDist float64) Frustum {
	f := makeFrustumCommon(fovY, aspectRatio, nearDist)
	f.infinite = true
	return f
}

func makeFrustumCommon(fovY float64, aspectRatio float64, nearDist float64) Frustum {
	h := gomath.Tan(fovY / 2)
	w := h * aspectRatio

	var f Frustum
	f.Planes[FrustumBottom] = Plane{Normal: Normalize3d([3]float64{0, 1, -h})}
	f.Planes[FrustumTop] = Plane{Normal: Normalize3d([3]float64{0, -1, -h})}
	f.Planes[FrustumLeft] = Plane{Normal: Normalize3d([3]float64{1, 0, -w})}
	f.Planes[FrustumRight] = Plane{Normal: Normalize3d([3]float64{-1, 0, -w})}
	f.Planes[FrustumNear] = Plane{Normal: [3]float64{0, 0, -1}, D: -nearDist}
	return f
}

func (f *Frustum) nPlanes() int {
	if f.infinite {
		return 5
	}
	return 6
}

// Test classifies the given point: Inside if it is on the positive side
// of every plane, Outside otherwise. (A point is never Intersect.)
func (f *Frustum) Test(p [3]float64) Aspect {
	for i := 0; i < f.nPlanes(); i++ {
		if f.Planes[i].SignedDistance(p) < 0 {
			return Outside
		}
	}
	return Inside
}

// TestSphere classifies the sphere with the given center and radius:
// Outside if it is entirely on the negative side of any plane, Inside if
// entirely positive on all of them, and Intersect otherwise.
func (f *Frustum) TestSphere(center [3]float64, radius float64) Aspect {
	intersections := 0
	for i := 0; i < f.nPlanes(); i++ {
		dist := f.Planes[i].SignedDistance(center)
		if dist < -radius {
			return Outside
		} else if dist <= radius {
			intersections++
		}
	}
	if intersections == 0 {
		return Inside
	}
	return Intersect
}

// Transform re-expresses the frustum in a new coordinate frame; m maps
// points in the frustum's current frame to the new frame. This makes it
// possible to test object-local bounding volumes without transforming
// every candidate into camera space.
func (f *Frustum) Transform(m Matrix4) {
	// Planes transform by the inverse transpose of the matrix applied to
	// their coefficient 4-vectors.
	it := m.Inverse().Transpose()
	for i := range f.Planes {
		n, d := f.Planes[i].Normal, f.Planes[i].D
		c := [4]float64{
			it[0][0]*n[0] + it[0][1]*n[1] + it[0][2]*n[2] + it[0][3]*d,
			it[1][0]*n[0] + it[1][1]*n[1] + it[1][2]*n[2] + it[1][3]*d,
			it[2][0]*n[0] + it[2][1]*n[1] + it[2][2]*n[2] + it[2][3]*d,
			it[3][0]*n[0] + it[3][1]*n[1] + it[3][2]*n[2] + it[3][3]*d}

		// Restore the unit normal so that signed distances stay metric.
		l := Length3d([3]float64{c[0], c[1], c[2]})
		if l > 0 {
			f.Planes[i] = Plane{Normal: [3]float64{c[0] / l, c[1] / l, c[2] / l}, D: c[3] / l}
		}
	}
}
