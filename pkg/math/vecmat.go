// pkg/math/vecmat.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2f(a [2]float32, s float32) [2]float32 {
	return [2]float32{s * a[0], s * a[1]}
}

func Dot(a, b [2]float32) float32 {
	return a[0]*b[0] + a[1]*b[1]
}

// Linearly interpolate x of the way between a and b. x==0 corresponds to
// a, x==1 corresponds to b, etc.
func Lerp2f(x float32, a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{(1-x)*a[0] + x*b[0], (1-x)*a[1] + x*b[1]}
}

// Length of v
func Length2f(v [2]float32) float32 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Distance between two points
func Distance2f(a [2]float32, b [2]float32) float32 {
	return Length2f(Sub2f(a, b))
}

///////////////////////////////////////////////////////////////////////////
// point 3d

// Positions in the universe and in camera space are carried in float64;
// distances span from meters to light-years and float32 runs out of
// precision long before that.

func Add3d(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Sub3d(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Scale3d(a [3]float64, s float64) [3]float64 {
	return [3]float64{s * a[0], s * a[1], s * a[2]}
}

func Dot3d(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross3d(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

func Length3d(v [3]float64) float64 {
	return gomath.Sqrt(Dot3d(v, v))
}

func Distance3d(a, b [3]float64) float64 {
	return Length3d(Sub3d(a, b))
}

func Normalize3d(v [3]float64) [3]float64 {
	l := Length3d(v)
	if l == 0 {
		return [3]float64{}
	}
	return Scale3d(v, 1/l)
}

// ToVec3f narrows a float64 vector for handoff to draw buffers.
func ToVec3f(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

///////////////////////////////////////////////////////////////////////////
// 4x4 matrix

// Matrix4 is a row-major 4x4 float64 matrix; it's used both for the
// projection/modelview matrices handed to the command buffer and for
// re-expressing frustums in object-local coordinate frames.
type Matrix4 [4][4]float64

func Identity4x4() Matrix4 {
	var m Matrix4
	m[0][0] = 1
	m[1][1] = 1
	m[2][2] = 1
	m[3][3] = 1
	return m
}

func MakeTranslation4x4(x, y, z float64) Matrix4 {
	m := Identity4x4()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// MakeRotation4x4 returns the matrix for rotation by the angle theta
// (radians) around the normalized axis given by the provided vector.
func MakeRotation4x4(axis [3]float64, theta float64) Matrix4 {
	s, c := gomath.Sin(theta), gomath.Cos(theta)
	x, y, z := axis[0], axis[1], axis[2]
	m := Identity4x4()
	m[0][0] = c + x*x*(1-c)
	m[0][1] = x*y*(1-c) - z*s
	m[0][2] = x*z*(1-c) + y*s
	m[1][0] = y*x*(1-c) + z*s
	m[1][1] = c + y*y*(1-c)
	m[1][2] = y*z*(1-c) - x*s
	m[2][0] = z*x*(1-c) - y*s
	m[2][1] = z*y*(1-c) + x*s
	m[2][2] = c + z*z*(1-c)
	return m
}

// MakePerspective4x4 returns a right-handed perspective projection matrix
// for the given vertical field of view (radians), aspect ratio, and
// near/far plane distances; the camera looks down -z.
func MakePerspective4x4(fovY, aspect, near, far float64) Matrix4 {
	f := 1 / gomath.Tan(fovY/2)
	var m Matrix4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = 2 * far * near / (near - far)
	m[3][2] = -1
	return m
}

// MakeOrtho4x4 returns an orthographic projection matrix mapping the given
// screen rectangle to clip space; used for the annotation/overlay passes.
func MakeOrtho4x4(x0, x1, y0, y1 float64) Matrix4 {
	var m Matrix4
	m[0][0] = 2 / (x1 - x0)
	m[0][3] = -(x0 + x1) / (x1 - x0)
	m[1][1] = 2 / (y1 - y0)
	m[1][3] = -(y0 + y1) / (y1 - y0)
	m[2][2] = -1
	m[3][3] = 1
	return m
}

func (m Matrix4) PostMultiply(m2 Matrix4) Matrix4 {
	var r Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j] + m[i][3]*m2[3][j]
		}
	}
	return r
}

func (m Matrix4) Transpose() Matrix4 {
	var r Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse returns the inverse of the matrix, computed via the adjugate.
// The caller is responsible for not passing a singular matrix.
func (m Matrix4) Inverse() Matrix4 {
	// 2x2 sub-determinants of the lower two rows.
	s0 := m[2][0]*m[3][1] - m[2][1]*m[3][0]
	s1 := m[2][0]*m[3][2] - m[2][2]*m[3][0]
	s2 := m[2][0]*m[3][3] - m[2][3]*m[3][0]
	s3 := m[2][1]*m[3][2] - m[2][2]*m[3][1]
	s4 := m[2][1]*m[3][3] - m[2][3]*m[3][1]
	s5 := m[2][2]*m[3][3] - m[2][3]*m[3][2]

	// And of the upper two rows.
	c0 := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	c1 := m[0][0]*m[1][2] - m[0][2]*m[1][0]
	c2 := m[0][0]*m[1][3] - m[0][3]*m[1][0]
	c3 := m[0][1]*m[1][2] - m[0][2]*m[1][1]
	c4 := m[0][1]*m[1][3] - m[0][3]*m[1][1]
	c5 := m[0][2]*m[1][3] - m[0][3]*m[1][2]

	det := c0*s5 - c1*s4 + c2*s3 + c3*s2 - c4*s1 + c5*s0
	invDet := 1 / det

	var r Matrix4
	r[0][0] = (m[1][1]*s5 - m[1][2]*s4 + m[1][3]*s3) * invDet
	r[0][1] = (-m[0][1]*s5 + m[0][2]*s4 - m[0][3]*s3) * invDet
	r[0][2] = (m[3][1]*c5 - m[3][2]*c4 + m[3][3]*c3) * invDet
	r[0][3] = (-m[2][1]*c5 + m[2][2]*c4 - m[2][3]*c3) * invDet
	r[1][0] = (-m[1][0]*s5 + m[1][2]*s2 - m[1][3]*s1) * invDet
	r[1][1] = (m[0][0]*s5 - m[0][2]*s2 + m[0][3]*s1) * invDet
	r[1][2] = (-m[3][0]*c5 + m[3][2]*c2 - m[3][3]*c1) * invDet
	r[1][3] = (m[2][0]*c5 - m[2][2]*c2 + m[2][3]*c1) * invDet
	r[2][0] = (m[1][0]*s4 - m[1][1]*s2 + m[1][3]*s0) * invDet
	r[2][1] = (-m[0][0]*s4 + m[0][1]*s2 - m[0][3]*s0) * invDet
	r[2][2] = (m[3][0]*c4 - m[3][1]*c2 + m[3][3]*c0) * invDet
	r[2][3] = (-m[2][0]*c4 + m[2][1]*c2 - m[2][3]*c0) * invDet
	r[3][0] = (-m[1][0]*s3 + m[1][1]*s1 - m[1][2]*s0) * invDet
	r[3][1] = (m[0][0]*s3 - m[0][1]*s1 + m[0][2]*s0) * invDet
	r[3][2] = (-m[3][0]*c3 + m[3][1]*c1 - m[3][2]*c0) * invDet
	r[3][3] = (m[2][0]*c3 - m[2][1]*c1 + m[2][2]*c0) * invDet
	return r
}

// TransformPoint applies the matrix to the given point, including the
// homogeneous divide.
func (m Matrix4) TransformPoint(p [3]float64) [3]float64 {
	x := m[0][0]*p[0] + m[0][1]*p[1] + m[0][2]*p[2] + m[0][3]
	y := m[1][0]*p[0] + m[1][1]*p[1] + m[1][2]*p[2] + m[1][3]
	z := m[2][0]*p[0] + m[2][1]*p[1] + m[2][2]*p[2] + m[2][3]
	w := m[3][0]*p[0] + m[3][1]*p[1] + m[3][2]*p[2] + m[3][3]
	if w != 0 && w != 1 {
		return [3]float64{x / w, y / w, z / w}
	}
	return [3]float64{x, y, z}
}

// TransformVector applies only the rotation/scale part of the matrix.
func (m Matrix4) TransformVector(v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2]}
}
