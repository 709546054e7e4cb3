// pkg/math/math_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"
	"testing"
)

func TestMatrix4Inverse(t *testing.T) {
	matrices := []Matrix4{
		Identity4x4(),
		MakeTranslation4x4(3, -7, 11),
		MakeRotation4x4(Normalize3d([3]float64{1, 2, 3}), 0.7),
		MakePerspective4x4(Radians64(60), 1.5, 0.1, 1e6),
		MakeTranslation4x4(1, 2, 3).PostMultiply(MakeRotation4x4([3]float64{0, 0, 1}, 1.1)),
	}

	for _, m := range matrices {
		p := m.PostMultiply(m.Inverse())
		id := Identity4x4()
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if gomath.Abs(p[i][j]-id[i][j]) > 1e-9 {
					t.Errorf("m * m^-1 != identity: element [%d][%d] = %g", i, j, p[i][j])
				}
			}
		}
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := 1.0, 1000.0
	m := MakePerspective4x4(Radians64(45), 1, near, far)

	// Points on the near and far planes map to z = -1 and +1 in NDC.
	pn := m.TransformPoint([3]float64{0, 0, -near})
	pf := m.TransformPoint([3]float64{0, 0, -far})
	if gomath.Abs(pn[2]+1) > 1e-9 {
		t.Errorf("near plane maps to z = %g, want -1", pn[2])
	}
	if gomath.Abs(pf[2]-1) > 1e-9 {
		t.Errorf("far plane maps to z = %g, want 1", pf[2])
	}
}

func TestVector3Basics(t *testing.T) {
	a := [3]float64{1, 2, 3}
	b := [3]float64{-4, 0, 2}

	if got := Dot3d(a, b); got != 2 {
		t.Errorf("Dot3d = %g, want 2", got)
	}
	if got := Cross3d([3]float64{1, 0, 0}, [3]float64{0, 1, 0}); got != ([3]float64{0, 0, 1}) {
		t.Errorf("Cross3d = %v, want (0 0 1)", got)
	}
	if got := Length3d([3]float64{3, 4, 0}); got != 5 {
		t.Errorf("Length3d = %g, want 5", got)
	}
	if got := Normalize3d([3]float64{}); got != ([3]float64{}) {
		t.Errorf("Normalize3d of zero vector = %v, want zero", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0) || !IsFinite(-1e300) {
		t.Errorf("finite values reported non-finite")
	}
	if IsFinite(gomath.NaN()) || IsFinite(gomath.Inf(1)) || IsFinite(gomath.Inf(-1)) {
		t.Errorf("non-finite values reported finite")
	}
}
