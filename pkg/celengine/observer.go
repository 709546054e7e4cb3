// pkg/celengine/observer.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	gomath "math"

	"github.com/orrery/orrery/pkg/math"
)

// Observer is the camera: a position, an orientation, and the projection
// parameters of the current window.
type Observer struct {
	Position [3]float64
	// Orientation rotates world-frame directions into the camera frame,
	// where the camera looks down -z with +y up.
	Orientation math.Matrix4

	FovY                      float64 // radians
	WindowWidth, WindowHeight int
}

func NewObserver(width, height int) *Observer {
	return &Observer{
		Orientation:  math.Identity4x4(),
		FovY:         math.Radians64(45),
		WindowWidth:  width,
		WindowHeight: height,
	}
}

func (o *Observer) AspectRatio() float64 {
	if o.WindowHeight == 0 {
		return 1
	}
	return float64(o.WindowWidth) / float64(o.WindowHeight)
}

// CameraTransform returns the matrix mapping world-frame points into the
// camera frame.
func (o *Observer) CameraTransform() math.Matrix4 {
	return o.Orientation.PostMultiply(math.MakeTranslation4x4(-o.Position[0], -o.Position[1], -o.Position[2]))
}

// CameraToWorld returns the inverse of CameraTransform.
func (o *Observer) CameraToWorld() math.Matrix4 {
	return o.CameraTransform().Inverse()
}

// LookAt orients the observer so that the camera at its current position
// looks toward target with the given up vector.
func (o *Observer) LookAt(target, up [3]float64) {
	fwd := math.Normalize3d(math.Sub3d(target, o.Position))
	right := math.Normalize3d(math.Cross3d(fwd, up))
	trueUp := math.Cross3d(right, fwd)

	// Rows are the camera axes expressed in world coordinates.
	m := math.Identity4x4()
	for i := 0; i < 3; i++ {
		m[0][i] = right[i]
		m[1][i] = trueUp[i]
		m[2][i] = -fwd[i]
	}
	o.Orientation = m
}

// CalcPixelSize returns the world-space size of one pixel at unit
// distance from the camera, given the vertical field of view in radians
// and the viewport height in pixels.
func CalcPixelSize(fovY float64, windowHeight float64) float64 {
	if windowHeight <= 0 {
		return 0
	}
	return 2 * gomath.Tan(fovY/2) / windowHeight
}
