// pkg/celengine/annotation.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"sort"

	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
)

// LabelHAlign and LabelVAlign position a label relative to its anchor.
type LabelHAlign int

const (
	AlignLeft = LabelHAlign(iota)
	AlignCenter
	AlignRight
)

type LabelVAlign int

const (
	AlignBottom = LabelVAlign(iota)
	AlignVCenter
	AlignTop
)

// Annotation is a label request: text and/or a marker glyph anchored at a
// 3D position. Annotations are collected in three sequences per frame:
// background annotations draw first with depth testing off, behind all
// geometry; foreground annotations draw last, always on top; depth-sorted
// annotations interleave with the 3D content using the same depth
// partitions, so nearer geometry occludes them.
type Annotation struct {
	Text   string
	Marker MarkerShape
	Color  renderer.RGBA

	// Position is in camera space.
	Position [3]float64

	HAlign LabelHAlign
	VAlign LabelVAlign
	Size   float32
}

// valid rejects annotations that would draw nothing or whose anchor is
// degenerate; such requests are dropped rather than treated as errors.
func (a *Annotation) valid() bool {
	if a.Text == "" && a.Marker == MarkerNone {
		return false
	}
	for i := 0; i < 3; i++ {
		if !math.IsFinite(a.Position[i]) {
			return false
		}
	}
	return true
}

// sortAnnotations stable-sorts a depth-sorted annotation sequence back to
// front, matching the render list's draw order.
func sortAnnotations(annotations []Annotation) {
	sort.SliceStable(annotations, func(i, j int) bool {
		// Camera space looks down -z, so depth is -z.
		return -annotations[i].Position[2] > -annotations[j].Position[2]
	})
}

// AddBackgroundAnnotation adds an annotation drawn behind all 3D content.
func (sr *SceneRenderer) AddBackgroundAnnotation(a Annotation) {
	if a.valid() {
		sr.scratch.backgroundAnnotations = append(sr.scratch.backgroundAnnotations, a)
	}
}

// AddForegroundAnnotation adds an annotation drawn on top of everything.
func (sr *SceneRenderer) AddForegroundAnnotation(a Annotation) {
	if a.valid() {
		sr.scratch.foregroundAnnotations = append(sr.scratch.foregroundAnnotations, a)
	}
}

// AddSortedAnnotation adds an annotation interleaved with 3D content by
// depth.
func (sr *SceneRenderer) AddSortedAnnotation(a Annotation) {
	if a.valid() {
		sr.scratch.sortedAnnotations = append(sr.scratch.sortedAnnotations, a)
	}
}

// BeginObjectAnnotations opens a block of annotations anchored relative
// to a single object at the given camera-space position. Annotations
// added with AddObjectAnnotation until the matching EndObjectAnnotations
// have origin added to their positions and join the depth-sorted
// sequence.
func (sr *SceneRenderer) BeginObjectAnnotations(origin [3]float64) {
	if sr.scratch.objectAnnotationsOpen {
		sr.lg.Errorf("BeginObjectAnnotations called with a block already open")
		return
	}
	sr.scratch.objectAnnotationsOpen = true
	sr.scratch.objectAnnotationOrigin = origin
}

func (sr *SceneRenderer) AddObjectAnnotation(a Annotation) {
	if !sr.scratch.objectAnnotationsOpen {
		sr.lg.Errorf("AddObjectAnnotation called outside a block")
		return
	}
	a.Position = math.Add3d(a.Position, sr.scratch.objectAnnotationOrigin)
	sr.AddSortedAnnotation(a)
}

func (sr *SceneRenderer) EndObjectAnnotations() {
	if !sr.scratch.objectAnnotationsOpen {
		sr.lg.Errorf("EndObjectAnnotations called without a matching begin")
		return
	}
	sr.scratch.objectAnnotationsOpen = false
}

// AnnotationCount returns the total number of pending annotations across
// all three sequences.
func (sr *SceneRenderer) AnnotationCount() int {
	return len(sr.scratch.backgroundAnnotations) + len(sr.scratch.foregroundAnnotations) +
		len(sr.scratch.sortedAnnotations)
}

///////////////////////////////////////////////////////////////////////////
// Marker drawing

// addMarker appends screen-space lines for the given marker shape
// centered at p.
func addMarker(ld *renderer.Lines2DDrawBuilder, shape MarkerShape, p [2]float32, size float32) {
	h := size / 2
	switch shape {
	case MarkerDiamond:
		ld.AddLine([2]float32{p[0] - h, p[1]}, [2]float32{p[0], p[1] + h})
		ld.AddLine([2]float32{p[0], p[1] + h}, [2]float32{p[0] + h, p[1]})
		ld.AddLine([2]float32{p[0] + h, p[1]}, [2]float32{p[0], p[1] - h})
		ld.AddLine([2]float32{p[0], p[1] - h}, [2]float32{p[0] - h, p[1]})
	case MarkerPlus:
		ld.AddLine([2]float32{p[0] - h, p[1]}, [2]float32{p[0] + h, p[1]})
		ld.AddLine([2]float32{p[0], p[1] - h}, [2]float32{p[0], p[1] + h})
	case MarkerX:
		ld.AddLine([2]float32{p[0] - h, p[1] - h}, [2]float32{p[0] + h, p[1] + h})
		ld.AddLine([2]float32{p[0] - h, p[1] + h}, [2]float32{p[0] + h, p[1] - h})
	case MarkerCircle:
		ld.AddCircle(p, h, 16)
	}
}
