// pkg/celengine/annotation_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	gomath "math"
	"testing"

	"github.com/orrery/orrery/pkg/renderer"
)

func testSceneRenderer() *SceneRenderer {
	return NewSceneRenderer(DefaultStyle(), nil)
}

func TestAnnotationValidation(t *testing.T) {
	sr := testSceneRenderer()

	sr.AddForegroundAnnotation(Annotation{Text: "ok", Position: [3]float64{0, 0, -10}})
	sr.AddForegroundAnnotation(Annotation{}) // nothing to draw
	sr.AddForegroundAnnotation(Annotation{Text: "nan", Position: [3]float64{gomath.NaN(), 0, -10}})
	sr.AddForegroundAnnotation(Annotation{Text: "inf", Position: [3]float64{0, gomath.Inf(1), -10}})
	sr.AddForegroundAnnotation(Annotation{Marker: MarkerPlus, Position: [3]float64{1, 2, -3}})

	if n := len(sr.scratch.foregroundAnnotations); n != 2 {
		t.Errorf("accepted %d annotations, want 2", n)
	}
}

func TestAnnotationSequences(t *testing.T) {
	sr := testSceneRenderer()

	for i := 0; i < 3; i++ {
		sr.AddBackgroundAnnotation(Annotation{Text: "bg", Position: [3]float64{0, 0, -10}})
	}
	for i := 0; i < 2; i++ {
		sr.AddForegroundAnnotation(Annotation{Text: "fg", Position: [3]float64{0, 0, -10}})
	}
	sr.AddSortedAnnotation(Annotation{Text: "mid", Position: [3]float64{0, 0, -10}})

	if n := sr.AnnotationCount(); n != 6 {
		t.Errorf("annotation count %d, want 6", n)
	}

	sr.scratch.Reset()
	if n := sr.AnnotationCount(); n != 0 {
		t.Errorf("annotation count after reset %d, want 0", n)
	}
}

func TestSortAnnotationsBackToFront(t *testing.T) {
	anns := []Annotation{
		{Text: "near", Position: [3]float64{0, 0, -1}},
		{Text: "far", Position: [3]float64{0, 0, -100}},
		{Text: "mid", Position: [3]float64{0, 0, -10}},
	}
	sortAnnotations(anns)
	want := []string{"far", "mid", "near"}
	for i, w := range want {
		if anns[i].Text != w {
			t.Errorf("position %d: got %q, want %q", i, anns[i].Text, w)
		}
	}
}

func TestSortAnnotationsStable(t *testing.T) {
	anns := []Annotation{
		{Text: "first", Position: [3]float64{0, 0, -10}},
		{Text: "second", Position: [3]float64{1, 1, -10}},
	}
	sortAnnotations(anns)
	if anns[0].Text != "first" || anns[1].Text != "second" {
		t.Errorf("equal-depth annotations reordered: %q, %q", anns[0].Text, anns[1].Text)
	}
}

func TestObjectAnnotations(t *testing.T) {
	sr := testSceneRenderer()

	sr.BeginObjectAnnotations([3]float64{10, 20, -30})
	sr.AddObjectAnnotation(Annotation{Text: "a", Position: [3]float64{1, 0, 0}})
	sr.EndObjectAnnotations()

	if n := len(sr.scratch.sortedAnnotations); n != 1 {
		t.Fatalf("got %d sorted annotations, want 1", n)
	}
	p := sr.scratch.sortedAnnotations[0].Position
	if p != [3]float64{11, 20, -30} {
		t.Errorf("origin not applied: %v", p)
	}

	// Unbalanced calls must be ignored, not corrupt state.
	sr.EndObjectAnnotations()
	sr.AddObjectAnnotation(Annotation{Text: "stray", Position: [3]float64{0, 0, -1}})
	if n := len(sr.scratch.sortedAnnotations); n != 1 {
		t.Errorf("stray annotation accepted outside a block")
	}
}

func TestAnnotationRoundTrip(t *testing.T) {
	// Background annotations draw before any geometry pass, foreground
	// after all of them. With no geometry there is exactly one marker
	// draw call per annotation, and the counts must match what was added.
	sr := testSceneRenderer()
	obs := NewObserver(640, 480)

	const nBg, nFg = 4, 3
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	for i := 0; i < nBg; i++ {
		sr.AddBackgroundAnnotation(Annotation{Marker: MarkerPlus, Size: 8, Position: [3]float64{0, 0, -10}})
	}
	for i := 0; i < nFg; i++ {
		sr.AddForegroundAnnotation(Annotation{Marker: MarkerX, Size: 8, Position: [3]float64{0, 0, -10}})
	}

	sr.drawAnnotations(sr.scratch.backgroundAnnotations, obs, cb)
	sr.drawAnnotations(sr.scratch.foregroundAnnotations, obs, cb)

	r := renderer.NewStatsRenderer()
	stats := r.RenderCommandBuffer(cb)
	// MarkerPlus and MarkerX are two lines each.
	if got := stats.Lines(); got != 2*(nBg+nFg) {
		t.Errorf("drew %d lines, want %d", got, 2*(nBg+nFg))
	}
}
