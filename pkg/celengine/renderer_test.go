// pkg/celengine/renderer_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"

	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
)

func demoScene() (*Universe, *Observer) {
	u := MakeDemoUniverse(2000, 1)
	obs := NewObserver(1280, 720)
	// Park the observer a few planetary radii above the ecliptic, looking
	// at the barycenter.
	obs.Position = [3]float64{0, 2 * kmPerAU, 0.5 * kmPerAU}
	obs.LookAt([3]float64{0, 0, 0}, [3]float64{0, 0, 1})
	return u, obs
}

func TestRenderFrameSmoke(t *testing.T) {
	u, obs := demoScene()
	sr := testSceneRenderer()
	sr.SetLabelMode(KindPlanet.Flag())
	sr.SetFont(renderer.FixedPitchFont{GlyphWidth: 7, GlyphHeight: 12})
	sr.SetFaintestVisible(12)

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	stats := sr.RenderFrame(u, obs, 0, cb)
	if stats.VisibleStars == 0 {
		t.Errorf("no visible stars")
	}
	if stats.Partitions == 0 {
		t.Errorf("no depth partitions")
	}

	r := renderer.NewStatsRenderer()
	rstats := r.RenderCommandBuffer(cb)
	if rstats.Points() == 0 {
		t.Errorf("no star points drawn")
	}
	if rstats.DepthClears() != stats.Partitions {
		t.Errorf("%d depth clears for %d partitions", rstats.DepthClears(), stats.Partitions)
	}
}

func TestRenderFrameScratchReuse(t *testing.T) {
	u, obs := demoScene()
	sr := testSceneRenderer()
	sr.SetFaintestVisible(12)

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	s1 := sr.RenderFrame(u, obs, 0, cb)
	cb.Reset()
	s2 := sr.RenderFrame(u, obs, 0, cb)

	// Same scene, same settings: the second frame must see the same work,
	// not leftovers accumulated across frames.
	if s1.VisibleStars != s2.VisibleStars {
		t.Errorf("star count changed across identical frames: %d vs %d", s1.VisibleStars, s2.VisibleStars)
	}
	if s1.Annotations != s2.Annotations {
		t.Errorf("annotation count changed across identical frames: %d vs %d", s1.Annotations, s2.Annotations)
	}
	// The orbit plots were cached by the first frame.
	if s2.CacheMisses != 0 {
		t.Errorf("second frame missed the orbit cache %d times", s2.CacheMisses)
	}
}

func TestSelectionOverridesAdmission(t *testing.T) {
	u := &Universe{}
	dim := &Body{
		Name: "speck", Kind: KindAsteroid, Radius: 0.001, Albedo: 0.01, Visible: true,
		Orbit: circularOrbit(0.5*kmPerAU, 86400),
	}
	dim.OrbitID = u.issueOrbitID()
	u.Bodies = append(u.Bodies, dim)
	u.parent = append(u.parent, -1)
	u.Stars = append(u.Stars, Star{Name: "Sol", AbsMag: sunAbsMag})

	obs := NewObserver(1280, 720)
	obs.Position = [3]float64{0, 2 * kmPerAU, 0}
	obs.LookAt([3]float64{0, 0, 0}, [3]float64{0, 0, 1})

	sr := testSceneRenderer()
	sr.SetMinimumFeatureSize(2) // far larger than the speck's disc

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	stats := sr.RenderFrame(u, obs, 0, cb)
	if stats.VisibleBodies != 0 {
		t.Fatalf("speck admitted without selection: %d visible bodies", stats.VisibleBodies)
	}

	sr.SetSelection(dim)
	cb.Reset()
	stats = sr.RenderFrame(u, obs, 0, cb)
	if stats.VisibleBodies != 1 {
		t.Errorf("selected speck not admitted: %d visible bodies", stats.VisibleBodies)
	}
}

func TestRenderFlagsMaskKinds(t *testing.T) {
	u, obs := demoScene()
	sr := testSceneRenderer()
	sr.SetFaintestVisible(12)
	sr.SetRenderFlags(allKindsMask() &^ KindStar.Flag())

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	stats := sr.RenderFrame(u, obs, 0, cb)
	if stats.VisibleStars != 0 {
		t.Errorf("stars drawn with the star kind masked off: %d", stats.VisibleStars)
	}
}

func TestConfigClamping(t *testing.T) {
	sr := testSceneRenderer()

	sr.SetDistanceLimit(-5)
	if sr.DistanceLimit() != defaultDistanceLimit {
		t.Errorf("negative distance limit not reset: %g", sr.DistanceLimit())
	}
	sr.SetAmbientLight(3)
	if sr.AmbientLight() != 1 {
		t.Errorf("ambient light not clamped: %g", sr.AmbientLight())
	}
	sr.SetMinimumFeatureSize(-1)
	if sr.MinimumFeatureSize() != 0 {
		t.Errorf("negative feature size not clamped: %g", sr.MinimumFeatureSize())
	}
	sr.SetDepthSplitRatio(0.5)
	if sr.DepthSplitRatio() != 1 {
		t.Errorf("split ratio not clamped: %g", sr.DepthSplitRatio())
	}
	sr.SetScreenDPI(-10)
	if sr.ScreenDPI() != 96 {
		t.Errorf("DPI not reset: %d", sr.ScreenDPI())
	}
}

type countingWatcher struct{ n int }

func (w *countingWatcher) RenderSettingsChanged(*SceneRenderer) { w.n++ }

func TestWatchers(t *testing.T) {
	sr := testSceneRenderer()
	var w countingWatcher
	sr.AddWatcher(&w)
	sr.AddWatcher(&w) // duplicates are ignored

	sr.SetAutoMag(true)
	sr.SetFadingOrbits(true)
	if w.n != 2 {
		t.Errorf("watcher notified %d times, want 2", w.n)
	}

	sr.RemoveWatcher(&w)
	sr.SetAutoMag(false)
	if w.n != 2 {
		t.Errorf("removed watcher still notified")
	}
}

func TestProjectToScreen(t *testing.T) {
	obs := NewObserver(1000, 1000)
	obs.FovY = math.Radians64(90)

	// Straight ahead lands in the window center.
	p, ok := projectToScreen([3]float64{0, 0, -10}, obs)
	if !ok || p != [2]float32{500, 500} {
		t.Errorf("center projection: %v ok=%v", p, ok)
	}
	// Top of the frustum at 45 degrees maps to the top edge.
	p, ok = projectToScreen([3]float64{0, 10, -10}, obs)
	if !ok || math.Abs(p[1]-1000) > 1e-3 {
		t.Errorf("top edge projection: %v ok=%v", p, ok)
	}
	// Points behind the camera are rejected.
	if _, ok := projectToScreen([3]float64{0, 0, 10}, obs); ok {
		t.Errorf("point behind the camera projected")
	}
}

func TestOrbitDrawnWithoutRenderListEntries(t *testing.T) {
	u := &Universe{}
	dark := &Body{
		Name: "umbra", Kind: KindPlanet, Radius: 6000, Albedo: 1e-12, Visible: true,
		Orbit: circularOrbit(kmPerAU, 3.15e7),
	}
	dark.OrbitID = u.issueOrbitID()
	u.Bodies = append(u.Bodies, dark)
	u.parent = append(u.parent, -1)
	u.Stars = append(u.Stars, Star{Name: "Sol", AbsMag: sunAbsMag})

	obs := NewObserver(1280, 720)
	obs.Position = [3]float64{0, 2 * kmPerAU, 0}
	obs.LookAt([3]float64{0, 0, 0}, [3]float64{0, 0, 1})

	sr := testSceneRenderer()
	sr.SetRenderFlags(allKindsMask() &^ KindStar.Flag())

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	stats := sr.RenderFrame(u, obs, 0, cb)

	// The planet is too faint to make the render list, but its orbit path
	// passes the frustum and pixel-size tests and must still be drawn.
	if stats.VisibleBodies != 0 || stats.VisibleStars != 0 {
		t.Fatalf("scene unexpectedly visible: %d bodies, %d stars",
			stats.VisibleBodies, stats.VisibleStars)
	}
	if stats.OrbitsDrawn != 1 {
		t.Fatalf("orbit not scheduled: %d", stats.OrbitsDrawn)
	}
	if stats.Partitions == 0 {
		t.Errorf("no depth partition covers the scheduled orbit")
	}
	r := renderer.NewStatsRenderer()
	if rstats := r.RenderCommandBuffer(cb); rstats.Lines() == 0 {
		t.Errorf("scheduled orbit emitted no line geometry")
	}
}

func TestStarSelectionOverridesAdmission(t *testing.T) {
	u := &Universe{}
	u.Stars = append(u.Stars, Star{
		Name: "dim", AbsMag: 10, Position: [3]float64{0, -100 * kmPerParsec, 0},
	})

	obs := NewObserver(1280, 720)
	obs.LookAt([3]float64{0, -1, 0}, [3]float64{0, 0, 1})

	sr := testSceneRenderer()

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	stats := sr.RenderFrame(u, obs, 0, cb)
	// Apparent magnitude 15 at 100 pc, well past the default cutoff.
	if stats.VisibleStars != 0 {
		t.Fatalf("faint star admitted under a cutoff of %g", stats.FaintestMag)
	}

	sr.SetStarSelection(&u.Stars[0])
	cb.Reset()
	stats = sr.RenderFrame(u, obs, 0, cb)
	if stats.VisibleStars != 1 {
		t.Errorf("selected star not admitted: %d visible stars", stats.VisibleStars)
	}
	if stats.Annotations == 0 {
		t.Errorf("selected star drew no marker annotation")
	}
}
