// pkg/celengine/orbit_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"

	"github.com/orrery/orrery/pkg/math"
)

func circularOrbit(radiusKm, periodSec float64) *EllipticalOrbit {
	return &EllipticalOrbit{
		SemiMajorAxis: radiusKm,
		OrbitalPeriod: periodSec,
	}
}

func TestEllipticalOrbitCircular(t *testing.T) {
	o := circularOrbit(1000, 3600)
	for _, tm := range []float64{0, 500, 1800, 3600, 7200.5} {
		p := o.PositionAtTime(tm)
		if r := math.Length3d(p); math.Abs(r-1000) > 1e-6 {
			t.Errorf("t=%g: radius %g, want 1000", tm, r)
		}
	}
	// One full period returns to the starting point.
	p0, p1 := o.PositionAtTime(0), o.PositionAtTime(3600)
	if math.Distance3d(p0, p1) > 1e-6 {
		t.Errorf("period wrap: %v vs %v", p0, p1)
	}
}

func TestEllipticalOrbitBoundingRadius(t *testing.T) {
	o := &EllipticalOrbit{SemiMajorAxis: 1000, Eccentricity: 0.5, OrbitalPeriod: 3600}
	if br := o.BoundingRadius(); br != 1500 {
		t.Errorf("bounding radius %g, want 1500 (apoapsis)", br)
	}
	// No sampled point may escape the bounding sphere.
	plot := SampleOrbit(o, 0, 3600, 64)
	for _, p := range plot.Points {
		if math.Length3d(p) > o.BoundingRadius()+1e-6 {
			t.Errorf("sample %v outside bounding radius", p)
		}
	}
}

func TestOrbitCacheIdempotence(t *testing.T) {
	oc := NewOrbitCache(16, 0)
	o := circularOrbit(1000, 3600)

	samples := 0
	sample := func() *CurvePlot {
		samples++
		return SampleOrbit(o, 0, 3600, 32)
	}

	p1 := oc.Get(1, sample)
	p2 := oc.Get(1, sample)
	if p1 != p2 {
		t.Errorf("second request returned a different plot")
	}
	if samples != 1 {
		t.Errorf("sampled %d times, want 1", samples)
	}

	oc.Invalidate(1)
	p3 := oc.Get(1, sample)
	if p3 == p1 {
		t.Errorf("invalidation did not force recomputation")
	}
	if samples != 2 {
		t.Errorf("sampled %d times after invalidation, want 2", samples)
	}
}

func TestOrbitCachePeriodicFlush(t *testing.T) {
	oc := NewOrbitCache(16, 4)
	o := circularOrbit(1000, 3600)
	sample := func() *CurvePlot { return SampleOrbit(o, 0, 3600, 8) }

	oc.StartFrame()
	oc.Get(1, sample)
	oc.Get(2, sample)

	// Keep orbit 1 warm across two flush intervals; orbit 2 goes unused
	// and is dropped by the second flush.
	for i := 0; i < 8; i++ {
		oc.StartFrame()
		oc.Get(1, sample)
	}

	if _, ok := oc.cache.Peek(OrbitID(1)); !ok {
		t.Errorf("recently-used entry was flushed")
	}
	if _, ok := oc.cache.Peek(OrbitID(2)); ok {
		t.Errorf("stale entry survived the periodic flush")
	}
}

func TestOrbitCacheLRUEviction(t *testing.T) {
	oc := NewOrbitCache(2, 0)
	o := circularOrbit(1000, 3600)
	sample := func() *CurvePlot { return SampleOrbit(o, 0, 3600, 8) }

	oc.Get(1, sample)
	oc.Get(2, sample)
	oc.Get(3, sample)
	if oc.Len() != 2 {
		t.Errorf("cache holds %d entries, want 2", oc.Len())
	}
	if _, ok := oc.cache.Peek(OrbitID(1)); ok {
		t.Errorf("least-recently-used entry not evicted")
	}
}

func TestFadeOpacity(t *testing.T) {
	d := DefaultDetailOptions() // fade over the last 25% of the window
	start, end := 0.0, 100.0

	for _, tc := range []struct {
		now  float64
		want float32
	}{
		{0, 1},
		{50, 1},
		{75, 1},
		{87.5, 0.5},
		{100, 0},
		{200, 0},
	} {
		if got := d.fadeOpacity(start, end, tc.now); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("fadeOpacity at t=%g: got %g, want %g", tc.now, got, tc.want)
		}
	}
}

func TestOrbitWindow(t *testing.T) {
	d := DefaultDetailOptions()
	start, end := d.orbitWindow(100, 1000)
	if end != 1050 {
		t.Errorf("window end %g, want 1050", end)
	}
	if start != 950 {
		t.Errorf("window start %g, want 950", start)
	}
}
