// pkg/celengine/body_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"

	"github.com/orrery/orrery/pkg/math"
)

func TestAbsAppMagRoundTrip(t *testing.T) {
	// At 10 parsecs apparent equals absolute.
	if m := AbsToAppMag(4.83, 10*kmPerParsec); math.Abs(m-4.83) > 1e-9 {
		t.Errorf("at 10pc: %g, want 4.83", m)
	}
	// Ten times farther is five magnitudes fainter.
	if m := AbsToAppMag(4.83, 100*kmPerParsec); math.Abs(m-9.83) > 1e-9 {
		t.Errorf("at 100pc: %g, want 9.83", m)
	}
	if m := AppToAbsMag(AbsToAppMag(2.5, 7e13), 7e13); math.Abs(m-2.5) > 1e-9 {
		t.Errorf("round trip: %g, want 2.5", m)
	}
}

func TestStarApparentMagnitude(t *testing.T) {
	s := Star{AbsMag: 1, Position: [3]float64{10 * kmPerParsec, 0, 0}}
	if m := s.ApparentMagnitude([3]float64{}); math.Abs(m-1) > 1e-9 {
		t.Errorf("apparent magnitude %g, want 1", m)
	}
}

func TestBodyApparentMagnitude(t *testing.T) {
	b := &Body{Kind: KindPlanet, Radius: 6000, Albedo: 0.3,
		Position: [3]float64{kmPerAU, 0, 0}}
	sun := [3]float64{}

	// Full phase: viewer on the sunward side.
	near := b.ApparentMagnitude(sun, [3]float64{0.99 * kmPerAU, 0, 0})
	far := b.ApparentMagnitude(sun, [3]float64{0.9 * kmPerAU, 0, 0})
	if near >= far {
		t.Errorf("nearer viewer should see a brighter planet: %g vs %g", near, far)
	}

	// Half phase from the side is fainter than full phase at the same
	// distance.
	full := b.ApparentMagnitude(sun, [3]float64{0.9 * kmPerAU, 0, 0})
	half := b.ApparentMagnitude(sun, [3]float64{kmPerAU, 0.1 * kmPerAU, 0})
	if half <= full {
		t.Errorf("half phase should be fainter: full %g, half %g", full, half)
	}

	// Viewing the dark side yields effective invisibility.
	dark := b.ApparentMagnitude(sun, [3]float64{2 * kmPerAU, 0, 0})
	if dark <= half {
		t.Errorf("dark side should be faintest: %g vs %g", dark, half)
	}
}

func TestBodyBoundingRadius(t *testing.T) {
	planet := &Body{Kind: KindPlanet, Radius: 60000}
	if planet.BoundingRadius() != 3*60000 {
		t.Errorf("ringed planet bounding radius %g", planet.BoundingRadius())
	}
	moon := &Body{Kind: KindMoon, Radius: 1737}
	if moon.BoundingRadius() != 1737 {
		t.Errorf("moon bounding radius %g", moon.BoundingRadius())
	}
}

func TestKindCapabilities(t *testing.T) {
	if !KindPlanet.HasAtmosphere() || !KindPlanet.HasOrbit() {
		t.Errorf("planet capabilities wrong")
	}
	if KindStar.HasOrbit() {
		t.Errorf("stars should not carry drawable orbits")
	}
	if KindReferencePoint.IsExtended() {
		t.Errorf("reference points are not extended bodies")
	}
	if KindPlanet.Flag() == KindMoon.Flag() {
		t.Errorf("kind flags must be distinct bits")
	}
}

func TestStarColorRamp(t *testing.T) {
	hot, cool := Star{ColorIndex: -0.4}, Star{ColorIndex: 2.0}
	blue, red := hot.Color(), cool.Color()
	if blue.B <= blue.R {
		t.Errorf("hot star not blue: %+v", blue)
	}
	if red.R <= red.B {
		t.Errorf("cool star not red: %+v", red)
	}
}
