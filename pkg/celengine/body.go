// pkg/celengine/body.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
)

// BodyKind identifies what sort of object a Body is. Per-kind behavior
// (labels, orbits, atmospheres) is table-driven off the kind rather than
// dispatched through an object hierarchy.
type BodyKind int

const (
	KindStar = BodyKind(iota)
	KindPlanet
	KindDwarfPlanet
	KindMoon
	KindMinorMoon
	KindAsteroid
	KindComet
	KindSpacecraft
	KindReferencePoint
	NumBodyKinds
)

func (k BodyKind) String() string {
	return [...]string{"Star", "Planet", "DwarfPlanet", "Moon", "MinorMoon", "Asteroid",
		"Comet", "Spacecraft", "ReferencePoint"}[k]
}

// Flag returns the kind's bit in the render-flags / orbit-mask bitmask.
func (k BodyKind) Flag() uint32 { return 1 << uint(k) }

// bodyCaps gives the per-kind capability table consulted at render-list
// build time.
type bodyCaps struct {
	hasAtmosphere bool
	hasRings      bool
	hasOrbit      bool
	isExtended    bool // drawn as a disc rather than a point
}

var kindCaps = [NumBodyKinds]bodyCaps{
	KindStar:           {hasOrbit: false, isExtended: false},
	KindPlanet:         {hasAtmosphere: true, hasRings: true, hasOrbit: true, isExtended: true},
	KindDwarfPlanet:    {hasAtmosphere: true, hasOrbit: true, isExtended: true},
	KindMoon:           {hasOrbit: true, isExtended: true},
	KindMinorMoon:      {hasOrbit: true, isExtended: true},
	KindAsteroid:       {hasOrbit: true, isExtended: true},
	KindComet:          {hasOrbit: true, isExtended: true},
	KindSpacecraft:     {hasOrbit: true, isExtended: true},
	KindReferencePoint: {},
}

func (k BodyKind) HasAtmosphere() bool { return kindCaps[k].hasAtmosphere }
func (k BodyKind) HasRings() bool      { return kindCaps[k].hasRings }
func (k BodyKind) HasOrbit() bool      { return kindCaps[k].hasOrbit }
func (k BodyKind) IsExtended() bool    { return kindCaps[k].isExtended }

// Body is a solar-system object: a planet, moon, asteroid, comet, or
// spacecraft. Its position is updated once per frame from its orbit; the
// rest is static catalog data.
type Body struct {
	Name   string
	Kind   BodyKind
	Radius float64 // km
	Albedo float64

	// OrbitID is a stable identifier issued at catalog load; it keys the
	// orbit sample cache.
	OrbitID OrbitID
	Orbit   Orbit

	// Position is the body's current barycentric position in km, updated
	// by Universe.Update for the frame's time.
	Position [3]float64

	Visible bool
}

// BoundingRadius returns the radius of a sphere guaranteed to contain the
// body and its rings.
func (b *Body) BoundingRadius() float64 {
	if b.Kind.HasRings() {
		return 3 * b.Radius
	}
	return b.Radius
}

const (
	kmPerParsec = 3.0856775807e13
	kmPerAU     = 1.4959787e8

	// Absolute visual magnitude of the Sun; reflected-light magnitudes
	// are computed relative to it.
	sunAbsMag = 4.83
)

// AbsToAppMag converts an absolute magnitude to an apparent magnitude at
// the given distance in km.
func AbsToAppMag(absMag, distKm float64) float64 {
	return absMag + 5*math.Log1064(distKm/(10*kmPerParsec))
}

// AppToAbsMag is the inverse of AbsToAppMag.
func AppToAbsMag(appMag, distKm float64) float64 {
	return appMag - 5*math.Log1064(distKm/(10*kmPerParsec))
}

// ApparentMagnitude returns the body's apparent visual magnitude as seen
// from viewerPos, with illumination arriving from sunPos. The reflected
// luminosity scales with albedo, the square of the angular size of the
// body as seen from the light source, and the illuminated phase fraction.
func (b *Body) ApparentMagnitude(sunPos, viewerPos [3]float64) float64 {
	distToSun := math.Distance3d(b.Position, sunPos)
	distToViewer := math.Distance3d(b.Position, viewerPos)
	if distToSun <= 0 || distToViewer <= 0 {
		return sunAbsMag
	}

	toSun := math.Scale3d(math.Sub3d(sunPos, b.Position), 1/distToSun)
	toViewer := math.Scale3d(math.Sub3d(viewerPos, b.Position), 1/distToViewer)
	phase := (1 + math.Dot3d(toSun, toViewer)) / 2

	lum := b.Albedo * phase * math.Sqr(b.Radius/distToSun)
	if lum <= 0 {
		// Fully dark side; effectively invisible.
		return 100
	}
	absMag := sunAbsMag - 2.5*math.Log1064(lum)
	return AbsToAppMag(absMag, distToViewer)
}

// Star is a stellar catalog entry. Star positions are fixed over the
// timescales the engine simulates.
type Star struct {
	Name       string
	Position   [3]float64 // barycentric, km
	AbsMag     float64
	ColorIndex float64 // B-V
}

// ApparentMagnitude returns the star's apparent magnitude from the given
// viewer position.
func (s *Star) ApparentMagnitude(viewerPos [3]float64) float64 {
	d := math.Distance3d(s.Position, viewerPos)
	if d <= 0 {
		return s.AbsMag
	}
	return AbsToAppMag(s.AbsMag, d)
}

// Color maps the star's B-V color index to a display color with a simple
// blackbody-ish ramp from blue through white to red.
func (s *Star) Color() renderer.RGB {
	bv := math.Clamp(float32(s.ColorIndex), -0.4, 2.0)
	t := (bv + 0.4) / 2.4
	if t < 0.5 {
		// blue-white
		return renderer.LerpRGB(2*t, renderer.RGB{R: 0.6, G: 0.7, B: 1}, renderer.RGB{R: 1, G: 1, B: 1})
	}
	return renderer.LerpRGB(2*(t-0.5), renderer.RGB{R: 1, G: 1, B: 1}, renderer.RGB{R: 1, G: 0.6, B: 0.4})
}
