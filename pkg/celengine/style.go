// pkg/celengine/style.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"github.com/orrery/orrery/pkg/renderer"
)

// MarkerShape enumerates the screen-space marker glyphs that can accompany
// a label.
type MarkerShape int

const (
	MarkerNone = MarkerShape(iota)
	MarkerDiamond
	MarkerPlus
	MarkerX
	MarkerCircle
)

// Style collects the colors and marker representations used when drawing
// labels, orbits, and markers. A Style is set at SceneRenderer
// construction and never mutated afterwards, so tests can inject a
// deterministic one and concurrent readers need no locking.
type Style struct {
	BackgroundColor renderer.RGB

	LabelColors map[BodyKind]renderer.RGB
	OrbitColors map[BodyKind]renderer.RGB

	SelectionMarker MarkerShape
	MarkerSize      float32
	MarkerColor     renderer.RGB

	StarColor renderer.RGB // fallback for stars without a color index
}

// LabelColor returns the label color for the given body kind, falling
// back to white for kinds the style does not name.
func (s *Style) LabelColor(k BodyKind) renderer.RGB {
	if c, ok := s.LabelColors[k]; ok {
		return c
	}
	return renderer.RGB{R: 1, G: 1, B: 1}
}

// OrbitColor returns the orbit path color for the given body kind.
func (s *Style) OrbitColor(k BodyKind) renderer.RGB {
	if c, ok := s.OrbitColors[k]; ok {
		return c
	}
	return renderer.RGB{R: 0.5, G: 0.5, B: 0.5}
}

// DefaultStyle returns the stock color scheme.
func DefaultStyle() *Style {
	return &Style{
		BackgroundColor: renderer.RGB{},
		LabelColors: map[BodyKind]renderer.RGB{
			KindStar:           renderer.RGBFromHex(0x71a3b9),
			KindPlanet:         renderer.RGBFromHex(0x00cc99),
			KindDwarfPlanet:    renderer.RGBFromHex(0x99bbaa),
			KindMoon:           renderer.RGBFromHex(0x38812f),
			KindMinorMoon:      renderer.RGBFromHex(0x5a7744),
			KindAsteroid:       renderer.RGBFromHex(0x7c4d33),
			KindComet:          renderer.RGBFromHex(0x9aa3b0),
			KindSpacecraft:     renderer.RGBFromHex(0x999999),
			KindReferencePoint: renderer.RGBFromHex(0x474747),
		},
		OrbitColors: map[BodyKind]renderer.RGB{
			KindStar:        renderer.RGBFromHex(0x66376b),
			KindPlanet:      renderer.RGBFromHex(0x404089),
			KindDwarfPlanet: renderer.RGBFromHex(0x54547d),
			KindMoon:        renderer.RGBFromHex(0x335577),
			KindMinorMoon:   renderer.RGBFromHex(0x334455),
			KindAsteroid:    renderer.RGBFromHex(0x663e30),
			KindComet:       renderer.RGBFromHex(0x404064),
			KindSpacecraft:  renderer.RGBFromHex(0x666666),
		},
		SelectionMarker: MarkerDiamond,
		MarkerSize:      10,
		MarkerColor:     renderer.RGBFromHex(0x00ff00),
		StarColor:       renderer.RGB{R: 1, G: 1, B: 1},
	}
}
