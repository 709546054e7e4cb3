// pkg/renderer/font.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"sync"
	"unicode/utf8"
)

// Glyph describes a single glyph in a texture atlas: its texture
// coordinates, its size in pixels, and how far the cursor advances after
// drawing it.
type Glyph struct {
	// Vertex coordinates of the glyph quad relative to the cursor, where
	// (X0, Y0) is the upper-left corner.
	X0, Y0, X1, Y1 float32
	// Texture coordinates in the font atlas.
	U0, V0, U1, V1 float32
	AdvanceX       float32
	Visible        bool
}

// TextureFont provides the glyph metrics and atlas texture needed to lay
// out and draw text. Implementations may rasterize TrueType fonts into an
// atlas or provide fixed metrics for headless use.
type TextureFont interface {
	// Height returns the vertical distance in pixels between successive
	// baselines.
	Height() float32

	// LookupGlyph returns the Glyph for the given rune. Implementations
	// return a fallback glyph (and true) for runes they do not carry, or
	// false if no fallback exists.
	LookupGlyph(ch rune) (Glyph, bool)

	// Advance returns the horizontal advance in pixels for the given rune.
	Advance(ch rune) float32

	// TextureID returns the renderer texture handle for the font atlas, or
	// zero if the font has no texture (e.g., metrics-only fonts).
	TextureID() uint32
}

// TextWidth returns the width in pixels of the string when drawn with the
// given font. The string is decoded as UTF-8 rune by rune; newlines reset
// the running width and the widest line wins.
func TextWidth(f TextureFont, s string) float32 {
	var w, maxw float32
	for len(s) > 0 {
		ch, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		if ch == '\n' {
			w = 0
			continue
		}
		w += f.Advance(ch)
		if w > maxw {
			maxw = w
		}
	}
	return maxw
}

// TextStyle specifies the style of text to be drawn via TextDrawBuilder.
type TextStyle struct {
	Font  TextureFont
	Color RGB
	// DropShadow controls whether the text is drawn with a 1 pixel offset
	// shadow to improve contrast against busy backgrounds.
	DropShadow      bool
	DropShadowColor RGB
}

// TextDrawBuilder accumulates text to be drawn, batching the glyph quads
// of all of the strings that share a font atlas into a single draw call.
type TextDrawBuilder struct {
	// Quads for the glyphs themselves, with per-vertex colors.
	tris  TexturedTrianglesDrawBuilder
	color []RGB

	texture uint32
}

func (td *TextDrawBuilder) Reset() {
	td.tris.Reset()
	td.color = td.color[:0]
	td.texture = 0
}

// AddText draws the given text string with the top-left corner of its
// first glyph at p, returning the cursor position after the last glyph.
// The string is decoded as UTF-8; invalid bytes are replaced with
// utf8.RuneError and drawn with the font's fallback glyph. Newlines move
// the cursor down by the font height and return it to p's x coordinate.
func (td *TextDrawBuilder) AddText(s string, p [2]float32, style TextStyle) [2]float32 {
	if style.DropShadow {
		shadow := TextStyle{Font: style.Font, Color: style.DropShadowColor}
		td.addText(s, [2]float32{p[0] + 1, p[1] - 1}, shadow)
	}
	return td.addText(s, p, style)
}

func (td *TextDrawBuilder) addText(s string, p [2]float32, style TextStyle) [2]float32 {
	f := style.Font
	if id := f.TextureID(); id != 0 {
		if td.texture != 0 && td.texture != id {
			lg.Errorf("multiple font atlas textures in one TextDrawBuilder: %d and %d", td.texture, id)
		}
		td.texture = id
	}

	x, y := p[0], p[1]
	for len(s) > 0 {
		ch, n := utf8.DecodeRuneInString(s)
		s = s[n:]

		if ch == '\n' {
			x = p[0]
			y -= f.Height()
			continue
		}

		g, ok := f.LookupGlyph(ch)
		if !ok {
			continue
		}
		if g.Visible {
			// Quad corners relative to the cursor; y decreases downward
			// on screen so the glyph box hangs below the cursor.
			p0 := [2]float32{x + g.X0, y - g.Y0}
			p1 := [2]float32{x + g.X1, y - g.Y0}
			p2 := [2]float32{x + g.X1, y - g.Y1}
			p3 := [2]float32{x + g.X0, y - g.Y1}
			td.tris.AddQuad(p0, p1, p2, p3,
				[2]float32{g.U0, g.V0}, [2]float32{g.U1, g.V0},
				[2]float32{g.U1, g.V1}, [2]float32{g.U0, g.V1})
			td.color = append(td.color, style.Color, style.Color, style.Color, style.Color)
		}
		x += g.AdvanceX
	}
	return [2]float32{x, y}
}

// GenerateCommands adds commands to the command buffer to draw the
// accumulated text.
func (td *TextDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(td.color) == 0 {
		return
	}

	if td.texture != 0 {
		cb.EnableTexture(td.texture)
	}
	cb.Blend()

	rgb := cb.RGBBuffer(td.color)
	cb.RGB32Array(rgb, 3, 3*4)

	td.tris.GenerateCommands(cb)

	cb.DisableColorArray()
	cb.DisableBlend()
	if td.texture != 0 {
		cb.DisableTexture()
	}
}

var textDrawBuilderPool = sync.Pool{New: func() any { return &TextDrawBuilder{} }}

func GetTextDrawBuilder() *TextDrawBuilder {
	return textDrawBuilderPool.Get().(*TextDrawBuilder)
}

func ReturnTextDrawBuilder(td *TextDrawBuilder) {
	td.Reset()
	textDrawBuilderPool.Put(td)
}

///////////////////////////////////////////////////////////////////////////
// FixedPitchFont

// FixedPitchFont is a metrics-only TextureFont with uniform glyph
// advances; it has no atlas texture and draws nothing visible. It is used
// in tests and headless runs where only layout matters.
type FixedPitchFont struct {
	GlyphWidth  float32
	GlyphHeight float32
}

func (f FixedPitchFont) Height() float32 { return f.GlyphHeight }

func (f FixedPitchFont) LookupGlyph(ch rune) (Glyph, bool) {
	return Glyph{AdvanceX: f.GlyphWidth}, true
}

func (f FixedPitchFont) Advance(ch rune) float32 { return f.GlyphWidth }

func (f FixedPitchFont) TextureID() uint32 { return 0 }
