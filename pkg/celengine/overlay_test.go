// pkg/celengine/overlay_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"

	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
)

func mathExtent(x0, y0, x1, y1 float32) math.Extent2D {
	return math.Extent2D{P0: [2]float32{x0, y0}, P1: [2]float32{x1, y1}}
}

func testOverlay() *Overlay {
	return NewOverlay(renderer.FixedPitchFont{GlyphWidth: 7, GlyphHeight: 12}, 640, 480)
}

func TestTextBlockRestoresCursor(t *testing.T) {
	o := testOverlay()
	defer o.Dispose()
	o.Begin()

	o.MoveTo(100, 200)
	before := o.CursorPosition()

	o.BeginText()
	o.Print("A\nB")
	o.EndText()

	if got := o.CursorPosition(); got != before {
		t.Errorf("cursor %v after EndText, want %v", got, before)
	}
}

func TestTextBlockLineSpacing(t *testing.T) {
	o := testOverlay()
	defer o.Dispose()
	o.Begin()

	o.MoveTo(100, 200)
	o.BeginText()
	o.Print("A")
	y0 := o.CursorPosition()[1]
	o.Print("\n")
	y1 := o.CursorPosition()[1]
	o.EndText()

	// The vertical gap between lines is the font height plus one pixel
	// of leading.
	if gap := y0 - y1; gap != 12+1 {
		t.Errorf("line gap %g, want 13", gap)
	}
	// Newline also returns the cursor to the block's left edge.
	if x := o.CursorPosition()[0]; x != 100 {
		t.Errorf("cursor x %g after newline, want 100", x)
	}
}

func TestTextBlockNesting(t *testing.T) {
	o := testOverlay()
	defer o.Dispose()
	o.Begin()

	o.MoveTo(50, 400)
	o.BeginText()
	o.Print("outer")
	inner := o.CursorPosition()

	o.BeginText()
	o.Print("in\nner")
	// Inner newlines return to the inner block's left edge.
	if x := o.CursorPosition()[0]; x != inner[0]+3*7 {
		t.Errorf("inner cursor x %g, want %g", x, inner[0]+3*7)
	}
	o.EndText()

	if got := o.CursorPosition(); got != inner {
		t.Errorf("inner block did not restore cursor: %v vs %v", got, inner)
	}
	o.EndText()
	if got := o.CursorPosition(); got != [2]float32{50, 400} {
		t.Errorf("outer block did not restore cursor: %v", got)
	}
}

func TestWriteTextUTF8(t *testing.T) {
	o := testOverlay()
	defer o.Dispose()
	o.Begin()

	o.MoveTo(0, 100)
	// Multi-byte codepoints advance the cursor one glyph each.
	o.WriteText([]byte("αβγ"))
	if x := o.CursorPosition()[0]; x != 3*7 {
		t.Errorf("cursor x %g after 3 codepoints, want 21", x)
	}

	// Invalid bytes decode to the replacement character, one glyph each.
	o.MoveTo(0, 100)
	o.WriteText([]byte{0xff, 0xfe})
	if x := o.CursorPosition()[0]; x != 2*7 {
		t.Errorf("cursor x %g after invalid bytes, want 14", x)
	}
}

func TestOverlayCommands(t *testing.T) {
	o := testOverlay()
	defer o.Dispose()
	o.Begin()

	o.FilledRect(mathExtent(10, 10, 50, 30))
	o.Rect(mathExtent(60, 10, 100, 30))

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	o.GenerateCommands(cb)

	r := renderer.NewStatsRenderer()
	stats := r.RenderCommandBuffer(cb)
	if stats.Triangles() != 2 {
		t.Errorf("filled rect drew %d triangles, want 2", stats.Triangles())
	}
	if stats.Lines() != 4 {
		t.Errorf("outline rect drew %d lines, want 4", stats.Lines())
	}
}

func TestOverlayNilFontSkipsText(t *testing.T) {
	o := NewOverlay(nil, 800, 600)
	defer o.Dispose()
	o.Begin()
	o.MoveTo(10, 590)

	// Text drawn before a font is installed is skipped for the frame, not
	// a crash.
	o.Print("no font yet\nstill none")
	if p := o.CursorPosition(); p != [2]float32{10, 590} {
		t.Errorf("cursor moved without a font: %v", p)
	}

	o.SetFont(renderer.FixedPitchFont{GlyphWidth: 7, GlyphHeight: 12})
	o.Print("ok")
	if p := o.CursorPosition(); p != [2]float32{24, 590} {
		t.Errorf("cursor after font installed: %v, want {24, 590}", p)
	}
}
