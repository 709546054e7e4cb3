// pkg/celengine/overlay.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"unicode/utf8"

	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
)

// Overlay draws screen-space text and rectangles for the HUD: selection
// info, frame statistics, and the like. Text is organized in blocks: a
// BeginText/EndText pair brackets a block, pushing the cursor position on
// entry and restoring it on exit so nested multi-line blocks compose
// without manual offset bookkeeping. Within a block, a newline drops the
// cursor one line and returns it to the block's left edge.
type Overlay struct {
	font  renderer.TextureFont
	color renderer.RGB

	cursor [2]float32
	blocks []textBlock

	windowWidth, windowHeight int

	text  *renderer.TextDrawBuilder
	lines *renderer.Lines2DDrawBuilder
	quads *renderer.TrianglesDrawBuilder
}

type textBlock struct {
	restore [2]float32
	startX  float32
}

func NewOverlay(font renderer.TextureFont, width, height int) *Overlay {
	return &Overlay{
		font:         font,
		color:        renderer.RGB{R: 1, G: 1, B: 1},
		windowWidth:  width,
		windowHeight: height,
		text:         renderer.GetTextDrawBuilder(),
		lines:        renderer.GetLines2DDrawBuilder(),
		quads:        renderer.GetTrianglesDrawBuilder(),
	}
}

// Begin resets the overlay for a new frame.
func (o *Overlay) Begin() {
	o.cursor = [2]float32{0, float32(o.windowHeight)}
	o.blocks = o.blocks[:0]
	o.text.Reset()
	o.lines.Reset()
	o.quads.Reset()
}

func (o *Overlay) SetColor(c renderer.RGB)         { o.color = c }
func (o *Overlay) SetFont(f renderer.TextureFont)  { o.font = f }
func (o *Overlay) SetWindowSize(width, height int) { o.windowWidth, o.windowHeight = width, height }

// MoveTo places the cursor at the given window coordinates (origin at the
// lower left, y up).
func (o *Overlay) MoveTo(x, y float32) {
	o.cursor = [2]float32{x, y}
}

// MoveBy offsets the cursor.
func (o *Overlay) MoveBy(dx, dy float32) {
	o.cursor = math.Add2f(o.cursor, [2]float32{dx, dy})
}

// CursorPosition returns the current cursor position.
func (o *Overlay) CursorPosition() [2]float32 { return o.cursor }

// BeginText opens a text block at the current cursor position. The
// position is saved and restored by the matching EndText.
func (o *Overlay) BeginText() {
	o.blocks = append(o.blocks, textBlock{restore: o.cursor, startX: o.cursor[0]})
}

// EndText closes the innermost text block, restoring the cursor to where
// it was when the block was opened.
func (o *Overlay) EndText() {
	if len(o.blocks) == 0 {
		lg.Errorf("EndText called with no open text block")
		return
	}
	o.cursor = o.blocks[len(o.blocks)-1].restore
	o.blocks = o.blocks[:len(o.blocks)-1]
}

// lineStartX returns the x coordinate newlines return to: the innermost
// open block's left edge, or the window's.
func (o *Overlay) lineStartX() float32 {
	if len(o.blocks) > 0 {
		return o.blocks[len(o.blocks)-1].startX
	}
	return 0
}

// Print draws s at the cursor and advances it. A newline moves the
// cursor down one line height plus one pixel of leading and back to the
// line start.
func (o *Overlay) Print(s string) {
	for len(s) > 0 {
		ch, n := utf8.DecodeRuneInString(s)
		s = s[n:]
		o.printRune(ch)
	}
}

// WriteText decodes the given bytes as UTF-8 and prints each codepoint;
// invalid sequences decode to the replacement character.
func (o *Overlay) WriteText(b []byte) {
	for len(b) > 0 {
		ch, n := utf8.DecodeRune(b)
		b = b[n:]
		o.printRune(ch)
	}
}

func (o *Overlay) printRune(ch rune) {
	if o.font == nil {
		// No font installed yet; text is skipped until one is available.
		return
	}
	if ch == '\n' {
		o.cursor[0] = o.lineStartX()
		o.cursor[1] -= o.font.Height() + 1
		return
	}
	end := o.text.AddText(string(ch), o.cursor, renderer.TextStyle{Font: o.font, Color: o.color})
	o.cursor[0] = end[0]
}

// Rect draws an outlined rectangle with the current color.
func (o *Overlay) Rect(e math.Extent2D) {
	o.lines.AddLine(e.P0, [2]float32{e.P1[0], e.P0[1]})
	o.lines.AddLine([2]float32{e.P1[0], e.P0[1]}, e.P1)
	o.lines.AddLine(e.P1, [2]float32{e.P0[0], e.P1[1]})
	o.lines.AddLine([2]float32{e.P0[0], e.P1[1]}, e.P0)
}

// FilledRect draws a filled rectangle with the current color.
func (o *Overlay) FilledRect(e math.Extent2D) {
	o.quads.AddQuad(e.P0, [2]float32{e.P1[0], e.P0[1]}, e.P1, [2]float32{e.P0[0], e.P1[1]})
}

// GenerateCommands emits the overlay's accumulated drawing into the
// command buffer under a pixel-space orthographic projection.
func (o *Overlay) GenerateCommands(cb *renderer.CommandBuffer) {
	cb.LoadProjectionMatrix(math.MakeOrtho4x4(0, float64(o.windowWidth), 0, float64(o.windowHeight)))
	cb.LoadModelViewMatrix(math.Identity4x4())
	cb.DisableDepthTest()

	cb.SetRGB(o.color)
	o.quads.GenerateCommands(cb)
	o.lines.GenerateCommands(cb)
	o.text.GenerateCommands(cb)
}

// Dispose returns the overlay's pooled builders.
func (o *Overlay) Dispose() {
	renderer.ReturnTextDrawBuilder(o.text)
	renderer.ReturnLines2DDrawBuilder(o.lines)
	renderer.ReturnTrianglesDrawBuilder(o.quads)
	o.text, o.lines, o.quads = nil, nil, nil
}
