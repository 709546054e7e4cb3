// pkg/renderer/builders.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"sync"

	"github.com/orrery/orrery/pkg/math"
)

///////////////////////////////////////////////////////////////////////////
// DrawBuilders

// The various *DrawBuilder classes provide capabilities for specifying a
// number of independent things of the same type to draw and then
// generating corresponding buffer storage and draw commands in a
// CommandBuffer. This allows batching up many things to be drawn all in a
// single draw command, with corresponding GPU performance benefits.

// PointsDrawBuilder accumulates 3D points with per-point colors; it is
// used for drawing star fields, where each star has its own color from
// its spectral type.
type PointsDrawBuilder struct {
	p       [][3]float32
	color   []RGB
	indices []int32
}

// Reset resets the internal arrays used for accumulating points,
// maintaining the initial allocations.
func (p *PointsDrawBuilder) Reset() {
	p.p = p.p[:0]
	p.color = p.color[:0]
	p.indices = p.indices[:0]
}

// AddPoint adds the specified point to the draw list in the
// PointsDrawBuilder.
func (p *PointsDrawBuilder) AddPoint(pt [3]float32, color RGB) {
	p.p = append(p.p, pt)
	p.color = append(p.color, color)
	p.indices = append(p.indices, int32(len(p.p)-1))
}

// GenerateCommands adds commands to the specified command buffer to draw
// the points stored in the PointsDrawBuilder.
func (p *PointsDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(p.indices) == 0 {
		return
	}

	// Create arrays for the vertex positions and colors.
	pv := cb.Float3Buffer(p.p)
	cb.VertexArray(pv, 3, 3*4)
	rgb := cb.RGBBuffer(p.color)
	cb.RGB32Array(rgb, 3, 3*4)

	// Add the indices and draw command.
	ind := cb.IntBuffer(p.indices)
	cb.DrawPoints(ind, len(p.indices))

	// Clean up
	cb.DisableVertexArray()
	cb.DisableColorArray()
}

var pointsDrawBuilderPool = sync.Pool{New: func() any { return &PointsDrawBuilder{} }}

func GetPointsDrawBuilder() *PointsDrawBuilder {
	return pointsDrawBuilderPool.Get().(*PointsDrawBuilder)
}

func ReturnPointsDrawBuilder(pd *PointsDrawBuilder) {
	pd.Reset()
	pointsDrawBuilderPool.Put(pd)
}

// LinesDrawBuilder accumulates 3D lines to be drawn together, primarily
// orbit path polylines. Note that it does not allow specifying the colors
// of the lines; instead, whatever the current color is (as set via the
// CommandBuffer SetRGB method) is used when drawing them.
type LinesDrawBuilder struct {
	p       [][3]float32
	indices []int32
}

// Reset resets the internal arrays used for accumulating lines,
// maintaining the initial allocations.
func (l *LinesDrawBuilder) Reset() {
	l.p = l.p[:0]
	l.indices = l.indices[:0]
}

// AddLine adds a line with the specified vertex positions to the set of
// lines to be drawn.
func (l *LinesDrawBuilder) AddLine(p0, p1 [3]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p0, p1)
	l.indices = append(l.indices, idx, idx+1)
}

// AddLineStrip adds multiple lines to the lines draw builder where each
// line is given by a successive pair of points, a la GL_LINE_STRIP.
func (l *LinesDrawBuilder) AddLineStrip(p [][3]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := 0; i < len(p)-1; i++ {
		l.indices = append(l.indices, idx+int32(i), idx+int32(i+1))
	}
}

// AddLineLoop adds a line loop, like a line strip but where the last
// vertex connects to the first, a la GL_LINE_LOOP.
func (l *LinesDrawBuilder) AddLineLoop(p [][3]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p...)
	for i := range p {
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)%len(p)))
	}
}

// GenerateCommands adds commands to the specified command buffer to draw
// the lines stored in the LinesDrawBuilder.
func (l *LinesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(l.indices) == 0 {
		return
	}

	// Add the vertex positions to the command buffer.
	p := cb.Float3Buffer(l.p)
	cb.VertexArray(p, 3, 3*4)

	// Add the vertex indices and issue the draw command.
	ind := cb.IntBuffer(l.indices)
	cb.DrawLines(ind, len(l.indices))

	// Clean up
	cb.DisableVertexArray()
}

// LinesDrawBuilders are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var linesDrawBuilderPool = sync.Pool{New: func() any { return &LinesDrawBuilder{} }}

func GetLinesDrawBuilder() *LinesDrawBuilder {
	return linesDrawBuilderPool.Get().(*LinesDrawBuilder)
}

func ReturnLinesDrawBuilder(ld *LinesDrawBuilder) {
	ld.Reset()
	linesDrawBuilderPool.Put(ld)
}

// Lines2DDrawBuilder accumulates screen-space lines: annotation markers,
// orbit direction ticks, and the like. Coordinates are in window pixels.
type Lines2DDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (l *Lines2DDrawBuilder) Reset() {
	l.p = l.p[:0]
	l.indices = l.indices[:0]
}

func (l *Lines2DDrawBuilder) AddLine(p0, p1 [2]float32) {
	idx := int32(len(l.p))
	l.p = append(l.p, p0, p1)
	l.indices = append(l.indices, idx, idx+1)
}

// AddCircle adds lines that draw the outline of a circle with specified
// radius centered at the specified point p. The nsegs parameter specifies
// the tessellation rate for the circle.
func (l *Lines2DDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(l.p))
	for i := 0; i < nsegs; i++ {
		// Translate the points to be centered around the point p with the
		// given radius and add them to the vertex buffer.
		pi := [2]float32{p[0] + radius*circle[i][0], p[1] + radius*circle[i][1]}
		l.p = append(l.p, pi)
	}
	for i := 0; i < nsegs; i++ {
		// Initialize the index buffer; note that the first vertex is
		// reused as the endpoint of the last line segment.
		l.indices = append(l.indices, idx+int32(i), idx+int32((i+1)%nsegs))
	}
}

// Bounds returns the 2D bounding box of the accumulated lines.
func (l *Lines2DDrawBuilder) Bounds() math.Extent2D {
	return math.Extent2DFromPoints(l.p)
}

func (l *Lines2DDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(l.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(l.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(l.indices)
	cb.DrawLines(ind, len(l.indices))

	cb.DisableVertexArray()
}

var lines2DDrawBuilderPool = sync.Pool{New: func() any { return &Lines2DDrawBuilder{} }}

func GetLines2DDrawBuilder() *Lines2DDrawBuilder {
	return lines2DDrawBuilderPool.Get().(*Lines2DDrawBuilder)
}

func ReturnLines2DDrawBuilder(ld *Lines2DDrawBuilder) {
	ld.Reset()
	lines2DDrawBuilderPool.Put(ld)
}

// TrianglesDrawBuilder collects 2D triangles to be batched up in a single
// draw call; it is used for filled markers and body discs. Note that it
// does not allow specifying per-vertex or per-triangle color; rather, the
// current color as specified by a call to the CommandBuffer SetRGB method
// is used for all triangles.
type TrianglesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (t *TrianglesDrawBuilder) Reset() {
	t.p = t.p[:0]
	t.indices = t.indices[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *TrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2)
	t.indices = append(t.indices, idx, idx+1, idx+2)
}

// AddQuad adds a quadrilateral with the specified four vertices to be
// drawn; the quad is split into two triangles for drawing.
func (t *TrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2, p3)
	t.indices = append(t.indices, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddCircle adds a filled circle with specified radius around the
// specified position to be drawn using triangles. The specified number of
// segments, nsegs, sets the tessellation rate for the circle.
func (t *TrianglesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(t.p))
	t.p = append(t.p, p) // center point
	for i := 0; i < nsegs; i++ {
		pi := [2]float32{p[0] + radius*circle[i][0], p[1] + radius*circle[i][1]}
		t.p = append(t.p, pi)
	}
	for i := 0; i < nsegs; i++ {
		t.indices = append(t.indices, idx, idx+1+int32(i), idx+1+int32((i+1)%nsegs))
	}
}

func (t *TrianglesDrawBuilder) Bounds() math.Extent2D {
	return math.Extent2DFromPoints(t.p)
}

func (t *TrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(t.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(t.indices)
	cb.DrawTriangles(ind, len(t.indices))

	cb.DisableVertexArray()
}

var trianglesDrawBuilderPool = sync.Pool{New: func() any { return &TrianglesDrawBuilder{} }}

func GetTrianglesDrawBuilder() *TrianglesDrawBuilder {
	return trianglesDrawBuilderPool.Get().(*TrianglesDrawBuilder)
}

func ReturnTrianglesDrawBuilder(td *TrianglesDrawBuilder) {
	td.Reset()
	trianglesDrawBuilderPool.Put(td)
}

// Triangles3DDrawBuilder collects triangles with 3D vertex positions; it
// is used for body discs drawn in camera space so that they depth-test
// correctly against other scene geometry.
type Triangles3DDrawBuilder struct {
	p       [][3]float32
	indices []int32
}

func (t *Triangles3DDrawBuilder) Reset() {
	t.p = t.p[:0]
	t.indices = t.indices[:0]
}

func (t *Triangles3DDrawBuilder) AddTriangle(p0, p1, p2 [3]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2)
	t.indices = append(t.indices, idx, idx+1, idx+2)
}

// AddDisc adds a filled camera-facing disc in the z = center[2] plane,
// tessellated into nsegs triangles.
func (t *Triangles3DDrawBuilder) AddDisc(center [3]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(t.p))
	t.p = append(t.p, center)
	for i := 0; i < nsegs; i++ {
		t.p = append(t.p, [3]float32{center[0] + radius*circle[i][0], center[1] + radius*circle[i][1], center[2]})
	}
	for i := 0; i < nsegs; i++ {
		t.indices = append(t.indices, idx, idx+1+int32(i), idx+1+int32((i+1)%nsegs))
	}
}

func (t *Triangles3DDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	p := cb.Float3Buffer(t.p)
	cb.VertexArray(p, 3, 3*4)

	ind := cb.IntBuffer(t.indices)
	cb.DrawTriangles(ind, len(t.indices))

	cb.DisableVertexArray()
}

var triangles3DDrawBuilderPool = sync.Pool{New: func() any { return &Triangles3DDrawBuilder{} }}

func GetTriangles3DDrawBuilder() *Triangles3DDrawBuilder {
	return triangles3DDrawBuilderPool.Get().(*Triangles3DDrawBuilder)
}

func ReturnTriangles3DDrawBuilder(td *Triangles3DDrawBuilder) {
	td.Reset()
	triangles3DDrawBuilderPool.Put(td)
}

// TexturedTrianglesDrawBuilder generates commands for drawing a set of
// triangles with associated uv texture coordinates using a specified
// single texture map; it is used for rendering glyph quads when drawing
// label text.
type TexturedTrianglesDrawBuilder struct {
	TrianglesDrawBuilder
	uv [][2]float32
}

func (t *TexturedTrianglesDrawBuilder) Reset() {
	t.TrianglesDrawBuilder.Reset()
	t.uv = t.uv[:0]
}

// AddQuad adds a quad to be drawn, including texture coordinates for each
// vertex.
func (t *TexturedTrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32, uv0, uv1, uv2, uv3 [2]float32) {
	t.TrianglesDrawBuilder.AddQuad(p0, p1, p2, p3)
	t.uv = append(t.uv, uv0, uv1, uv2, uv3)
}

// GenerateCommands adds commands to the specified command buffer to draw
// the triangles stored in the TexturedTrianglesDrawBuilder. The caller is
// responsible for binding the texture before issuing them.
func (t *TexturedTrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	uv := cb.Float2Buffer(t.uv)
	cb.TexCoordArray(uv, 2, 2*4)

	t.TrianglesDrawBuilder.GenerateCommands(cb)

	cb.DisableTexCoordArray()
}

var texturedTrianglesDrawBuilderPool = sync.Pool{New: func() any { return &TexturedTrianglesDrawBuilder{} }}

func GetTexturedTrianglesDrawBuilder() *TexturedTrianglesDrawBuilder {
	return texturedTrianglesDrawBuilderPool.Get().(*TexturedTrianglesDrawBuilder)
}

func ReturnTexturedTrianglesDrawBuilder(td *TexturedTrianglesDrawBuilder) {
	td.Reset()
	texturedTrianglesDrawBuilderPool.Put(td)
}
