// pkg/renderer/renderer.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/orrery/orrery/pkg/log"
)

// Also available as a global, though only used by CommandBuffer
var lg *log.Logger

// SetLogger installs the logger used for internal errors found while
// encoding command buffers. Backends call this once at initialization.
func SetLogger(l *log.Logger) { lg = l }

// Renderer defines an interface for all of the drawing that the engine
// produces. The engine itself never talks to a graphics API; it encodes
// work into CommandBuffers and hands them to whichever Renderer
// implementation is in use. Besides a GPU-backed implementation, a
// headless StatsRenderer is provided for tests and offline runs.
type Renderer interface {
	// CreateTextureFromImage returns an identifier for a texture map
	// defined by the specified image.
	CreateTextureFromImage(image image.Image, magNearest bool) uint32

	// UpdateTextureFromImage updates the contents of an existing texture
	// with the provided image.
	UpdateTextureFromImage(id uint32, image image.Image, magNearest bool)

	// DestroyTexture frees the resources associated with the given texture id.
	DestroyTexture(id uint32)

	// RenderCommandBuffer executes all of the commands encoded in the
	// provided command buffer, returning statistics about what was
	// rendered.
	RenderCommandBuffer(*CommandBuffer) RendererStats

	// Dispose releases resources allocated by the renderer.
	Dispose()
}

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	nBuffers, bufferBytes               int
	nDrawCalls                          int
	nPoints, nLines, nTriangles, nQuads int
	nDepthClears                        int
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d buffers (%.2f MB), %d draw calls: %d points, %d lines, %d tris, %d quads, %d depth clears",
		rs.nBuffers, float32(rs.bufferBytes)/(1024*1024), rs.nDrawCalls, rs.nPoints, rs.nLines, rs.nTriangles,
		rs.nQuads, rs.nDepthClears)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.nBuffers += s.nBuffers
	rs.bufferBytes += s.bufferBytes
	rs.nDrawCalls += s.nDrawCalls
	rs.nPoints += s.nPoints
	rs.nLines += s.nLines
	rs.nTriangles += s.nTriangles
	rs.nQuads += s.nQuads
	rs.nDepthClears += s.nDepthClears
}

func (rs RendererStats) DrawCalls() int   { return rs.nDrawCalls }
func (rs RendererStats) Points() int      { return rs.nPoints }
func (rs RendererStats) Lines() int       { return rs.nLines }
func (rs RendererStats) Triangles() int   { return rs.nTriangles }
func (rs RendererStats) DepthClears() int { return rs.nDepthClears }

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("buffers", rs.nBuffers),
		slog.Int("buffer_memory", rs.bufferBytes),
		slog.Int("draw_calls", rs.nDrawCalls),
		slog.Int("points_drawn", rs.nPoints),
		slog.Int("lines", rs.nLines),
		slog.Int("tris", rs.nTriangles),
		slog.Int("quads", rs.nQuads),
		slog.Int("depth_clears", rs.nDepthClears),
	)
}
