// pkg/renderer/stats.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image"
)

// StatsRenderer is a headless Renderer implementation that decodes
// command buffers and accumulates rendering statistics without touching a
// graphics API. It is used by tests and by offline runs that only want to
// know what would have been drawn.
type StatsRenderer struct {
	nextTextureID uint32
}

func NewStatsRenderer() *StatsRenderer {
	return &StatsRenderer{nextTextureID: 1}
}

func (s *StatsRenderer) CreateTextureFromImage(img image.Image, magNearest bool) uint32 {
	id := s.nextTextureID
	s.nextTextureID++
	return id
}

func (s *StatsRenderer) UpdateTextureFromImage(id uint32, img image.Image, magNearest bool) {}

func (s *StatsRenderer) DestroyTexture(id uint32) {}

func (s *StatsRenderer) Dispose() {}

// RenderCommandBuffer walks the encoded commands, skipping over each
// command's arguments and tallying draw calls. The decode must stay in
// lockstep with the encoding in commandbuffer.go.
func (s *StatsRenderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	for i := 0; i < len(cb.Buf); {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case RendererLoadProjectionMatrix, RendererLoadModelViewMatrix:
			i += 16
		case RendererClearRGBA:
			i += 4
		case RendererClearDepth:
			stats.nDepthClears++
		case RendererScissor, RendererViewport:
			i += 4
		case RendererBlend, RendererDisableBlend:
		case RendererEnableDepthTest, RendererDisableDepthTest:
		case RendererSetRGBA:
			i += 4
		case RendererFloatBuffer, RendererIntBuffer:
			n := int(cb.Buf[i])
			i += 1 + n
		case RendererEnableTexture:
			i++
		case RendererDisableTexture:
		case RendererVertexArray, RendererRGB32Array, RendererTexCoordArray:
			i += 3
		case RendererDisableVertexArray, RendererDisableColorArray, RendererDisableTexCoordArray:
		case RendererPointSize, RendererLineWidth:
			i++
		case RendererDrawPoints:
			count := int(cb.Buf[i+1])
			i += 2
			stats.nDrawCalls++
			stats.nPoints += count
		case RendererDrawLines:
			count := int(cb.Buf[i+1])
			i += 2
			stats.nDrawCalls++
			stats.nLines += count / 2
		case RendererDrawTriangles:
			count := int(cb.Buf[i+1])
			i += 2
			stats.nDrawCalls++
			stats.nTriangles += count / 3
		case RendererDrawQuads:
			count := int(cb.Buf[i+1])
			i += 2
			stats.nDrawCalls++
			stats.nQuads += count / 4
		case RendererCallBuffer:
			idx := int(cb.Buf[i])
			i++
			stats.Merge(s.RenderCommandBuffer(&cb.called[idx]))
		case RendererResetState:
		default:
			lg.Errorf("unhandled command in buffer: %d", cmd)
			return stats
		}
	}
	return stats
}
