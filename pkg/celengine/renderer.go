// pkg/celengine/renderer.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	gomath "math"
	"slices"

	"github.com/orrery/orrery/pkg/log"
	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/renderer"
	"github.com/orrery/orrery/pkg/util"
)

// Also available as a global for free functions in this package.
var lg *log.Logger

// FrameScratch holds all of the per-frame containers: the render list,
// the orbit path list, and the three annotation sequences. It is owned by
// the SceneRenderer, reset (not reallocated) at the start of each frame,
// and written only by the frame driver; nothing may hold references into
// it across frames.
type FrameScratch struct {
	renderList []RenderListEntry
	orbitList  []OrbitPathListEntry
	partitions []DepthBufferPartition

	backgroundAnnotations []Annotation
	foregroundAnnotations []Annotation
	sortedAnnotations     []Annotation

	objectAnnotationsOpen  bool
	objectAnnotationOrigin [3]float64
}

// Reset truncates every container, retaining capacity.
func (s *FrameScratch) Reset() {
	s.renderList = s.renderList[:0]
	s.orbitList = s.orbitList[:0]
	s.partitions = s.partitions[:0]
	s.backgroundAnnotations = s.backgroundAnnotations[:0]
	s.foregroundAnnotations = s.foregroundAnnotations[:0]
	s.sortedAnnotations = s.sortedAnnotations[:0]
	s.objectAnnotationsOpen = false
}

// RendererWatcher is notified when a render setting changes, e.g. so a UI
// can refresh or a session can persist the settings.
type RendererWatcher interface {
	RenderSettingsChanged(sr *SceneRenderer)
}

// SceneRenderer is the frame driver: each frame it walks the universe,
// builds and sorts the render and orbit lists, partitions them by depth,
// collects annotations, and emits ordered draw commands into a
// CommandBuffer for whatever renderer.Renderer is in use.
type SceneRenderer struct {
	style *Style
	lg    *log.Logger

	// Configuration surface. Kind-bit masks select which object
	// categories are drawn, labeled, and have orbit paths.
	renderFlags uint32
	labelMode   uint32
	orbitMask   uint32

	faintestMag     float64
	ambientLight    float32
	minFeatureSize  float64 // pixels
	minOrbitSize    float64 // pixels
	distanceLimit   float64 // km
	depthSplitRatio float64
	autoMag         bool
	fadingOrbits    bool
	screenDPI       int

	detail     DetailOptions
	autoMagCtl autoMagController

	font renderer.TextureFont

	orbitCache *OrbitCache
	scratch    FrameScratch

	selection     *Body
	starSelection *Star

	watchers []RendererWatcher
}

const (
	defaultFaintestMag     = 6.0
	defaultDistanceLimit   = 1e9 * 9.46e12 // 1e9 ly, effectively unlimited
	defaultDepthSplitRatio = 2000
	defaultOrbitCacheSize  = 1024
	orbitCacheFlushFrames  = 128
)

func NewSceneRenderer(style *Style, l *log.Logger) *SceneRenderer {
	if style == nil {
		style = DefaultStyle()
	}
	lg = l
	return &SceneRenderer{
		style:           style,
		lg:              l,
		renderFlags:     allKindsMask(),
		labelMode:       0,
		orbitMask:       allKindsMask(),
		faintestMag:     defaultFaintestMag,
		minFeatureSize:  0,
		minOrbitSize:    1,
		distanceLimit:   defaultDistanceLimit,
		depthSplitRatio: defaultDepthSplitRatio,
		screenDPI:       96,
		detail:          DefaultDetailOptions(),
		autoMagCtl:      defaultAutoMagController(),
		orbitCache:      NewOrbitCache(defaultOrbitCacheSize, orbitCacheFlushFrames),
	}
}

func allKindsMask() uint32 {
	var m uint32
	for k := BodyKind(0); k < NumBodyKinds; k++ {
		m |= k.Flag()
	}
	return m
}

///////////////////////////////////////////////////////////////////////////
// Configuration

// Out-of-range settings are clamped with a warning rather than rejected:
// the configuration surface is exercised every frame and must never cost
// us the frame.

func (sr *SceneRenderer) RenderFlags() uint32 { return sr.renderFlags }

func (sr *SceneRenderer) SetRenderFlags(flags uint32) {
	sr.renderFlags = flags
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) LabelMode() uint32 { return sr.labelMode }

func (sr *SceneRenderer) SetLabelMode(mode uint32) {
	sr.labelMode = mode
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) OrbitMask() uint32 { return sr.orbitMask }

func (sr *SceneRenderer) SetOrbitMask(mask uint32) {
	sr.orbitMask = mask
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) FaintestVisible() float64 { return sr.faintestMag }

func (sr *SceneRenderer) SetFaintestVisible(mag float64) {
	if !math.IsFinite(mag) {
		sr.lg.Warnf("non-finite faintest magnitude ignored")
		return
	}
	c := math.Clamp(mag, sr.autoMagCtl.MinMag, sr.autoMagCtl.MaxMag)
	if c != mag {
		sr.lg.Warnf("faintest magnitude %g clamped to %g", mag, c)
	}
	sr.faintestMag = c
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) AmbientLight() float32 { return sr.ambientLight }

func (sr *SceneRenderer) SetAmbientLight(level float32) {
	c := math.Clamp(level, 0, 1)
	if c != level {
		sr.lg.Warnf("ambient light %g clamped to %g", level, c)
	}
	sr.ambientLight = c
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) MinimumFeatureSize() float64 { return sr.minFeatureSize }

func (sr *SceneRenderer) SetMinimumFeatureSize(pixels float64) {
	if pixels < 0 {
		sr.lg.Warnf("negative minimum feature size %g clamped to 0", pixels)
		pixels = 0
	}
	sr.minFeatureSize = pixels
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) MinimumOrbitSize() float64 { return sr.minOrbitSize }

func (sr *SceneRenderer) SetMinimumOrbitSize(pixels float64) {
	if pixels < 0 {
		sr.lg.Warnf("negative minimum orbit size %g clamped to 0", pixels)
		pixels = 0
	}
	sr.minOrbitSize = pixels
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) DistanceLimit() float64 { return sr.distanceLimit }

func (sr *SceneRenderer) SetDistanceLimit(km float64) {
	if km <= 0 || !math.IsFinite(km) {
		sr.lg.Warnf("distance limit %g reset to default", km)
		km = defaultDistanceLimit
	}
	sr.distanceLimit = km
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) DepthSplitRatio() float64 { return sr.depthSplitRatio }

func (sr *SceneRenderer) SetDepthSplitRatio(ratio float64) {
	if ratio < 1 {
		sr.lg.Warnf("depth split ratio %g clamped to 1", ratio)
		ratio = 1
	}
	sr.depthSplitRatio = ratio
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) AutoMag() bool { return sr.autoMag }

func (sr *SceneRenderer) SetAutoMag(on bool) {
	sr.autoMag = on
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) FadingOrbits() bool { return sr.fadingOrbits }

func (sr *SceneRenderer) SetFadingOrbits(on bool) {
	sr.fadingOrbits = on
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) ScreenDPI() int { return sr.screenDPI }

func (sr *SceneRenderer) SetScreenDPI(dpi int) {
	if dpi <= 0 {
		sr.lg.Warnf("DPI %d reset to 96", dpi)
		dpi = 96
	}
	sr.screenDPI = dpi
	sr.MarkSettingsChanged()
}

func (sr *SceneRenderer) DetailOptions() DetailOptions { return sr.detail }

func (sr *SceneRenderer) SetDetailOptions(d DetailOptions) {
	if d.OrbitPathSamplePoints < 2 {
		sr.lg.Warnf("orbit sample points %d clamped to 2", d.OrbitPathSamplePoints)
		d.OrbitPathSamplePoints = 2
	}
	sr.detail = d
	// Cached plots were sampled with the old options.
	sr.orbitCache.InvalidateAll()
	sr.MarkSettingsChanged()
}

// SetFont installs the font used for labels. A nil font is allowed; label
// text is skipped until one is available.
func (sr *SceneRenderer) SetFont(f renderer.TextureFont) {
	sr.font = f
}

// SetSelection marks a body as the current selection; the selection is
// always admitted to the render list regardless of magnitude and feature
// size, and is drawn with a marker.
func (sr *SceneRenderer) SetSelection(b *Body) {
	sr.selection = b
}

// SetStarSelection marks a star as the current selection; like a selected
// body it bypasses the magnitude and distance rejections.
func (sr *SceneRenderer) SetStarSelection(s *Star) {
	sr.starSelection = s
}

func (sr *SceneRenderer) OrbitCache() *OrbitCache { return sr.orbitCache }

func (sr *SceneRenderer) AddWatcher(w RendererWatcher) {
	if !slices.Contains(sr.watchers, w) {
		sr.watchers = append(sr.watchers, w)
	}
}

func (sr *SceneRenderer) RemoveWatcher(w RendererWatcher) {
	sr.watchers = slices.DeleteFunc(sr.watchers, func(ww RendererWatcher) bool { return ww == w })
}

// MarkSettingsChanged notifies all registered watchers.
func (sr *SceneRenderer) MarkSettingsChanged() {
	for _, w := range sr.watchers {
		w.RenderSettingsChanged(sr)
	}
}

///////////////////////////////////////////////////////////////////////////
// Frame

// FrameStats summarizes one frame's work.
type FrameStats struct {
	VisibleStars  int
	VisibleBodies int
	Traversal     TraversalStats
	OrbitsDrawn   int
	Partitions    int
	Annotations   int
	CacheHits     int
	CacheMisses   int
	FaintestMag   float64
}

// RenderFrame runs the whole per-frame pipeline for the universe as seen
// by the observer at time now (seconds since epoch) and emits ordered
// draw commands into cb. It runs to completion on the calling goroutine;
// there are no internal suspension points and no errors cross the frame
// boundary.
func (sr *SceneRenderer) RenderFrame(u *Universe, obs *Observer, now float64, cb *renderer.CommandBuffer) FrameStats {
	var stats FrameStats

	sr.scratch.Reset()
	hits0, misses0 := sr.orbitCache.Stats()
	sr.orbitCache.StartFrame()

	u.Update(now)

	pixelSize := CalcPixelSize(obs.FovY, float64(obs.WindowHeight))
	camTransform := obs.CameraTransform()

	// The frustum is built in camera space and re-expressed in the
	// universe frame so that traversal tests bounding spheres without
	// transforming every candidate.
	camFrustum := math.MakeInfiniteFrustum(obs.FovY, obs.AspectRatio(), minPartitionNear)
	worldFrustum := camFrustum
	worldFrustum.Transform(obs.CameraToWorld())

	sunPos := [3]float64{}
	if len(u.Stars) > 0 {
		sunPos = u.Stars[0].Position
	}

	stats.VisibleStars = sr.buildStarList(u, obs, &worldFrustum, camTransform)
	if sr.autoMag {
		sr.faintestMag = sr.autoMagCtl.Update(sr.faintestMag, stats.VisibleStars)
	}
	stats.FaintestMag = sr.faintestMag

	stats.Traversal = sr.buildBodyList(u, obs, &worldFrustum, camTransform, sunPos, pixelSize)
	for i := range sr.scratch.renderList {
		if !sr.scratch.renderList[i].IsStar() {
			stats.VisibleBodies++
		}
	}

	sortRenderList(sr.scratch.renderList)

	sr.buildOrbitList(u, &worldFrustum, camTransform, now, pixelSize)
	stats.OrbitsDrawn = len(sr.scratch.orbitList)

	sr.buildLabels(obs)
	sortAnnotations(sr.scratch.sortedAnnotations)
	stats.Annotations = sr.AnnotationCount()

	sr.scratch.partitions = PartitionDepths(sr.scratch.renderList, sr.depthSplitRatio)
	sr.coverAuxiliaryDepths()
	stats.Partitions = len(sr.scratch.partitions)

	sr.draw(obs, cb)

	hits1, misses1 := sr.orbitCache.Stats()
	stats.CacheHits = hits1 - hits0
	stats.CacheMisses = misses1 - misses0
	return stats
}

// buildStarList adds visible stars to the render list, returning how many
// passed the magnitude test (the feedback signal for auto-mag).
func (sr *SceneRenderer) buildStarList(u *Universe, obs *Observer, worldFrustum *math.Frustum, camTransform math.Matrix4) int {
	if KindStar.Flag()&sr.renderFlags == 0 {
		return 0
	}

	visible := 0
	for i := range u.Stars {
		s := &u.Stars[i]
		if worldFrustum.Test(s.Position) == math.Outside {
			continue
		}
		selected := s == sr.starSelection

		d := math.Distance3d(s.Position, obs.Position)
		if d > sr.distanceLimit && !selected {
			continue
		}
		appMag := s.ApparentMagnitude(obs.Position)
		if appMag > sr.faintestMag && !selected {
			continue
		}
		visible++
		sr.scratch.renderList = append(sr.scratch.renderList, RenderListEntry{
			Star:       s,
			Position:   camTransform.TransformPoint(s.Position),
			Distance:   d,
			AppMag:     appMag,
			Labeled:    KindStar.Flag()&sr.labelMode != 0,
			IsSelected: selected,
		})
	}
	return visible
}

// buildBodyList traverses the universe's bounding-volume tree and adds
// admitted bodies to the render list.
func (sr *SceneRenderer) buildBodyList(u *Universe, obs *Observer, worldFrustum *math.Frustum, camTransform math.Matrix4, sunPos [3]float64, pixelSize float64) TraversalStats {
	if u.Tree == nil {
		return TraversalStats{}
	}
	return u.Tree.Traverse(worldFrustum, func(b *Body) {
		if !b.Visible || b.Kind.Flag()&sr.renderFlags == 0 {
			return
		}
		selected := b == sr.selection

		d := math.Distance3d(b.Position, obs.Position)
		if d > sr.distanceLimit && !selected {
			return
		}
		for _, p := range b.Position {
			if !math.IsFinite(p) {
				// Degenerate geometry; excluded, not an error.
				return
			}
		}

		discSize := discSizeInPixels(b.Radius, d, pixelSize)
		if discSize < sr.minFeatureSize && !selected {
			return
		}
		appMag := b.ApparentMagnitude(sunPos, obs.Position)
		if appMag > sr.faintestMag && !selected {
			return
		}

		sr.scratch.renderList = append(sr.scratch.renderList, RenderListEntry{
			Body:             b,
			Position:         camTransform.TransformPoint(b.Position),
			Distance:         d,
			AppMag:           appMag,
			DiscSizeInPixels: discSize,
			Labeled:          b.Kind.Flag()&sr.labelMode != 0,
			IsSelected:       selected,
		})
	})
}

// buildOrbitList schedules visible orbit paths, consulting the sample
// cache. Each orbit is visited at most once per frame, so cache
// insert-on-miss cannot re-enter.
func (sr *SceneRenderer) buildOrbitList(u *Universe, worldFrustum *math.Frustum, camTransform math.Matrix4, now float64, pixelSize float64) {
	if sr.renderFlags&sr.orbitMask == 0 {
		return
	}

	for i, b := range u.Bodies {
		if b.Orbit == nil || !b.Kind.HasOrbit() {
			continue
		}
		if b.Kind.Flag()&sr.orbitMask == 0 || b.Kind.Flag()&sr.renderFlags == 0 {
			continue
		}

		// The path is centered on the parent body (or the barycenter).
		var center [3]float64
		if p := u.parent[i]; p >= 0 {
			center = u.Bodies[p].Position
		}
		radius := b.Orbit.BoundingRadius()
		if worldFrustum.TestSphere(center, radius) == math.Outside {
			continue
		}

		camCenter := camTransform.TransformPoint(center)
		dist := math.Length3d(camCenter)
		if pix := discSizeInPixels(radius, dist, pixelSize); pix < sr.minOrbitSize {
			continue
		}

		plot := sr.getOrbitPlot(b, now)
		if plot == nil {
			continue
		}

		opacity := float32(1)
		if sr.fadingOrbits {
			opacity = sr.detail.fadeOpacity(plot.StartTime, plot.EndTime, now)
			if opacity <= 0 {
				continue
			}
		}

		sr.scratch.orbitList = append(sr.scratch.orbitList, OrbitPathListEntry{
			Body:    b,
			CenterZ: -camCenter[2],
			Radius:  radius,
			Origin:  camCenter,
			Opacity: opacity,
			Plot:    plot,
		})
	}

	// Back to front by center depth.
	slices.SortStableFunc(sr.scratch.orbitList, func(a, b OrbitPathListEntry) int {
		if a.CenterZ > b.CenterZ {
			return -1
		} else if a.CenterZ < b.CenterZ {
			return 1
		}
		return 0
	})
}

// getOrbitPlot returns the sampled path for the body's orbit, resampling
// if the cached plot's time window no longer contains now.
func (sr *SceneRenderer) getOrbitPlot(b *Body, now float64) *CurvePlot {
	sample := func() *CurvePlot {
		period := b.Orbit.Period()
		if period <= 0 {
			return nil
		}
		start, end := sr.detail.orbitWindow(period, now)
		return SampleOrbit(b.Orbit, start, end, sr.detail.OrbitPathSamplePoints)
	}

	plot := sr.orbitCache.Get(b.OrbitID, sample)
	if plot == nil {
		return nil
	}
	if now < plot.StartTime || now > plot.EndTime {
		sr.orbitCache.Invalidate(b.OrbitID)
		plot = sr.orbitCache.Get(b.OrbitID, sample)
	}
	return plot
}

// buildLabels turns labeled render-list entries into depth-sorted
// annotations, and the selection into a foreground marker annotation.
func (sr *SceneRenderer) buildLabels(obs *Observer) {
	for i := range sr.scratch.renderList {
		e := &sr.scratch.renderList[i]
		if e.Labeled {
			a := Annotation{
				Position: e.Position,
				HAlign:   AlignLeft,
				VAlign:   AlignBottom,
				Size:     1,
			}
			if e.IsStar() {
				a.Text = e.Star.Name
				a.Color = sr.style.LabelColor(KindStar).WithAlpha(1)
			} else {
				a.Text = e.Body.Name
				a.Color = sr.style.LabelColor(e.Body.Kind).WithAlpha(1)
			}
			sr.AddSortedAnnotation(a)
		}
		if e.IsSelected {
			sr.AddForegroundAnnotation(Annotation{
				Marker:   sr.style.SelectionMarker,
				Color:    sr.style.MarkerColor.WithAlpha(1),
				Position: e.Position,
				Size:     sr.style.MarkerSize,
			})
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Command emission

// draw emits the frame's ordered draw commands: background annotations,
// then for each depth partition from far to near a projection matrix,
// depth clear, and that partition's orbits, geometry, and depth-sorted
// annotations, and finally the foreground annotations.
func (sr *SceneRenderer) draw(obs *Observer, cb *renderer.CommandBuffer) {
	cb.ClearRGB(sr.style.BackgroundColor)

	sr.drawAnnotations(sr.scratch.backgroundAnnotations, obs, cb)

	aspect := obs.AspectRatio()
	for _, part := range sr.scratch.partitions {
		proj := math.MakePerspective4x4(obs.FovY, aspect, part.NearZ, part.FarZ)
		cb.LoadProjectionMatrix(proj)
		cb.LoadModelViewMatrix(math.Identity4x4())
		cb.ClearDepth()
		cb.EnableDepthTest()

		sr.drawOrbits(part, cb)
		sr.drawGeometry(part, cb)
		cb.DisableDepthTest()
		sr.drawSortedAnnotations(part, obs, cb)
	}

	sr.drawAnnotations(sr.scratch.foregroundAnnotations, obs, cb)
	cb.ResetState()
}

// coverAuxiliaryDepths widens the depth partitions so that every
// scheduled orbit path and depth-sorted annotation falls inside one. The
// partitions are derived from the render list, which may be empty (or
// have distance gaps) while orbits and annotations are still scheduled;
// anything a builder scheduled must be drawn.
func (sr *SceneRenderer) coverAuxiliaryDepths() {
	minD, maxD := gomath.Inf(1), gomath.Inf(-1)
	cover := func(d float64) {
		if d <= 0 {
			return
		}
		minD = gomath.Min(minD, d)
		maxD = gomath.Max(maxD, d)
	}
	for i := range sr.scratch.orbitList {
		e := &sr.scratch.orbitList[i]
		// The path spans the orbit's bounding sphere in depth.
		cover(e.CenterZ - e.Radius)
		cover(e.CenterZ + e.Radius)
	}
	for i := range sr.scratch.sortedAnnotations {
		cover(-sr.scratch.sortedAnnotations[i].Position[2])
	}
	if maxD < minD {
		return
	}

	if len(sr.scratch.partitions) == 0 {
		sr.scratch.partitions = append(sr.scratch.partitions, DepthBufferPartition{
			NearZ: math.Max(minD/depthPartitionPadding, minPartitionNear),
			FarZ:  maxD * depthPartitionPadding,
		})
		return
	}
	far := &sr.scratch.partitions[0]
	far.FarZ = math.Max(far.FarZ, maxD*depthPartitionPadding)
	near := &sr.scratch.partitions[len(sr.scratch.partitions)-1]
	near.NearZ = math.Max(math.Min(near.NearZ, minD/depthPartitionPadding), minPartitionNear)
}

// partitionForDepth maps a camera-space depth to the partition that draws
// it: partitions are ordered far to near, and a depth between two
// partitions' ranges joins the nearer one, matching the split rule.
func partitionForDepth(partitions []DepthBufferPartition, depth float64) int {
	for i := range partitions {
		if depth >= partitions[i].NearZ {
			return i
		}
	}
	return len(partitions) - 1
}

func (sr *SceneRenderer) drawOrbits(part DepthBufferPartition, cb *renderer.CommandBuffer) {
	ld := renderer.GetLinesDrawBuilder()
	defer renderer.ReturnLinesDrawBuilder(ld)

	for i := range sr.scratch.orbitList {
		e := &sr.scratch.orbitList[i]
		if partitionForDepth(sr.scratch.partitions, e.CenterZ) != part.Index {
			continue
		}

		ld.Reset()
		ld.AddLineStrip(util.MapSlice(e.Plot.Points, func(p [3]float64) [3]float32 {
			return math.ToVec3f(math.Add3d(e.Origin, p))
		}))

		color := sr.style.OrbitColor(e.Body.Kind)
		cb.Blend()
		cb.SetRGBA(color.WithAlpha(e.Opacity))
		cb.LineWidth(1)
		ld.GenerateCommands(cb)
		cb.DisableBlend()
	}
}

func (sr *SceneRenderer) drawGeometry(part DepthBufferPartition, cb *renderer.CommandBuffer) {
	pd := renderer.GetPointsDrawBuilder()
	defer renderer.ReturnPointsDrawBuilder(pd)
	td := renderer.GetTriangles3DDrawBuilder()
	defer renderer.ReturnTriangles3DDrawBuilder(td)

	for i := range sr.scratch.renderList {
		e := &sr.scratch.renderList[i]
		if e.Partition != part.Index {
			continue
		}
		if e.IsStar() {
			// Brighter stars draw larger via the halo pass; here they are
			// single points with magnitude-scaled color.
			scale := starBrightness(e.AppMag, sr.faintestMag)
			pd.AddPoint(math.ToVec3f(e.Position), e.Star.Color().Scale(scale))
		} else {
			disc := float32(math.Max(e.Body.Radius, 1))
			c := sr.style.StarColor
			if e.Body.Kind.IsExtended() {
				c = renderer.RGB{R: 0.8, G: 0.8, B: 0.8}
			}
			c = c.Scale(math.Max(sr.ambientLight, 0.2))
			cb.SetRGB(c)
			td.Reset()
			td.AddDisc(math.ToVec3f(e.Position), disc, 32)
			td.GenerateCommands(cb)
		}
	}

	cb.PointSize(1)
	pd.GenerateCommands(cb)
}

// starBrightness maps an apparent magnitude to a 0-1 intensity relative
// to the faintest visible magnitude; a star 5 magnitudes brighter than
// the cutoff saturates.
func starBrightness(appMag, faintest float64) float32 {
	b := (faintest - appMag) / 5
	return math.Clamp(float32(b), 0.1, 1)
}

func (sr *SceneRenderer) drawSortedAnnotations(part DepthBufferPartition, obs *Observer, cb *renderer.CommandBuffer) {
	var anns []Annotation
	for _, a := range sr.scratch.sortedAnnotations {
		if partitionForDepth(sr.scratch.partitions, -a.Position[2]) == part.Index {
			anns = append(anns, a)
		}
	}
	sr.drawAnnotations(anns, obs, cb)
}

// drawAnnotations projects each annotation's camera-space anchor to
// window coordinates and draws its marker and text under a pixel-space
// orthographic projection, in sequence order.
func (sr *SceneRenderer) drawAnnotations(anns []Annotation, obs *Observer, cb *renderer.CommandBuffer) {
	if len(anns) == 0 {
		return
	}

	ld := renderer.GetLines2DDrawBuilder()
	defer renderer.ReturnLines2DDrawBuilder(ld)
	td := renderer.GetTextDrawBuilder()
	defer renderer.ReturnTextDrawBuilder(td)

	cb.LoadProjectionMatrix(math.MakeOrtho4x4(0, float64(obs.WindowWidth), 0, float64(obs.WindowHeight)))
	cb.LoadModelViewMatrix(math.Identity4x4())
	cb.DisableDepthTest()
	cb.Blend()

	for _, a := range anns {
		p, ok := projectToScreen(a.Position, obs)
		if !ok {
			continue
		}

		if a.Marker != MarkerNone {
			ld.Reset()
			addMarker(ld, a.Marker, p, a.Size)
			cb.SetRGBA(a.Color)
			ld.GenerateCommands(cb)
		}

		// Label text needs a font; if none is installed yet the text is
		// skipped this frame and drawn once one is available.
		if a.Text != "" && sr.font != nil {
			style := renderer.TextStyle{
				Font:  sr.font,
				Color: renderer.RGB{R: a.Color.R, G: a.Color.G, B: a.Color.B},
			}
			pos := alignLabel(a, p, sr.font)
			td.AddText(a.Text, pos, style)
		}
	}

	td.GenerateCommands(cb)
	cb.DisableBlend()
}

// alignLabel offsets the projected anchor position per the annotation's
// alignment, leaving a small gap so text doesn't overdraw the marker.
func alignLabel(a Annotation, p [2]float32, font renderer.TextureFont) [2]float32 {
	const gap = 2
	w := renderer.TextWidth(font, a.Text)
	switch a.HAlign {
	case AlignLeft:
		p[0] += a.Size/2 + gap
	case AlignCenter:
		p[0] -= w / 2
	case AlignRight:
		p[0] -= w + a.Size/2 + gap
	}
	switch a.VAlign {
	case AlignBottom:
		p[1] += a.Size/2 + gap + font.Height()
	case AlignVCenter:
		p[1] += font.Height() / 2
	case AlignTop:
		p[1] -= a.Size/2 + gap
	}
	return p
}

// projectToScreen maps a camera-space point to window pixel coordinates;
// ok is false for points at or behind the camera plane.
func projectToScreen(p [3]float64, obs *Observer) ([2]float32, bool) {
	if p[2] >= 0 {
		return [2]float32{}, false
	}
	f := 1 / gomath.Tan(obs.FovY/2)
	ndcX := f / obs.AspectRatio() * p[0] / -p[2]
	ndcY := f * p[1] / -p[2]
	return [2]float32{
		float32((ndcX*0.5 + 0.5) * float64(obs.WindowWidth)),
		float32((ndcY*0.5 + 0.5) * float64(obs.WindowHeight)),
	}, true
}
