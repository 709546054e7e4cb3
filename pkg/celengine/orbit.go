// pkg/celengine/orbit.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	gomath "math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/orrery/orrery/pkg/math"
)

// OrbitID is a stable integer identifier for an orbit, issued by the
// Universe at catalog load time. It keys the orbit sample cache; using an
// issued id rather than object identity means a destroyed and recreated
// orbit can never alias a stale cache entry.
type OrbitID uint32

// Orbit provides positions along a trajectory as a function of time
// (seconds since epoch). Implementations must be usable for repeated
// sampling within a frame.
type Orbit interface {
	// PositionAtTime returns the position in km relative to the orbit's
	// center at time t.
	PositionAtTime(t float64) [3]float64

	// Period returns the orbital period in seconds, or 0 for aperiodic
	// trajectories.
	Period() float64

	// BoundingRadius returns the radius in km of a sphere centered at the
	// orbit's center that contains the entire path.
	BoundingRadius() float64
}

// EllipticalOrbit is a Keplerian two-body orbit.
type EllipticalOrbit struct {
	SemiMajorAxis      float64 // km
	Eccentricity       float64
	Inclination        float64 // radians
	AscendingNode      float64 // radians
	ArgOfPeriapsis     float64 // radians
	MeanAnomalyAtEpoch float64 // radians
	OrbitalPeriod      float64 // seconds
}

func (o *EllipticalOrbit) Period() float64 { return o.OrbitalPeriod }

func (o *EllipticalOrbit) BoundingRadius() float64 {
	// Apoapsis distance.
	return o.SemiMajorAxis * (1 + o.Eccentricity)
}

// eccentricAnomaly solves Kepler's equation M = E - e sin E by fixed-point
// iteration; convergence is fast for the eccentricities of bound orbits.
func (o *EllipticalOrbit) eccentricAnomaly(M float64) float64 {
	E := M
	for i := 0; i < 10; i++ {
		E = M + o.Eccentricity*gomath.Sin(E)
	}
	return E
}

func (o *EllipticalOrbit) PositionAtTime(t float64) [3]float64 {
	M := o.MeanAnomalyAtEpoch
	if o.OrbitalPeriod > 0 {
		M += 2 * gomath.Pi * gomath.Mod(t/o.OrbitalPeriod, 1)
	}
	E := o.eccentricAnomaly(M)

	// Position in the orbital plane, periapsis along +x.
	x := o.SemiMajorAxis * (gomath.Cos(E) - o.Eccentricity)
	y := o.SemiMajorAxis * gomath.Sqrt(1-o.Eccentricity*o.Eccentricity) * gomath.Sin(E)

	// Rotate into the reference frame: argument of periapsis, then
	// inclination, then longitude of the ascending node.
	cw, sw := gomath.Cos(o.ArgOfPeriapsis), gomath.Sin(o.ArgOfPeriapsis)
	ci, si := gomath.Cos(o.Inclination), gomath.Sin(o.Inclination)
	cn, sn := gomath.Cos(o.AscendingNode), gomath.Sin(o.AscendingNode)

	xw := x*cw - y*sw
	yw := x*sw + y*cw

	return [3]float64{
		xw*cn - yw*ci*sn,
		xw*sn + yw*ci*cn,
		yw * si,
	}
}

// FixedPosition is a degenerate Orbit for bodies that do not move, e.g.
// reference points.
type FixedPosition struct {
	Position [3]float64
}

func (f *FixedPosition) PositionAtTime(t float64) [3]float64 { return f.Position }
func (f *FixedPosition) Period() float64                     { return 0 }
func (f *FixedPosition) BoundingRadius() float64             { return math.Length3d(f.Position) }

///////////////////////////////////////////////////////////////////////////
// CurvePlot and the orbit sample cache

// CurvePlot holds precomputed sample points along one orbit path,
// positions relative to the orbit center.
type CurvePlot struct {
	Points    [][3]float64
	StartTime float64
	EndTime   float64

	lastUsedFrame uint64
}

// OrbitCache memoizes sampled orbit paths across frames. Entries are
// recomputed on miss, dropped on explicit invalidation (e.g. when the
// time scale changes enough that the sampling window is wrong), and
// periodically flushed if they have not been used since the last flush.
type OrbitCache struct {
	cache *lru.Cache[OrbitID, *CurvePlot]

	frame          uint64
	lastFlushFrame uint64
	flushInterval  uint64

	hits, misses int
}

// NewOrbitCache returns a cache holding up to size plots, flushing unused
// entries every flushInterval frames. flushInterval of 0 disables
// periodic flushing.
func NewOrbitCache(size int, flushInterval uint64) *OrbitCache {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[OrbitID, *CurvePlot](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &OrbitCache{cache: c, flushInterval: flushInterval}
}

// StartFrame advances the cache's frame counter and performs a periodic
// flush of entries untouched since the previous flush.
func (oc *OrbitCache) StartFrame() {
	oc.frame++
	if oc.flushInterval > 0 && oc.frame-oc.lastFlushFrame >= oc.flushInterval {
		for _, id := range oc.cache.Keys() {
			if plot, ok := oc.cache.Peek(id); ok && plot.lastUsedFrame <= oc.lastFlushFrame {
				oc.cache.Remove(id)
			}
		}
		oc.lastFlushFrame = oc.frame
	}
}

// Get returns the cached plot for the given orbit, sampling it via the
// provided function on a miss. The same id requested twice in a frame
// returns the identical plot without resampling.
func (oc *OrbitCache) Get(id OrbitID, sample func() *CurvePlot) *CurvePlot {
	if plot, ok := oc.cache.Get(id); ok {
		oc.hits++
		plot.lastUsedFrame = oc.frame
		return plot
	}
	oc.misses++
	plot := sample()
	if plot == nil {
		return nil
	}
	plot.lastUsedFrame = oc.frame
	oc.cache.Add(id, plot)
	return plot
}

// Invalidate drops the cached plot for the given orbit so that the next
// request resamples it.
func (oc *OrbitCache) Invalidate(id OrbitID) {
	oc.cache.Remove(id)
}

// InvalidateAll drops every cached plot.
func (oc *OrbitCache) InvalidateAll() {
	oc.cache.Purge()
}

func (oc *OrbitCache) Len() int { return oc.cache.Len() }

func (oc *OrbitCache) Stats() (hits, misses int) { return oc.hits, oc.misses }

// SampleOrbit evaluates the orbit at nPoints evenly spaced times across
// the window [startTime, endTime].
func SampleOrbit(o Orbit, startTime, endTime float64, nPoints int) *CurvePlot {
	if nPoints < 2 {
		nPoints = 2
	}
	plot := &CurvePlot{
		Points:    make([][3]float64, nPoints),
		StartTime: startTime,
		EndTime:   endTime,
	}
	dt := (endTime - startTime) / float64(nPoints-1)
	for i := 0; i < nPoints; i++ {
		plot.Points[i] = o.PositionAtTime(startTime + float64(i)*dt)
	}
	return plot
}

///////////////////////////////////////////////////////////////////////////
// Orbit path list

// OrbitPathListEntry schedules one orbit path for drawing this frame.
// Stars have fixed catalog positions in this data model, so only bodies
// carry orbits.
type OrbitPathListEntry struct {
	Body *Body

	// CenterZ is the camera-space depth of the path's center, the sort
	// key for depth-correct ordering.
	CenterZ float64
	Radius  float64
	// Origin is the path center's position in camera space; plot points
	// are relative to it.
	Origin  [3]float64
	Opacity float32

	Plot *CurvePlot
}

// DetailOptions collects the tunable sampling and fading parameters for
// orbit paths.
type DetailOptions struct {
	// OrbitPathSamplePoints is the number of points sampled along one
	// plotted window.
	OrbitPathSamplePoints int
	// OrbitPeriodsShown is how many orbital periods the plotted window
	// covers, ending at OrbitWindowEnd periods past the current time.
	OrbitPeriodsShown float64
	OrbitWindowEnd    float64
	// LinearFadeFraction is the fraction of the window over which a
	// fading orbit ramps to transparent at the window's trailing edge.
	LinearFadeFraction float64
}

func DefaultDetailOptions() DetailOptions {
	return DetailOptions{
		OrbitPathSamplePoints: 100,
		OrbitPeriodsShown:     1.0,
		OrbitWindowEnd:        0.5,
		LinearFadeFraction:    0.25,
	}
}

// orbitWindow returns the plotted time window for the given orbit at time
// now.
func (d DetailOptions) orbitWindow(period, now float64) (start, end float64) {
	end = now + d.OrbitWindowEnd*period
	start = end - d.OrbitPeriodsShown*period
	return
}

// fadeOpacity returns the opacity for a fading orbit whose plotted window
// is [start, end]: fully opaque deep inside the window, ramping linearly
// to transparent as now approaches the window's end. The window is fixed
// when the plot is sampled, so the opacity decays as time advances until
// the plot is resampled.
func (d DetailOptions) fadeOpacity(start, end, now float64) float32 {
	span := end - start
	if span <= 0 || d.LinearFadeFraction <= 0 {
		return 1
	}
	remaining := (end - now) / (d.LinearFadeFraction * span)
	return math.Clamp(float32(remaining), 0, 1)
}
