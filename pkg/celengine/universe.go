// pkg/celengine/universe.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"fmt"
	"io"
	gomath "math"
	"math/rand"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/orrery/orrery/pkg/log"
	"github.com/orrery/orrery/pkg/math"
	"github.com/orrery/orrery/pkg/util"
)

// Universe owns the long-lived scene data: the star catalog and the body
// hierarchy with its bounding-volume tree. The renderer only references
// it; per-frame state lives in the SceneRenderer.
type Universe struct {
	Stars  []Star
	Bodies []*Body

	// Tree is rebuilt over Bodies at load and refit each time Update
	// repositions them.
	Tree *FrameTree

	// parent[i] indexes the body that Bodies[i] orbits, or -1 for bodies
	// orbiting the system barycenter.
	parent []int

	nextOrbitID OrbitID

	updatedFor float64
}

// issueOrbitID returns a fresh stable orbit identifier.
func (u *Universe) issueOrbitID() OrbitID {
	u.nextOrbitID++
	return u.nextOrbitID
}

// Update repositions every body for time t (seconds since epoch) and
// refits the bounding-volume tree. Parents are stored before their
// children in Bodies, so a single forward pass resolves the hierarchy.
func (u *Universe) Update(t float64) {
	if t == u.updatedFor && u.Tree != nil {
		return
	}
	for i, b := range u.Bodies {
		var origin [3]float64
		if p := u.parent[i]; p >= 0 {
			origin = u.Bodies[p].Position
		}
		if b.Orbit != nil {
			b.Position = math.Add3d(origin, b.Orbit.PositionAtTime(t))
		} else {
			b.Position = origin
		}
	}
	if u.Tree == nil {
		// The tree reorders its slice while splitting, so give it a copy;
		// Bodies must keep its parents-before-children order.
		u.Tree = BuildFrameTree(util.DuplicateSlice(u.Bodies))
	} else {
		u.Tree.Refit()
	}
	u.updatedFor = t
}

// MakeDemoUniverse synthesizes a scene for offline runs and benchmarks:
// nStars stars scattered around the origin plus a small planetary system
// with moons. The same seed yields the same universe.
func MakeDemoUniverse(nStars int, seed int64) *Universe {
	r := rand.New(rand.NewSource(seed))
	u := &Universe{}

	u.Stars = append(u.Stars, Star{Name: "Sol", AbsMag: sunAbsMag, ColorIndex: 0.65})
	for i := 1; i < nStars; i++ {
		// Uniform in a ball of 500 pc.
		var p [3]float64
		for {
			p = [3]float64{2*r.Float64() - 1, 2*r.Float64() - 1, 2*r.Float64() - 1}
			if math.Length3d(p) <= 1 {
				break
			}
		}
		u.Stars = append(u.Stars, Star{
			Name:       fmt.Sprintf("HD %d", 10000+i),
			Position:   math.Scale3d(p, 500*kmPerParsec),
			AbsMag:     -2 + 12*r.Float64(),
			ColorIndex: -0.4 + 2.4*r.Float64(),
		})
	}

	planet := func(name string, parent int, kind BodyKind, radius, albedo, smaKm, periodSec float64) int {
		b := &Body{
			Name:    name,
			Kind:    kind,
			Radius:  radius,
			Albedo:  albedo,
			Visible: true,
			Orbit: &EllipticalOrbit{
				SemiMajorAxis:      smaKm,
				Eccentricity:       0.05 * r.Float64(),
				Inclination:        math.Radians64(5 * r.Float64()),
				AscendingNode:      2 * gomath.Pi * r.Float64(),
				ArgOfPeriapsis:     2 * gomath.Pi * r.Float64(),
				MeanAnomalyAtEpoch: 2 * gomath.Pi * r.Float64(),
				OrbitalPeriod:      periodSec,
			},
		}
		b.OrbitID = u.issueOrbitID()
		u.Bodies = append(u.Bodies, b)
		u.parent = append(u.parent, parent)
		return len(u.Bodies) - 1
	}

	const year = 365.25 * 86400
	planet("Hermia", -1, KindPlanet, 2400, 0.14, 0.39*kmPerAU, 0.24*year)
	planet("Aphrodite", -1, KindPlanet, 6050, 0.67, 0.72*kmPerAU, 0.62*year)
	gaia := planet("Gaia", -1, KindPlanet, 6378, 0.37, kmPerAU, year)
	planet("Luna", gaia, KindMoon, 1737, 0.12, 384400, 27.3*86400)
	ares := planet("Ares", -1, KindPlanet, 3390, 0.15, 1.52*kmPerAU, 1.88*year)
	planet("Deimos", ares, KindMinorMoon, 6, 0.07, 23460, 1.26*86400)
	zeus := planet("Zeus", -1, KindPlanet, 71400, 0.52, 5.2*kmPerAU, 11.86*year)
	planet("Ganymede", zeus, KindMoon, 2634, 0.43, 1.07e6, 7.15*86400)
	planet("Ceres", -1, KindDwarfPlanet, 470, 0.09, 2.77*kmPerAU, 4.6*year)
	planet("Halley", -1, KindComet, 5.5, 0.04, 17.8*kmPerAU, 75*year)

	return u
}

///////////////////////////////////////////////////////////////////////////
// Catalog loading

// StarRecord is one star in a star catalog file.
type StarRecord struct {
	Name       string     `msgpack:"name"`
	Position   [3]float64 `msgpack:"position"` // km, barycentric
	AbsMag     float64    `msgpack:"absmag"`
	ColorIndex float64    `msgpack:"colorindex"`
}

// OrbitElements are the Keplerian elements of a body's orbit as stored in
// a catalog.
type OrbitElements struct {
	SemiMajorAxisKm   float64 `msgpack:"semimajoraxis"`
	Eccentricity      float64 `msgpack:"eccentricity"`
	InclinationDeg    float64 `msgpack:"inclination"`
	AscendingNodeDeg  float64 `msgpack:"ascendingnode"`
	ArgOfPeriapsisDeg float64 `msgpack:"argofperiapsis"`
	MeanAnomalyDeg    float64 `msgpack:"meananomaly"`
	PeriodSeconds     float64 `msgpack:"period"`
}

// BodyRecord is one body in a body catalog file. Parent names the body it
// orbits; parents must be declared before their children.
type BodyRecord struct {
	Name   string        `msgpack:"name"`
	Kind   string        `msgpack:"kind"`
	Parent string        `msgpack:"parent"`
	Radius float64       `msgpack:"radius"` // km
	Albedo float64       `msgpack:"albedo"`
	Orbit  OrbitElements `msgpack:"orbit"`
}

type starCatalog struct {
	Stars []StarRecord `msgpack:"stars"`
}

type bodyCatalog struct {
	Bodies []BodyRecord `msgpack:"bodies"`
}

var kindNames = map[string]BodyKind{
	"star":           KindStar,
	"planet":         KindPlanet,
	"dwarfplanet":    KindDwarfPlanet,
	"moon":           KindMoon,
	"minormoon":      KindMinorMoon,
	"asteroid":       KindAsteroid,
	"comet":          KindComet,
	"spacecraft":     KindSpacecraft,
	"referencepoint": KindReferencePoint,
}

// decodeCatalogFile reads a msgpack catalog file into dst, transparently
// decompressing files with a .zst suffix.
func decodeCatalogFile(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := msgpack.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadUniverse reads the star and body catalogs, loading the two files
// concurrently, validates them, and returns the assembled Universe. All
// validation problems are collected in the returned error rather than
// stopping at the first.
func LoadUniverse(starPath, bodyPath string, lg *log.Logger) (*Universe, error) {
	var stars starCatalog
	var bodies bodyCatalog

	var g errgroup.Group
	g.Go(func() error { return decodeCatalogFile(starPath, &stars) })
	g.Go(func() error { return decodeCatalogFile(bodyPath, &bodies) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var e util.ErrorLogger
	u := assembleUniverse(stars.Stars, bodies.Bodies, &e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return nil, fmt.Errorf("catalog validation failed:\n%s", e.String())
	}

	lg.Infof("loaded %d stars, %d bodies", len(u.Stars), len(u.Bodies))
	return u, nil
}

// assembleUniverse validates the catalog records and builds the Universe.
// Degenerate entries (non-finite positions, non-positive radii) are
// reported and excluded.
func assembleUniverse(stars []StarRecord, bodies []BodyRecord, e *util.ErrorLogger) *Universe {
	u := &Universe{}

	e.Push("stars")
	for _, s := range stars {
		e.Push(s.Name)
		ok := true
		for _, p := range s.Position {
			if !math.IsFinite(p) {
				e.ErrorString("non-finite position")
				ok = false
				break
			}
		}
		if ok {
			u.Stars = append(u.Stars, Star{
				Name:       s.Name,
				Position:   s.Position,
				AbsMag:     s.AbsMag,
				ColorIndex: s.ColorIndex,
			})
		}
		e.Pop()
	}
	e.Pop()

	byName := make(map[string]int)
	e.Push("bodies")
	for _, r := range bodies {
		e.Push(r.Name)

		kind, ok := kindNames[strings.ToLower(r.Kind)]
		if !ok {
			e.ErrorString("unknown body kind %q", r.Kind)
			e.Pop()
			continue
		}
		if r.Radius <= 0 && kind != KindReferencePoint {
			e.ErrorString("non-positive radius %g", r.Radius)
			e.Pop()
			continue
		}
		if r.Orbit.Eccentricity < 0 || r.Orbit.Eccentricity >= 1 {
			e.ErrorString("eccentricity %g outside [0, 1)", r.Orbit.Eccentricity)
			e.Pop()
			continue
		}

		parent := -1
		if r.Parent != "" {
			if p, ok := byName[r.Parent]; ok {
				parent = p
			} else {
				e.ErrorString("parent %q not declared before this body", r.Parent)
				e.Pop()
				continue
			}
		}

		b := &Body{
			Name:    r.Name,
			Kind:    kind,
			Radius:  r.Radius,
			Albedo:  r.Albedo,
			Visible: true,
		}
		if r.Orbit.SemiMajorAxisKm > 0 {
			b.Orbit = &EllipticalOrbit{
				SemiMajorAxis:      r.Orbit.SemiMajorAxisKm,
				Eccentricity:       r.Orbit.Eccentricity,
				Inclination:        math.Radians64(r.Orbit.InclinationDeg),
				AscendingNode:      math.Radians64(r.Orbit.AscendingNodeDeg),
				ArgOfPeriapsis:     math.Radians64(r.Orbit.ArgOfPeriapsisDeg),
				MeanAnomalyAtEpoch: math.Radians64(r.Orbit.MeanAnomalyDeg),
				OrbitalPeriod:      r.Orbit.PeriodSeconds,
			}
			b.OrbitID = u.issueOrbitID()
		}

		byName[r.Name] = len(u.Bodies)
		u.Bodies = append(u.Bodies, b)
		u.parent = append(u.parent, parent)
		e.Pop()
	}
	e.Pop()

	return u
}
