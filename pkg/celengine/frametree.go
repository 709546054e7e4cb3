// pkg/celengine/frametree.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"sort"

	"github.com/orrery/orrery/pkg/math"
)

// FrameTree is a hierarchical bounding-volume tree over bodies, grouped
// by spatial proximity. Traversal tests each node's bounding sphere
// against the view frustum and prunes whole subtrees that lie outside it.
type FrameTree struct {
	Center [3]float64
	Radius float64

	// Exactly one of Bodies (leaf) or Children (interior) is non-empty.
	Bodies   []*Body
	Children []*FrameTree
}

// maxLeafBodies bounds how many bodies share a leaf before it is split.
const maxLeafBodies = 8

// BuildFrameTree constructs a tree over the given bodies by recursive
// median split along the widest axis. The bodies slice is reordered in
// place.
func BuildFrameTree(bodies []*Body) *FrameTree {
	if len(bodies) == 0 {
		return &FrameTree{}
	}
	t := buildFrameTreeRecursive(bodies)
	t.Refit()
	return t
}

func buildFrameTreeRecursive(bodies []*Body) *FrameTree {
	if len(bodies) <= maxLeafBodies {
		return &FrameTree{Bodies: bodies}
	}

	// Find the axis with the greatest positional spread.
	lo, hi := bodies[0].Position, bodies[0].Position
	for _, b := range bodies[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], b.Position[i])
			hi[i] = math.Max(hi[i], b.Position[i])
		}
	}
	axis := 0
	if hi[1]-lo[1] > hi[axis]-lo[axis] {
		axis = 1
	}
	if hi[2]-lo[2] > hi[axis]-lo[axis] {
		axis = 2
	}

	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].Position[axis] < bodies[j].Position[axis]
	})
	mid := len(bodies) / 2

	return &FrameTree{
		Children: []*FrameTree{
			buildFrameTreeRecursive(bodies[:mid]),
			buildFrameTreeRecursive(bodies[mid:]),
		},
	}
}

// Refit recomputes the tree's bounding spheres bottom-up; it must be
// called after bodies have been repositioned for a new frame time.
func (t *FrameTree) Refit() {
	if len(t.Children) > 0 {
		for _, c := range t.Children {
			c.Refit()
		}
		// Sphere containing all child spheres, centered at the centroid
		// of the child centers.
		var center [3]float64
		for _, c := range t.Children {
			center = math.Add3d(center, c.Center)
		}
		center = math.Scale3d(center, 1/float64(len(t.Children)))
		radius := 0.0
		for _, c := range t.Children {
			radius = math.Max(radius, math.Distance3d(center, c.Center)+c.Radius)
		}
		t.Center, t.Radius = center, radius
		return
	}

	if len(t.Bodies) == 0 {
		t.Center, t.Radius = [3]float64{}, 0
		return
	}
	var center [3]float64
	for _, b := range t.Bodies {
		center = math.Add3d(center, b.Position)
	}
	center = math.Scale3d(center, 1/float64(len(t.Bodies)))
	radius := 0.0
	for _, b := range t.Bodies {
		radius = math.Max(radius, math.Distance3d(center, b.Position)+b.BoundingRadius())
	}
	t.Center, t.Radius = center, radius
}

// TraversalStats counts the work done by one traversal.
type TraversalStats struct {
	NodesVisited  int
	NodesCulled   int
	BodiesVisited int
	BodiesCulled  int
}

// Traverse walks the tree depth-first, pruning subtrees whose bounding
// spheres the frustum classifies Outside, and calls visit for each body
// whose own bounding sphere is at least partly inside. The frustum must
// be expressed in the same frame as the body positions. Sibling order is
// insertion order; any required draw ordering is the caller's problem.
func (t *FrameTree) Traverse(f *math.Frustum, visit func(*Body)) TraversalStats {
	var stats TraversalStats
	t.traverse(f, visit, &stats)
	return stats
}

func (t *FrameTree) traverse(f *math.Frustum, visit func(*Body), stats *TraversalStats) {
	stats.NodesVisited++
	switch f.TestSphere(t.Center, t.Radius) {
	case math.Outside:
		stats.NodesCulled++
		return
	case math.Inside:
		// No need to re-test individual bodies.
		t.visitAll(visit, stats)
		return
	}

	for _, c := range t.Children {
		c.traverse(f, visit, stats)
	}
	for _, b := range t.Bodies {
		if f.TestSphere(b.Position, b.BoundingRadius()) == math.Outside {
			stats.BodiesCulled++
			continue
		}
		stats.BodiesVisited++
		visit(b)
	}
}

func (t *FrameTree) visitAll(visit func(*Body), stats *TraversalStats) {
	for _, c := range t.Children {
		stats.NodesVisited++
		c.visitAll(visit, stats)
	}
	for _, b := range t.Bodies {
		stats.BodiesVisited++
		visit(b)
	}
}
