// pkg/celengine/frametree_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"

	"github.com/orrery/orrery/pkg/math"
)

func testBody(name string, pos [3]float64, radius float64) *Body {
	return &Body{Name: name, Kind: KindAsteroid, Radius: radius, Albedo: 0.1, Position: pos, Visible: true}
}

// viewFrustum returns a frustum looking down -z from the origin.
func viewFrustum() math.Frustum {
	return math.MakeFrustum(math.Radians64(90), 1, 1, 1e6)
}

func TestTraverseCullsOutsideSubtrees(t *testing.T) {
	// One cluster in front of the camera, one behind. The behind cluster
	// must be pruned without visiting its bodies.
	var bodies []*Body
	for i := 0; i < 20; i++ {
		bodies = append(bodies, testBody("front", [3]float64{float64(i % 5), float64(i / 5), -100}, 1))
	}
	for i := 0; i < 20; i++ {
		bodies = append(bodies, testBody("behind", [3]float64{float64(i % 5), float64(i / 5), 100}, 1))
	}

	tree := BuildFrameTree(bodies)
	f := viewFrustum()

	visited := make(map[*Body]bool)
	stats := tree.Traverse(&f, func(b *Body) { visited[b] = true })

	for b := range visited {
		if b.Name == "behind" {
			t.Errorf("visited a body behind the camera")
		}
	}
	if len(visited) != 20 {
		t.Errorf("visited %d bodies, want 20", len(visited))
	}
	if stats.NodesCulled == 0 {
		t.Errorf("expected at least one culled subtree")
	}
}

func TestTraverseNeverVisitsOutside(t *testing.T) {
	// Scatter bodies everywhere; no visited body's bounding sphere may be
	// classified Outside.
	var bodies []*Body
	for i := 0; i < 200; i++ {
		p := [3]float64{float64(i%10)*40 - 200, float64((i/10)%10)*40 - 200, float64(i%7)*100 - 300}
		bodies = append(bodies, testBody("b", p, 2))
	}
	tree := BuildFrameTree(bodies)
	f := viewFrustum()

	tree.Traverse(&f, func(b *Body) {
		if f.TestSphere(b.Position, b.BoundingRadius()) == math.Outside {
			t.Errorf("visited body at %v classified Outside", b.Position)
		}
	})
}

func TestRefitAfterMove(t *testing.T) {
	bodies := []*Body{
		testBody("a", [3]float64{0, 0, -50}, 1),
		testBody("b", [3]float64{10, 0, -50}, 1),
	}
	tree := BuildFrameTree(bodies)
	f := viewFrustum()

	n := 0
	tree.Traverse(&f, func(*Body) { n++ })
	if n != 2 {
		t.Fatalf("visited %d before move, want 2", n)
	}

	// Move both bodies behind the camera and refit; traversal should now
	// prune everything.
	for _, b := range bodies {
		b.Position[2] = 50
	}
	tree.Refit()
	n = 0
	tree.Traverse(&f, func(*Body) { n++ })
	if n != 0 {
		t.Errorf("visited %d after move, want 0", n)
	}
}

func TestBuildFrameTreeEmpty(t *testing.T) {
	tree := BuildFrameTree(nil)
	f := viewFrustum()
	stats := tree.Traverse(&f, func(*Body) { t.Errorf("visited a body in an empty tree") })
	if stats.BodiesVisited != 0 {
		t.Errorf("BodiesVisited = %d", stats.BodiesVisited)
	}
}
