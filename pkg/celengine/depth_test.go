// pkg/celengine/depth_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"testing"
)

func entriesAtDistances(dists ...float64) []RenderListEntry {
	var entries []RenderListEntry
	for _, d := range dists {
		entries = append(entries, RenderListEntry{Distance: d})
	}
	sortRenderList(entries)
	return entries
}

func TestPartitionSplit(t *testing.T) {
	// Consecutive ratio reaches the threshold only between 1e6 and 1000,
	// so exactly two partitions.
	entries := entriesAtDistances(10, 100, 1000, 1_000_000)
	parts := PartitionDepths(entries, 1000)

	if len(parts) != 2 {
		t.Fatalf("got %d partitions, want 2", len(parts))
	}
	if entries[0].Distance != 1_000_000 || entries[0].Partition != 0 {
		t.Errorf("farthest entry: distance %g partition %d", entries[0].Distance, entries[0].Partition)
	}
	for _, e := range entries[1:] {
		if e.Partition != 1 {
			t.Errorf("entry at %g assigned partition %d, want 1", e.Distance, e.Partition)
		}
	}
}

func TestPartitionSingle(t *testing.T) {
	entries := entriesAtDistances(10, 20, 30)
	parts := PartitionDepths(entries, 1000)
	if len(parts) != 1 {
		t.Fatalf("got %d partitions, want 1", len(parts))
	}
	if parts[0].NearZ >= parts[0].FarZ {
		t.Errorf("degenerate partition bounds [%g, %g]", parts[0].NearZ, parts[0].FarZ)
	}
}

func TestPartitionBoundaryToNearer(t *testing.T) {
	// 10000/10 equals the threshold exactly; the nearer entry must begin
	// the new partition rather than joining the farther one.
	entries := entriesAtDistances(10, 10000)
	parts := PartitionDepths(entries, 1000)
	if len(parts) != 2 {
		t.Fatalf("got %d partitions, want 2", len(parts))
	}
	if entries[1].Distance != 10 || entries[1].Partition != 1 {
		t.Errorf("boundary entry at %g assigned partition %d", entries[1].Distance, entries[1].Partition)
	}
}

func TestPartitionOrderingConsistency(t *testing.T) {
	// Draw order (list order) must put every entry of a farther partition
	// before every entry of a nearer one.
	entries := entriesAtDistances(1, 5, 5000, 2e7, 3e7, 1e12)
	PartitionDepths(entries, 1000)

	for i := 1; i < len(entries); i++ {
		if entries[i].Partition < entries[i-1].Partition {
			t.Errorf("partition indices not monotone at %d: %d then %d",
				i, entries[i-1].Partition, entries[i].Partition)
		}
	}
}

func TestPartitionBoundsContainEntries(t *testing.T) {
	entries := entriesAtDistances(3, 70, 900, 4e6, 9e9)
	parts := PartitionDepths(entries, 1000)

	for _, e := range entries {
		p := parts[e.Partition]
		if e.Distance < p.NearZ || e.Distance > p.FarZ {
			t.Errorf("entry at %g outside its partition bounds [%g, %g]",
				e.Distance, p.NearZ, p.FarZ)
		}
	}
}

func TestPartitionEmpty(t *testing.T) {
	if parts := PartitionDepths(nil, 1000); parts != nil {
		t.Errorf("expected no partitions for empty list, got %v", parts)
	}
}
