// pkg/celengine/depth.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

// A single near/far projection cannot hold sub-pixel depth precision
// across distances spanning meters to light-years. The render list is
// instead cut into partitions, each with its own near/far bounds and its
// own projection matrix and depth-buffer clear, drawn in order from far
// to near.

// DepthBufferPartition is one distance-range bucket of the render list.
type DepthBufferPartition struct {
	Index int
	// NearZ and FarZ bound the distances of the entries assigned to this
	// partition, padded so that geometry at the bounds is not clipped.
	NearZ, FarZ float64
}

// depthPartitionPadding scales the near/far bounds outward so spheres
// centered at the extreme distances still fit.
const depthPartitionPadding = 2.0

// minPartitionNear keeps a partition's near plane strictly positive.
const minPartitionNear = 1e-3

// PartitionDepths cuts the render list into depth partitions. entries
// must already be sorted back to front (farthest first); a new partition
// opens wherever the ratio between consecutive entries' distances reaches
// splitRatio. Each entry's Partition field is set to its partition index;
// an entry whose distance ratio exactly equals the threshold begins the
// new, nearer partition. Partition 0 is the farthest.
func PartitionDepths(entries []RenderListEntry, splitRatio float64) []DepthBufferPartition {
	if len(entries) == 0 {
		return nil
	}
	if splitRatio < 1 {
		splitRatio = 1
	}

	var partitions []DepthBufferPartition
	open := func(far float64) {
		partitions = append(partitions, DepthBufferPartition{
			Index: len(partitions),
			NearZ: far,
			FarZ:  far,
		})
	}

	open(entries[0].Distance)
	entries[0].Partition = 0
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Distance, entries[i].Distance
		if cur > 0 && prev/cur >= splitRatio {
			open(cur)
		}
		p := &partitions[len(partitions)-1]
		if cur < p.NearZ {
			p.NearZ = cur
		}
		entries[i].Partition = p.Index
	}

	for i := range partitions {
		p := &partitions[i]
		p.FarZ *= depthPartitionPadding
		p.NearZ /= depthPartitionPadding
		if p.NearZ < minPartitionNear {
			p.NearZ = minPartitionNear
		}
	}
	return partitions
}
