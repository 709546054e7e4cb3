// pkg/celengine/renderlist.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package celengine

import (
	"sort"

	"github.com/orrery/orrery/pkg/math"
)

// RenderListEntry is a transient per-frame record for one drawable
// object. Entries are created during traversal, sorted, tagged with a
// depth partition, and discarded at frame end.
type RenderListEntry struct {
	Body *Body
	Star *Star // mutually exclusive with Body

	// Position is the object's center in camera space.
	Position [3]float64
	Distance float64

	AppMag           float64
	DiscSizeInPixels float64

	Labeled    bool
	IsSelected bool

	// Partition is filled in by PartitionDepths.
	Partition int
}

// IsStar reports whether the entry is a point-rendered star rather than
// an extended body.
func (e *RenderListEntry) IsStar() bool { return e.Star != nil }

// discSizeInPixels returns the projected radius of a sphere in pixels.
// pixelSize is the world-space size of one pixel at unit distance, from
// CalcPixelSize.
func discSizeInPixels(radius, distance, pixelSize float64) float64 {
	if distance <= 0 || pixelSize <= 0 {
		return 0
	}
	return radius / (distance * pixelSize)
}

// sortRenderList orders entries back to front by distance; among entries
// at equal depth, stars precede extended bodies so that translucent
// halos and atmospheres composite over them correctly. The sort is
// stable so that repeated frames with an unchanged scene produce
// identical orderings.
func sortRenderList(entries []RenderListEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Distance != entries[j].Distance {
			return entries[i].Distance > entries[j].Distance
		}
		return entries[i].IsStar() && !entries[j].IsStar()
	})
}

///////////////////////////////////////////////////////////////////////////
// Auto-magnitude feedback

// autoMagController adjusts the faintest-visible-magnitude threshold to
// keep the number of visible stars near a target. It is a smoothed
// feedback controller: the threshold moves at most one step per frame,
// which trades convergence speed for stability (no flicker when the
// star count sits near the band edge).
type autoMagController struct {
	// Visible-star counts inside [TargetCount-Band, TargetCount+Band]
	// leave the threshold alone.
	TargetCount int
	Band        int

	// Step is the per-frame magnitude adjustment.
	Step float64

	MinMag, MaxMag float64
}

func defaultAutoMagController() autoMagController {
	return autoMagController{
		TargetCount: 5000,
		Band:        500,
		Step:        0.1,
		MinMag:      1,
		MaxMag:      15,
	}
}

// Update returns the adjusted faintest-magnitude threshold given the
// number of stars visible at the current threshold.
func (c *autoMagController) Update(faintest float64, visibleStars int) float64 {
	if visibleStars > c.TargetCount+c.Band {
		faintest -= c.Step
	} else if visibleStars < c.TargetCount-c.Band {
		faintest += c.Step
	}
	return math.Clamp(faintest, c.MinMag, c.MaxMag)
}
