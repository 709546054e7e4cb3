// pkg/util/generic_test.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"testing"
)

func TestSortedMapKeys(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	keys := SortedMapKeys(m)
	if len(keys) != 3 || keys[0] != 1 || keys[1] != 2 || keys[2] != 3 {
		t.Errorf("SortedMapKeys returned %v", keys)
	}
}

func TestMapSlice(t *testing.T) {
	a := []int{1, 2, 3, 4}
	b := MapSlice(a, func(i int) float32 { return 2 * float32(i) })
	if len(a) != len(b) {
		t.Errorf("lengths mismatch: %d vs %d", len(a), len(b))
	}
	for i := range b {
		if b[i] != 2*float32(a[i]) {
			t.Errorf("element %d: got %f, expected %f", i, b[i], 2*float32(a[i]))
		}
	}
}

func TestDuplicateSlice(t *testing.T) {
	a := []int{1, 2, 3}
	b := DuplicateSlice(a)
	b[0] = 99
	if a[0] != 1 {
		t.Errorf("DuplicateSlice shares backing storage")
	}
}
