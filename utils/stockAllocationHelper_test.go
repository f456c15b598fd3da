package utils

import (
	"reflect"
	"testing"
)

func TestAllocateBags_Scenarios(t *testing.T) {
	cases := []struct {
		name        string
		destination int
		items       []int
		expected    []int
	}{
		{"exact proportions", 100, []int{30, 70}, []int{30, 70}},
		{"last item absorbs remainder", 100, []int{1, 2}, []int{33, 67}},
		{"equal split when no bag counts", 10, []int{0, 0, 0}, []int{4, 3, 3}},
		{"single item takes everything", 40, []int{12}, []int{40}},
		{"zero destination", 0, []int{5, 5}, []int{0, 0}},
		{"zero count item in the middle", 9, []int{3, 0, 6}, []int{3, 0, 6}},
		{"destination larger than line items", 50, []int{1, 1, 1}, []int{16, 16, 18}},
		{"no items", 10, []int{}, []int{}},
	}
	for _, tc := range cases {
		got := AllocateBags(tc.destination, tc.items)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Fatalf("%s: AllocateBags(%d, %v) expected %v, got %v", tc.name, tc.destination, tc.items, tc.expected, got)
		}
	}
}

func TestAllocateBags_ConservesAndNeverNegative(t *testing.T) {
	itemSets := [][]int{
		{1},
		{1, 2},
		{7, 11, 13},
		{0, 0},
		{0, 5, 0, 9},
		{100, 1, 1, 1},
		{3, 3, 3, 3, 3, 3, 3},
	}
	for _, items := range itemSets {
		for destination := 0; destination <= 250; destination++ {
			got := AllocateBags(destination, items)
			if len(got) != len(items) {
				t.Fatalf("AllocateBags(%d, %v) expected %d allocations, got %d", destination, items, len(items), len(got))
			}
			sum := 0
			for _, a := range got {
				if a < 0 {
					t.Fatalf("AllocateBags(%d, %v) produced negative allocation: %v", destination, items, got)
				}
				sum += a
			}
			if sum != destination {
				t.Fatalf("AllocateBags(%d, %v) expected sum %d, got %d (%v)", destination, items, destination, sum, got)
			}
		}
	}
}
