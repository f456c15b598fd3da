package models

import (
	"errors"
	"testing"
)

func TestBagDetail_ApplyReturn(t *testing.T) {
	cases := []struct {
		name             string
		total, returned  int
		count            int
		expectedReturned int
		expectedStatus   BagsStatus
	}{
		{"partial", 100, 0, 40, 40, BagsStatusActive},
		{"completes", 100, 60, 40, 100, BagsStatusReturned},
		{"over return is clamped", 100, 60, 75, 100, BagsStatusReturned},
		{"zero count keeps active", 100, 10, 0, 10, BagsStatusActive},
		{"negative count ignored", 100, 10, -5, 10, BagsStatusActive},
	}
	for _, tc := range cases {
		d := BagDetail{TotalBags: tc.total, ReturnedBags: tc.returned, RemainingBags: tc.total - tc.returned, BagsStatus: BagsStatusActive}
		if err := d.ApplyReturn(tc.count); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if d.ReturnedBags != tc.expectedReturned || d.BagsStatus != tc.expectedStatus {
			t.Fatalf("%s: expected (%d, %s), got (%d, %s)", tc.name, tc.expectedReturned, tc.expectedStatus, d.ReturnedBags, d.BagsStatus)
		}
		if d.RemainingBags != d.TotalBags-d.ReturnedBags {
			t.Fatalf("%s: remaining %d != total %d - returned %d", tc.name, d.RemainingBags, d.TotalBags, d.ReturnedBags)
		}
	}
}

func TestBagDetail_ReturnedIsTerminal(t *testing.T) {
	d := BagDetail{TotalBags: 10, RemainingBags: 10, BagsStatus: BagsStatusActive}
	if err := d.ApplyReturn(10); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if d.BagsStatus != BagsStatusReturned || d.RemainingBags != 0 {
		t.Fatalf("expected RETURNED with 0 remaining, got %s with %d", d.BagsStatus, d.RemainingBags)
	}
	err := d.ApplyReturn(1)
	if !errors.Is(err, ErrBagsAlreadyReturned) {
		t.Fatalf("expected ErrBagsAlreadyReturned, got %v", err)
	}
	if d.ReturnedBags != 10 || d.RemainingBags != 0 {
		t.Fatalf("rejected return must not change counts, got returned=%d remaining=%d", d.ReturnedBags, d.RemainingBags)
	}
}

func TestCarryBagReturns(t *testing.T) {
	existing := []BagDetail{
		{PackagingId: 1, TotalBags: 50, ReturnedBags: 30},
		{PackagingId: 2, TotalBags: 20, ReturnedBags: 20, BagsStatus: BagsStatusReturned},
	}
	packagings := []TransactionPackaging{
		{PackagingId: 1, BagNos: 20},
		{PackagingId: 1, BagNos: 20},
		{PackagingId: 2, BagNos: 40},
		{PackagingId: 3, BagNos: 5},
	}
	got := carryBagReturns(existing, packagings)
	expected := []struct {
		returned int
		status   BagsStatus
	}{
		{20, BagsStatusReturned},
		{10, BagsStatusActive},
		{20, BagsStatusActive},
		{0, BagsStatusActive},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d details, got %d", len(expected), len(got))
	}
	for i, e := range expected {
		if got[i].ReturnedBags != e.returned || got[i].BagsStatus != e.status {
			t.Fatalf("detail %d: expected (%d, %s), got (%d, %s)", i, e.returned, e.status, got[i].ReturnedBags, got[i].BagsStatus)
		}
		if got[i].RemainingBags != got[i].TotalBags-got[i].ReturnedBags {
			t.Fatalf("detail %d: remaining out of sync", i)
		}
	}
}

func TestFindBagDetail_PrefersActive(t *testing.T) {
	details := []*BagDetail{
		{ID: 1, PackagingId: 4, BagsStatus: BagsStatusReturned},
		{ID: 2, PackagingId: 4, BagsStatus: BagsStatusActive},
		{ID: 3, PackagingId: 5, BagsStatus: BagsStatusActive},
	}
	if d := findBagDetail(details, &Packaging{ID: 4}); d == nil || d.ID != 2 {
		t.Fatalf("expected detail 2, got %+v", d)
	}
	if d := findBagDetail(details[:1], &Packaging{ID: 4}); d == nil || d.ID != 1 {
		t.Fatalf("expected the returned detail when nothing is active, got %+v", d)
	}
	if d := findBagDetail(details, &Packaging{ID: 9}); d != nil {
		t.Fatalf("expected nil for unknown packaging, got %+v", d)
	}
	if d := findBagDetail(details, nil); d != nil {
		t.Fatalf("expected nil without packaging, got %+v", d)
	}
}
