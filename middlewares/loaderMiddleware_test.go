package middlewares

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/ricemill_backend/models"
)

func TestGenerateLoaderResults_KeepsRequestOrder(t *testing.T) {
	rows := []models.Godown{{ID: 3, Name: "West"}, {ID: 1, Name: "East"}}
	results := generateLoaderResults(rows, []int{1, 2, 3, 0})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	expected := []struct {
		id   int
		name string
	}{
		{1, "East"},
		{2, ""},
		{3, "West"},
		{0, ""},
	}
	for i, e := range expected {
		got := results[i].Data
		if results[i].Error != nil || got == nil || got.ID != e.id || got.Name != e.name {
			t.Fatalf("result %d: expected (%d, %q), got %+v", i, e.id, e.name, results[i])
		}
	}
}

func TestGenerateLoaderArrayResults_GroupsByTransaction(t *testing.T) {
	rows := []models.StockMovement{
		{ID: 1, TransactionId: 7},
		{ID: 2, TransactionId: 8},
		{ID: 3, TransactionId: 7},
	}
	results := generateLoaderArrayResults(rows, []int{7, 9, 8})
	if len(results[0].Data) != 2 || results[0].Data[0].ID != 1 || results[0].Data[1].ID != 3 {
		t.Fatalf("unexpected movements for 7: %+v", results[0].Data)
	}
	if results[1].Data != nil {
		t.Fatalf("expected no movements for 9, got %+v", results[1].Data)
	}
	if len(results[2].Data) != 1 || results[2].Data[0].ID != 2 {
		t.Fatalf("unexpected movements for 8: %+v", results[2].Data)
	}
}

func TestHandleError_RepeatsError(t *testing.T) {
	err := errors.New("db down")
	results := handleError[*models.Party](3, err)
	for i, r := range results {
		if !errors.Is(r.Error, err) {
			t.Fatalf("result %d: expected the shared error, got %v", i, r.Error)
		}
	}
}
