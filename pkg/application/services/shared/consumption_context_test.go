package shared

import (
	"testing"
)

func TestConsumptionMap_BasicOperations(t *testing.T) {
	// Test creating empty consumption map
	consMap := NewConsumptionMap()
	if consMap.Size() != 0 {
		t.Errorf("Expected empty map, got size %d", consMap.Size())
	}

	// Test Add and Get
	consMap.Add("WF-1", "FORGE-1", 60)

	retrieved := consMap.Get("WF-1", "FORGE-1")
	if retrieved == nil {
		t.Error("Expected to find consumption context")
	} else {
		if retrieved.ConsumedPieces != 60 {
			t.Errorf("Expected consumed pieces 60, got %d", retrieved.ConsumedPieces)
		}
		if !retrieved.HasConsumed {
			t.Error("Expected HasConsumed to be true")
		}
	}

	// Test Has method
	if !consMap.Has("WF-1", "FORGE-1") {
		t.Error("Expected Has to return true")
	}

	if consMap.Has("WF-1", "NONEXISTENT") {
		t.Error("Expected Has to return false for non-existent batch")
	}
}

func TestConsumptionMap_AccumulateAndReturn(t *testing.T) {
	consMap := NewConsumptionMap()

	// Two draws from the same upstream batch accumulate
	consMap.Add("WF-1", "FORGE-1", 40)
	consMap.Add("WF-1", "FORGE-1", 20)
	consMap.Add("WF-2", "FORGE-1", 10)

	if consMap.Size() != 2 {
		t.Errorf("Expected map size 2, got %d", consMap.Size())
	}

	retrieved := consMap.Get("WF-1", "FORGE-1")
	if retrieved == nil || retrieved.ConsumedPieces != 60 {
		t.Fatalf("Expected accumulated 60 pieces, got %+v", retrieved)
	}

	// A return is a negative add
	consMap.Add("WF-1", "FORGE-1", -60)
	retrieved = consMap.Get("WF-1", "FORGE-1")
	if retrieved.ConsumedPieces != 0 {
		t.Errorf("Expected 0 pieces after full return, got %d", retrieved.ConsumedPieces)
	}
	if retrieved.HasConsumed {
		t.Error("Expected HasConsumed to be false after full return")
	}

	if consMap.TotalConsumed() != 10 {
		t.Errorf("Expected total consumed 10, got %d", consMap.TotalConsumed())
	}

	// Test ByWorkflow grouping
	byWorkflow := consMap.ByWorkflow("WF-2")
	if len(byWorkflow) != 1 {
		t.Fatalf("Expected 1 batch for WF-2, got %d", len(byWorkflow))
	}
	if byWorkflow["FORGE-1"] != 10 {
		t.Errorf("Expected WF-2 to have consumed 10 from FORGE-1, got %d", byWorkflow["FORGE-1"])
	}

	// Test Remove
	consMap.Remove("WF-1", "FORGE-1")
	if consMap.Has("WF-1", "FORGE-1") {
		t.Error("Expected context to be gone after Remove")
	}
	if consMap.Size() != 1 {
		t.Errorf("Expected map size 1 after remove, got %d", consMap.Size())
	}
}
