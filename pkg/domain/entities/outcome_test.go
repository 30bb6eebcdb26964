package entities

import "testing"

func TestBatchOutcomeLedger_MergeIdempotent(t *testing.T) {
	ledger := NewBatchOutcomeLedger()
	outcome := OutcomeEntry{BatchID: "HT-1", InitialPieces: 60, AvailablePieces: 60}

	ledger.Merge([]OutcomeEntry{outcome})
	ledger.Merge([]OutcomeEntry{outcome})

	if len(ledger.Outcomes) != 1 {
		t.Fatalf("Expected 1 outcome after replaying merge, got %d", len(ledger.Outcomes))
	}
	if ledger.TotalAvailable() != 60 {
		t.Errorf("Expected 60 available, got %d", ledger.TotalAvailable())
	}
}

func TestBatchOutcomeLedger_MergePreservesSiblings(t *testing.T) {
	ledger := NewBatchOutcomeLedger()
	ledger.Merge([]OutcomeEntry{
		{BatchID: "HT-1", InitialPieces: 60, AvailablePieces: 60},
		{BatchID: "HT-2", InitialPieces: 40, AvailablePieces: 40},
	})

	// A caller resubmitting only the batch it touched must not drop HT-2
	ledger.Merge([]OutcomeEntry{{BatchID: "HT-1", InitialPieces: 60, AvailablePieces: 25}})

	if len(ledger.Outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(ledger.Outcomes))
	}
	sibling := ledger.Entry("HT-2")
	if sibling == nil {
		t.Fatal("Expected sibling HT-2 to survive merge")
	}
	if sibling.AvailablePieces != 40 || sibling.InitialPieces != 40 {
		t.Errorf("Expected sibling HT-2 untouched, got %+v", sibling)
	}
	if updated := ledger.Entry("HT-1"); updated.AvailablePieces != 25 {
		t.Errorf("Expected HT-1 available 25, got %d", updated.AvailablePieces)
	}
	if ledger.Outcomes[0].BatchID != "HT-1" {
		t.Errorf("Expected in-place replacement to preserve position, got %s first", ledger.Outcomes[0].BatchID)
	}
}

func TestBatchOutcomeLedger_TotalsExcludeDeleted(t *testing.T) {
	ledger := NewBatchOutcomeLedger()
	ledger.Merge([]OutcomeEntry{
		{BatchID: "HT-1", InitialPieces: 60, AvailablePieces: 30},
		{BatchID: "HT-2", InitialPieces: 40, AvailablePieces: 40},
	})

	if !ledger.MarkDeleted("HT-2") {
		t.Fatal("Expected MarkDeleted to succeed")
	}
	if ledger.MarkDeleted("HT-2") {
		t.Error("Expected second MarkDeleted to report no live entry")
	}

	if ledger.TotalAvailable() != 30 {
		t.Errorf("Expected 30 available after delete, got %d", ledger.TotalAvailable())
	}
	if ledger.TotalInitial() != 60 {
		t.Errorf("Expected 60 initial after delete, got %d", ledger.TotalInitial())
	}
	if ledger.Entry("HT-2") != nil {
		t.Error("Expected deleted entry to be invisible to Entry lookup")
	}
	if ledger.AllDeleted() {
		t.Error("Expected AllDeleted false while HT-1 is live")
	}

	ledger.MarkDeleted("HT-1")
	if !ledger.AllDeleted() {
		t.Error("Expected AllDeleted true once every entry is deleted")
	}
}

func TestBatchOutcomeLedger_EmptyCountsAsAllDeleted(t *testing.T) {
	ledger := NewBatchOutcomeLedger()
	if !ledger.AllDeleted() {
		t.Error("Expected empty ledger to count as fully deleted")
	}
}

func TestForgingOutcome_SingleAggregate(t *testing.T) {
	outcome, err := NewForgingOutcome("forge-1", 100)
	if err != nil {
		t.Fatalf("Expected forging outcome creation to succeed: %v", err)
	}

	// The forging ledger has exactly one entry; lookup falls back to it
	// regardless of the id the consumer carries.
	if entry := outcome.Entry("whatever"); entry == nil || entry.InitialPieces != 100 {
		t.Fatalf("Expected aggregate entry for any id, got %+v", entry)
	}

	// A re-reported forging outcome replaces wholesale
	outcome.Merge([]OutcomeEntry{{BatchID: "forge-1", InitialPieces: 120, AvailablePieces: 120}})
	if outcome.TotalInitial() != 120 {
		t.Errorf("Expected wholesale replacement, got initial %d", outcome.TotalInitial())
	}

	outcome.MarkDeleted("forge-1")
	if outcome.Entry("forge-1") != nil {
		t.Error("Expected deleted forging outcome to be invisible")
	}
	if outcome.TotalAvailable() != 0 || outcome.TotalInitial() != 0 {
		t.Error("Expected deleted forging outcome excluded from totals")
	}
	if !outcome.AllDeleted() {
		t.Error("Expected AllDeleted true after delete")
	}
}

func TestNewOutcomeEntry_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		batchID string
		pieces  Pieces
		wantErr bool
	}{
		{"valid", "HT-1", 60, false},
		{"zero pieces allowed", "HT-1", 0, false},
		{"empty batch id", "", 60, true},
		{"negative pieces", "HT-1", -1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := NewOutcomeEntry(tc.batchID, tc.pieces)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %s, but got none", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected success: %v", err)
			}
			if entry.AvailablePieces != tc.pieces {
				t.Errorf("Expected all pieces available at creation, got %d", entry.AvailablePieces)
			}
		})
	}
}
