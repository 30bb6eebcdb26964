package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewVendorDispatchHeat_ConsumptionTypeXOR(t *testing.T) {
	testCases := []struct {
		name            string
		consumptionType ConsumptionType
		quantity        decimal.Decimal
		pieces          Pieces
		wantErr         bool
	}{
		{"quantity typed with quantity", ConsumeByQuantity, decimal.NewFromFloat(125.5), 0, false},
		{"pieces typed with pieces", ConsumeByPieces, decimal.Zero, 200, false},
		{"quantity typed with pieces set", ConsumeByQuantity, decimal.NewFromFloat(125.5), 10, true},
		{"pieces typed with quantity set", ConsumeByPieces, decimal.NewFromFloat(1), 200, true},
		{"quantity typed without quantity", ConsumeByQuantity, decimal.Zero, 0, true},
		{"pieces typed without pieces", ConsumeByPieces, decimal.Zero, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVendorDispatchHeat("heat-1", "HN-2024-17", tc.consumptionType, tc.quantity, tc.pieces)
			if tc.wantErr && err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Expected success for %s: %v", tc.name, err)
			}
		})
	}
}

func TestVendorReceiveBatch_QualityCheckLocks(t *testing.T) {
	batch, err := NewVendorReceiveBatch("rb-1", "disp-1", 150, 10, 0, true, time.Now())
	if err != nil {
		t.Fatalf("Expected receive batch creation to succeed: %v", err)
	}

	if err := batch.EnsureMutable(); err != nil {
		t.Fatalf("Expected fresh batch to be mutable: %v", err)
	}

	if err := batch.CompleteQualityCheck(5, 3, "surface cracks on 5", time.Now()); err != nil {
		t.Fatalf("Expected quality completion to succeed: %v", err)
	}
	if !batch.IsLocked {
		t.Error("Expected batch locked after quality completion")
	}
	if batch.TotalFinalRejects != 8 {
		t.Errorf("Expected total final rejects 8, got %d", batch.TotalFinalRejects)
	}
	if batch.QualityCheckCompletedAt == nil {
		t.Error("Expected quality completion timestamp to be set")
	}
	if batch.EligiblePieces() != 142 {
		t.Errorf("Expected 142 eligible pieces, got %d", batch.EligiblePieces())
	}

	// Second completion must fail with the lock error
	err = batch.CompleteQualityCheck(0, 0, "", time.Now())
	if !errors.Is(err, ErrBatchLocked) {
		t.Errorf("Expected ErrBatchLocked on second completion, got %v", err)
	}
	if err := batch.EnsureMutable(); !errors.Is(err, ErrBatchLocked) {
		t.Errorf("Expected EnsureMutable to fail once locked, got %v", err)
	}
}

func TestVendorReceiveBatch_QualityCheckNotRequired(t *testing.T) {
	batch, err := NewVendorReceiveBatch("rb-1", "disp-1", 30, 10, 0, false, time.Now())
	if err != nil {
		t.Fatalf("Expected receive batch creation to succeed: %v", err)
	}

	err = batch.CompleteQualityCheck(1, 0, "", time.Now())
	if !errors.Is(err, ErrQualityCheckNotRequired) {
		t.Errorf("Expected ErrQualityCheckNotRequired, got %v", err)
	}
}

func TestProcessedItemBatch_FullyReceivedAcrossReceives(t *testing.T) {
	payload := ProcessedItemVendorDispatchBatch{
		ID:               "pi-1",
		IsInPieces:       true,
		DispatchedPieces: 200,
		ExpectedPieces:   200,
	}

	first, _ := NewVendorReceiveBatch("rb-1", "disp-1", 150, 10, 0, false, time.Now())
	payload.RecomputeTotals([]*VendorReceiveBatch{first})
	if payload.FullyReceived {
		t.Error("Expected not fully received after 160 of 200 pieces accounted")
	}
	if payload.TotalReceivedPieces != 150 || payload.TotalRejectedPieces != 10 {
		t.Errorf("Unexpected totals after first receive: %+v", payload)
	}

	second, _ := NewVendorReceiveBatch("rb-2", "disp-1", 30, 10, 0, false, time.Now())
	payload.RecomputeTotals([]*VendorReceiveBatch{first, second})
	if !payload.FullyReceived {
		t.Error("Expected fully received after 200 of 200 pieces accounted")
	}
	if payload.TotalEligibleForNextOp != 180 {
		t.Errorf("Expected 180 eligible pieces, got %d", payload.TotalEligibleForNextOp)
	}

	// Deleting a receive batch takes its counts out of the totals
	second.Deleted = true
	payload.RecomputeTotals([]*VendorReceiveBatch{first, second})
	if payload.FullyReceived {
		t.Error("Expected fully received cleared after receive batch deletion")
	}
	if payload.TotalReceivedPieces != 150 {
		t.Errorf("Expected 150 received after deletion, got %d", payload.TotalReceivedPieces)
	}
}
