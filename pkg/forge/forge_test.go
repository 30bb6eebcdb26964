package forge

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

func TestLedgerEndToEnd(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	item, err := entities.NewItem("item-1", "tenant-1", "CRANK-40CR", "Crankshaft",
		decimal.RequireFromString("2.450"), "PCS")
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := ledger.RegisterItem(ctx, item); err != nil {
		t.Fatalf("Failed to register item: %v", err)
	}

	workflow, err := ledger.Workflows.GetOrCreateWorkflow(ctx, "item-1", entities.Forging, "LOT-001", "")
	if err != nil {
		t.Fatalf("Failed to create workflow: %v", err)
	}

	forging, err := entities.NewForgingOutcome("F1", 100)
	if err != nil {
		t.Fatalf("Failed to create outcome: %v", err)
	}
	if err := ledger.Workflows.RecordOutcome(ctx, workflow.ID, entities.Forging, forging); err != nil {
		t.Fatalf("Failed to record outcome: %v", err)
	}

	report, err := ledger.Report(ctx, workflow.ID)
	if err != nil {
		t.Fatalf("Failed to build report: %v", err)
	}
	if report.Steps[0].PiecesAvailableForNext != 100 {
		t.Errorf("Expected 100 pieces available, got %d", report.Steps[0].PiecesAvailableForNext)
	}
}
