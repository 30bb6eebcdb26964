package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	fixtures "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services/testing"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
)

// TestFullProductionChain walks one batch through the standard route:
// forge 100, heat treat 60 of them, machine the 60, then unwind the chain
// batch by batch back to an untouched forging outcome.
func TestFullProductionChain(t *testing.T) {
	repos := fixtures.NewRepos()
	store := events.NewInMemoryEventStore()
	service := NewWorkflowService(repos.Items, repos.Templates, repos.Workflows, store)
	ctx := context.Background()

	template := fixtures.MustTemplate("tpl-1", "tenant-1", "Route", true, fixtures.StandardRoute()...)
	if err := repos.Templates.SaveTemplate(template); err != nil {
		t.Fatalf("Failed to save template: %v", err)
	}
	item := fixtures.MustItem("item-1", "tenant-1", "CRANK-40CR", "2.450")
	if _, err := service.RegisterItem(ctx, item, "tpl-1"); err != nil {
		t.Fatalf("Failed to register item: %v", err)
	}

	workflow, err := service.GetOrCreateWorkflow(ctx, "item-1", entities.Forging, "LOT-001", "")
	if err != nil {
		t.Fatalf("Failed to create workflow: %v", err)
	}

	// Forge 100 pieces.
	if err := service.RecordOutcome(ctx, workflow.ID, entities.Forging, fixtures.MustForgingOutcome("F1", 100)); err != nil {
		t.Fatalf("Failed to record forging outcome: %v", err)
	}

	// Heat treat 60 of them.
	if err := service.Consume(ctx, workflow.ID, entities.HeatTreatment, "F1", 60); err != nil {
		t.Fatalf("Failed to consume for heat treatment: %v", err)
	}
	if err := service.RecordOutcome(ctx, workflow.ID, entities.HeatTreatment, fixtures.MustBatchOutcome("HT-1", 60)); err != nil {
		t.Fatalf("Failed to record heat treatment outcome: %v", err)
	}

	// Machine the 60.
	if err := service.Consume(ctx, workflow.ID, entities.Machining, "HT-1", 60); err != nil {
		t.Fatalf("Failed to consume for machining: %v", err)
	}
	if err := service.RecordOutcome(ctx, workflow.ID, entities.Machining, fixtures.MustBatchOutcome("M-1", 60)); err != nil {
		t.Fatalf("Failed to record machining outcome: %v", err)
	}

	report, _ := service.Report(ctx, workflow.ID)
	if report.Steps[0].PiecesAvailableForNext != 40 {
		t.Errorf("Expected 40 forged pieces left, got %d", report.Steps[0].PiecesAvailableForNext)
	}
	if report.Steps[1].PiecesAvailableForNext != 0 {
		t.Errorf("Expected heat treatment fully consumed, got %d", report.Steps[1].PiecesAvailableForNext)
	}
	if report.Steps[2].PiecesAvailableForNext != 60 {
		t.Errorf("Expected 60 machined pieces, got %d", report.Steps[2].PiecesAvailableForNext)
	}
	if conservation, _ := service.CheckConservation(ctx, workflow.ID); !conservation.Balanced {
		t.Errorf("Expected balanced chain, got %+v", conservation.Violations)
	}

	// Unwinding must run strictly from the end of the chain.
	if err := service.MarkOutcomeDeleted(ctx, workflow.ID, entities.HeatTreatment, "HT-1"); !errors.Is(err, entities.ErrDownstreamBatchesLive) {
		t.Fatalf("Expected ErrDownstreamBatchesLive deleting HT-1 under M-1, got %v", err)
	}

	if err := service.MarkOutcomeDeleted(ctx, workflow.ID, entities.Machining, "M-1"); err != nil {
		t.Fatalf("Failed to delete M-1: %v", err)
	}
	if err := service.ReturnPieces(ctx, workflow.ID, entities.Machining, "HT-1", 60); err != nil {
		t.Fatalf("Failed to return machining consumption: %v", err)
	}
	if err := service.MarkOutcomeDeleted(ctx, workflow.ID, entities.HeatTreatment, "HT-1"); err != nil {
		t.Fatalf("Failed to delete HT-1: %v", err)
	}
	if err := service.ReturnPieces(ctx, workflow.ID, entities.HeatTreatment, "F1", 60); err != nil {
		t.Fatalf("Failed to return heat treatment consumption: %v", err)
	}

	report, _ = service.Report(ctx, workflow.ID)
	if report.Steps[0].PiecesAvailableForNext != 100 {
		t.Errorf("Expected all 100 forged pieces restored, got %d", report.Steps[0].PiecesAvailableForNext)
	}
	if conservation, _ := service.CheckConservation(ctx, workflow.ID); !conservation.Balanced {
		t.Errorf("Expected balanced workflow after unwind, got %+v", conservation.Violations)
	}
}

// TestVendorCycleFeedsWorkflow runs a dispatch cycle end to end and checks
// the received pieces become consumable by the next in-house operation.
func TestVendorCycleFeedsWorkflow(t *testing.T) {
	repos := fixtures.NewRepos()
	store := events.NewInMemoryEventStore()
	workflows := NewWorkflowService(repos.Items, repos.Templates, repos.Workflows, store)
	dispatches := NewDispatchService(repos.Dispatches, repos.Items, workflows, store)
	ctx := context.Background()

	template := fixtures.MustTemplate("tpl-1", "tenant-1", "Route", true, fixtures.StandardRoute()...)
	if err := repos.Templates.SaveTemplate(template); err != nil {
		t.Fatalf("Failed to save template: %v", err)
	}
	item := fixtures.MustItem("item-1", "tenant-1", "CRANK-40CR", "2.450")
	if _, err := workflows.RegisterItem(ctx, item, "tpl-1"); err != nil {
		t.Fatalf("Failed to register item: %v", err)
	}

	// Raw material goes out for forging and heat treatment together.
	dispatch, err := dispatches.CreateDispatch(ctx, CreateDispatchRequest{
		TenantID:     "tenant-1",
		VendorID:     "vendor-1",
		ItemID:       "item-1",
		Identifier:   "LOT-001",
		ProcessTypes: []entities.OperationType{entities.Forging, entities.HeatTreatment},
		Quantity:     decimal.RequireFromString("490.0"),
		Heats:        []entities.VendorDispatchHeat{fixtures.MustQuantityHeat("h1", "HEAT-9", "490.0")},
		DispatchedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to create dispatch: %v", err)
	}

	batch, err := dispatches.RecordReceipt(ctx, dispatch.ID, 190, 10, 0, true, time.Now())
	if err != nil {
		t.Fatalf("Failed to record receipt: %v", err)
	}
	if err := dispatches.CompleteQualityCheck(ctx, batch.ID, 4, 2, "ok", time.Now()); err != nil {
		t.Fatalf("Failed to complete quality check: %v", err)
	}

	// 190 received minus 6 final rejects are available for machining.
	if err := workflows.Consume(ctx, dispatch.WorkflowID, entities.Machining, batch.ID, 184); err != nil {
		t.Fatalf("Failed to consume vendor output: %v", err)
	}
	if err := workflows.Consume(ctx, dispatch.WorkflowID, entities.Machining, batch.ID, 1); !errors.Is(err, entities.ErrInsufficientPieces) {
		t.Errorf("Expected ErrInsufficientPieces after draining vendor output, got %v", err)
	}
}
