package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/logging"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/sqlite"
)

func main() {
	logging.Init("forge-example", "INFO")
	ctx := context.Background()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		fail("open database", err)
	}
	defer db.Close()

	store, err := sqlite.NewStore(db)
	if err != nil {
		fail("initialize store", err)
	}

	itemRepo := sqlite.NewItemRepository(store)
	templateRepo := sqlite.NewTemplateRepository(store)
	workflowRepo := sqlite.NewWorkflowRepository(store)
	dispatchRepo := sqlite.NewDispatchRepository(store)
	eventStore := events.NewInMemoryEventStore()

	templateService := services.NewTemplateService(templateRepo)
	workflowService := services.NewWorkflowService(itemRepo, templateRepo, workflowRepo, eventStore)
	dispatchService := services.NewDispatchService(dispatchRepo, itemRepo, workflowService, eventStore)

	// Seed the standard route and register a crankshaft item against it.
	template, err := templateService.SeedDefaultTemplate(ctx, "tenant-1")
	if err != nil {
		fail("seed template", err)
	}

	item, err := entities.NewItem("item-1", "tenant-1", "CRANK-40CR", "Crankshaft 40Cr",
		decimal.RequireFromString("2.450"), "PCS")
	if err != nil {
		fail("create item", err)
	}
	if _, err := workflowService.RegisterItem(ctx, item, template.ID); err != nil {
		fail("register item", err)
	}

	fmt.Println("Dispatching raw material to vendor for forging + heat treatment...")
	dispatch, err := dispatchService.CreateDispatch(ctx, services.CreateDispatchRequest{
		TenantID:     "tenant-1",
		VendorID:     "vendor-1",
		ItemID:       "item-1",
		Identifier:   "LOT-001",
		ProcessTypes: []entities.OperationType{entities.Forging, entities.HeatTreatment},
		Quantity:     decimal.RequireFromString("490.0"),
		Heats: []entities.VendorDispatchHeat{
			mustHeat("h1", "HEAT-2024-091", "490.0"),
		},
		DispatchedAt: time.Now(),
	})
	if err != nil {
		fail("create dispatch", err)
	}

	fmt.Println("Recording two partial deliveries back from the vendor...")
	if _, err := dispatchService.RecordReceipt(ctx, dispatch.ID, 150, 10, 0, false, time.Now()); err != nil {
		fail("record first receipt", err)
	}
	batch, err := dispatchService.RecordReceipt(ctx, dispatch.ID, 30, 10, 0, true, time.Now())
	if err != nil {
		fail("record second receipt", err)
	}
	if err := dispatchService.CompleteQualityCheck(ctx, batch.ID, 2, 1, "minor surface defects", time.Now()); err != nil {
		fail("complete quality check", err)
	}

	final, err := dispatchService.GetDispatch(ctx, dispatch.ID)
	if err != nil {
		fail("reload dispatch", err)
	}
	fmt.Printf("Dispatch status: %s (received=%d rejected=%d eligible=%d)\n",
		final.Status,
		final.Payload.TotalReceivedPieces,
		final.Payload.TotalRejectedPieces,
		final.Payload.TotalEligibleForNextOp)

	report, err := workflowService.Report(ctx, dispatch.WorkflowID)
	if err != nil {
		fail("build report", err)
	}
	fmt.Printf("\nWorkflow %s (%s):\n", report.Identifier, report.Status)
	for _, step := range report.Steps {
		fmt.Printf("  %-16s %-12s initial=%-5d available=%-5d\n",
			step.OperationType, step.Status, step.InitialPieces, step.PiecesAvailableForNext)
	}

	conservation, err := workflowService.CheckConservation(ctx, dispatch.WorkflowID)
	if err != nil {
		fail("check conservation", err)
	}
	fmt.Printf("\nPiece conservation holds: %v\n", conservation.Balanced)

	next, err := workflowService.SuggestNextIdentifier(ctx, "item-1")
	if err != nil {
		fail("suggest identifier", err)
	}
	fmt.Printf("Next lot identifier: %s\n", next)
}

func mustHeat(id, heatNumber, quantityKg string) entities.VendorDispatchHeat {
	heat, err := entities.NewVendorDispatchHeat(id, heatNumber, entities.ConsumeByQuantity,
		decimal.RequireFromString(quantityKg), 0)
	if err != nil {
		panic(err)
	}
	return *heat
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Failed to %s: %v\n", what, err)
	os.Exit(1)
}
