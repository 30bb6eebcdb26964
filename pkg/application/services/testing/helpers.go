package testing

import (
	"github.com/shopspring/decimal"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/memory"
)

// MustItem builds a valid item fixture - panics on validation error
func MustItem(id, tenantID, code string, netWeightKg string) *entities.Item {
	weight, err := decimal.NewFromString(netWeightKg)
	if err != nil {
		panic(err)
	}
	item, err := entities.NewItem(id, tenantID, entities.ItemCode(code), "test item", weight, "PCS")
	if err != nil {
		panic(err)
	}
	return item
}

// MustTemplate builds a valid template fixture - panics on validation error
func MustTemplate(id, tenantID, name string, isDefault bool, ops ...entities.OperationType) *entities.WorkflowTemplate {
	steps := make([]entities.TemplateStep, 0, len(ops))
	for i, op := range ops {
		steps = append(steps, entities.TemplateStep{OperationType: op, StepOrder: i + 1})
	}
	template, err := entities.NewWorkflowTemplate(id, tenantID, name, steps, isDefault)
	if err != nil {
		panic(err)
	}
	return template
}

// StandardRoute returns the operation sequence most fixtures use
func StandardRoute() []entities.OperationType {
	return []entities.OperationType{
		entities.Forging,
		entities.HeatTreatment,
		entities.Machining,
		entities.Dispatch,
	}
}

// MustForgingOutcome builds a forging ledger fixture - panics on validation error
func MustForgingOutcome(batchID string, pieces entities.Pieces) *entities.ForgingOutcome {
	outcome, err := entities.NewForgingOutcome(batchID, pieces)
	if err != nil {
		panic(err)
	}
	return outcome
}

// MustBatchOutcome builds a single-entry batch ledger fixture - panics on
// validation error
func MustBatchOutcome(batchID string, pieces entities.Pieces) *entities.BatchOutcomeLedger {
	entry, err := entities.NewOutcomeEntry(batchID, pieces)
	if err != nil {
		panic(err)
	}
	ledger := entities.NewBatchOutcomeLedger()
	ledger.Merge([]entities.OutcomeEntry{*entry})
	return ledger
}

// MustQuantityHeat builds a quantity-consumed heat fixture - panics on
// validation error
func MustQuantityHeat(id, heatNumber, quantityKg string) entities.VendorDispatchHeat {
	qty, err := decimal.NewFromString(quantityKg)
	if err != nil {
		panic(err)
	}
	heat, err := entities.NewVendorDispatchHeat(id, heatNumber, entities.ConsumeByQuantity, qty, 0)
	if err != nil {
		panic(err)
	}
	return *heat
}

// MustPiecesHeat builds a piece-consumed heat fixture - panics on
// validation error
func MustPiecesHeat(id, heatNumber string, pieces entities.Pieces) entities.VendorDispatchHeat {
	heat, err := entities.NewVendorDispatchHeat(id, heatNumber, entities.ConsumeByPieces, decimal.Zero, pieces)
	if err != nil {
		panic(err)
	}
	return *heat
}

// Repos bundles fresh in-memory repositories for a test
type Repos struct {
	Items      *memory.ItemRepository
	Templates  *memory.TemplateRepository
	Workflows  *memory.WorkflowRepository
	Dispatches *memory.DispatchRepository
}

// NewRepos creates a fresh repository bundle
func NewRepos() *Repos {
	return &Repos{
		Items:      memory.NewItemRepository(),
		Templates:  memory.NewTemplateRepository(),
		Workflows:  memory.NewWorkflowRepository(),
		Dispatches: memory.NewDispatchRepository(),
	}
}
