// Package forge is the embedding facade of the workflow ledger. It wires
// the application services over in-memory repositories so a host program
// can track production workflows with one call, without touching the
// repository or event plumbing.
package forge

import (
	"context"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/dto"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/services"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/repositories/memory"
)

// Ledger bundles the workflow, dispatch and template services over a
// shared set of in-memory repositories
type Ledger struct {
	Workflows  *services.WorkflowService
	Dispatches *services.DispatchService
	Templates  *services.TemplateService
	Events     *events.InMemoryEventStore
}

// NewLedger creates a fully wired in-memory ledger
func NewLedger() *Ledger {
	items := memory.NewItemRepository()
	templates := memory.NewTemplateRepository()
	workflows := memory.NewWorkflowRepository()
	dispatches := memory.NewDispatchRepository()
	eventStore := events.NewInMemoryEventStore()

	workflowService := services.NewWorkflowService(items, templates, workflows, eventStore)
	return &Ledger{
		Workflows:  workflowService,
		Dispatches: services.NewDispatchService(dispatches, items, workflowService, eventStore),
		Templates:  services.NewTemplateService(templates),
		Events:     eventStore,
	}
}

// SuggestNextIdentifier proposes the next sub-batch identifier for an item
func (l *Ledger) SuggestNextIdentifier(ctx context.Context, itemID string) (string, error) {
	return l.Workflows.SuggestNextIdentifier(ctx, itemID)
}

// RegisterItem seeds the tenant default template if needed and registers
// an item against it
func (l *Ledger) RegisterItem(ctx context.Context, item *entities.Item) (*entities.ItemWorkflow, error) {
	template, err := l.Templates.SeedDefaultTemplate(ctx, item.TenantID)
	if err != nil {
		return nil, err
	}
	return l.Workflows.RegisterItem(ctx, item, template.ID)
}

// Report builds the read model of one workflow instance
func (l *Ledger) Report(ctx context.Context, workflowID string) (*dto.WorkflowReport, error) {
	return l.Workflows.Report(ctx, workflowID)
}
