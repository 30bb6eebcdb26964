package repositories

import "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"

// WorkflowRepository provides access to item workflows and their steps.
// Save and Update persist the whole workflow aggregate, outcome ledger
// included; the underlying store is responsible for making each
// read-modify-write of a workflow atomic.
type WorkflowRepository interface {
	SaveWorkflow(workflow *entities.ItemWorkflow) error
	UpdateWorkflow(workflow *entities.ItemWorkflow) error
	GetWorkflow(id string) (*entities.ItemWorkflow, error)
	// GetByItemAndIdentifier returns the workflow instance tracking one
	// physical sub-batch; an empty identifier addresses the whole-item
	// instance. Returns entities.ErrWorkflowNotFound when absent.
	GetByItemAndIdentifier(itemID, identifier string) (*entities.ItemWorkflow, error)
	// ListByItem returns every non-deleted workflow instance of an item.
	ListByItem(itemID string) ([]*entities.ItemWorkflow, error)
}
