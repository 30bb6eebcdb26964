package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// WorkflowRepository provides in-memory item workflow storage. A single
// mutex serializes every read-modify-write, which stands in for the
// row-level locking a transactional store provides.
type WorkflowRepository struct {
	mutex     sync.RWMutex
	workflows map[string]*entities.ItemWorkflow
	byItem    map[string][]string
}

// NewWorkflowRepository creates a new in-memory workflow repository
func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{
		workflows: make(map[string]*entities.ItemWorkflow),
		byItem:    make(map[string][]string),
	}
}

// Verify interface compliance
var _ repositories.WorkflowRepository = (*WorkflowRepository)(nil)

// SaveWorkflow stores a new workflow aggregate
func (r *WorkflowRepository) SaveWorkflow(workflow *entities.ItemWorkflow) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.workflows[workflow.ID]; exists {
		return fmt.Errorf("workflow already exists: %s", workflow.ID)
	}
	r.workflows[workflow.ID] = workflow
	r.byItem[workflow.ItemID] = append(r.byItem[workflow.ItemID], workflow.ID)
	return nil
}

// UpdateWorkflow replaces a stored workflow aggregate
func (r *WorkflowRepository) UpdateWorkflow(workflow *entities.ItemWorkflow) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.workflows[workflow.ID]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrWorkflowNotFound, workflow.ID)
	}
	r.workflows[workflow.ID] = workflow
	return nil
}

// GetWorkflow returns the workflow with the given id
func (r *WorkflowRepository) GetWorkflow(id string) (*entities.ItemWorkflow, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	workflow, exists := r.workflows[id]
	if !exists || workflow.Deleted {
		return nil, fmt.Errorf("%w: %s", entities.ErrWorkflowNotFound, id)
	}
	return workflow, nil
}

// GetByItemAndIdentifier returns the item's workflow instance carrying the
// given identifier; an empty identifier addresses the whole-item instance
func (r *WorkflowRepository) GetByItemAndIdentifier(itemID, identifier string) (*entities.ItemWorkflow, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, id := range r.byItem[itemID] {
		workflow := r.workflows[id]
		if !workflow.Deleted && workflow.Identifier == identifier {
			return workflow, nil
		}
	}
	return nil, fmt.Errorf("%w: item %s identifier %q", entities.ErrWorkflowNotFound, itemID, identifier)
}

// ListByItem returns every non-deleted workflow instance of an item in
// creation order
func (r *WorkflowRepository) ListByItem(itemID string) ([]*entities.ItemWorkflow, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := r.byItem[itemID]
	workflows := make([]*entities.ItemWorkflow, 0, len(ids))
	for _, id := range ids {
		workflow := r.workflows[id]
		if !workflow.Deleted {
			workflows = append(workflows, workflow)
		}
	}
	sort.SliceStable(workflows, func(i, j int) bool {
		// Whole-item instance first, then identified sub-batches
		return workflows[i].Identifier < workflows[j].Identifier
	})
	return workflows, nil
}
