package entities

import (
	"fmt"
	"sort"
)

// TemplateStep represents one ordered operation slot in a workflow template
type TemplateStep struct {
	OperationType OperationType
	StepOrder     int
	Optional      bool
}

// WorkflowTemplate represents a tenant-defined ordered sequence of operation
// types an item must pass through. Step structure is immutable once any item
// workflow references the template; only name, description and the active
// flag may change after that.
type WorkflowTemplate struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	Steps       []TemplateStep
	IsDefault   bool
	IsActive    bool
}

// NewWorkflowTemplate creates a validated WorkflowTemplate. Steps are kept
// sorted by step order; orders must be unique and contiguous starting at 1.
func NewWorkflowTemplate(
	id, tenantID, name string,
	steps []TemplateStep,
	isDefault bool,
) (*WorkflowTemplate, error) {
	if id == "" {
		return nil, fmt.Errorf("template id cannot be empty")
	}
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("template name cannot be empty")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("template must have at least one step")
	}

	ordered := make([]TemplateStep, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StepOrder < ordered[j].StepOrder
	})

	seen := make(map[OperationType]bool, len(ordered))
	for i, step := range ordered {
		if step.StepOrder != i+1 {
			return nil, fmt.Errorf(
				"step orders must be contiguous starting at 1, got %d at position %d",
				step.StepOrder, i+1,
			)
		}
		if seen[step.OperationType] {
			return nil, fmt.Errorf("duplicate operation type in template: %s", step.OperationType)
		}
		seen[step.OperationType] = true
	}

	return &WorkflowTemplate{
		ID:        id,
		TenantID:  tenantID,
		Name:      name,
		Steps:     ordered,
		IsDefault: isDefault,
		IsActive:  true,
	}, nil
}

// StepFor returns the template step matching the operation type, or nil
func (t *WorkflowTemplate) StepFor(opType OperationType) *TemplateStep {
	for i := range t.Steps {
		if t.Steps[i].OperationType == opType {
			return &t.Steps[i]
		}
	}
	return nil
}

// FirstOperation returns the operation type of the first template step
func (t *WorkflowTemplate) FirstOperation() OperationType {
	return t.Steps[0].OperationType
}
