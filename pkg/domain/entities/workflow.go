package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// WorkflowStep represents the runtime state of one template step within an
// item workflow. InitialPieces and PiecesAvailableForNext are denormalized
// sums over the step's outcome ledger, recomputed after every ledger change.
type WorkflowStep struct {
	ID                     string
	WorkflowID             string
	OperationType          OperationType
	StepOrder              int
	Optional               bool
	Status                 StepStatus
	InitialPieces          Pieces
	PiecesAvailableForNext Pieces
	RelatedEntityIDs       []string
	Ledger                 OutcomeLedger
}

// Start transitions a pending step to in-progress; a no-op otherwise
func (s *WorkflowStep) Start() {
	if s.Status == StepPending {
		s.Status = StepInProgress
	}
}

// Complete transitions the step to completed
func (s *WorkflowStep) Complete() {
	s.Status = StepCompleted
}

// RecomputeTotals refreshes the denormalized piece counts from the ledger
func (s *WorkflowStep) RecomputeTotals() {
	if s.Ledger == nil {
		s.InitialPieces = 0
		s.PiecesAvailableForNext = 0
		return
	}
	s.InitialPieces = s.Ledger.TotalInitial()
	s.PiecesAvailableForNext = s.Ledger.TotalAvailable()
}

// AddRelatedEntityIDs records ids of the physical records that produced
// this step's outcome, ignoring duplicates
func (s *WorkflowStep) AddRelatedEntityIDs(ids ...string) {
	for _, id := range ids {
		found := false
		for _, existing := range s.RelatedEntityIDs {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			s.RelatedEntityIDs = append(s.RelatedEntityIDs, id)
		}
	}
}

// ItemWorkflow represents one running instance of a workflow template bound
// to an item or to one physical sub-batch of that item. Identifier is empty
// for the whole-item instance created implicitly at item registration; each
// non-empty identifier names one independent sub-batch.
type ItemWorkflow struct {
	ID         string
	ItemID     string
	TenantID   string
	TemplateID string
	Identifier string
	Status     WorkflowStatus
	Steps      []*WorkflowStep
	Deleted    bool
}

// NewItemWorkflow instantiates a template as a fresh workflow with one
// pending step per template step
func NewItemWorkflow(itemID, tenantID string, template *WorkflowTemplate, identifier string) (*ItemWorkflow, error) {
	if itemID == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if template == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}

	workflow := &ItemWorkflow{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		TenantID:   tenantID,
		TemplateID: template.ID,
		Identifier: identifier,
		Status:     NotStarted,
		Steps:      make([]*WorkflowStep, 0, len(template.Steps)),
	}

	for _, ts := range template.Steps {
		workflow.Steps = append(workflow.Steps, &WorkflowStep{
			ID:            uuid.New().String(),
			WorkflowID:    workflow.ID,
			OperationType: ts.OperationType,
			StepOrder:     ts.StepOrder,
			Optional:      ts.Optional,
			Status:        StepPending,
		})
	}

	return workflow, nil
}

// StepFor returns the step matching the operation type, or nil
func (w *ItemWorkflow) StepFor(opType OperationType) *WorkflowStep {
	for _, step := range w.Steps {
		if step.OperationType == opType {
			return step
		}
	}
	return nil
}

// StepAtOrder returns the step with the exact step order, or nil
func (w *ItemWorkflow) StepAtOrder(order int) *WorkflowStep {
	for _, step := range w.Steps {
		if step.StepOrder == order {
			return step
		}
	}
	return nil
}

// RefreshStatus derives the overall workflow status from its steps
func (w *ItemWorkflow) RefreshStatus() {
	allPending := true
	allDone := true
	for _, step := range w.Steps {
		if step.Status != StepPending {
			allPending = false
		}
		if step.Status != StepCompleted && !step.Optional {
			allDone = false
		}
	}
	switch {
	case allPending:
		w.Status = NotStarted
	case allDone:
		w.Status = Completed
	default:
		w.Status = InProgress
	}
}
