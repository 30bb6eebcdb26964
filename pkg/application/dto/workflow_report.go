package dto

import (
	"time"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// WorkflowReport is the read model of one workflow instance: per-step
// progress plus the live batch outcomes available for the next operation
type WorkflowReport struct {
	WorkflowID  string
	ItemID      string
	ItemCode    entities.ItemCode
	Identifier  string
	Status      entities.WorkflowStatus
	Steps       []StepReport
	GeneratedAt time.Time
}

// StepReport summarizes one workflow step
type StepReport struct {
	OperationType          entities.OperationType
	StepOrder              int
	Optional               bool
	Status                 entities.StepStatus
	InitialPieces          entities.Pieces
	PiecesAvailableForNext entities.Pieces
	RelatedEntityIDs       []string
	Outcomes               []OutcomeReport
}

// OutcomeReport summarizes one batch outcome on a step's ledger
type OutcomeReport struct {
	BatchID         string
	InitialPieces   entities.Pieces
	AvailablePieces entities.Pieces
	Deleted         bool
}

// ConservationReport checks piece conservation across a workflow: each
// step's available pieces never exceed its initial pieces, per batch and
// in total
type ConservationReport struct {
	WorkflowID string
	Balanced   bool
	Violations []ConservationViolation
}

// ConservationViolation names one step/batch pair breaking conservation
type ConservationViolation struct {
	OperationType entities.OperationType
	BatchID       string
	Initial       entities.Pieces
	Available     entities.Pieces
}
