package services

import (
	"context"
	"time"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/application/dto"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// Report builds the read model of one workflow instance
func (s *WorkflowService) Report(ctx context.Context, workflowID string) (*dto.WorkflowReport, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(workflow.ItemID)
	if err != nil {
		return nil, err
	}

	report := &dto.WorkflowReport{
		WorkflowID:  workflow.ID,
		ItemID:      workflow.ItemID,
		ItemCode:    item.Code,
		Identifier:  workflow.Identifier,
		Status:      workflow.Status,
		GeneratedAt: time.Now(),
	}
	for _, step := range workflow.Steps {
		stepReport := dto.StepReport{
			OperationType:          step.OperationType,
			StepOrder:              step.StepOrder,
			Optional:               step.Optional,
			Status:                 step.Status,
			InitialPieces:          step.InitialPieces,
			PiecesAvailableForNext: step.PiecesAvailableForNext,
			RelatedEntityIDs:       step.RelatedEntityIDs,
		}
		if step.Ledger != nil {
			for _, entry := range step.Ledger.Entries() {
				stepReport.Outcomes = append(stepReport.Outcomes, dto.OutcomeReport{
					BatchID:         entry.BatchID,
					InitialPieces:   entry.InitialPieces,
					AvailablePieces: entry.AvailablePieces,
					Deleted:         entry.Deleted,
				})
			}
		}
		report.Steps = append(report.Steps, stepReport)
	}
	return report, nil
}

// CheckConservation verifies piece conservation across a workflow: every
// live batch outcome keeps its available count within its initial count,
// and every step's totals match the sum of its live outcomes
func (s *WorkflowService) CheckConservation(ctx context.Context, workflowID string) (*dto.ConservationReport, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return nil, err
	}

	report := &dto.ConservationReport{WorkflowID: workflowID, Balanced: true}
	for _, step := range workflow.Steps {
		if step.Ledger == nil {
			continue
		}
		var initial, available entities.Pieces
		for _, entry := range step.Ledger.Entries() {
			if entry.Deleted {
				continue
			}
			initial += entry.InitialPieces
			available += entry.AvailablePieces
			if entry.AvailablePieces < 0 || entry.AvailablePieces > entry.InitialPieces {
				report.Balanced = false
				report.Violations = append(report.Violations, dto.ConservationViolation{
					OperationType: step.OperationType,
					BatchID:       entry.BatchID,
					Initial:       entry.InitialPieces,
					Available:     entry.AvailablePieces,
				})
			}
		}
		if step.InitialPieces != initial || step.PiecesAvailableForNext != available {
			report.Balanced = false
			report.Violations = append(report.Violations, dto.ConservationViolation{
				OperationType: step.OperationType,
				BatchID:       "",
				Initial:       step.InitialPieces,
				Available:     step.PiecesAvailableForNext,
			})
		}
	}
	return report, nil
}
