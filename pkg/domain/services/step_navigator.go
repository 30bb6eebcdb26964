package services

import (
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// Step order traversal over an item workflow. These are pure functions of
// the workflow's ordered step slice; absence of a neighbour step is not an
// error, it simply means the operation sits at an end of the pipeline.

// StepFor returns the workflow step matching the operation type, or nil
// when the template has no such step
func StepFor(workflow *entities.ItemWorkflow, opType entities.OperationType) *entities.WorkflowStep {
	return workflow.StepFor(opType)
}

// PreviousStep returns the step whose order is exactly one less than the
// step matching opType, restricted to steps already in progress or
// completed. Nil means the operation is the pipeline's first step or the
// upstream step has not produced anything yet.
func PreviousStep(workflow *entities.ItemWorkflow, opType entities.OperationType) *entities.WorkflowStep {
	current := workflow.StepFor(opType)
	if current == nil {
		return nil
	}
	previous := workflow.StepAtOrder(current.StepOrder - 1)
	if previous == nil {
		return nil
	}
	if previous.Status != entities.StepInProgress && previous.Status != entities.StepCompleted {
		return nil
	}
	return previous
}

// NextStep returns the step whose order is exactly one more than the step
// matching opType. Nil means the operation is the pipeline's last step.
func NextStep(workflow *entities.ItemWorkflow, opType entities.OperationType) *entities.WorkflowStep {
	current := workflow.StepFor(opType)
	if current == nil {
		return nil
	}
	return workflow.StepAtOrder(current.StepOrder + 1)
}
