package services

import (
	"testing"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

func buildWorkflow(t *testing.T) *entities.ItemWorkflow {
	t.Helper()
	template, err := entities.NewWorkflowTemplate("tpl-1", "tenant-1", "Standard", []entities.TemplateStep{
		{OperationType: entities.Forging, StepOrder: 1},
		{OperationType: entities.HeatTreatment, StepOrder: 2},
		{OperationType: entities.Machining, StepOrder: 3},
	}, false)
	if err != nil {
		t.Fatalf("Failed to build template: %v", err)
	}
	workflow, err := entities.NewItemWorkflow("item-1", "tenant-1", template, "WF-001")
	if err != nil {
		t.Fatalf("Failed to build workflow: %v", err)
	}
	return workflow
}

func TestPreviousStep(t *testing.T) {
	workflow := buildWorkflow(t)

	// First step has no previous step; that is not an error
	if prev := PreviousStep(workflow, entities.Forging); prev != nil {
		t.Errorf("Expected no previous step for first operation, got %s", prev.OperationType)
	}

	// Previous step still pending means nothing to consume from
	if prev := PreviousStep(workflow, entities.HeatTreatment); prev != nil {
		t.Errorf("Expected no previous step while forging is pending, got %s", prev.OperationType)
	}

	workflow.StepFor(entities.Forging).Start()
	prev := PreviousStep(workflow, entities.HeatTreatment)
	if prev == nil || prev.OperationType != entities.Forging {
		t.Fatalf("Expected forging as previous step, got %+v", prev)
	}

	workflow.StepFor(entities.Forging).Complete()
	if prev := PreviousStep(workflow, entities.HeatTreatment); prev == nil {
		t.Error("Expected completed forging step to remain visible as previous")
	}

	// Operation type absent from the template
	if prev := PreviousStep(workflow, entities.Dispatch); prev != nil {
		t.Errorf("Expected nil previous for unknown operation, got %s", prev.OperationType)
	}
}

func TestNextStep(t *testing.T) {
	workflow := buildWorkflow(t)

	next := NextStep(workflow, entities.Forging)
	if next == nil || next.OperationType != entities.HeatTreatment {
		t.Fatalf("Expected heat treatment as next step, got %+v", next)
	}

	// Last step has no next step; that is not an error
	if next := NextStep(workflow, entities.Machining); next != nil {
		t.Errorf("Expected no next step for last operation, got %s", next.OperationType)
	}

	if next := NextStep(workflow, entities.Quality); next != nil {
		t.Errorf("Expected nil next for unknown operation, got %s", next.OperationType)
	}
}
