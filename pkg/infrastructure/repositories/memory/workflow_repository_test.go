package memory

import (
	"errors"
	"testing"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

func newTestWorkflow(t *testing.T, identifier string) *entities.ItemWorkflow {
	t.Helper()
	template, err := entities.NewWorkflowTemplate("tpl-1", "tenant-1", "Standard", []entities.TemplateStep{
		{OperationType: entities.Forging, StepOrder: 1},
		{OperationType: entities.HeatTreatment, StepOrder: 2},
	}, false)
	if err != nil {
		t.Fatalf("Failed to build template: %v", err)
	}
	workflow, err := entities.NewItemWorkflow("item-1", "tenant-1", template, identifier)
	if err != nil {
		t.Fatalf("Failed to build workflow: %v", err)
	}
	return workflow
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	repo := NewWorkflowRepository()
	workflow := newTestWorkflow(t, "WF-001")

	if err := repo.SaveWorkflow(workflow); err != nil {
		t.Fatalf("Expected save to succeed: %v", err)
	}
	if err := repo.SaveWorkflow(workflow); err == nil {
		t.Error("Expected duplicate save to fail")
	}

	loaded, err := repo.GetWorkflow(workflow.ID)
	if err != nil {
		t.Fatalf("Expected get to succeed: %v", err)
	}
	if loaded.Identifier != "WF-001" {
		t.Errorf("Expected identifier WF-001, got %s", loaded.Identifier)
	}

	_, err = repo.GetWorkflow("missing")
	if !errors.Is(err, entities.ErrWorkflowNotFound) {
		t.Errorf("Expected ErrWorkflowNotFound, got %v", err)
	}
}

func TestWorkflowRepository_GetByItemAndIdentifier(t *testing.T) {
	repo := NewWorkflowRepository()

	itemLevel := newTestWorkflow(t, "")
	subBatch := newTestWorkflow(t, "WF-002")
	if err := repo.SaveWorkflow(itemLevel); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.SaveWorkflow(subBatch); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := repo.GetByItemAndIdentifier("item-1", "")
	if err != nil {
		t.Fatalf("Expected item-level lookup to succeed: %v", err)
	}
	if found.ID != itemLevel.ID {
		t.Errorf("Expected item-level workflow %s, got %s", itemLevel.ID, found.ID)
	}

	found, err = repo.GetByItemAndIdentifier("item-1", "WF-002")
	if err != nil {
		t.Fatalf("Expected sub-batch lookup to succeed: %v", err)
	}
	if found.ID != subBatch.ID {
		t.Errorf("Expected sub-batch workflow %s, got %s", subBatch.ID, found.ID)
	}

	_, err = repo.GetByItemAndIdentifier("item-1", "WF-404")
	if !errors.Is(err, entities.ErrWorkflowNotFound) {
		t.Errorf("Expected ErrWorkflowNotFound, got %v", err)
	}

	all, err := repo.ListByItem("item-1")
	if err != nil {
		t.Fatalf("Expected list to succeed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 workflows, got %d", len(all))
	}
}

func TestWorkflowRepository_DeletedWorkflowsInvisible(t *testing.T) {
	repo := NewWorkflowRepository()
	workflow := newTestWorkflow(t, "WF-003")
	if err := repo.SaveWorkflow(workflow); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	workflow.Deleted = true
	if err := repo.UpdateWorkflow(workflow); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := repo.GetWorkflow(workflow.ID); !errors.Is(err, entities.ErrWorkflowNotFound) {
		t.Errorf("Expected soft-deleted workflow to be invisible, got %v", err)
	}
	all, _ := repo.ListByItem("item-1")
	if len(all) != 0 {
		t.Errorf("Expected soft-deleted workflow excluded from list, got %d", len(all))
	}
}
