package services

import (
	"testing"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

func mustTemplate(t *testing.T, id, name string) *entities.WorkflowTemplate {
	t.Helper()
	template, err := entities.NewWorkflowTemplate(id, "tenant-1", name, []entities.TemplateStep{
		{OperationType: entities.Forging, StepOrder: 1},
		{OperationType: entities.HeatTreatment, StepOrder: 2},
	}, false)
	if err != nil {
		t.Fatalf("Failed to build template %s: %v", name, err)
	}
	return template
}

func TestTemplateValidator_DuplicateNames(t *testing.T) {
	validator := NewTemplateValidator()

	result := validator.ValidateTemplates([]*entities.WorkflowTemplate{
		mustTemplate(t, "tpl-a", "Full Route"),
		mustTemplate(t, "tpl-b", "Full Route"),
	})

	if result.IsValid() {
		t.Fatal("Expected validation failure for duplicate template names")
	}
	if len(result.DuplicateNames) != 1 || result.DuplicateNames[0] != "Full Route" {
		t.Errorf("Expected duplicate name 'Full Route', got %v", result.DuplicateNames)
	}
}

func TestTemplateValidator_MultipleDefaults(t *testing.T) {
	validator := NewTemplateValidator()

	first := mustTemplate(t, "tpl-a", "Full Route")
	first.IsDefault = true
	second := mustTemplate(t, "tpl-b", "No Machining")
	second.IsDefault = true

	result := validator.ValidateTemplates([]*entities.WorkflowTemplate{first, second})
	if result.IsValid() {
		t.Fatal("Expected validation failure for two default templates")
	}
	if !result.MultipleDefaults {
		t.Error("Expected MultipleDefaults to be set")
	}
}

func TestTemplateValidator_BrokenStepOrders(t *testing.T) {
	validator := NewTemplateValidator()

	// Bypass the constructor to simulate a template persisted before the
	// contiguity rule was enforced.
	broken := &entities.WorkflowTemplate{
		ID:       "tpl-broken",
		TenantID: "tenant-1",
		Name:     "Legacy",
		Steps: []entities.TemplateStep{
			{OperationType: entities.Forging, StepOrder: 1},
			{OperationType: entities.Machining, StepOrder: 4},
		},
	}

	result := validator.ValidateTemplates([]*entities.WorkflowTemplate{broken})
	if result.IsValid() {
		t.Fatal("Expected validation failure for non-contiguous step orders")
	}
	if orders := result.BrokenStepOrders["tpl-broken"]; len(orders) != 1 || orders[0] != 4 {
		t.Errorf("Expected broken order [4], got %v", orders)
	}
}

func TestTemplateValidator_CleanSet(t *testing.T) {
	validator := NewTemplateValidator()

	result := validator.ValidateTemplates([]*entities.WorkflowTemplate{
		mustTemplate(t, "tpl-a", "Full Route"),
		mustTemplate(t, "tpl-b", "No Machining"),
	})

	if !result.IsValid() {
		t.Errorf("Expected clean set to validate, got errors %v", result.Errors)
	}
}
