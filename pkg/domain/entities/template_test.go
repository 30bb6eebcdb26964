package entities

import "testing"

func TestNewWorkflowTemplate_Validation(t *testing.T) {
	valid := []TemplateStep{
		{OperationType: Forging, StepOrder: 1},
		{OperationType: HeatTreatment, StepOrder: 2},
		{OperationType: Machining, StepOrder: 3},
	}

	template, err := NewWorkflowTemplate("tpl-1", "tenant-1", "Standard Forging", valid, false)
	if err != nil {
		t.Fatalf("Expected valid template creation to succeed: %v", err)
	}
	if !template.IsActive {
		t.Error("Expected new template to be active")
	}
	if template.FirstOperation() != Forging {
		t.Errorf("Expected first operation FORGING, got %s", template.FirstOperation())
	}

	testCases := []struct {
		name  string
		steps []TemplateStep
	}{
		{"no steps", []TemplateStep{}},
		{"gap in step order", []TemplateStep{
			{OperationType: Forging, StepOrder: 1},
			{OperationType: Machining, StepOrder: 3},
		}},
		{"duplicate step order", []TemplateStep{
			{OperationType: Forging, StepOrder: 1},
			{OperationType: Machining, StepOrder: 1},
		}},
		{"step order not starting at 1", []TemplateStep{
			{OperationType: Forging, StepOrder: 2},
			{OperationType: Machining, StepOrder: 3},
		}},
		{"duplicate operation type", []TemplateStep{
			{OperationType: Forging, StepOrder: 1},
			{OperationType: Forging, StepOrder: 2},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWorkflowTemplate("tpl-1", "tenant-1", "Bad", tc.steps, false)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
		})
	}
}

func TestWorkflowTemplate_StepsSortedByOrder(t *testing.T) {
	// Steps supplied out of order must come back sorted
	steps := []TemplateStep{
		{OperationType: Machining, StepOrder: 3},
		{OperationType: Forging, StepOrder: 1},
		{OperationType: HeatTreatment, StepOrder: 2},
	}

	template, err := NewWorkflowTemplate("tpl-1", "tenant-1", "Standard", steps, false)
	if err != nil {
		t.Fatalf("Expected template creation to succeed: %v", err)
	}

	for i, step := range template.Steps {
		if step.StepOrder != i+1 {
			t.Errorf("Expected step order %d at position %d, got %d", i+1, i, step.StepOrder)
		}
	}

	if step := template.StepFor(HeatTreatment); step == nil || step.StepOrder != 2 {
		t.Errorf("Expected heat treatment at order 2, got %+v", step)
	}
	if step := template.StepFor(Dispatch); step != nil {
		t.Errorf("Expected no dispatch step, got %+v", step)
	}
}
