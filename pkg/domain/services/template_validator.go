package services

import (
	"fmt"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// TemplateValidator provides validation for workflow template integrity
// across a tenant's template set
type TemplateValidator struct{}

// NewTemplateValidator creates a new template validator
func NewTemplateValidator() *TemplateValidator {
	return &TemplateValidator{}
}

// ValidationResult contains the results of template validation
type ValidationResult struct {
	DuplicateNames   []string
	MultipleDefaults bool
	BrokenStepOrders map[string][]int
	Errors           []string
}

// IsValid reports whether validation found no problems
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateTemplates performs validation over a tenant's workflow templates:
// unique names, at most one default per step shape, contiguous step orders
func (v *TemplateValidator) ValidateTemplates(templates []*entities.WorkflowTemplate) *ValidationResult {
	result := &ValidationResult{
		DuplicateNames:   make([]string, 0),
		BrokenStepOrders: make(map[string][]int),
		Errors:           make([]string, 0),
	}

	seenNames := make(map[string]bool, len(templates))
	defaults := 0
	for _, template := range templates {
		if seenNames[template.Name] {
			result.DuplicateNames = append(result.DuplicateNames, template.Name)
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate template name: %s", template.Name))
		}
		seenNames[template.Name] = true

		if template.IsDefault {
			defaults++
		}

		if orders := brokenOrders(template); len(orders) > 0 {
			result.BrokenStepOrders[template.ID] = orders
			result.Errors = append(result.Errors, fmt.Sprintf(
				"template %s has non-contiguous step orders: %v", template.Name, orders,
			))
		}
	}

	if defaults > 1 {
		result.MultipleDefaults = true
		result.Errors = append(result.Errors, fmt.Sprintf("%d templates marked default, want at most one", defaults))
	}

	return result
}

// brokenOrders returns the step orders that break the unique-and-contiguous
// invariant, assuming steps are sorted by order
func brokenOrders(template *entities.WorkflowTemplate) []int {
	var broken []int
	for i, step := range template.Steps {
		if step.StepOrder != i+1 {
			broken = append(broken, step.StepOrder)
		}
	}
	return broken
}
