package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/services"
)

// DefaultTemplateName is the name of the seeded tenant default template
const DefaultTemplateName = "Standard Forging Route"

// TemplateService manages workflow templates, including the immutable
// seeded default every tenant starts with.
type TemplateService struct {
	templates repositories.TemplateRepository
	validator *services.TemplateValidator
}

// NewTemplateService creates a new template service
func NewTemplateService(templates repositories.TemplateRepository) *TemplateService {
	return &TemplateService{
		templates: templates,
		validator: services.NewTemplateValidator(),
	}
}

// validateSet checks the tenant's template set with the candidate applied:
// replaced in place when a template with the same id exists, appended
// otherwise.
func (s *TemplateService) validateSet(tenantID string, candidate *entities.WorkflowTemplate) error {
	existing, err := s.templates.GetAllTemplates(tenantID)
	if err != nil {
		return err
	}
	set := make([]*entities.WorkflowTemplate, 0, len(existing)+1)
	replaced := false
	for _, template := range existing {
		if template.ID == candidate.ID {
			set = append(set, candidate)
			replaced = true
			continue
		}
		set = append(set, template)
	}
	if !replaced {
		set = append(set, candidate)
	}

	if result := s.validator.ValidateTemplates(set); !result.IsValid() {
		return fmt.Errorf("template set invalid: %s", strings.Join(result.Errors, "; "))
	}
	return nil
}

// SeedDefaultTemplate installs the standard forging route for a tenant if
// it does not already have a default. Returns the default either way.
func (s *TemplateService) SeedDefaultTemplate(ctx context.Context, tenantID string) (*entities.WorkflowTemplate, error) {
	if existing, err := s.templates.GetDefaultTemplate(tenantID); err == nil {
		return existing, nil
	}

	steps := []entities.TemplateStep{
		{OperationType: entities.Forging, StepOrder: 1},
		{OperationType: entities.HeatTreatment, StepOrder: 2},
		{OperationType: entities.Machining, StepOrder: 3, Optional: true},
		{OperationType: entities.Quality, StepOrder: 4},
		{OperationType: entities.Dispatch, StepOrder: 5},
	}
	template, err := entities.NewWorkflowTemplate(
		uuid.New().String(), tenantID, DefaultTemplateName, steps, true,
	)
	if err != nil {
		return nil, err
	}
	template.Description = "Seeded default route: forge, heat treat, machine, inspect, dispatch"

	if err := s.validateSet(tenantID, template); err != nil {
		return nil, err
	}
	if err := s.templates.SaveTemplate(template); err != nil {
		return nil, err
	}
	log.Info().Str("tenantId", tenantID).Str("templateId", template.ID).
		Msg("seeded default workflow template")
	return template, nil
}

// CreateTemplate stores a new tenant-defined template
func (s *TemplateService) CreateTemplate(ctx context.Context, template *entities.WorkflowTemplate) error {
	if template.IsDefault {
		return fmt.Errorf("%w: tenant templates cannot be marked default", entities.ErrDefaultTemplateImmutable)
	}
	if err := s.validateSet(template.TenantID, template); err != nil {
		return err
	}
	template.IsActive = true
	return s.templates.SaveTemplate(template)
}

// UpdateTemplate replaces a tenant-defined template. The seeded default is
// immutable, and the step structure of any template is fixed after creation
// because existing workflows are bound to it; create a new template instead.
func (s *TemplateService) UpdateTemplate(ctx context.Context, template *entities.WorkflowTemplate) error {
	existing, err := s.templates.GetTemplate(template.ID)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return fmt.Errorf("%w: %s", entities.ErrDefaultTemplateImmutable, existing.Name)
	}
	if !sameStepStructure(existing.Steps, template.Steps) {
		return fmt.Errorf("template %s: step structure cannot be changed after creation", existing.ID)
	}
	if err := s.validateSet(template.TenantID, template); err != nil {
		return err
	}
	return s.templates.UpdateTemplate(template)
}

func sameStepStructure(a, b []entities.TemplateStep) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].OperationType != b[i].OperationType ||
			a[i].StepOrder != b[i].StepOrder ||
			a[i].Optional != b[i].Optional {
			return false
		}
	}
	return true
}

// DeactivateTemplate retires a tenant-defined template from new workflow
// creation. Existing workflows keep their binding.
func (s *TemplateService) DeactivateTemplate(ctx context.Context, templateID string) error {
	existing, err := s.templates.GetTemplate(templateID)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return fmt.Errorf("%w: %s", entities.ErrDefaultTemplateImmutable, existing.Name)
	}
	existing.IsActive = false
	return s.templates.UpdateTemplate(existing)
}

// GetTemplate returns a template by id
func (s *TemplateService) GetTemplate(ctx context.Context, templateID string) (*entities.WorkflowTemplate, error) {
	return s.templates.GetTemplate(templateID)
}

// ListTemplates returns every template of a tenant
func (s *TemplateService) ListTemplates(ctx context.Context, tenantID string) ([]*entities.WorkflowTemplate, error) {
	return s.templates.GetAllTemplates(tenantID)
}
