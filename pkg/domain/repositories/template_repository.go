package repositories

import "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"

// TemplateRepository provides access to workflow templates
type TemplateRepository interface {
	SaveTemplate(template *entities.WorkflowTemplate) error
	UpdateTemplate(template *entities.WorkflowTemplate) error
	GetTemplate(id string) (*entities.WorkflowTemplate, error)
	// GetDefaultTemplate returns the tenant's default template.
	GetDefaultTemplate(tenantID string) (*entities.WorkflowTemplate, error)
	GetAllTemplates(tenantID string) ([]*entities.WorkflowTemplate, error)
	DeleteTemplate(id string) error
}
