package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// TemplateRepository provides in-memory workflow template storage
type TemplateRepository struct {
	mutex     sync.RWMutex
	templates map[string]*entities.WorkflowTemplate
}

// NewTemplateRepository creates a new in-memory template repository
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{
		templates: make(map[string]*entities.WorkflowTemplate),
	}
}

// Verify interface compliance
var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// SaveTemplate stores a template
func (r *TemplateRepository) SaveTemplate(template *entities.WorkflowTemplate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.templates[template.ID] = template
	return nil
}

// UpdateTemplate replaces a stored template
func (r *TemplateRepository) UpdateTemplate(template *entities.WorkflowTemplate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.templates[template.ID]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, template.ID)
	}
	r.templates[template.ID] = template
	return nil
}

// GetTemplate returns the template with the given id
func (r *TemplateRepository) GetTemplate(id string) (*entities.WorkflowTemplate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	template, exists := r.templates[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	return template, nil
}

// GetDefaultTemplate returns the tenant's default template
func (r *TemplateRepository) GetDefaultTemplate(tenantID string) (*entities.WorkflowTemplate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, template := range r.templates {
		if template.TenantID == tenantID && template.IsDefault {
			return template, nil
		}
	}
	return nil, fmt.Errorf("%w: no default template for tenant %s", entities.ErrTemplateNotFound, tenantID)
}

// GetAllTemplates returns every template belonging to a tenant, sorted by name
func (r *TemplateRepository) GetAllTemplates(tenantID string) ([]*entities.WorkflowTemplate, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var templates []*entities.WorkflowTemplate
	for _, template := range r.templates {
		if template.TenantID == tenantID {
			templates = append(templates, template)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

// DeleteTemplate removes a template
func (r *TemplateRepository) DeleteTemplate(id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.templates[id]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	delete(r.templates, id)
	return nil
}
