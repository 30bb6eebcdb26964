package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// WorkflowRepository is a WorkflowRepository backed by SQLite
type WorkflowRepository struct {
	store *Store
}

// Ensure WorkflowRepository implements the repository interface
var _ repositories.WorkflowRepository = (*WorkflowRepository)(nil)

// NewWorkflowRepository creates a SQLite-backed workflow repository
func NewWorkflowRepository(store *Store) *WorkflowRepository {
	return &WorkflowRepository{store: store}
}

// SaveWorkflow persists a new workflow aggregate
func (r *WorkflowRepository) SaveWorkflow(workflow *entities.ItemWorkflow) error {
	steps, err := encodeWorkflowSteps(workflow)
	if err != nil {
		return err
	}
	_, err = r.store.db.Exec(
		`INSERT INTO workflows (id, item_id, tenant_id, template_id, identifier, status, steps, deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		workflow.ID, workflow.ItemID, workflow.TenantID, workflow.TemplateID,
		workflow.Identifier, int(workflow.Status), steps, boolToInt(workflow.Deleted),
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", workflow.ID, err)
	}
	return nil
}

// UpdateWorkflow replaces a persisted workflow aggregate
func (r *WorkflowRepository) UpdateWorkflow(workflow *entities.ItemWorkflow) error {
	steps, err := encodeWorkflowSteps(workflow)
	if err != nil {
		return err
	}
	result, err := r.store.db.Exec(
		`UPDATE workflows SET item_id = ?, tenant_id = ?, template_id = ?,
		 identifier = ?, status = ?, steps = ?, deleted = ? WHERE id = ?`,
		workflow.ItemID, workflow.TenantID, workflow.TemplateID,
		workflow.Identifier, int(workflow.Status), steps, boolToInt(workflow.Deleted),
		workflow.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow %s: %w", workflow.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrWorkflowNotFound, workflow.ID)
	}
	return nil
}

// GetWorkflow returns a non-deleted workflow by id
func (r *WorkflowRepository) GetWorkflow(id string) (*entities.ItemWorkflow, error) {
	row := r.store.db.QueryRow(
		`SELECT id, item_id, tenant_id, template_id, identifier, status, steps, deleted
		 FROM workflows WHERE id = ? AND deleted = 0`, id,
	)
	workflow, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrWorkflowNotFound, id)
	}
	return workflow, err
}

// GetByItemAndIdentifier returns the workflow instance tracking one
// physical sub-batch; an empty identifier addresses the whole-item instance
func (r *WorkflowRepository) GetByItemAndIdentifier(itemID, identifier string) (*entities.ItemWorkflow, error) {
	row := r.store.db.QueryRow(
		`SELECT id, item_id, tenant_id, template_id, identifier, status, steps, deleted
		 FROM workflows WHERE item_id = ? AND identifier = ? AND deleted = 0`,
		itemID, identifier,
	)
	workflow, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s identifier %q", entities.ErrWorkflowNotFound, itemID, identifier)
	}
	return workflow, err
}

// ListByItem returns every non-deleted workflow instance of an item
func (r *WorkflowRepository) ListByItem(itemID string) ([]*entities.ItemWorkflow, error) {
	rows, err := r.store.db.Query(
		`SELECT id, item_id, tenant_id, template_id, identifier, status, steps, deleted
		 FROM workflows WHERE item_id = ? AND deleted = 0 ORDER BY identifier`, itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []*entities.ItemWorkflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, workflow)
	}
	return workflows, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*entities.ItemWorkflow, error) {
	var (
		workflow entities.ItemWorkflow
		status   int
		steps    []byte
		deleted  int
	)
	err := row.Scan(&workflow.ID, &workflow.ItemID, &workflow.TenantID,
		&workflow.TemplateID, &workflow.Identifier, &status, &steps, &deleted)
	if err != nil {
		return nil, err
	}
	workflow.Status = entities.WorkflowStatus(status)
	workflow.Deleted = deleted != 0
	workflow.Steps, err = decodeWorkflowSteps(steps)
	if err != nil {
		return nil, fmt.Errorf("failed to decode workflow %s: %w", workflow.ID, err)
	}
	return &workflow, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TemplateRepository is a TemplateRepository backed by SQLite
type TemplateRepository struct {
	store *Store
}

var _ repositories.TemplateRepository = (*TemplateRepository)(nil)

// NewTemplateRepository creates a SQLite-backed template repository
func NewTemplateRepository(store *Store) *TemplateRepository {
	return &TemplateRepository{store: store}
}

// SaveTemplate persists a new template
func (r *TemplateRepository) SaveTemplate(template *entities.WorkflowTemplate) error {
	steps, err := json.Marshal(template.Steps)
	if err != nil {
		return err
	}
	_, err = r.store.db.Exec(
		`INSERT INTO templates (id, tenant_id, name, description, steps, is_default, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		template.ID, template.TenantID, template.Name, template.Description,
		steps, boolToInt(template.IsDefault), boolToInt(template.IsActive),
	)
	if err != nil {
		return fmt.Errorf("failed to save template %s: %w", template.ID, err)
	}
	return nil
}

// UpdateTemplate replaces a persisted template
func (r *TemplateRepository) UpdateTemplate(template *entities.WorkflowTemplate) error {
	steps, err := json.Marshal(template.Steps)
	if err != nil {
		return err
	}
	result, err := r.store.db.Exec(
		`UPDATE templates SET tenant_id = ?, name = ?, description = ?, steps = ?,
		 is_default = ?, is_active = ? WHERE id = ?`,
		template.TenantID, template.Name, template.Description, steps,
		boolToInt(template.IsDefault), boolToInt(template.IsActive), template.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, template.ID)
	}
	return nil
}

// GetTemplate returns a template by id
func (r *TemplateRepository) GetTemplate(id string) (*entities.WorkflowTemplate, error) {
	return r.getTemplate(`SELECT id, tenant_id, name, description, steps, is_default, is_active
		FROM templates WHERE id = ?`, id)
}

// GetDefaultTemplate returns the tenant's default template
func (r *TemplateRepository) GetDefaultTemplate(tenantID string) (*entities.WorkflowTemplate, error) {
	return r.getTemplate(`SELECT id, tenant_id, name, description, steps, is_default, is_active
		FROM templates WHERE tenant_id = ? AND is_default = 1`, tenantID)
}

func (r *TemplateRepository) getTemplate(query string, arg any) (*entities.WorkflowTemplate, error) {
	template, err := scanTemplate(r.store.db.QueryRow(query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", entities.ErrTemplateNotFound, arg)
	}
	return template, err
}

// GetAllTemplates returns every template of a tenant
func (r *TemplateRepository) GetAllTemplates(tenantID string) ([]*entities.WorkflowTemplate, error) {
	rows, err := r.store.db.Query(
		`SELECT id, tenant_id, name, description, steps, is_default, is_active
		 FROM templates WHERE tenant_id = ? ORDER BY name`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*entities.WorkflowTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

// DeleteTemplate removes a template by id
func (r *TemplateRepository) DeleteTemplate(id string) error {
	result, err := r.store.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrTemplateNotFound, id)
	}
	return nil
}

func scanTemplate(row rowScanner) (*entities.WorkflowTemplate, error) {
	var (
		template  entities.WorkflowTemplate
		steps     []byte
		isDefault int
		isActive  int
	)
	err := row.Scan(&template.ID, &template.TenantID, &template.Name,
		&template.Description, &steps, &isDefault, &isActive)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(steps, &template.Steps); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", template.ID, err)
	}
	template.IsDefault = isDefault != 0
	template.IsActive = isActive != 0
	return &template, nil
}
