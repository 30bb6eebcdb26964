package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// ItemRepository is an ItemRepository backed by SQLite
type ItemRepository struct {
	store *Store
}

var _ repositories.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a SQLite-backed item repository
func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

// SaveItem persists a new item
func (r *ItemRepository) SaveItem(item *entities.Item) error {
	_, err := r.store.db.Exec(
		`INSERT INTO items (id, tenant_id, code, description, net_weight_kg, unit_of_measure)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.TenantID, string(item.Code), item.Description,
		item.NetWeightKg.String(), item.UnitOfMeasure,
	)
	if err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.ID, err)
	}
	return nil
}

// GetItem returns an item by id
func (r *ItemRepository) GetItem(id string) (*entities.Item, error) {
	item, err := scanItem(r.store.db.QueryRow(
		`SELECT id, tenant_id, code, description, net_weight_kg, unit_of_measure
		 FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	return item, err
}

// GetItemByCode returns an item by tenant and code
func (r *ItemRepository) GetItemByCode(tenantID string, code entities.ItemCode) (*entities.Item, error) {
	item, err := scanItem(r.store.db.QueryRow(
		`SELECT id, tenant_id, code, description, net_weight_kg, unit_of_measure
		 FROM items WHERE tenant_id = ? AND code = ?`, tenantID, string(code),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, code)
	}
	return item, err
}

// GetAllItems returns every item of a tenant
func (r *ItemRepository) GetAllItems(tenantID string) ([]*entities.Item, error) {
	rows, err := r.store.db.Query(
		`SELECT id, tenant_id, code, description, net_weight_kg, unit_of_measure
		 FROM items WHERE tenant_id = ? ORDER BY code`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entities.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (*entities.Item, error) {
	var (
		item   entities.Item
		code   string
		weight string
	)
	err := row.Scan(&item.ID, &item.TenantID, &code, &item.Description, &weight, &item.UnitOfMeasure)
	if err != nil {
		return nil, err
	}
	item.Code = entities.ItemCode(code)
	item.NetWeightKg, err = decimal.NewFromString(weight)
	if err != nil {
		return nil, fmt.Errorf("failed to decode item %s weight: %w", item.ID, err)
	}
	return &item, nil
}
