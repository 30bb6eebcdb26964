package memory

import (
	"fmt"
	"sync"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage
type ItemRepository struct {
	mutex sync.RWMutex
	items map[string]*entities.Item
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository() *ItemRepository {
	return &ItemRepository{
		items: make(map[string]*entities.Item),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// SaveItem stores an item
func (r *ItemRepository) SaveItem(item *entities.Item) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.items[item.ID] = item
	return nil
}

// GetItem returns the item with the given id
func (r *ItemRepository) GetItem(id string) (*entities.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, id)
	}
	return item, nil
}

// GetItemByCode returns the tenant's item with the given code
func (r *ItemRepository) GetItemByCode(tenantID string, code entities.ItemCode) (*entities.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, item := range r.items {
		if item.TenantID == tenantID && item.Code == code {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrItemNotFound, code)
}

// GetAllItems returns every item belonging to a tenant
func (r *ItemRepository) GetAllItems(tenantID string) ([]*entities.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var items []*entities.Item
	for _, item := range r.items {
		if item.TenantID == tenantID {
			items = append(items, item)
		}
	}
	return items, nil
}
