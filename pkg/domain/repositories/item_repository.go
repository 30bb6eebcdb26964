package repositories

import "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"

// ItemRepository provides access to item master data
type ItemRepository interface {
	SaveItem(item *entities.Item) error
	GetItem(id string) (*entities.Item, error)
	GetItemByCode(tenantID string, code entities.ItemCode) (*entities.Item, error)
	GetAllItems(tenantID string) ([]*entities.Item, error)
}
