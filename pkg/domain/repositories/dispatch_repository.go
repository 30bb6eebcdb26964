package repositories

import "github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"

// DispatchRepository provides access to vendor dispatch batches and the
// receive batches delivered back against them
type DispatchRepository interface {
	SaveDispatch(dispatch *entities.VendorDispatchBatch) error
	UpdateDispatch(dispatch *entities.VendorDispatchBatch) error
	GetDispatch(id string) (*entities.VendorDispatchBatch, error)
	ListDispatchesByItem(itemID string) ([]*entities.VendorDispatchBatch, error)

	SaveReceiveBatch(batch *entities.VendorReceiveBatch) error
	UpdateReceiveBatch(batch *entities.VendorReceiveBatch) error
	GetReceiveBatch(id string) (*entities.VendorReceiveBatch, error)
	// ListReceiveBatches returns every receive batch of a dispatch,
	// deleted ones included.
	ListReceiveBatches(dispatchID string) ([]*entities.VendorReceiveBatch, error)
}
