package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// DispatchRepository provides in-memory vendor dispatch storage
type DispatchRepository struct {
	mutex      sync.RWMutex
	dispatches map[string]*entities.VendorDispatchBatch
	receives   map[string]*entities.VendorReceiveBatch
	byDispatch map[string][]string
}

// NewDispatchRepository creates a new in-memory dispatch repository
func NewDispatchRepository() *DispatchRepository {
	return &DispatchRepository{
		dispatches: make(map[string]*entities.VendorDispatchBatch),
		receives:   make(map[string]*entities.VendorReceiveBatch),
		byDispatch: make(map[string][]string),
	}
}

// Verify interface compliance
var _ repositories.DispatchRepository = (*DispatchRepository)(nil)

// SaveDispatch stores a new dispatch batch
func (r *DispatchRepository) SaveDispatch(dispatch *entities.VendorDispatchBatch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.dispatches[dispatch.ID]; exists {
		return fmt.Errorf("dispatch already exists: %s", dispatch.ID)
	}
	r.dispatches[dispatch.ID] = dispatch
	return nil
}

// UpdateDispatch replaces a stored dispatch batch
func (r *DispatchRepository) UpdateDispatch(dispatch *entities.VendorDispatchBatch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.dispatches[dispatch.ID]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrDispatchNotFound, dispatch.ID)
	}
	r.dispatches[dispatch.ID] = dispatch
	return nil
}

// GetDispatch returns the dispatch batch with the given id
func (r *DispatchRepository) GetDispatch(id string) (*entities.VendorDispatchBatch, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	dispatch, exists := r.dispatches[id]
	if !exists || dispatch.Deleted {
		return nil, fmt.Errorf("%w: %s", entities.ErrDispatchNotFound, id)
	}
	return dispatch, nil
}

// ListDispatchesByItem returns every non-deleted dispatch for an item
func (r *DispatchRepository) ListDispatchesByItem(itemID string) ([]*entities.VendorDispatchBatch, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var dispatches []*entities.VendorDispatchBatch
	for _, dispatch := range r.dispatches {
		if dispatch.ItemID == itemID && !dispatch.Deleted {
			dispatches = append(dispatches, dispatch)
		}
	}
	sort.Slice(dispatches, func(i, j int) bool {
		return dispatches[i].DispatchedAt.Before(dispatches[j].DispatchedAt)
	})
	return dispatches, nil
}

// SaveReceiveBatch stores a new receive batch
func (r *DispatchRepository) SaveReceiveBatch(batch *entities.VendorReceiveBatch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.receives[batch.ID]; exists {
		return fmt.Errorf("receive batch already exists: %s", batch.ID)
	}
	r.receives[batch.ID] = batch
	r.byDispatch[batch.DispatchID] = append(r.byDispatch[batch.DispatchID], batch.ID)
	return nil
}

// UpdateReceiveBatch replaces a stored receive batch
func (r *DispatchRepository) UpdateReceiveBatch(batch *entities.VendorReceiveBatch) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.receives[batch.ID]; !exists {
		return fmt.Errorf("%w: %s", entities.ErrReceiveBatchNotFound, batch.ID)
	}
	r.receives[batch.ID] = batch
	return nil
}

// GetReceiveBatch returns the receive batch with the given id
func (r *DispatchRepository) GetReceiveBatch(id string) (*entities.VendorReceiveBatch, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	batch, exists := r.receives[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrReceiveBatchNotFound, id)
	}
	return batch, nil
}

// ListReceiveBatches returns every receive batch of a dispatch in arrival
// order, deleted ones included
func (r *DispatchRepository) ListReceiveBatches(dispatchID string) ([]*entities.VendorReceiveBatch, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := r.byDispatch[dispatchID]
	batches := make([]*entities.VendorReceiveBatch, 0, len(ids))
	for _, id := range ids {
		batches = append(batches, r.receives[id])
	}
	return batches, nil
}
