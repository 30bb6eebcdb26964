package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
)

// DispatchRepository is a DispatchRepository backed by SQLite. Dispatch and
// receive batch aggregates are stored as JSON documents with indexed
// columns for lookup.
type DispatchRepository struct {
	store *Store
}

var _ repositories.DispatchRepository = (*DispatchRepository)(nil)

// NewDispatchRepository creates a SQLite-backed dispatch repository
func NewDispatchRepository(store *Store) *DispatchRepository {
	return &DispatchRepository{store: store}
}

// SaveDispatch persists a new dispatch batch
func (r *DispatchRepository) SaveDispatch(dispatch *entities.VendorDispatchBatch) error {
	doc, err := json.Marshal(dispatch)
	if err != nil {
		return err
	}
	_, err = r.store.db.Exec(
		`INSERT INTO dispatches (id, item_id, workflow_id, doc, deleted) VALUES (?, ?, ?, ?, ?)`,
		dispatch.ID, dispatch.ItemID, dispatch.WorkflowID, doc, boolToInt(dispatch.Deleted),
	)
	if err != nil {
		return fmt.Errorf("failed to save dispatch %s: %w", dispatch.ID, err)
	}
	return nil
}

// UpdateDispatch replaces a persisted dispatch batch
func (r *DispatchRepository) UpdateDispatch(dispatch *entities.VendorDispatchBatch) error {
	doc, err := json.Marshal(dispatch)
	if err != nil {
		return err
	}
	result, err := r.store.db.Exec(
		`UPDATE dispatches SET item_id = ?, workflow_id = ?, doc = ?, deleted = ? WHERE id = ?`,
		dispatch.ItemID, dispatch.WorkflowID, doc, boolToInt(dispatch.Deleted), dispatch.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrDispatchNotFound, dispatch.ID)
	}
	return nil
}

// GetDispatch returns a dispatch by id
func (r *DispatchRepository) GetDispatch(id string) (*entities.VendorDispatchBatch, error) {
	var doc []byte
	err := r.store.db.QueryRow(`SELECT doc FROM dispatches WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrDispatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var dispatch entities.VendorDispatchBatch
	if err := json.Unmarshal(doc, &dispatch); err != nil {
		return nil, fmt.Errorf("failed to decode dispatch %s: %w", id, err)
	}
	return &dispatch, nil
}

// ListDispatchesByItem returns every non-deleted dispatch of an item
func (r *DispatchRepository) ListDispatchesByItem(itemID string) ([]*entities.VendorDispatchBatch, error) {
	rows, err := r.store.db.Query(
		`SELECT doc FROM dispatches WHERE item_id = ? AND deleted = 0`, itemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dispatches []*entities.VendorDispatchBatch
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var dispatch entities.VendorDispatchBatch
		if err := json.Unmarshal(doc, &dispatch); err != nil {
			return nil, err
		}
		dispatches = append(dispatches, &dispatch)
	}
	return dispatches, rows.Err()
}

// SaveReceiveBatch persists a new receive batch
func (r *DispatchRepository) SaveReceiveBatch(batch *entities.VendorReceiveBatch) error {
	doc, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	_, err = r.store.db.Exec(
		`INSERT INTO receive_batches (id, dispatch_id, doc, deleted) VALUES (?, ?, ?, ?)`,
		batch.ID, batch.DispatchID, doc, boolToInt(batch.Deleted),
	)
	if err != nil {
		return fmt.Errorf("failed to save receive batch %s: %w", batch.ID, err)
	}
	return nil
}

// UpdateReceiveBatch replaces a persisted receive batch
func (r *DispatchRepository) UpdateReceiveBatch(batch *entities.VendorReceiveBatch) error {
	doc, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	result, err := r.store.db.Exec(
		`UPDATE receive_batches SET dispatch_id = ?, doc = ?, deleted = ? WHERE id = ?`,
		batch.DispatchID, doc, boolToInt(batch.Deleted), batch.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", entities.ErrReceiveBatchNotFound, batch.ID)
	}
	return nil
}

// GetReceiveBatch returns a receive batch by id
func (r *DispatchRepository) GetReceiveBatch(id string) (*entities.VendorReceiveBatch, error) {
	var doc []byte
	err := r.store.db.QueryRow(`SELECT doc FROM receive_batches WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", entities.ErrReceiveBatchNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var batch entities.VendorReceiveBatch
	if err := json.Unmarshal(doc, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode receive batch %s: %w", id, err)
	}
	return &batch, nil
}

// ListReceiveBatches returns every receive batch of a dispatch, deleted
// ones included
func (r *DispatchRepository) ListReceiveBatches(dispatchID string) ([]*entities.VendorReceiveBatch, error) {
	rows, err := r.store.db.Query(
		`SELECT doc FROM receive_batches WHERE dispatch_id = ?`, dispatchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*entities.VendorReceiveBatch
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var batch entities.VendorReceiveBatch
		if err := json.Unmarshal(doc, &batch); err != nil {
			return nil, err
		}
		batches = append(batches, &batch)
	}
	return batches, rows.Err()
}
