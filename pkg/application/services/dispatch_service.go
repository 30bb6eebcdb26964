package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
)

// DispatchService manages vendor dispatch cycles: sending pieces or raw
// material out to vendors, recording deliveries back, and reconciling
// both against the item's production workflow.
type DispatchService struct {
	dispatches repositories.DispatchRepository
	items      repositories.ItemRepository
	workflow   *WorkflowService
	eventStore events.EventStore
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	dispatches repositories.DispatchRepository,
	items repositories.ItemRepository,
	workflowService *WorkflowService,
	eventStore events.EventStore,
) *DispatchService {
	return &DispatchService{
		dispatches: dispatches,
		items:      items,
		workflow:   workflowService,
		eventStore: eventStore,
	}
}

func (s *DispatchService) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		log.Warn().Err(err).Str("eventType", event.Type()).Msg("failed to append event")
	}
}

// CreateDispatchRequest carries everything needed to open a dispatch
// cycle. WorkflowID targets an existing instance; otherwise Identifier
// names the physical sub-batch and the instance is resolved or created.
type CreateDispatchRequest struct {
	TenantID      string
	VendorID      string
	ItemID        string
	Identifier    string
	WorkflowID    string
	ProcessTypes  []entities.OperationType
	PackagingInfo string
	IsInPieces    bool
	Pieces        entities.Pieces
	Quantity      decimal.Decimal
	// SourceBatchID is the upstream batch outcome the dispatched pieces
	// come from. Required unless the dispatch covers the workflow's first
	// operation.
	SourceBatchID string
	Heats         []entities.VendorDispatchHeat
	DispatchedAt  time.Time
}

// CreateDispatch opens a dispatch cycle. When the dispatch covers the
// workflow's first operation and that operation is forging, heats feed the
// vendor as raw material and must be consumed by quantity. Any other
// dispatch ships already-produced pieces: heats must be consumed by piece
// count and the shipped pieces are drawn from the upstream batch outcome.
func (s *DispatchService) CreateDispatch(ctx context.Context, req CreateDispatchRequest) (*entities.VendorDispatchBatch, error) {
	if len(req.ProcessTypes) == 0 {
		return nil, fmt.Errorf("dispatch must cover at least one process type")
	}
	if req.VendorID == "" {
		return nil, fmt.Errorf("vendor id cannot be empty")
	}

	workflow, err := s.workflow.GetOrCreateWorkflow(ctx, req.ItemID, req.ProcessTypes[0], req.Identifier, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	coversFirstOp := len(workflow.Steps) > 0 &&
		workflow.Steps[0].OperationType == req.ProcessTypes[0]
	rawMaterialDispatch := coversFirstOp &&
		req.ProcessTypes[0] == entities.Forging

	for _, heat := range req.Heats {
		if rawMaterialDispatch && heat.ConsumptionType != entities.ConsumeByQuantity {
			return nil, fmt.Errorf("%w: heat %s must be consumed by quantity for a raw material dispatch",
				entities.ErrInvalidConsumptionType, heat.HeatNumber)
		}
		if !rawMaterialDispatch && heat.ConsumptionType != entities.ConsumeByPieces {
			return nil, fmt.Errorf("%w: heat %s must be consumed by pieces for a processed item dispatch",
				entities.ErrInvalidConsumptionType, heat.HeatNumber)
		}
	}

	expectedPieces, err := s.expectedPieces(req, coversFirstOp)
	if err != nil {
		return nil, err
	}
	if !coversFirstOp {
		if req.SourceBatchID == "" {
			return nil, fmt.Errorf("%w: source batch required for a non-first-operation dispatch",
				entities.ErrBatchOutcomeNotFound)
		}
		if err := s.workflow.Consume(ctx, workflow.ID, req.ProcessTypes[0], req.SourceBatchID, req.Pieces); err != nil {
			return nil, err
		}
	}

	dispatch := &entities.VendorDispatchBatch{
		ID:            uuid.New().String(),
		TenantID:      req.TenantID,
		VendorID:      req.VendorID,
		ItemID:        req.ItemID,
		WorkflowID:    workflow.ID,
		ProcessTypes:  req.ProcessTypes,
		PackagingInfo: req.PackagingInfo,
		SourceBatchID: req.SourceBatchID,
		Status:        entities.Dispatched,
		DispatchedAt:  req.DispatchedAt,
		Payload: entities.ProcessedItemVendorDispatchBatch{
			ID:                 uuid.New().String(),
			IsInPieces:         req.IsInPieces,
			DispatchedPieces:   req.Pieces,
			DispatchedQuantity: req.Quantity,
			ExpectedPieces:     expectedPieces,
		},
		Heats: req.Heats,
	}
	if err := s.dispatches.SaveDispatch(dispatch); err != nil {
		return nil, err
	}

	for _, opType := range req.ProcessTypes {
		if err := s.workflow.AddRelatedEntityIDs(ctx, workflow.ID, opType, dispatch.ID); err != nil {
			return nil, err
		}
	}

	s.publish(events.NewDispatchCreatedEvent(dispatch))
	log.Debug().Str("dispatchId", dispatch.ID).Str("workflowId", workflow.ID).
		Str("vendorId", req.VendorID).Msg("created vendor dispatch")
	return dispatch, nil
}

// expectedPieces validates the piece/quantity payload and resolves how many
// pieces the dispatch is expected to yield. Exactly one of Pieces and
// Quantity must be set, matching IsInPieces. A quantity dispatch ships raw
// material, so its expected piece count is derived from the item's net
// weight.
func (s *DispatchService) expectedPieces(req CreateDispatchRequest, coversFirstOp bool) (entities.Pieces, error) {
	if req.IsInPieces {
		if req.Pieces <= 0 {
			return 0, fmt.Errorf("dispatched pieces must be positive, got %d", req.Pieces)
		}
		if !req.Quantity.IsZero() {
			return 0, fmt.Errorf("quantity must be unset for a piece dispatch, got %s", req.Quantity)
		}
		return req.Pieces, nil
	}

	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("dispatched quantity must be positive, got %s", req.Quantity)
	}
	if req.Pieces != 0 {
		return 0, fmt.Errorf("pieces must be unset for a quantity dispatch, got %d", req.Pieces)
	}
	if !coversFirstOp {
		return 0, fmt.Errorf("dispatch drawing from an upstream batch must be in pieces")
	}

	item, err := s.items.GetItem(req.ItemID)
	if err != nil {
		return 0, err
	}
	expected := entities.Pieces(req.Quantity.Div(item.NetWeightKg).Floor().IntPart())
	if expected <= 0 {
		return 0, fmt.Errorf("quantity %s yields no whole pieces at net weight %s kg",
			req.Quantity, item.NetWeightKg)
	}
	return expected, nil
}

// RecordReceipt records one delivery-back event against a dispatch. The
// receive is rejected when it would account for more pieces than the
// dispatch expects. Eligible pieces land on the ledger of the last
// operation the vendor performed, so downstream steps can consume them.
func (s *DispatchService) RecordReceipt(
	ctx context.Context,
	dispatchID string,
	receivedPieces, rejectedPieces, tenantRejects entities.Pieces,
	qualityCheckRequired bool,
	receivedAt time.Time,
) (*entities.VendorReceiveBatch, error) {
	dispatch, err := s.dispatches.GetDispatch(dispatchID)
	if err != nil {
		return nil, err
	}
	if dispatch.Status == entities.DispatchCancelled {
		return nil, fmt.Errorf("dispatch %s is cancelled", dispatchID)
	}

	accounted := receivedPieces + rejectedPieces + tenantRejects
	if dispatch.Payload.AccountedPieces()+accounted > dispatch.Payload.ExpectedPieces {
		return nil, fmt.Errorf("%w: accounting %d pieces over %d already received against %d expected",
			entities.ErrReceiveExceedsDispatch, accounted,
			dispatch.Payload.AccountedPieces(), dispatch.Payload.ExpectedPieces)
	}

	batch, err := entities.NewVendorReceiveBatch(
		uuid.New().String(), dispatchID,
		receivedPieces, rejectedPieces, tenantRejects,
		qualityCheckRequired, receivedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := s.dispatches.SaveReceiveBatch(batch); err != nil {
		return nil, err
	}

	if err := s.reconcileDispatch(ctx, dispatch); err != nil {
		return nil, err
	}
	if err := s.injectReceiveOutcome(ctx, dispatch, batch); err != nil {
		return nil, err
	}

	s.publish(events.NewReceiveBatchRecordedEvent(dispatch, batch))
	log.Debug().Str("dispatchId", dispatchID).Str("receiveBatchId", batch.ID).
		Int64("received", int64(receivedPieces)).Msg("recorded vendor receive batch")
	return batch, nil
}

// CompleteQualityCheck finalizes the quality result on a receive batch and
// locks it. The batch's outcome on the workflow ledger shrinks to the
// post-quality count; pieces a downstream step already consumed stay
// consumed.
func (s *DispatchService) CompleteQualityCheck(
	ctx context.Context,
	receiveBatchID string,
	finalVendorRejects, finalTenantRejects entities.Pieces,
	remarks string,
	now time.Time,
) error {
	batch, err := s.dispatches.GetReceiveBatch(receiveBatchID)
	if err != nil {
		return err
	}
	if err := batch.CompleteQualityCheck(finalVendorRejects, finalTenantRejects, remarks, now); err != nil {
		return err
	}
	if err := s.dispatches.UpdateReceiveBatch(batch); err != nil {
		return err
	}

	dispatch, err := s.dispatches.GetDispatch(batch.DispatchID)
	if err != nil {
		return err
	}
	if err := s.reconcileDispatch(ctx, dispatch); err != nil {
		return err
	}
	if err := s.workflow.ShrinkOutcome(ctx, dispatch.WorkflowID, dispatch.LastProcessType(),
		batch.ID, batch.EligiblePieces()); err != nil {
		return err
	}

	s.publish(events.NewQualityCheckCompletedEvent(batch))
	return nil
}

// DeleteReceiveBatch soft-deletes a receive batch. Locked batches cannot be
// deleted, and neither can batches whose pieces are already consumed by a
// downstream step.
func (s *DispatchService) DeleteReceiveBatch(ctx context.Context, receiveBatchID string) error {
	batch, err := s.dispatches.GetReceiveBatch(receiveBatchID)
	if err != nil {
		return err
	}
	if err := batch.EnsureMutable(); err != nil {
		return err
	}

	dispatch, err := s.dispatches.GetDispatch(batch.DispatchID)
	if err != nil {
		return err
	}
	if err := s.workflow.MarkOutcomeDeleted(ctx, dispatch.WorkflowID, dispatch.LastProcessType(), batch.ID); err != nil {
		return err
	}

	batch.Deleted = true
	if err := s.dispatches.UpdateReceiveBatch(batch); err != nil {
		return err
	}
	if err := s.reconcileDispatch(ctx, dispatch); err != nil {
		return err
	}

	s.publish(events.NewReceiveBatchDeletedEvent(dispatch.ID, batch.ID))
	return nil
}

// CancelDispatch soft-deletes a dispatch and returns its pieces to the
// upstream batch they were drawn from. All receive batches must be deleted
// first.
func (s *DispatchService) CancelDispatch(ctx context.Context, dispatchID string) error {
	dispatch, err := s.dispatches.GetDispatch(dispatchID)
	if err != nil {
		return err
	}
	receives, err := s.dispatches.ListReceiveBatches(dispatchID)
	if err != nil {
		return err
	}
	for _, rb := range receives {
		if !rb.Deleted {
			return fmt.Errorf("%w: receive batch %s still live", entities.ErrDownstreamBatchesLive, rb.ID)
		}
	}

	if dispatch.SourceBatchID != "" {
		err := s.workflow.ReturnPieces(ctx, dispatch.WorkflowID, dispatch.FirstProcessType(),
			dispatch.SourceBatchID, dispatch.Payload.DispatchedPieces)
		if err != nil {
			return err
		}
	}

	dispatch.Deleted = true
	dispatch.Status = entities.DispatchCancelled
	if err := s.dispatches.UpdateDispatch(dispatch); err != nil {
		return err
	}

	log.Debug().Str("dispatchId", dispatchID).Msg("cancelled vendor dispatch")
	return nil
}

// GetDispatch returns a dispatch by id
func (s *DispatchService) GetDispatch(ctx context.Context, dispatchID string) (*entities.VendorDispatchBatch, error) {
	return s.dispatches.GetDispatch(dispatchID)
}

// ListReceiveBatches returns every receive batch of a dispatch, deleted
// ones included
func (s *DispatchService) ListReceiveBatches(ctx context.Context, dispatchID string) ([]*entities.VendorReceiveBatch, error) {
	return s.dispatches.ListReceiveBatches(dispatchID)
}

// reconcileDispatch rebuilds the dispatch payload totals from its receive
// batches and advances the dispatch status
func (s *DispatchService) reconcileDispatch(ctx context.Context, dispatch *entities.VendorDispatchBatch) error {
	receives, err := s.dispatches.ListReceiveBatches(dispatch.ID)
	if err != nil {
		return err
	}
	dispatch.Payload.RecomputeTotals(receives)

	switch {
	case dispatch.Payload.FullyReceived:
		dispatch.Status = entities.DispatchCompleted
	case dispatch.Payload.AccountedPieces() > 0:
		dispatch.Status = entities.PartiallyReceived
	default:
		dispatch.Status = entities.Dispatched
	}
	return s.dispatches.UpdateDispatch(dispatch)
}

// injectReceiveOutcome records the receive batch's eligible pieces as a
// batch outcome on the last vendor-performed operation
func (s *DispatchService) injectReceiveOutcome(
	ctx context.Context,
	dispatch *entities.VendorDispatchBatch,
	batch *entities.VendorReceiveBatch,
) error {
	entry, err := entities.NewOutcomeEntry(batch.ID, batch.EligiblePieces())
	if err != nil {
		return err
	}
	ledger := entities.NewBatchOutcomeLedger()
	ledger.Merge([]entities.OutcomeEntry{*entry})
	return s.workflow.RecordOutcome(ctx, dispatch.WorkflowID, dispatch.LastProcessType(), ledger)
}
