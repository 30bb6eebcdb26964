package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/repositories"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/services"
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/infrastructure/events"
)

// WorkflowService is the reconciliation engine over the production workflow
// ledger. Every method runs as one read-modify-write of a single workflow
// aggregate; the repository is responsible for serializing concurrent
// access to the same workflow.
type WorkflowService struct {
	items      repositories.ItemRepository
	templates  repositories.TemplateRepository
	workflows  repositories.WorkflowRepository
	sequencer  *services.IdentifierSequencer
	eventStore events.EventStore
}

// NewWorkflowService creates a new workflow service. The event store is
// optional; pass nil to disable event publication.
func NewWorkflowService(
	items repositories.ItemRepository,
	templates repositories.TemplateRepository,
	workflows repositories.WorkflowRepository,
	eventStore events.EventStore,
) *WorkflowService {
	return &WorkflowService{
		items:      items,
		templates:  templates,
		workflows:  workflows,
		sequencer:  services.NewIdentifierSequencer(),
		eventStore: eventStore,
	}
}

func (s *WorkflowService) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if err := s.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		log.Warn().Err(err).Str("eventType", event.Type()).Msg("failed to append event")
	}
}

// RegisterItem stores a new item and implicitly creates its identifier-less
// whole-item workflow from the given template. The first physical batch
// reported for the item adopts this instance.
func (s *WorkflowService) RegisterItem(ctx context.Context, item *entities.Item, templateID string) (*entities.ItemWorkflow, error) {
	template, err := s.templates.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if err := s.items.SaveItem(item); err != nil {
		return nil, err
	}

	workflow, err := entities.NewItemWorkflow(item.ID, item.TenantID, template, "")
	if err != nil {
		return nil, err
	}
	if err := s.workflows.SaveWorkflow(workflow); err != nil {
		return nil, err
	}

	s.publish(events.NewWorkflowCreatedEvent(workflow))
	log.Debug().Str("itemId", item.ID).Str("workflowId", workflow.ID).
		Msg("registered item with implicit workflow")
	return workflow, nil
}

// GetOrCreateWorkflow locates or creates the workflow instance an operation
// reports against. With existingWorkflowID set it verifies ownership and
// starts the matching step. Otherwise the identifier names a physical
// sub-batch: the not-yet-identified whole-item instance is adopted if one
// exists, else a sibling's template binding is cloned into a fresh instance
// with pending steps.
func (s *WorkflowService) GetOrCreateWorkflow(
	ctx context.Context,
	itemID string,
	opType entities.OperationType,
	identifier string,
	existingWorkflowID string,
) (*entities.ItemWorkflow, error) {
	if _, err := s.items.GetItem(itemID); err != nil {
		return nil, err
	}

	if existingWorkflowID != "" {
		return s.startExisting(itemID, opType, existingWorkflowID)
	}

	if strings.TrimSpace(identifier) == "" {
		return nil, entities.ErrMissingIdentifier
	}
	if _, err := s.workflows.GetByItemAndIdentifier(itemID, identifier); err == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrIdentifierConflict, identifier)
	}

	// First physical batch adopts the implicit whole-item instance.
	if unidentified, err := s.workflows.GetByItemAndIdentifier(itemID, ""); err == nil {
		unidentified.Identifier = identifier
		if err := s.startStep(unidentified, opType); err != nil {
			return nil, err
		}
		if err := s.workflows.UpdateWorkflow(unidentified); err != nil {
			return nil, err
		}
		s.publish(events.NewWorkflowIdentifiedEvent(unidentified))
		return unidentified, nil
	}

	template, err := s.templateForNewInstance(itemID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	workflow, err := entities.NewItemWorkflow(itemID, item.TenantID, template, identifier)
	if err != nil {
		return nil, err
	}
	if err := s.startStep(workflow, opType); err != nil {
		return nil, err
	}
	if err := s.workflows.SaveWorkflow(workflow); err != nil {
		return nil, err
	}

	s.publish(events.NewWorkflowCreatedEvent(workflow))
	log.Debug().Str("itemId", itemID).Str("workflowId", workflow.ID).Str("identifier", identifier).
		Msg("created sub-batch workflow")
	return workflow, nil
}

func (s *WorkflowService) startExisting(itemID string, opType entities.OperationType, workflowID string) (*entities.ItemWorkflow, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	if workflow.ItemID != itemID {
		return nil, fmt.Errorf("%w: workflow %s, item %s", entities.ErrOwnershipMismatch, workflowID, itemID)
	}
	if err := s.startStep(workflow, opType); err != nil {
		return nil, err
	}
	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

// templateForNewInstance clones the template binding from any sibling
// workflow of the item, falling back to the tenant default when the item
// has no workflow at all (its implicit instance was hard-removed).
func (s *WorkflowService) templateForNewInstance(itemID string) (*entities.WorkflowTemplate, error) {
	siblings, err := s.workflows.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	if len(siblings) > 0 {
		return s.templates.GetTemplate(siblings[0].TemplateID)
	}
	item, err := s.items.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	return s.templates.GetDefaultTemplate(item.TenantID)
}

func (s *WorkflowService) startStep(workflow *entities.ItemWorkflow, opType entities.OperationType) error {
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}
	step.Start()
	workflow.RefreshStatus()
	return nil
}

// SuggestNextIdentifier proposes the next sub-batch identifier for an item
// by sequencing the numeric suffix of the highest identifier in use.
func (s *WorkflowService) SuggestNextIdentifier(ctx context.Context, itemID string) (string, error) {
	siblings, err := s.workflows.ListByItem(itemID)
	if err != nil {
		return "", err
	}
	identifiers := make([]string, 0, len(siblings))
	for _, wf := range siblings {
		if wf.Identifier != "" && !wf.Deleted {
			identifiers = append(identifiers, wf.Identifier)
		}
	}
	if len(identifiers) == 0 {
		return "", fmt.Errorf("item %s has no identified workflows to sequence", itemID)
	}
	return s.sequencer.Next(identifiers)
}

// PreviousStep returns the in-progress or completed step immediately
// upstream of the given operation, or nil
func (s *WorkflowService) PreviousStep(ctx context.Context, workflowID string, opType entities.OperationType) (*entities.WorkflowStep, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	return services.PreviousStep(workflow, opType), nil
}

// NextStep returns the step immediately downstream of the given operation,
// or nil
func (s *WorkflowService) NextStep(ctx context.Context, workflowID string, opType entities.OperationType) (*entities.WorkflowStep, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return nil, err
	}
	return services.NextStep(workflow, opType), nil
}

// Consume takes pieces from a specific batch outcome of the step upstream
// of the consuming operation. With no upstream step this is a no-op: the
// operation sits at the head of the pipeline. Consumption across multiple
// downstream batches is strictly additive and rejected once the entry is
// exhausted.
func (s *WorkflowService) Consume(
	ctx context.Context,
	workflowID string,
	consumingOpType entities.OperationType,
	batchID string,
	pieces entities.Pieces,
) error {
	if pieces <= 0 {
		return fmt.Errorf("pieces to consume must be positive, got %d", pieces)
	}
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}

	previous := services.PreviousStep(workflow, consumingOpType)
	if previous == nil {
		return nil
	}
	if previous.Ledger == nil {
		return fmt.Errorf("%w: step %s has no outcome ledger", entities.ErrBatchOutcomeNotFound, previous.OperationType)
	}
	entry := previous.Ledger.Entry(batchID)
	if entry == nil {
		return fmt.Errorf("%w: %s", entities.ErrBatchOutcomeNotFound, batchID)
	}
	if pieces > entry.AvailablePieces {
		return fmt.Errorf("%w: requested %d, available %d in batch %s",
			entities.ErrInsufficientPieces, pieces, entry.AvailablePieces, entry.BatchID)
	}

	entry.AvailablePieces -= pieces
	previous.RecomputeTotals()
	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return err
	}

	s.publish(events.NewPiecesConsumedEvent(workflowID, consumingOpType, entry.BatchID, pieces))
	log.Debug().Str("workflowId", workflowID).Str("batchId", entry.BatchID).
		Int64("pieces", int64(pieces)).Msg("consumed pieces from upstream batch")
	return nil
}

// ReturnPieces gives pieces back to a specific upstream batch outcome,
// the inverse of Consume. Used when a downstream batch is deleted or
// cancelled after having consumed pieces. Callers must only return what
// they previously consumed; the conservation bound against the entry's
// initial pieces is still enforced.
func (s *WorkflowService) ReturnPieces(
	ctx context.Context,
	workflowID string,
	consumingOpType entities.OperationType,
	batchID string,
	pieces entities.Pieces,
) error {
	if pieces <= 0 {
		return fmt.Errorf("pieces to return must be positive, got %d", pieces)
	}
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}

	previous := services.PreviousStep(workflow, consumingOpType)
	if previous == nil || previous.Ledger == nil {
		return fmt.Errorf("%w: no upstream ledger for %s", entities.ErrBatchOutcomeNotFound, consumingOpType)
	}
	entry := previous.Ledger.Entry(batchID)
	if entry == nil {
		return fmt.Errorf("%w: %s", entities.ErrBatchOutcomeNotFound, batchID)
	}
	if entry.AvailablePieces+pieces > entry.InitialPieces {
		return fmt.Errorf("%w: returning %d would exceed initial %d in batch %s",
			entities.ErrReturnExceedsInitial, pieces, entry.InitialPieces, entry.BatchID)
	}

	entry.AvailablePieces += pieces
	previous.RecomputeTotals()
	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return err
	}

	s.publish(events.NewPiecesReturnedEvent(workflowID, consumingOpType, entry.BatchID, pieces))
	return nil
}

// ShrinkOutcome lowers a batch outcome's initial pieces, typically after
// final quality rejects reduce what a receive batch actually delivered.
// Pieces already consumed downstream stay consumed: availability drops by
// the same delta, clamped at zero.
func (s *WorkflowService) ShrinkOutcome(
	ctx context.Context,
	workflowID string,
	opType entities.OperationType,
	batchID string,
	newInitial entities.Pieces,
) error {
	if newInitial < 0 {
		return fmt.Errorf("initial pieces cannot be negative, got %d", newInitial)
	}
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}
	if step.Ledger == nil {
		return fmt.Errorf("%w: step %s has no outcome ledger", entities.ErrBatchOutcomeNotFound, opType)
	}
	entry := step.Ledger.Entry(batchID)
	if entry == nil {
		return fmt.Errorf("%w: %s", entities.ErrBatchOutcomeNotFound, batchID)
	}
	if newInitial > entry.InitialPieces {
		return fmt.Errorf("cannot grow batch %s from %d to %d pieces",
			entry.BatchID, entry.InitialPieces, newInitial)
	}

	delta := entry.InitialPieces - newInitial
	entry.InitialPieces = newInitial
	entry.AvailablePieces -= delta
	if entry.AvailablePieces < 0 {
		entry.AvailablePieces = 0
	}
	step.RecomputeTotals()
	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return err
	}

	s.publish(events.NewOutcomeRecordedEvent(workflowID, opType, []entities.OutcomeEntry{*entry}))
	log.Debug().Str("workflowId", workflowID).Str("batchId", entry.BatchID).
		Int64("removed", int64(delta)).Msg("shrunk batch outcome")
	return nil
}

// RecordOutcome merges newly reported production results into the step's
// outcome ledger. The step is started if still pending. Forging outcomes
// replace wholesale; batch outcomes merge by id without touching sibling
// entries, so replaying the same outcome is a no-op.
func (s *WorkflowService) RecordOutcome(
	ctx context.Context,
	workflowID string,
	opType entities.OperationType,
	outcome entities.OutcomeLedger,
) error {
	if outcome == nil {
		return fmt.Errorf("outcome cannot be nil")
	}
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}

	step.Start()
	incoming := make([]entities.OutcomeEntry, 0, len(outcome.Entries()))
	for _, e := range outcome.Entries() {
		incoming = append(incoming, *e)
	}

	if step.Ledger == nil {
		step.Ledger = emptyLedgerLike(outcome)
	} else if !sameLedgerKind(step.Ledger, outcome) {
		return fmt.Errorf("%w: step %s", entities.ErrLedgerKindMismatch, opType)
	}
	step.Ledger.Merge(incoming)
	step.RecomputeTotals()
	workflow.RefreshStatus()

	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return err
	}

	s.publish(events.NewOutcomeRecordedEvent(workflowID, opType, incoming))
	return nil
}

// MarkOutcomeDeleted soft-deletes one batch outcome on the step matching
// opType after verifying that nothing downstream still depends on the
// step's output. The entry stays in the ledger for audit; its pieces stop
// counting toward the step totals.
func (s *WorkflowService) MarkOutcomeDeleted(
	ctx context.Context,
	workflowID string,
	opType entities.OperationType,
	batchID string,
) error {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}
	if !deletable(workflow, opType) {
		return fmt.Errorf("%w: output of %s still consumed downstream", entities.ErrDownstreamBatchesLive, opType)
	}
	if step.Ledger == nil || !step.Ledger.MarkDeleted(batchID) {
		return fmt.Errorf("%w: %s", entities.ErrBatchOutcomeNotFound, batchID)
	}

	step.RecomputeTotals()
	if err := s.workflows.UpdateWorkflow(workflow); err != nil {
		return err
	}

	s.publish(events.NewOutcomeDeletedEvent(workflowID, opType, batchID))
	return nil
}

// CanDeleteBatch reports whether a batch of the given operation may be
// deleted: the next step either does not exist or every entry in its
// outcome ledger is already marked deleted. Returned as a plain bool so
// callers can surface it as a conflict rather than a failure.
func (s *WorkflowService) CanDeleteBatch(ctx context.Context, workflowID string, opType entities.OperationType) (bool, error) {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return false, err
	}
	return deletable(workflow, opType), nil
}

func deletable(workflow *entities.ItemWorkflow, opType entities.OperationType) bool {
	next := services.NextStep(workflow, opType)
	if next == nil || next.Ledger == nil {
		return true
	}
	return next.Ledger.AllDeleted()
}

// AddRelatedEntityIDs records physical record ids against the step
// matching opType
func (s *WorkflowService) AddRelatedEntityIDs(
	ctx context.Context,
	workflowID string,
	opType entities.OperationType,
	ids ...string,
) error {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}
	step.AddRelatedEntityIDs(ids...)
	return s.workflows.UpdateWorkflow(workflow)
}

// CompleteStep marks the step matching opType as completed
func (s *WorkflowService) CompleteStep(ctx context.Context, workflowID string, opType entities.OperationType) error {
	workflow, err := s.workflows.GetWorkflow(workflowID)
	if err != nil {
		return err
	}
	step := services.StepFor(workflow, opType)
	if step == nil {
		return fmt.Errorf("%w: %s", entities.ErrStepNotFound, opType)
	}
	step.Complete()
	workflow.RefreshStatus()
	return s.workflows.UpdateWorkflow(workflow)
}

func emptyLedgerLike(outcome entities.OutcomeLedger) entities.OutcomeLedger {
	if _, ok := outcome.(*entities.ForgingOutcome); ok {
		return &entities.ForgingOutcome{}
	}
	return entities.NewBatchOutcomeLedger()
}

func sameLedgerKind(a, b entities.OutcomeLedger) bool {
	_, aForging := a.(*entities.ForgingOutcome)
	_, bForging := b.(*entities.ForgingOutcome)
	return aForging == bForging
}
