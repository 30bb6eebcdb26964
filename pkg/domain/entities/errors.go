package entities

import "errors"

// Sentinel errors for the production workflow ledger. All are deterministic
// validation failures surfaced to the calling operation service; none are
// transient or retryable.
var (
	ErrMissingIdentifier        = errors.New("workflow identifier is required")
	ErrIdentifierConflict       = errors.New("workflow identifier already in use for item")
	ErrOwnershipMismatch        = errors.New("workflow does not belong to item")
	ErrItemNotFound             = errors.New("item not found")
	ErrWorkflowNotFound         = errors.New("workflow not found")
	ErrTemplateNotFound         = errors.New("workflow template not found")
	ErrStepNotFound             = errors.New("operation type not present in workflow template")
	ErrInsufficientPieces       = errors.New("pieces to consume exceed pieces available")
	ErrReturnExceedsInitial     = errors.New("pieces to return exceed initial pieces")
	ErrBatchOutcomeNotFound     = errors.New("batch outcome not found in ledger")
	ErrLedgerKindMismatch       = errors.New("outcome kind does not match existing ledger")
	ErrDownstreamBatchesLive    = errors.New("downstream batches still live")
	ErrInvalidConsumptionType   = errors.New("invalid heat consumption type")
	ErrBatchLocked              = errors.New("receive batch is locked")
	ErrQualityCheckNotRequired  = errors.New("quality check not required for receive batch")
	ErrReceiveExceedsDispatch   = errors.New("received pieces exceed dispatched pieces")
	ErrDispatchNotFound         = errors.New("vendor dispatch batch not found")
	ErrReceiveBatchNotFound     = errors.New("vendor receive batch not found")
	ErrDefaultTemplateImmutable = errors.New("default template cannot be deleted or renamed")
)
