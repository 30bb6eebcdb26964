package events

import (
	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

const (
	WorkflowCreatedEvent    = "workflow.created"
	WorkflowIdentifiedEvent = "workflow.identified"

	OutcomeRecordedEvent = "outcome.recorded"
	OutcomeDeletedEvent  = "outcome.deleted"
	PiecesConsumedEvent  = "pieces.consumed"
	PiecesReturnedEvent  = "pieces.returned"

	DispatchCreatedEvent       = "dispatch.created"
	ReceiveBatchRecordedEvent  = "dispatch.receive.recorded"
	ReceiveBatchDeletedEvent   = "dispatch.receive.deleted"
	QualityCheckCompletedEvent = "dispatch.quality.completed"
)

type WorkflowCreated struct {
	WorkflowID string `json:"workflow_id"`
	ItemID     string `json:"item_id"`
	Identifier string `json:"identifier,omitempty"`
	TemplateID string `json:"template_id"`
}

type WorkflowIdentified struct {
	WorkflowID string `json:"workflow_id"`
	Identifier string `json:"identifier"`
}

type OutcomeRecorded struct {
	WorkflowID    string                  `json:"workflow_id"`
	OperationType string                  `json:"operation_type"`
	Outcomes      []entities.OutcomeEntry `json:"outcomes"`
}

type OutcomeDeleted struct {
	WorkflowID    string `json:"workflow_id"`
	OperationType string `json:"operation_type"`
	BatchID       string `json:"batch_id"`
}

type PiecesConsumed struct {
	WorkflowID    string          `json:"workflow_id"`
	OperationType string          `json:"operation_type"`
	FromBatchID   string          `json:"from_batch_id"`
	Pieces        entities.Pieces `json:"pieces"`
}

type PiecesReturned struct {
	WorkflowID    string          `json:"workflow_id"`
	OperationType string          `json:"operation_type"`
	ToBatchID     string          `json:"to_batch_id"`
	Pieces        entities.Pieces `json:"pieces"`
}

type DispatchCreated struct {
	DispatchID string          `json:"dispatch_id"`
	VendorID   string          `json:"vendor_id"`
	ItemID     string          `json:"item_id"`
	Expected   entities.Pieces `json:"expected_pieces"`
}

type ReceiveBatchRecorded struct {
	DispatchID     string          `json:"dispatch_id"`
	ReceiveBatchID string          `json:"receive_batch_id"`
	Received       entities.Pieces `json:"received_pieces"`
	FullyReceived  bool            `json:"fully_received"`
}

type ReceiveBatchDeleted struct {
	DispatchID     string `json:"dispatch_id"`
	ReceiveBatchID string `json:"receive_batch_id"`
}

type QualityCheckCompleted struct {
	ReceiveBatchID    string          `json:"receive_batch_id"`
	TotalFinalRejects entities.Pieces `json:"total_final_rejects"`
}

func NewWorkflowCreatedEvent(workflow *entities.ItemWorkflow) Event {
	return NewEvent(WorkflowCreatedEvent, workflow.ID, WorkflowCreated{
		WorkflowID: workflow.ID,
		ItemID:     workflow.ItemID,
		Identifier: workflow.Identifier,
		TemplateID: workflow.TemplateID,
	})
}

func NewWorkflowIdentifiedEvent(workflow *entities.ItemWorkflow) Event {
	return NewEvent(WorkflowIdentifiedEvent, workflow.ID, WorkflowIdentified{
		WorkflowID: workflow.ID,
		Identifier: workflow.Identifier,
	})
}

func NewOutcomeRecordedEvent(workflowID string, opType entities.OperationType, outcomes []entities.OutcomeEntry) Event {
	return NewEvent(OutcomeRecordedEvent, workflowID, OutcomeRecorded{
		WorkflowID:    workflowID,
		OperationType: opType.String(),
		Outcomes:      outcomes,
	})
}

func NewOutcomeDeletedEvent(workflowID string, opType entities.OperationType, batchID string) Event {
	return NewEvent(OutcomeDeletedEvent, workflowID, OutcomeDeleted{
		WorkflowID:    workflowID,
		OperationType: opType.String(),
		BatchID:       batchID,
	})
}

func NewPiecesConsumedEvent(workflowID string, opType entities.OperationType, fromBatchID string, pieces entities.Pieces) Event {
	return NewEvent(PiecesConsumedEvent, workflowID, PiecesConsumed{
		WorkflowID:    workflowID,
		OperationType: opType.String(),
		FromBatchID:   fromBatchID,
		Pieces:        pieces,
	})
}

func NewPiecesReturnedEvent(workflowID string, opType entities.OperationType, toBatchID string, pieces entities.Pieces) Event {
	return NewEvent(PiecesReturnedEvent, workflowID, PiecesReturned{
		WorkflowID:    workflowID,
		OperationType: opType.String(),
		ToBatchID:     toBatchID,
		Pieces:        pieces,
	})
}

func NewDispatchCreatedEvent(dispatch *entities.VendorDispatchBatch) Event {
	return NewEvent(DispatchCreatedEvent, dispatch.ID, DispatchCreated{
		DispatchID: dispatch.ID,
		VendorID:   dispatch.VendorID,
		ItemID:     dispatch.ItemID,
		Expected:   dispatch.Payload.ExpectedPieces,
	})
}

func NewReceiveBatchRecordedEvent(dispatch *entities.VendorDispatchBatch, batch *entities.VendorReceiveBatch) Event {
	return NewEvent(ReceiveBatchRecordedEvent, dispatch.ID, ReceiveBatchRecorded{
		DispatchID:     dispatch.ID,
		ReceiveBatchID: batch.ID,
		Received:       batch.ReceivedPieces,
		FullyReceived:  dispatch.Payload.FullyReceived,
	})
}

func NewReceiveBatchDeletedEvent(dispatchID, receiveBatchID string) Event {
	return NewEvent(ReceiveBatchDeletedEvent, dispatchID, ReceiveBatchDeleted{
		DispatchID:     dispatchID,
		ReceiveBatchID: receiveBatchID,
	})
}

func NewQualityCheckCompletedEvent(batch *entities.VendorReceiveBatch) Event {
	return NewEvent(QualityCheckCompletedEvent, batch.DispatchID, QualityCheckCompleted{
		ReceiveBatchID:    batch.ID,
		TotalFinalRejects: batch.TotalFinalRejects,
	})
}
