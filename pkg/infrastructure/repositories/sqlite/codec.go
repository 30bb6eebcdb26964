package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// Outcome ledgers are a sum type, so step documents carry an explicit kind
// discriminator alongside the flat entry list.
const (
	ledgerKindForging = "forging"
	ledgerKindBatch   = "batch"
)

type ledgerDoc struct {
	Kind    string                  `json:"kind"`
	Entries []entities.OutcomeEntry `json:"entries"`
}

type stepDoc struct {
	ID                     string          `json:"id"`
	WorkflowID             string          `json:"workflowId"`
	OperationType          string          `json:"operationType"`
	StepOrder              int             `json:"stepOrder"`
	Optional               bool            `json:"optional"`
	Status                 int             `json:"status"`
	InitialPieces          entities.Pieces `json:"initialPieces"`
	PiecesAvailableForNext entities.Pieces `json:"piecesAvailableForNext"`
	RelatedEntityIDs       []string        `json:"relatedEntityIds,omitempty"`
	Ledger                 *ledgerDoc      `json:"ledger,omitempty"`
}

type workflowDoc struct {
	Steps []stepDoc `json:"steps"`
}

func encodeLedger(ledger entities.OutcomeLedger) (*ledgerDoc, error) {
	if ledger == nil {
		return nil, nil
	}
	doc := &ledgerDoc{}
	switch ledger.(type) {
	case *entities.ForgingOutcome:
		doc.Kind = ledgerKindForging
	case *entities.BatchOutcomeLedger:
		doc.Kind = ledgerKindBatch
	default:
		return nil, fmt.Errorf("unknown ledger type %T", ledger)
	}
	for _, entry := range ledger.Entries() {
		doc.Entries = append(doc.Entries, *entry)
	}
	return doc, nil
}

func decodeLedger(doc *ledgerDoc) (entities.OutcomeLedger, error) {
	if doc == nil {
		return nil, nil
	}
	switch doc.Kind {
	case ledgerKindForging:
		outcome := &entities.ForgingOutcome{}
		if len(doc.Entries) > 0 {
			outcome.Outcome = doc.Entries[0]
		}
		return outcome, nil
	case ledgerKindBatch:
		ledger := entities.NewBatchOutcomeLedger()
		ledger.Outcomes = append(ledger.Outcomes, doc.Entries...)
		return ledger, nil
	default:
		return nil, fmt.Errorf("unknown ledger kind %q", doc.Kind)
	}
}

func encodeWorkflowSteps(workflow *entities.ItemWorkflow) ([]byte, error) {
	doc := workflowDoc{}
	for _, step := range workflow.Steps {
		ledger, err := encodeLedger(step.Ledger)
		if err != nil {
			return nil, err
		}
		doc.Steps = append(doc.Steps, stepDoc{
			ID:                     step.ID,
			WorkflowID:             step.WorkflowID,
			OperationType:          step.OperationType.String(),
			StepOrder:              step.StepOrder,
			Optional:               step.Optional,
			Status:                 int(step.Status),
			InitialPieces:          step.InitialPieces,
			PiecesAvailableForNext: step.PiecesAvailableForNext,
			RelatedEntityIDs:       step.RelatedEntityIDs,
			Ledger:                 ledger,
		})
	}
	return json.Marshal(doc)
}

func decodeWorkflowSteps(data []byte) ([]*entities.WorkflowStep, error) {
	var doc workflowDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	steps := make([]*entities.WorkflowStep, 0, len(doc.Steps))
	for _, sd := range doc.Steps {
		opType, err := entities.ParseOperationType(sd.OperationType)
		if err != nil {
			return nil, err
		}
		ledger, err := decodeLedger(sd.Ledger)
		if err != nil {
			return nil, err
		}
		steps = append(steps, &entities.WorkflowStep{
			ID:                     sd.ID,
			WorkflowID:             sd.WorkflowID,
			OperationType:          opType,
			StepOrder:              sd.StepOrder,
			Optional:               sd.Optional,
			Status:                 entities.StepStatus(sd.Status),
			InitialPieces:          sd.InitialPieces,
			PiecesAvailableForNext: sd.PiecesAvailableForNext,
			RelatedEntityIDs:       sd.RelatedEntityIDs,
			Ledger:                 ledger,
		})
	}
	return steps, nil
}
