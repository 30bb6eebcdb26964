package shared

import (
	"fmt"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// ConsumptionContext holds how many pieces an operation drew from one
// upstream batch outcome
type ConsumptionContext struct {
	ConsumedPieces entities.Pieces
	HasConsumed    bool
}

// ConsumptionMap tracks piece consumption by workflow and upstream batch.
// Dispatch and replay code use it to know exactly what to return upstream
// when a consuming record is deleted.
type ConsumptionMap map[string]*ConsumptionContext

// NewConsumptionMap creates a new empty consumption map
func NewConsumptionMap() ConsumptionMap {
	return make(ConsumptionMap)
}

// Add accumulates consumed pieces for a workflow and upstream batch
func (cm ConsumptionMap) Add(workflowID, batchID string, pieces entities.Pieces) {
	key := cm.makeKey(workflowID, batchID)
	context, exists := cm[key]
	if !exists {
		context = &ConsumptionContext{}
		cm[key] = context
	}
	context.ConsumedPieces += pieces
	context.HasConsumed = context.ConsumedPieces > 0
}

// Get retrieves consumption context for a workflow and upstream batch
func (cm ConsumptionMap) Get(workflowID, batchID string) *ConsumptionContext {
	return cm[cm.makeKey(workflowID, batchID)]
}

// Has checks if any consumption was recorded for a workflow and batch
func (cm ConsumptionMap) Has(workflowID, batchID string) bool {
	_, exists := cm[cm.makeKey(workflowID, batchID)]
	return exists
}

// Remove drops the consumption context for a workflow and batch
func (cm ConsumptionMap) Remove(workflowID, batchID string) {
	delete(cm, cm.makeKey(workflowID, batchID))
}

// Size returns the number of consumption contexts stored
func (cm ConsumptionMap) Size() int {
	return len(cm)
}

// TotalConsumed returns the total pieces consumed across all batches
func (cm ConsumptionMap) TotalConsumed() entities.Pieces {
	var total entities.Pieces
	for _, context := range cm {
		total += context.ConsumedPieces
	}
	return total
}

// ByWorkflow returns batch-id keyed consumption for a single workflow
func (cm ConsumptionMap) ByWorkflow(workflowID string) map[string]entities.Pieces {
	result := make(map[string]entities.Pieces)
	for key, context := range cm {
		wfID, batchID, found := cm.parseKey(key)
		if found && wfID == workflowID {
			result[batchID] = context.ConsumedPieces
		}
	}
	return result
}

// makeKey creates a consistent key for workflow id and batch id
func (cm ConsumptionMap) makeKey(workflowID, batchID string) string {
	return fmt.Sprintf("%s|%s", workflowID, batchID)
}

// parseKey extracts workflow id and batch id from a key
func (cm ConsumptionMap) parseKey(key string) (string, string, bool) {
	for i, char := range key {
		if char == '|' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

// String returns a string representation of the consumption map for debugging
func (cm ConsumptionMap) String() string {
	if len(cm) == 0 {
		return "ConsumptionMap{empty}"
	}

	result := fmt.Sprintf("ConsumptionMap{%d entries:\n", len(cm))
	for key, context := range cm {
		if workflowID, batchID, found := cm.parseKey(key); found {
			result += fmt.Sprintf(
				"  %s@%s: consumed=%d\n",
				workflowID,
				batchID,
				context.ConsumedPieces,
			)
		}
	}
	result += "}"
	return result
}
