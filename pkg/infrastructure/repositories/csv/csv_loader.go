package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sankhyalekha-create/forging-process-management-service-sub001/pkg/domain/entities"
)

// Loader handles loading scenario data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadItems loads item master data from a CSV file
func (l *Loader) LoadItems(filename, tenantID string) ([]*entities.Item, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items CSV: %w", err)
	}

	expectedHeader := []string{"item_id", "item_code", "description", "net_weight_kg", "unit_of_measure"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("items CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var items []*entities.Item
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("items CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		weight, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: invalid net weight %q", i+2, record[3])
		}
		item, err := entities.NewItem(
			strings.TrimSpace(record[0]), tenantID,
			entities.ItemCode(strings.TrimSpace(record[1])),
			strings.TrimSpace(record[2]), weight,
			strings.TrimSpace(record[4]),
		)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadTemplates loads workflow templates from a CSV file. Each row is one
// template step; rows sharing a template_id form one template.
func (l *Loader) LoadTemplates(filename, tenantID string) ([]*entities.WorkflowTemplate, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates CSV: %w", err)
	}

	expectedHeader := []string{"template_id", "template_name", "step_order", "operation_type", "optional", "is_default"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("templates CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	type templateRows struct {
		name      string
		isDefault bool
		steps     []entities.TemplateStep
	}
	grouped := make(map[string]*templateRows)
	var order []string

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("templates CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		id := strings.TrimSpace(record[0])
		stepOrder, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("templates CSV row %d: invalid step order %q", i+2, record[2])
		}
		opType, err := entities.ParseOperationType(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("templates CSV row %d: %w", i+2, err)
		}
		optional, err := parseBool(record[4])
		if err != nil {
			return nil, fmt.Errorf("templates CSV row %d: invalid optional flag %q", i+2, record[4])
		}
		isDefault, err := parseBool(record[5])
		if err != nil {
			return nil, fmt.Errorf("templates CSV row %d: invalid default flag %q", i+2, record[5])
		}

		group, exists := grouped[id]
		if !exists {
			group = &templateRows{name: strings.TrimSpace(record[1])}
			grouped[id] = group
			order = append(order, id)
		}
		group.isDefault = group.isDefault || isDefault
		group.steps = append(group.steps, entities.TemplateStep{
			OperationType: opType,
			StepOrder:     stepOrder,
			Optional:      optional,
		})
	}

	var templates []*entities.WorkflowTemplate
	for _, id := range order {
		group := grouped[id]
		template, err := entities.NewWorkflowTemplate(id, tenantID, group.name, group.steps, group.isDefault)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", id, err)
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// OperationRecord is one journaled production event: an outcome report, a
// consumption, a return or a deletion, keyed to an item and identifier
type OperationRecord struct {
	Action        string
	ItemID        string
	Identifier    string
	OperationType entities.OperationType
	BatchID       string
	Pieces        entities.Pieces
}

// Journal actions understood by the replay loader
const (
	ActionOutcome = "outcome"
	ActionConsume = "consume"
	ActionReturn  = "return"
	ActionDelete  = "delete"
)

// LoadOperations loads a journal of production events from a CSV file
func (l *Loader) LoadOperations(filename string) ([]OperationRecord, error) {
	records, err := readCSV(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read operations CSV: %w", err)
	}

	expectedHeader := []string{"action", "item_id", "identifier", "operation_type", "batch_id", "pieces"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("operations CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var operations []OperationRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("operations CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		action := strings.ToLower(strings.TrimSpace(record[0]))
		switch action {
		case ActionOutcome, ActionConsume, ActionReturn, ActionDelete:
		default:
			return nil, fmt.Errorf("operations CSV row %d: unknown action %q", i+2, record[0])
		}
		opType, err := entities.ParseOperationType(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("operations CSV row %d: %w", i+2, err)
		}
		var pieces int64
		if raw := strings.TrimSpace(record[5]); raw != "" {
			pieces, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("operations CSV row %d: invalid pieces %q", i+2, record[5])
			}
		}
		operations = append(operations, OperationRecord{
			Action:        action,
			ItemID:        strings.TrimSpace(record[1]),
			Identifier:    strings.TrimSpace(record[2]),
			OperationType: opType,
			BatchID:       strings.TrimSpace(record[4]),
			Pieces:        entities.Pieces(pieces),
		})
	}
	return operations, nil
}

func readCSV(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV must have header and at least one data row")
	}
	return records, nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return false
		}
	}
	return true
}

func parseBool(raw string) (bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false, nil
	}
	return strconv.ParseBool(trimmed)
}
