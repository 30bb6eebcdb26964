package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemCode represents a unique item identifier within a tenant
type ItemCode string

// Item represents a trackable manufacturing item moving through a workflow
type Item struct {
	ID            string
	TenantID      string
	Code          ItemCode
	Description   string
	NetWeightKg   decimal.Decimal
	UnitOfMeasure string
}

// NewItem creates a validated Item
func NewItem(
	id, tenantID string,
	code ItemCode,
	description string,
	netWeightKg decimal.Decimal,
	unitOfMeasure string,
) (*Item, error) {
	if id == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id cannot be empty")
	}
	if string(code) == "" {
		return nil, fmt.Errorf("item code cannot be empty")
	}
	if netWeightKg.IsNegative() {
		return nil, fmt.Errorf("net weight cannot be negative, got %s", netWeightKg)
	}

	return &Item{
		ID:            id,
		TenantID:      tenantID,
		Code:          code,
		Description:   description,
		NetWeightKg:   netWeightKg,
		UnitOfMeasure: unitOfMeasure,
	}, nil
}
