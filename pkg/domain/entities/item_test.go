package entities

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestItemValidation(t *testing.T) {
	weight := decimal.RequireFromString("2.450")
	validItem, err := NewItem("item-1", "tenant-1", "CRANK-40CR", "Crankshaft 40Cr", weight, "PCS")
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if validItem.Code != "CRANK-40CR" {
		t.Errorf("Expected item code CRANK-40CR, got %s", validItem.Code)
	}

	testCases := []struct {
		name        string
		id          string
		tenantID    string
		code        ItemCode
		weight      decimal.Decimal
		expectError string
	}{
		{"empty id", "", "tenant-1", "X", weight, "item id cannot be empty"},
		{"empty tenant", "item-1", "", "X", weight, "tenant id cannot be empty"},
		{"empty code", "item-1", "tenant-1", "", weight, "item code cannot be empty"},
		{"negative weight", "item-1", "tenant-1", "X", decimal.RequireFromString("-1"), "net weight cannot be negative"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewItem(tc.id, tc.tenantID, tc.code, "desc", tc.weight, "PCS")
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}
