package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DispatchStatus represents the lifecycle state of a vendor dispatch batch
type DispatchStatus int

const (
	DispatchDraft DispatchStatus = iota
	Dispatched
	PartiallyReceived
	DispatchCompleted
	DispatchCancelled
)

// String method for DispatchStatus enum
func (s DispatchStatus) String() string {
	switch s {
	case DispatchDraft:
		return "DRAFT"
	case Dispatched:
		return "DISPATCHED"
	case PartiallyReceived:
		return "PARTIALLY_RECEIVED"
	case DispatchCompleted:
		return "COMPLETED"
	case DispatchCancelled:
		return "CANCELLED"
	default:
		return "Unknown"
	}
}

// ConsumptionType represents how a heat was consumed to produce a dispatch
type ConsumptionType int

const (
	ConsumeByQuantity ConsumptionType = iota
	ConsumeByPieces
)

// String method for ConsumptionType enum
func (c ConsumptionType) String() string {
	switch c {
	case ConsumeByQuantity:
		return "QUANTITY"
	case ConsumeByPieces:
		return "PIECES"
	default:
		return "Unknown"
	}
}

// VendorDispatchHeat represents a heat consumed to produce a dispatch.
// Exactly one of QuantityUsed and PiecesUsed is set, matching the
// consumption type.
type VendorDispatchHeat struct {
	ID              string
	HeatNumber      string
	ConsumptionType ConsumptionType
	QuantityUsed    decimal.Decimal
	PiecesUsed      Pieces
}

// NewVendorDispatchHeat creates a validated VendorDispatchHeat
func NewVendorDispatchHeat(
	id, heatNumber string,
	consumptionType ConsumptionType,
	quantityUsed decimal.Decimal,
	piecesUsed Pieces,
) (*VendorDispatchHeat, error) {
	if heatNumber == "" {
		return nil, fmt.Errorf("heat number cannot be empty")
	}
	switch consumptionType {
	case ConsumeByQuantity:
		if quantityUsed.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("quantity used must be positive, got %s", quantityUsed)
		}
		if piecesUsed != 0 {
			return nil, fmt.Errorf("pieces used must be unset for quantity consumption, got %d", piecesUsed)
		}
	case ConsumeByPieces:
		if piecesUsed <= 0 {
			return nil, fmt.Errorf("pieces used must be positive, got %d", piecesUsed)
		}
		if !quantityUsed.IsZero() {
			return nil, fmt.Errorf("quantity used must be unset for piece consumption, got %s", quantityUsed)
		}
	default:
		return nil, fmt.Errorf("unknown consumption type: %d", consumptionType)
	}

	return &VendorDispatchHeat{
		ID:              id,
		HeatNumber:      heatNumber,
		ConsumptionType: consumptionType,
		QuantityUsed:    quantityUsed,
		PiecesUsed:      piecesUsed,
	}, nil
}

// ProcessedItemVendorDispatchBatch is the piece/quantity payload of one
// dispatch. Running totals are maintained as the sum over the dispatch's
// non-deleted receive batches.
type ProcessedItemVendorDispatchBatch struct {
	ID                     string
	IsInPieces             bool
	DispatchedPieces       Pieces
	DispatchedQuantity     decimal.Decimal
	ExpectedPieces         Pieces
	TotalReceivedPieces    Pieces
	TotalRejectedPieces    Pieces
	TotalTenantRejects     Pieces
	TotalEligibleForNextOp Pieces
	FullyReceived          bool
}

// AccountedPieces returns every dispatched piece accounted for so far:
// received, vendor-rejected or tenant-rejected
func (p *ProcessedItemVendorDispatchBatch) AccountedPieces() Pieces {
	return p.TotalReceivedPieces + p.TotalRejectedPieces + p.TotalTenantRejects
}

// RecomputeTotals rebuilds the running totals from the dispatch's
// non-deleted receive batches and flips FullyReceived once every expected
// piece is accounted for
func (p *ProcessedItemVendorDispatchBatch) RecomputeTotals(receives []*VendorReceiveBatch) {
	p.TotalReceivedPieces = 0
	p.TotalRejectedPieces = 0
	p.TotalTenantRejects = 0
	p.TotalEligibleForNextOp = 0
	for _, rb := range receives {
		if rb.Deleted {
			continue
		}
		p.TotalReceivedPieces += rb.ReceivedPieces
		p.TotalRejectedPieces += rb.RejectedPieces
		p.TotalTenantRejects += rb.TenantRejects
		p.TotalEligibleForNextOp += rb.EligiblePieces()
	}
	p.FullyReceived = p.AccountedPieces() >= p.ExpectedPieces
}

// VendorDispatchBatch represents a shipment of pieces (or raw material) to
// an external vendor for one or more production operations
type VendorDispatchBatch struct {
	ID            string
	TenantID      string
	VendorID      string
	ItemID        string
	WorkflowID    string
	ProcessTypes  []OperationType
	PackagingInfo string
	// SourceBatchID names the upstream batch outcome the dispatched pieces
	// were consumed from. Empty for first-operation dispatches fed by heats.
	SourceBatchID string
	Status        DispatchStatus
	DispatchedAt  time.Time
	Payload       ProcessedItemVendorDispatchBatch
	Heats         []VendorDispatchHeat
	Deleted       bool
}

// LastProcessType returns the final operation type the vendor performs;
// the receive batch outcome lands on this step's ledger
func (d *VendorDispatchBatch) LastProcessType() OperationType {
	return d.ProcessTypes[len(d.ProcessTypes)-1]
}

// FirstProcessType returns the first operation type the vendor performs
func (d *VendorDispatchBatch) FirstProcessType() OperationType {
	return d.ProcessTypes[0]
}

// VendorReceiveBatch represents one delivery-back event from a vendor.
// Once the quality check completes the batch is locked and must not be
// mutated by any caller.
type VendorReceiveBatch struct {
	ID                      string
	DispatchID              string
	ReceivedPieces          Pieces
	RejectedPieces          Pieces
	TenantRejects           Pieces
	QualityCheckRequired    bool
	QualityCheckCompletedAt *time.Time
	FinalVendorRejects      Pieces
	FinalTenantRejects      Pieces
	TotalFinalRejects       Pieces
	Remarks                 string
	IsLocked                bool
	Deleted                 bool
	ReceivedAt              time.Time
}

// NewVendorReceiveBatch creates a validated VendorReceiveBatch
func NewVendorReceiveBatch(
	id, dispatchID string,
	receivedPieces, rejectedPieces, tenantRejects Pieces,
	qualityCheckRequired bool,
	receivedAt time.Time,
) (*VendorReceiveBatch, error) {
	if dispatchID == "" {
		return nil, fmt.Errorf("dispatch id cannot be empty")
	}
	if receivedPieces < 0 || rejectedPieces < 0 || tenantRejects < 0 {
		return nil, fmt.Errorf("piece counts cannot be negative")
	}
	if receivedPieces+rejectedPieces+tenantRejects == 0 {
		return nil, fmt.Errorf("receive batch must account for at least one piece")
	}

	return &VendorReceiveBatch{
		ID:                   id,
		DispatchID:           dispatchID,
		ReceivedPieces:       receivedPieces,
		RejectedPieces:       rejectedPieces,
		TenantRejects:        tenantRejects,
		QualityCheckRequired: qualityCheckRequired,
		ReceivedAt:           receivedAt,
	}, nil
}

// EligiblePieces returns the received pieces still eligible for the next
// operation after final quality rejects
func (b *VendorReceiveBatch) EligiblePieces() Pieces {
	eligible := b.ReceivedPieces - b.TotalFinalRejects
	if eligible < 0 {
		return 0
	}
	return eligible
}

// EnsureMutable fails when the batch has been locked by quality completion
func (b *VendorReceiveBatch) EnsureMutable() error {
	if b.IsLocked {
		return ErrBatchLocked
	}
	return nil
}

// CompleteQualityCheck finalizes the quality result and locks the batch.
// This is the only path that makes a receive batch immutable.
func (b *VendorReceiveBatch) CompleteQualityCheck(
	finalVendorRejects, finalTenantRejects Pieces,
	remarks string,
	now time.Time,
) error {
	if b.IsLocked {
		return ErrBatchLocked
	}
	if !b.QualityCheckRequired {
		return ErrQualityCheckNotRequired
	}
	if finalVendorRejects < 0 || finalTenantRejects < 0 {
		return fmt.Errorf("final reject counts cannot be negative")
	}
	if finalVendorRejects+finalTenantRejects > b.ReceivedPieces {
		return fmt.Errorf(
			"final rejects %d exceed received pieces %d",
			finalVendorRejects+finalTenantRejects, b.ReceivedPieces,
		)
	}

	b.FinalVendorRejects = finalVendorRejects
	b.FinalTenantRejects = finalTenantRejects
	b.TotalFinalRejects = finalVendorRejects + finalTenantRejects
	b.Remarks = remarks
	b.QualityCheckCompletedAt = &now
	b.IsLocked = true
	return nil
}
