package entities

import "fmt"

// OutcomeEntry records the production result of one physical batch: how many
// pieces it produced and how many remain available for the next operation.
type OutcomeEntry struct {
	BatchID         string
	InitialPieces   Pieces
	AvailablePieces Pieces
	Deleted         bool
}

// NewOutcomeEntry creates a validated OutcomeEntry with all pieces available
func NewOutcomeEntry(batchID string, initialPieces Pieces) (*OutcomeEntry, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if initialPieces < 0 {
		return nil, fmt.Errorf("initial pieces cannot be negative, got %d", initialPieces)
	}
	return &OutcomeEntry{
		BatchID:         batchID,
		InitialPieces:   initialPieces,
		AvailablePieces: initialPieces,
	}, nil
}

// OutcomeLedger is the per-step record of production results. It is a sum
// type: either a single aggregate forging outcome (quantity-based first step)
// or a list of independent batch outcomes for every other operation type.
type OutcomeLedger interface {
	// Entry returns a mutable reference to the outcome matching batchID,
	// or nil when no live match exists.
	Entry(batchID string) *OutcomeEntry
	// Entries returns mutable references to every outcome, deleted included.
	Entries() []*OutcomeEntry
	// Merge folds newly reported outcomes into the ledger. Existing entries
	// with a matching batch id are replaced in place; unknown ids are
	// appended. Entries absent from the incoming set are left untouched, so
	// callers may submit only the batches they produced. Merge is idempotent
	// per batch id.
	Merge(incoming []OutcomeEntry)
	// TotalAvailable sums available pieces over non-deleted entries.
	TotalAvailable() Pieces
	// TotalInitial sums initial pieces over non-deleted entries.
	TotalInitial() Pieces
	// AllDeleted reports whether every entry is marked deleted.
	AllDeleted() bool
	// MarkDeleted soft-deletes the entry matching batchID.
	MarkDeleted(batchID string) bool
}

// ForgingOutcome is the single aggregate outcome of the quantity-to-pieces
// first step. There is only ever one entry, so lookup by batch id falls back
// to the aggregate regardless of the id given.
type ForgingOutcome struct {
	Outcome OutcomeEntry
}

// Verify interface compliance
var _ OutcomeLedger = (*ForgingOutcome)(nil)

// NewForgingOutcome creates a ForgingOutcome with all pieces available
func NewForgingOutcome(id string, initialPieces Pieces) (*ForgingOutcome, error) {
	entry, err := NewOutcomeEntry(id, initialPieces)
	if err != nil {
		return nil, err
	}
	return &ForgingOutcome{Outcome: *entry}, nil
}

// Entry returns the single aggregate outcome unless it is deleted
func (f *ForgingOutcome) Entry(batchID string) *OutcomeEntry {
	if f.Outcome.Deleted {
		return nil
	}
	return &f.Outcome
}

// Entries returns the single aggregate outcome
func (f *ForgingOutcome) Entries() []*OutcomeEntry {
	return []*OutcomeEntry{&f.Outcome}
}

// Merge replaces the aggregate outcome wholesale; only the last incoming
// entry is kept because a forging step has exactly one outcome.
func (f *ForgingOutcome) Merge(incoming []OutcomeEntry) {
	if len(incoming) == 0 {
		return
	}
	f.Outcome = incoming[len(incoming)-1]
}

// TotalAvailable returns available pieces when the outcome is live
func (f *ForgingOutcome) TotalAvailable() Pieces {
	if f.Outcome.Deleted {
		return 0
	}
	return f.Outcome.AvailablePieces
}

// TotalInitial returns initial pieces when the outcome is live
func (f *ForgingOutcome) TotalInitial() Pieces {
	if f.Outcome.Deleted {
		return 0
	}
	return f.Outcome.InitialPieces
}

// AllDeleted reports whether the aggregate outcome is deleted
func (f *ForgingOutcome) AllDeleted() bool {
	return f.Outcome.Deleted
}

// MarkDeleted soft-deletes the aggregate outcome
func (f *ForgingOutcome) MarkDeleted(batchID string) bool {
	if f.Outcome.Deleted {
		return false
	}
	f.Outcome.Deleted = true
	return true
}

// BatchOutcomeLedger holds the independent batch outcomes of a step whose
// output is physically split across multiple batches, for example two
// heat-treatment furnace loads from one forging run.
type BatchOutcomeLedger struct {
	Outcomes []OutcomeEntry
}

// Verify interface compliance
var _ OutcomeLedger = (*BatchOutcomeLedger)(nil)

// NewBatchOutcomeLedger creates an empty BatchOutcomeLedger
func NewBatchOutcomeLedger() *BatchOutcomeLedger {
	return &BatchOutcomeLedger{Outcomes: make([]OutcomeEntry, 0)}
}

// Entry returns the live outcome matching batchID, or nil
func (l *BatchOutcomeLedger) Entry(batchID string) *OutcomeEntry {
	for i := range l.Outcomes {
		if l.Outcomes[i].BatchID == batchID && !l.Outcomes[i].Deleted {
			return &l.Outcomes[i]
		}
	}
	return nil
}

// Entries returns every outcome, deleted included
func (l *BatchOutcomeLedger) Entries() []*OutcomeEntry {
	entries := make([]*OutcomeEntry, len(l.Outcomes))
	for i := range l.Outcomes {
		entries[i] = &l.Outcomes[i]
	}
	return entries
}

// Merge updates existing outcomes in place by batch id and appends unknown
// ones, preserving sibling entries the caller did not touch
func (l *BatchOutcomeLedger) Merge(incoming []OutcomeEntry) {
	for _, in := range incoming {
		replaced := false
		for i := range l.Outcomes {
			if l.Outcomes[i].BatchID == in.BatchID {
				l.Outcomes[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			l.Outcomes = append(l.Outcomes, in)
		}
	}
}

// TotalAvailable sums available pieces over non-deleted outcomes
func (l *BatchOutcomeLedger) TotalAvailable() Pieces {
	var total Pieces
	for i := range l.Outcomes {
		if !l.Outcomes[i].Deleted {
			total += l.Outcomes[i].AvailablePieces
		}
	}
	return total
}

// TotalInitial sums initial pieces over non-deleted outcomes
func (l *BatchOutcomeLedger) TotalInitial() Pieces {
	var total Pieces
	for i := range l.Outcomes {
		if !l.Outcomes[i].Deleted {
			total += l.Outcomes[i].InitialPieces
		}
	}
	return total
}

// AllDeleted reports whether every outcome is marked deleted. An empty
// ledger counts as fully deleted: nothing downstream depends on it.
func (l *BatchOutcomeLedger) AllDeleted() bool {
	for i := range l.Outcomes {
		if !l.Outcomes[i].Deleted {
			return false
		}
	}
	return true
}

// MarkDeleted soft-deletes the outcome matching batchID
func (l *BatchOutcomeLedger) MarkDeleted(batchID string) bool {
	for i := range l.Outcomes {
		if l.Outcomes[i].BatchID == batchID && !l.Outcomes[i].Deleted {
			l.Outcomes[i].Deleted = true
			return true
		}
	}
	return false
}
