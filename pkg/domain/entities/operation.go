package entities

import "fmt"

// Pieces represents a discrete count of physical pieces
type Pieces int64

// OperationType represents one typed production operation in the pipeline
type OperationType int

const (
	Forging OperationType = iota
	HeatTreatment
	Machining
	Quality
	Dispatch
)

// String method for OperationType enum
func (o OperationType) String() string {
	switch o {
	case Forging:
		return "FORGING"
	case HeatTreatment:
		return "HEAT_TREATMENT"
	case Machining:
		return "MACHINING"
	case Quality:
		return "QUALITY"
	case Dispatch:
		return "DISPATCH"
	default:
		return "Unknown"
	}
}

// ParseOperationType parses the canonical operation type name
func ParseOperationType(s string) (OperationType, error) {
	switch s {
	case "FORGING":
		return Forging, nil
	case "HEAT_TREATMENT":
		return HeatTreatment, nil
	case "MACHINING":
		return Machining, nil
	case "QUALITY":
		return Quality, nil
	case "DISPATCH":
		return Dispatch, nil
	default:
		return 0, fmt.Errorf("unknown operation type: %s", s)
	}
}

// WorkflowStatus represents the overall status of an item workflow
type WorkflowStatus int

const (
	NotStarted WorkflowStatus = iota
	InProgress
	Completed
)

// String method for WorkflowStatus enum
func (s WorkflowStatus) String() string {
	switch s {
	case NotStarted:
		return "NOT_STARTED"
	case InProgress:
		return "IN_PROGRESS"
	case Completed:
		return "COMPLETED"
	default:
		return "Unknown"
	}
}

// StepStatus represents the status of a single workflow step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepInProgress
	StepCompleted
)

// String method for StepStatus enum
func (s StepStatus) String() string {
	switch s {
	case StepPending:
		return "PENDING"
	case StepInProgress:
		return "IN_PROGRESS"
	case StepCompleted:
		return "COMPLETED"
	default:
		return "Unknown"
	}
}
