package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a calculation failure
type ErrorKind string

const (
	KindDuplicateNodeID   ErrorKind = "DuplicateNodeId"
	KindDanglingReference ErrorKind = "DanglingReference"
	KindCycleDetected     ErrorKind = "CycleDetected"
	KindUnknownTechnology ErrorKind = "UnknownTechnologyReference"
	KindGraphTooLarge     ErrorKind = "GraphTooLarge"
)

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrDuplicateNodeID   = errors.New("duplicate node id")
	ErrDanglingReference = errors.New("dangling edge reference")
	ErrCycleDetected     = errors.New("cycle detected")
	ErrUnknownTechnology = errors.New("unknown technology reference")
	ErrGraphTooLarge     = errors.New("graph too large")
)

var sentinels = map[ErrorKind]error{
	KindDuplicateNodeID:   ErrDuplicateNodeID,
	KindDanglingReference: ErrDanglingReference,
	KindCycleDetected:     ErrCycleDetected,
	KindUnknownTechnology: ErrUnknownTechnology,
	KindGraphTooLarge:     ErrGraphTooLarge,
}

// Phase is the pipeline state a calculation failed in
type Phase string

const (
	PhaseValidating  Phase = "validating"
	PhaseOrdering    Phase = "ordering"
	PhaseEvaluating  Phase = "evaluating"
	PhaseAggregating Phase = "aggregating"
	PhaseDone        Phase = "done"
)

// Error is the structured failure returned by Build and Calculate
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Phase   Phase     `json:"phase"`
	NodeID  string    `json:"node_id,omitempty"`
	EdgeKey string    `json:"edge,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel for the error kind
func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// Structural reports whether the error was raised before evaluation started
func (e *Error) Structural() bool {
	return e.Kind != KindUnknownTechnology
}

func newError(kind ErrorKind, phase Phase, format string, args ...any) *Error {
	return &Error{Kind: kind, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts the structured engine error from err
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
