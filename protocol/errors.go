package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateProposal = errors.New("duplicate proposal")
	ErrSelfVoteNotAllowed = errors.New("self-vote not allowed")
	ErrInvalidProofOfWork = errors.New("proof of work invalid")
)

// InvalidSignatureError wraps the underlying verification failure reason.
type InvalidSignatureError struct {
	Reason string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature: %s", e.Reason)
}

// UnknownMethodError is returned when a message names a method this
// protocol does not recognize.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method: %s", e.Method)
}

// TaskNotFoundError is returned when an operation references a task ID
// with no known record.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// EpochMismatchError is returned when a message's epoch does not match
// the expected current epoch.
type EpochMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *EpochMismatchError) Error() string {
	return fmt.Sprintf("epoch mismatch: expected %d, got %d", e.Expected, e.Got)
}

// InsufficientReputationError is returned when an agent's reputation
// falls below an operation's minimum threshold.
type InsufficientReputationError struct {
	Reputation float64
}

func (e *InsufficientReputationError) Error() string {
	return fmt.Sprintf("insufficient reputation: %.3f", e.Reputation)
}
