package hierarchy

import (
	"errors"
	"fmt"
)

var (
	ErrNoCandidates         = errors.New("no candidates available for election")
	ErrSuccessionInProgress = errors.New("succession already in progress")
)

// ElectionFailedError wraps a human-readable reason an election could
// not complete.
type ElectionFailedError struct {
	Reason string
}

func (e *ElectionFailedError) Error() string {
	return fmt.Sprintf("election failed: %s", e.Reason)
}

// AgentNotFoundError is returned when an operation references an agent
// ID the hierarchy has no record of.
type AgentNotFoundError struct {
	AgentID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent not found: %s", e.AgentID)
}

// InvalidTierError is returned when a tier assignment violates the
// current layout.
type InvalidTierError struct {
	Reason string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid tier assignment: %s", e.Reason)
}

// EpochMismatchError is returned when an operation's epoch does not
// match the hierarchy's current epoch.
type EpochMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *EpochMismatchError) Error() string {
	return fmt.Sprintf("epoch mismatch: expected %d, got %d", e.Expected, e.Got)
}

// LeaderTimeoutError is returned when a leader has missed its
// keep-alive deadline.
type LeaderTimeoutError struct {
	AgentID string
}

func (e *LeaderTimeoutError) Error() string {
	return fmt.Sprintf("leader timeout for agent: %s", e.AgentID)
}

// MaxDepthExceededError is returned when a computed layout would
// exceed the configured maximum hierarchy depth.
type MaxDepthExceededError struct {
	MaxDepth uint32
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf("hierarchy depth exceeded maximum of %d", e.MaxDepth)
}
