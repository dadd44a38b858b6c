// Package consensus implements competitive planning and ranked-choice
// voting: the Request-for-Proposal commit-reveal protocol, Instant
// Runoff Voting over revealed plans, and the recursive cascade that
// distributes a winning plan's subtasks down the hierarchy.
package consensus

import (
	"errors"
	"fmt"
)

var (
	ErrNoProposals = errors.New("no proposals available for voting")
	ErrNoVotes     = errors.New("no votes received")
)

// RfpFailedError wraps a commit-reveal state machine violation.
type RfpFailedError struct {
	Reason string
}

func (e *RfpFailedError) Error() string {
	return fmt.Sprintf("rfp failed: %s", e.Reason)
}

// DuplicateCommitError is returned when a proposer commits twice for
// the same task.
type DuplicateCommitError struct {
	TaskID   string
	Proposer string
}

func (e *DuplicateCommitError) Error() string {
	return fmt.Sprintf("proposal already committed for task %s by agent %s", e.TaskID, e.Proposer)
}

// HashMismatchError is returned when a revealed plan's recomputed hash
// does not match its earlier commit.
type HashMismatchError struct {
	Expected string
	Got      string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("proposal hash mismatch: expected %s, got %s", e.Expected, e.Got)
}

// VotingError wraps a voting-engine validation failure.
type VotingError struct {
	Reason string
}

func (e *VotingError) Error() string {
	return fmt.Sprintf("voting error: %s", e.Reason)
}

// SelfVoteProhibitedError is returned when an agent ranks its own
// proposal first while self-vote prohibition is enabled.
type SelfVoteProhibitedError struct {
	AgentID string
}

func (e *SelfVoteProhibitedError) Error() string {
	return fmt.Sprintf("self-vote not allowed: agent %s cannot vote for own proposal", e.AgentID)
}

// CascadeError wraps a subtask distribution failure.
type CascadeError struct {
	Reason string
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade error: %s", e.Reason)
}

// TaskNotFoundError is returned when an operation references an
// unknown task or subtask ID.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// EpochMismatchError is returned when a commit, reveal, or vote
// carries an epoch different from the coordinator's.
type EpochMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *EpochMismatchError) Error() string {
	return fmt.Sprintf("epoch mismatch: expected %d, got %d", e.Expected, e.Got)
}
