// Package types holds the swarm's core data-model records: tasks,
// decomposition plans, result artifacts, ranked votes, and epochs.
package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
)

// TaskStatus is the lifecycle state of a Task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskProposalPhase
	TaskVotingPhase
	TaskInProgress
	TaskCompleted
	TaskFailed
	TaskRejected
)

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "Pending"
	case TaskProposalPhase:
		return "ProposalPhase"
	case TaskVotingPhase:
		return "VotingPhase"
	case TaskInProgress:
		return "InProgress"
	case TaskCompleted:
		return "Completed"
	case TaskFailed:
		return "Failed"
	case TaskRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Task is a unit of work flowing through the hierarchy.
type Task struct {
	TaskID       string
	ParentTaskID *string
	Epoch        uint64
	Status       TaskStatus
	Description  string
	AssignedTo   *identity.AgentId
	TierLevel    uint32
	Subtasks     []string
	CreatedAt    time.Time
	Deadline     *time.Time
}

// NewTask creates a Pending task with a fresh UUID task_id.
func NewTask(description string, tierLevel uint32, epoch uint64) Task {
	return Task{
		TaskID:      uuid.NewString(),
		Epoch:       epoch,
		Status:      TaskPending,
		Description: description,
		TierLevel:   tierLevel,
		Subtasks:    nil,
		CreatedAt:   time.Now().UTC(),
	}
}

// PlanSubtask is one proposed unit within a decomposition Plan.
type PlanSubtask struct {
	Index                 uint32
	Description           string
	RequiredCapabilities  []string
	EstimatedComplexity   float64
}

// Plan is a decomposition proposed by a Tier-1 agent during the RFP
// commit-reveal protocol.
type Plan struct {
	PlanID               string
	TaskID               string
	Proposer             identity.AgentId
	Epoch                uint64
	Subtasks             []PlanSubtask
	Rationale            string
	EstimatedParallelism float64
	CreatedAt            time.Time
}

// NewPlan creates an empty plan with a fresh UUID plan_id.
func NewPlan(taskID string, proposer identity.AgentId, epoch uint64) Plan {
	return Plan{
		PlanID:               uuid.NewString(),
		TaskID:               taskID,
		Proposer:             proposer,
		Epoch:                epoch,
		EstimatedParallelism: 1.0,
		CreatedAt:            time.Now().UTC(),
	}
}

// Artifact is a content-addressed result record produced by an
// executor agent.
type Artifact struct {
	ArtifactID  string
	TaskID      string
	Producer    identity.AgentId
	ContentCID  string
	MerkleHash  string
	ContentType string
	SizeBytes   uint64
	CreatedAt   time.Time
}

// NewArtifact creates an artifact with a fresh UUID artifact_id.
func NewArtifact(taskID string, producer identity.AgentId, contentCID, merkleHash, contentType string, sizeBytes uint64) Artifact {
	return Artifact{
		ArtifactID:  uuid.NewString(),
		TaskID:      taskID,
		Producer:    producer,
		ContentCID:  contentCID,
		MerkleHash:  merkleHash,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		CreatedAt:   time.Now().UTC(),
	}
}

// CriticScore is an evaluator's four-component feedback on a plan.
type CriticScore struct {
	Feasibility  float64
	Parallelism  float64
	Completeness float64
	Risk         float64
}

// Aggregate combines the four components into a single scalar ranking
// score: higher is better. Risk is inverted since lower risk is better.
func (c CriticScore) Aggregate() float64 {
	return 0.30*c.Feasibility + 0.25*c.Parallelism + 0.30*c.Completeness + 0.15*(1.0-c.Risk)
}

// RankedVote is one agent's ranked-choice ballot over a set of plans.
type RankedVote struct {
	Voter        identity.AgentId
	TaskID       string
	Epoch        uint64
	Rankings     []string // plan_ids, most preferred first
	CriticScores map[string]CriticScore
}

// Epoch is the metadata snapshot of one time-bounded hierarchy window.
type Epoch struct {
	EpochNumber          uint64
	StartedAt            time.Time
	DurationSecs         uint64
	Tier1Leaders         []identity.AgentId
	EstimatedSwarmSize   uint64
}

// ProofOfWork is the candidacy/handshake proof submitted by an agent.
// This package only carries it; protocol.VerifyProofOfWork checks one.
type ProofOfWork struct {
	Nonce      uint64
	Hash       string
	Difficulty uint32
}

// NetworkStats is a read-only snapshot of an agent's view of the swarm,
// useful for RPC/TUI front-ends (themselves out of scope here).
type NetworkStats struct {
	TotalAgents       uint64
	HierarchyDepth    uint32
	BranchingFactor   uint32
	CurrentEpoch      uint64
	MyTier            identity.Tier
	SubordinateCount  uint32
	ParentID          *identity.AgentId
}
