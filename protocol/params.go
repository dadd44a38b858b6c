package protocol

import (
	"time"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// HandshakeParams is sent on first peer connection.
type HandshakeParams struct {
	AgentID         identity.AgentId
	PubKey          string
	Capabilities    []string
	Resources       identity.AgentResources
	LocationVector  identity.VivaldiCoordinates
	ProofOfWork     types.ProofOfWork
	ProtocolVersion string
}

// CandidacyParams announces candidacy for the Tier-1 election.
type CandidacyParams struct {
	AgentID        identity.AgentId
	Epoch          uint64
	Score          identity.NodeScore
	LocationVector identity.VivaldiCoordinates
}

// ElectionVoteParams is one agent's ranked ballot over Tier-1 candidates.
type ElectionVoteParams struct {
	Voter             identity.AgentId
	Epoch             uint64
	CandidateRankings []identity.AgentId
}

// TierAssignmentParams notifies an agent of its assigned tier.
type TierAssignmentParams struct {
	AssignedAgent identity.AgentId
	Tier          identity.Tier
	ParentID      identity.AgentId
	Epoch         uint64
	BranchSize    uint64
}

// TaskInjectionParams delivers a new task from an external source or
// parent agent.
type TaskInjectionParams struct {
	Task       types.Task
	Originator identity.AgentId
}

// ProposalCommitParams is the commit phase of the RFP protocol: only
// the plan hash is disclosed.
type ProposalCommitParams struct {
	TaskID   string
	Proposer identity.AgentId
	Epoch    uint64
	PlanHash string
}

// ProposalRevealParams is the reveal phase: the full plan is disclosed.
type ProposalRevealParams struct {
	TaskID string
	Plan   types.Plan
}

// ConsensusVoteParams is a ranked-choice vote over revealed plans.
type ConsensusVoteParams struct {
	TaskID       string
	Epoch        uint64
	Voter        identity.AgentId
	Rankings     []string
	CriticScores map[string]types.CriticScore
}

// TaskAssignmentParams assigns a concrete task to a subordinate.
type TaskAssignmentParams struct {
	Task           types.Task
	Assignee       identity.AgentId
	ParentTaskID   string
	WinningPlanID  string
}

// ResultSubmissionParams delivers an executor's result upward.
type ResultSubmissionParams struct {
	TaskID      string
	AgentID     identity.AgentId
	Artifact    types.Artifact
	MerkleProof []string
}

// VerificationResultParams is the coordinator's verdict on a submitted result.
type VerificationResultParams struct {
	TaskID  string
	AgentID identity.AgentId
	Accepted bool
	Reason   *string
}

// KeepAliveParams is a periodic liveness ping.
type KeepAliveParams struct {
	AgentID   identity.AgentId
	Epoch     uint64
	Timestamp time.Time
}

// SuccessionParams announces a completed leader succession.
type SuccessionParams struct {
	FailedLeader identity.AgentId
	NewLeader    identity.AgentId
	Epoch        uint64
	BranchAgents []identity.AgentId
}
