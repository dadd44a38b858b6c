package consensus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// PlanContext is handed to a PlanGenerator to produce a decomposition
// plan for a task.
type PlanContext struct {
	Task               types.Task
	Epoch              uint64
	AvailableAgents    uint64
	BranchingFactor    uint32
	KnownCapabilities  []string
}

// PlanGenerator abstracts the LLM/AI backend that turns a task into a
// decomposition plan. Implementations may call out to different
// models; the RFP coordinator never depends on a concrete backend.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, pc PlanContext) (types.Plan, error)
}

// RfpPhase is the state of one RFP round.
type RfpPhase int

const (
	RfpIdle RfpPhase = iota
	RfpCommitPhase
	RfpRevealPhase
	RfpReadyForVoting
	RfpCompleted
)

func (p RfpPhase) String() string {
	switch p {
	case RfpIdle:
		return "Idle"
	case RfpCommitPhase:
		return "CommitPhase"
	case RfpRevealPhase:
		return "RevealPhase"
	case RfpReadyForVoting:
		return "ReadyForVoting"
	case RfpCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

type pendingCommit struct {
	proposer    identity.AgentId
	planHash    string
	committedAt time.Time
}

// RevealedProposal is a fully revealed, hash-verified plan.
type RevealedProposal struct {
	Proposer identity.AgentId
	Plan     types.Plan
	PlanHash string
}

// RfpCoordinator drives a single task's Request-for-Proposal round
// through commit, reveal, and finalization.
//
// Lifecycle: InjectTask -> RecordCommit* -> (auto or TransitionToReveal)
// -> RecordReveal* -> Finalize.
type RfpCoordinator struct {
	taskID            string
	epoch             uint64
	phase             RfpPhase
	commits           map[identity.AgentId]pendingCommit
	reveals           map[identity.AgentId]RevealedProposal
	commitStartedAt   *time.Time
	commitTimeout     time.Duration
	expectedProposers int
	log               swarmlog.Logger
	now               func() time.Time
}

// NewRfpCoordinator creates a coordinator for taskID, waiting for
// expectedProposers commits before auto-transitioning to reveal.
func NewRfpCoordinator(taskID string, epoch uint64, expectedProposers int, log swarmlog.Logger) *RfpCoordinator {
	return &RfpCoordinator{
		taskID:            taskID,
		epoch:             epoch,
		phase:             RfpIdle,
		commits:           make(map[identity.AgentId]pendingCommit),
		reveals:           make(map[identity.AgentId]RevealedProposal),
		commitTimeout:     protocol.CommitRevealTimeout,
		expectedProposers: expectedProposers,
		log:               swarmlog.OrNoOp(log),
		now:               time.Now,
	}
}

// InjectTask starts the RFP, moving Idle -> CommitPhase.
func (c *RfpCoordinator) InjectTask(task types.Task) error {
	if c.phase != RfpIdle {
		return &RfpFailedError{Reason: "cannot inject task in phase " + c.phase.String()}
	}
	if task.TaskID != c.taskID {
		return &TaskNotFoundError{TaskID: c.taskID}
	}

	c.phase = RfpCommitPhase
	now := c.now()
	c.commitStartedAt = &now
	c.log.Info("rfp commit phase started")
	return nil
}

// RecordCommit records a proposer's plan-hash commit. Auto-transitions
// to RevealPhase once expectedProposers commits are in.
func (c *RfpCoordinator) RecordCommit(params protocol.ProposalCommitParams) error {
	if c.phase != RfpCommitPhase {
		return &RfpFailedError{Reason: "not in commit phase (currently " + c.phase.String() + ")"}
	}
	if params.TaskID != c.taskID {
		return &TaskNotFoundError{TaskID: c.taskID}
	}
	if params.Epoch != c.epoch {
		return &EpochMismatchError{Expected: c.epoch, Got: params.Epoch}
	}
	if _, exists := c.commits[params.Proposer]; exists {
		return &DuplicateCommitError{TaskID: c.taskID, Proposer: string(params.Proposer)}
	}

	c.commits[params.Proposer] = pendingCommit{
		proposer:    params.Proposer,
		planHash:    params.PlanHash,
		committedAt: c.now(),
	}

	if len(c.commits) >= c.expectedProposers {
		c.phase = RfpRevealPhase
		c.log.Info("all commits received, transitioning to reveal phase")
	}
	return nil
}

// TransitionToReveal manually moves CommitPhase -> RevealPhase, used
// on a commit-phase timeout when expectedProposers is only a soft
// target that not every proposer reached.
func (c *RfpCoordinator) TransitionToReveal() error {
	if c.phase != RfpCommitPhase {
		return &RfpFailedError{Reason: "cannot transition to reveal from " + c.phase.String()}
	}
	if len(c.commits) == 0 {
		return ErrNoProposals
	}
	c.phase = RfpRevealPhase
	c.log.Info("transitioning to reveal phase (timeout or manual)")
	return nil
}

// IsCommitTimedOut reports whether the commit phase has exceeded its
// configured timeout.
func (c *RfpCoordinator) IsCommitTimedOut() bool {
	if c.commitStartedAt == nil {
		return false
	}
	return c.now().Sub(*c.commitStartedAt) >= c.commitTimeout
}

// RecordReveal records a proposer's revealed plan, verifying it
// matches the earlier commit hash.
func (c *RfpCoordinator) RecordReveal(params protocol.ProposalRevealParams) error {
	if c.phase != RfpRevealPhase {
		return &RfpFailedError{Reason: "not in reveal phase (currently " + c.phase.String() + ")"}
	}
	if params.TaskID != c.taskID {
		return &TaskNotFoundError{TaskID: c.taskID}
	}

	proposer := params.Plan.Proposer
	commit, ok := c.commits[proposer]
	if !ok {
		return &RfpFailedError{Reason: "no commit found for proposer " + string(proposer)}
	}

	computedHash, err := ComputePlanHash(params.Plan)
	if err != nil {
		return err
	}
	if computedHash != commit.planHash {
		return &HashMismatchError{Expected: commit.planHash, Got: computedHash}
	}

	c.reveals[proposer] = RevealedProposal{
		Proposer: proposer,
		Plan:     params.Plan,
		PlanHash: computedHash,
	}

	if len(c.reveals) >= len(c.commits) {
		c.phase = RfpReadyForVoting
		c.log.Info("all proposals revealed, ready for voting")
	}
	return nil
}

// Finalize closes the round and returns every verified proposal for
// handoff to voting.
func (c *RfpCoordinator) Finalize() ([]RevealedProposal, error) {
	if c.phase != RfpReadyForVoting && c.phase != RfpRevealPhase {
		return nil, &RfpFailedError{Reason: "cannot finalize in phase " + c.phase.String()}
	}
	if len(c.reveals) == 0 {
		return nil, ErrNoProposals
	}

	c.phase = RfpCompleted
	proposals := make([]RevealedProposal, 0, len(c.reveals))
	for _, r := range c.reveals {
		proposals = append(proposals, r)
	}
	c.log.Info("rfp finalized")
	return proposals, nil
}

// Phase returns the coordinator's current phase.
func (c *RfpCoordinator) Phase() RfpPhase { return c.phase }

// TaskID returns the task this coordinator is running an RFP for.
func (c *RfpCoordinator) TaskID() string { return c.taskID }

// CommitCount returns the number of commits received so far.
func (c *RfpCoordinator) CommitCount() int { return len(c.commits) }

// RevealCount returns the number of reveals received so far.
func (c *RfpCoordinator) RevealCount() int { return len(c.reveals) }

// ComputePlanHash hashes a plan's canonical JSON encoding for use in
// the commit phase. Proposers call this to produce the hash they
// commit; RecordReveal recomputes it to verify the later reveal.
func ComputePlanHash(plan types.Plan) (string, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(planJSON)
	return hex.EncodeToString(sum[:]), nil
}
