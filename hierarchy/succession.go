package hierarchy

import (
	"sort"
	"time"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
)

// LeaderStatus tracks a monitored leader's liveness.
type LeaderStatus struct {
	LeaderID               identity.AgentId
	LastSeen               time.Time
	Score                  *identity.NodeScore
	SuccessionInProgress   bool
}

// SuccessionCandidate is one branch member competing to replace a
// failed leader.
type SuccessionCandidate struct {
	AgentID           identity.AgentId
	Score             identity.NodeScore
	ConfirmationVotes uint32
}

// SuccessionResult is the finalized outcome of a confirmed succession.
type SuccessionResult struct {
	FailedLeader identity.AgentId
	NewLeader    identity.AgentId
	BranchAgents []identity.AgentId
	Epoch        uint64
}

// SuccessionManager monitors Tier-1 leader liveness via keep-alives
// and runs the succession election when a leader times out.
type SuccessionManager struct {
	timeout            time.Duration
	keepAliveInterval  time.Duration
	leaders            map[identity.AgentId]*LeaderStatus
	activeSuccessions  map[identity.AgentId][]*SuccessionCandidate
	branches           map[identity.AgentId][]identity.AgentId
	log                swarmlog.Logger
	now                func() time.Time
}

// NewSuccessionManager creates a SuccessionManager using the default
// protocol keep-alive interval and leader timeout.
func NewSuccessionManager(log swarmlog.Logger) *SuccessionManager {
	return NewSuccessionManagerWithTimeouts(protocol.LeaderTimeout, protocol.KeepAliveInterval, log)
}

// NewSuccessionManagerWithTimeouts creates a SuccessionManager with
// explicit timeout and keep-alive interval values.
func NewSuccessionManagerWithTimeouts(timeout, keepAliveInterval time.Duration, log swarmlog.Logger) *SuccessionManager {
	return &SuccessionManager{
		timeout:           timeout,
		keepAliveInterval: keepAliveInterval,
		leaders:           make(map[identity.AgentId]*LeaderStatus),
		activeSuccessions: make(map[identity.AgentId][]*SuccessionCandidate),
		branches:          make(map[identity.AgentId][]identity.AgentId),
		log:               swarmlog.OrNoOp(log),
		now:               time.Now,
	}
}

// MonitorLeader registers leaderID to be watched for keep-alive timeouts.
func (m *SuccessionManager) MonitorLeader(leaderID identity.AgentId, score *identity.NodeScore) {
	m.leaders[leaderID] = &LeaderStatus{
		LeaderID: leaderID,
		LastSeen: m.now(),
		Score:    score,
	}
}

// UnmonitorLeader stops tracking leaderID entirely.
func (m *SuccessionManager) UnmonitorLeader(leaderID identity.AgentId) {
	delete(m.leaders, leaderID)
	delete(m.activeSuccessions, leaderID)
	delete(m.branches, leaderID)
}

// RecordKeepAlive marks leaderID as seen just now, cancelling any
// in-flight succession if the leader has recovered.
func (m *SuccessionManager) RecordKeepAlive(leaderID identity.AgentId) {
	status, ok := m.leaders[leaderID]
	if !ok {
		return
	}
	status.LastSeen = m.now()
	if status.SuccessionInProgress {
		m.log.Info("leader recovered, cancelling succession")
		status.SuccessionInProgress = false
		delete(m.activeSuccessions, leaderID)
	}
}

// SetBranch updates the branch membership monitored for leaderID's succession.
func (m *SuccessionManager) SetBranch(leaderID identity.AgentId, agents []identity.AgentId) {
	m.branches[leaderID] = agents
}

// CheckTimeouts returns every monitored leader whose last keep-alive
// exceeds the configured timeout, and marks them as succession-in-progress.
func (m *SuccessionManager) CheckTimeouts() []identity.AgentId {
	now := m.now()
	var timedOut []identity.AgentId

	for leaderID, status := range m.leaders {
		if status.SuccessionInProgress {
			continue
		}
		if now.Sub(status.LastSeen) > m.timeout {
			timedOut = append(timedOut, leaderID)
		}
	}

	for _, leaderID := range timedOut {
		m.leaders[leaderID].SuccessionInProgress = true
	}
	return timedOut
}

// InitiateSuccession ranks branchScores by composite score and
// proposes the highest-scored agent as the new leader.
func (m *SuccessionManager) InitiateSuccession(failedLeader identity.AgentId, branchScores []identity.NodeScore) (identity.AgentId, error) {
	if len(branchScores) == 0 {
		return "", &LeaderTimeoutError{AgentID: string(failedLeader)}
	}

	candidates := make([]*SuccessionCandidate, len(branchScores))
	for i, score := range branchScores {
		candidates[i] = &SuccessionCandidate{AgentID: score.AgentId, Score: score}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score.CompositeScore() > candidates[j].Score.CompositeScore()
	})

	proposed := candidates[0].AgentID
	m.activeSuccessions[failedLeader] = candidates
	m.log.Info("succession initiated")
	return proposed, nil
}

// RecordSuccessionVote records a confirmation vote for candidateID in
// the succession for failedLeader. Returns a non-nil result once the
// candidate has a simple majority of the branch.
func (m *SuccessionManager) RecordSuccessionVote(failedLeader, candidateID identity.AgentId, epoch uint64) (*SuccessionResult, error) {
	candidates, ok := m.activeSuccessions[failedLeader]
	if !ok {
		return nil, &ElectionFailedError{Reason: "no active succession for " + string(failedLeader)}
	}

	branchSize := 1
	if branch, ok := m.branches[failedLeader]; ok {
		branchSize = len(branch)
	}
	majorityThreshold := branchSize/2 + 1

	found := false
	var confirmedVotes uint32
	for _, c := range candidates {
		if c.AgentID == candidateID {
			found = true
			c.ConfirmationVotes++
			if int(c.ConfirmationVotes) >= majorityThreshold {
				confirmedVotes = c.ConfirmationVotes
			}
			break
		}
	}

	if !found {
		return nil, &AgentNotFoundError{AgentID: string(candidateID)}
	}

	if confirmedVotes == 0 {
		return nil, nil
	}

	branchAgents := m.branches[failedLeader]
	result := &SuccessionResult{
		FailedLeader: failedLeader,
		NewLeader:    candidateID,
		BranchAgents: branchAgents,
		Epoch:        epoch,
	}

	delete(m.activeSuccessions, failedLeader)
	if status, ok := m.leaders[failedLeader]; ok {
		status.SuccessionInProgress = false
	}
	m.log.Info("succession confirmed")
	return result, nil
}

// KeepAliveInterval returns the configured keep-alive interval.
func (m *SuccessionManager) KeepAliveInterval() time.Duration {
	return m.keepAliveInterval
}

// Timeout returns the configured leader timeout.
func (m *SuccessionManager) Timeout() time.Duration {
	return m.timeout
}

// IsSuccessionInProgress reports whether a succession is active for leaderID.
func (m *SuccessionManager) IsSuccessionInProgress(leaderID identity.AgentId) bool {
	_, ok := m.activeSuccessions[leaderID]
	return ok
}
