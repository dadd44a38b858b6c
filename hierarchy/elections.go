package hierarchy

import (
	"sort"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
)

// ElectionConfig parameterizes a Tier-1 election round.
type ElectionConfig struct {
	MinCandidacyScore float64
	MinUptime         float64
	Tier1Slots        uint32
	MaxCandidates     int
}

// DefaultElectionConfig returns the configuration used when no
// override is supplied.
func DefaultElectionConfig() ElectionConfig {
	return ElectionConfig{
		MinCandidacyScore: 0.3,
		MinUptime:         0.5,
		Tier1Slots:        10,
		MaxCandidates:     100,
	}
}

// Candidate is a registered election candidate with its computed
// composite score.
type Candidate struct {
	AgentID   identity.AgentId
	Score     identity.NodeScore
	Composite float64
}

// ElectionResult is the finalized outcome of one election round.
type ElectionResult struct {
	Epoch      uint64
	Leaders    []identity.AgentId
	Tallies    map[identity.AgentId]float64
	TotalVotes int
}

// ElectionManager runs the candidacy / voting / tally lifecycle for a
// single Tier-1 election epoch.
type ElectionManager struct {
	config        ElectionConfig
	currentEpoch  uint64
	candidates    map[identity.AgentId]Candidate
	votes         map[identity.AgentId]protocol.ElectionVoteParams
	finalized     bool
	result        *ElectionResult
	log           swarmlog.Logger
}

// NewElectionManager creates an ElectionManager for the given epoch.
func NewElectionManager(config ElectionConfig, epoch uint64, log swarmlog.Logger) *ElectionManager {
	return &ElectionManager{
		config:       config,
		currentEpoch: epoch,
		candidates:   make(map[identity.AgentId]Candidate),
		votes:        make(map[identity.AgentId]protocol.ElectionVoteParams),
		log:          swarmlog.OrNoOp(log),
	}
}

// RegisterCandidate validates and records a candidacy announcement.
func (m *ElectionManager) RegisterCandidate(params protocol.CandidacyParams) error {
	if m.finalized {
		return &ElectionFailedError{Reason: "election already finalized"}
	}
	if params.Epoch != m.currentEpoch {
		return &EpochMismatchError{Expected: m.currentEpoch, Got: params.Epoch}
	}

	composite := params.Score.CompositeScore()
	if composite < m.config.MinCandidacyScore {
		return &ElectionFailedError{Reason: "candidate score below minimum"}
	}
	if params.Score.Uptime < m.config.MinUptime {
		return &ElectionFailedError{Reason: "candidate uptime below minimum"}
	}

	if len(m.candidates) >= m.config.MaxCandidates {
		weakestID, weakestScore, found := m.weakestCandidate()
		if found && composite > weakestScore {
			delete(m.candidates, weakestID)
		} else {
			return &ElectionFailedError{Reason: "max candidates reached and score is not high enough"}
		}
	}

	m.candidates[params.AgentID] = Candidate{
		AgentID:   params.AgentID,
		Score:     params.Score,
		Composite: composite,
	}
	m.log.Debug("registered election candidate")
	return nil
}

func (m *ElectionManager) weakestCandidate() (identity.AgentId, float64, bool) {
	var (
		id    identity.AgentId
		score float64
		found bool
	)
	for _, c := range m.candidates {
		if !found || c.Composite < score {
			id, score, found = c.AgentID, c.Composite, true
		}
	}
	return id, score, found
}

// RecordVote records (or overwrites) a voter's ranked ballot.
func (m *ElectionManager) RecordVote(vote protocol.ElectionVoteParams) error {
	if m.finalized {
		return &ElectionFailedError{Reason: "election already finalized"}
	}
	if vote.Epoch != m.currentEpoch {
		return &EpochMismatchError{Expected: m.currentEpoch, Got: vote.Epoch}
	}
	m.votes[vote.Voter] = vote
	m.log.Debug("recorded election vote")
	return nil
}

// TallyAndElect tallies all recorded votes with weighted Borda count
// and finalizes the election, electing the top Tier1Slots candidates.
//
// Voter weight is the voter's own composite score if they are also a
// registered candidate, otherwise 1.0 — this asymmetry is intentional
// and preserved from the reference implementation: non-candidate
// voters always count as weight 1.0 regardless of their own standing.
func (m *ElectionManager) TallyAndElect() (ElectionResult, error) {
	if len(m.candidates) == 0 {
		return ElectionResult{}, ErrNoCandidates
	}

	tallies := make(map[identity.AgentId]float64, len(m.candidates))
	for id := range m.candidates {
		tallies[id] = 0.0
	}

	for _, vote := range m.votes {
		voterWeight := 1.0
		if c, ok := m.candidates[vote.Voter]; ok {
			voterWeight = c.Composite
		}
		numRankings := len(vote.CandidateRankings)
		for rank, candidateID := range vote.CandidateRankings {
			if _, ok := tallies[candidateID]; !ok {
				continue
			}
			points := float64(satSubInt(numRankings, rank+1)) * voterWeight
			tallies[candidateID] += points
		}
	}

	type ranked struct {
		id    identity.AgentId
		tally float64
	}
	rankedList := make([]ranked, 0, len(tallies))
	for id, tally := range tallies {
		rankedList = append(rankedList, ranked{id, tally})
	}
	sort.Slice(rankedList, func(i, j int) bool {
		if rankedList[i].tally != rankedList[j].tally {
			return rankedList[i].tally > rankedList[j].tally
		}
		return m.candidates[rankedList[i].id].Composite > m.candidates[rankedList[j].id].Composite
	})

	slots := int(m.config.Tier1Slots)
	if slots > len(rankedList) {
		slots = len(rankedList)
	}
	leaders := make([]identity.AgentId, 0, slots)
	for _, r := range rankedList[:slots] {
		leaders = append(leaders, r.id)
	}

	result := ElectionResult{
		Epoch:      m.currentEpoch,
		Leaders:    leaders,
		Tallies:    tallies,
		TotalVotes: len(m.votes),
	}
	m.finalized = true
	m.result = &result
	m.log.Info("election completed")
	return result, nil
}

func satSubInt(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

// Result returns the finalized election result, if any.
func (m *ElectionManager) Result() (ElectionResult, bool) {
	if m.result == nil {
		return ElectionResult{}, false
	}
	return *m.result, true
}

// IsFinalized reports whether TallyAndElect has run.
func (m *ElectionManager) IsFinalized() bool {
	return m.finalized
}

// CandidateCount returns the number of registered candidates.
func (m *ElectionManager) CandidateCount() int {
	return len(m.candidates)
}

// VoteCount returns the number of votes received.
func (m *ElectionManager) VoteCount() int {
	return len(m.votes)
}

// Epoch returns this election's epoch.
func (m *ElectionManager) Epoch() uint64 {
	return m.currentEpoch
}

// SetTier1Slots updates the number of Tier-1 seats, called when the
// pyramid layout changes.
func (m *ElectionManager) SetTier1Slots(slots uint32) {
	m.config.Tier1Slots = slots
}
