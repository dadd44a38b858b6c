package consensus

import (
	"math/rand"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// VotingConfig parameterizes the Instant Runoff Voting engine.
type VotingConfig struct {
	// SenateSize bounds the number of voters sampled for large swarms.
	SenateSize int
	// ProhibitSelfVote rejects a ballot whose first choice is the
	// voter's own proposal.
	ProhibitSelfVote bool
	// MinVotes is the minimum ballot count for a valid election.
	MinVotes int
	// SenateSeed, if non-nil, makes senate sampling reproducible.
	SenateSeed *int64
}

// DefaultVotingConfig mirrors the reference senate size and self-vote
// prohibition.
func DefaultVotingConfig() VotingConfig {
	return VotingConfig{
		SenateSize:       100,
		ProhibitSelfVote: true,
		MinVotes:         1,
	}
}

// VotingResult is the outcome of a completed IRV round.
type VotingResult struct {
	Winner             string
	Rounds             int
	EliminationOrder   []string
	FinalTallies       map[string]int
	TotalVotes         int
	WinnerCriticScore  *types.CriticScore
}

type ballot struct {
	voter             identity.AgentId
	remainingChoices  []string
	criticScores      map[string]types.CriticScore
}

// VotingEngine coordinates Ranked Choice Voting with Instant Runoff
// for plan selection on a single task/epoch.
//
// Lifecycle: SetProposals -> SelectSenate (optional) -> RecordVote* ->
// RunIRV.
type VotingEngine struct {
	config        VotingConfig
	taskID        string
	epoch         uint64
	proposalIDs   map[string]struct{}
	planProposers map[string]identity.AgentId
	ballots       []ballot
	senate        map[identity.AgentId]struct{}
	finalized     bool
}

// NewVotingEngine creates a voting engine for taskID in epoch.
func NewVotingEngine(config VotingConfig, taskID string, epoch uint64) *VotingEngine {
	return &VotingEngine{
		config:        config,
		taskID:        taskID,
		epoch:         epoch,
		proposalIDs:   make(map[string]struct{}),
		planProposers: make(map[string]identity.AgentId),
	}
}

// SetProposals registers the plan IDs eligible for voting, mapped to
// their proposer (used for self-vote checking).
func (v *VotingEngine) SetProposals(proposals map[string]identity.AgentId) {
	for planID, proposer := range proposals {
		v.proposalIDs[planID] = struct{}{}
		v.planProposers[planID] = proposer
	}
}

// SelectSenate picks the voters eligible to cast a ballot. If the
// eligible pool exceeds SenateSize, a random subset is sampled to keep
// voting overhead bounded.
func (v *VotingEngine) SelectSenate(eligibleVoters []identity.AgentId) {
	if len(eligibleVoters) <= v.config.SenateSize {
		senate := make(map[identity.AgentId]struct{}, len(eligibleVoters))
		for _, a := range eligibleVoters {
			senate[a] = struct{}{}
		}
		v.senate = senate
		return
	}

	var rng *rand.Rand
	if v.config.SenateSeed != nil {
		rng = rand.New(rand.NewSource(*v.config.SenateSeed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	voters := make([]identity.AgentId, len(eligibleVoters))
	copy(voters, eligibleVoters)
	rng.Shuffle(len(voters), func(i, j int) { voters[i], voters[j] = voters[j], voters[i] })

	senate := make(map[identity.AgentId]struct{}, v.config.SenateSize)
	for _, a := range voters[:v.config.SenateSize] {
		senate[a] = struct{}{}
	}
	v.senate = senate
}

// RecordVote validates and stores a ranked-choice ballot: senate
// membership (if sampling is active), self-vote prohibition, and that
// at least one ranked plan ID is a registered proposal.
func (v *VotingEngine) RecordVote(vote types.RankedVote) error {
	if v.finalized {
		return &VotingError{Reason: "voting already finalized"}
	}
	if vote.TaskID != v.taskID {
		return &TaskNotFoundError{TaskID: v.taskID}
	}
	if vote.Epoch != v.epoch {
		return &EpochMismatchError{Expected: v.epoch, Got: vote.Epoch}
	}

	if v.senate != nil {
		if _, ok := v.senate[vote.Voter]; !ok {
			return &VotingError{Reason: "agent " + string(vote.Voter) + " is not in the senate"}
		}
	}

	if v.config.ProhibitSelfVote && len(vote.Rankings) > 0 {
		firstChoice := vote.Rankings[0]
		if proposer, ok := v.planProposers[firstChoice]; ok && proposer == vote.Voter {
			return &SelfVoteProhibitedError{AgentID: string(vote.Voter)}
		}
	}

	validRankings := make([]string, 0, len(vote.Rankings))
	for _, id := range vote.Rankings {
		if _, ok := v.proposalIDs[id]; ok {
			validRankings = append(validRankings, id)
		}
	}
	if len(validRankings) == 0 {
		return &VotingError{Reason: "no valid proposals in rankings"}
	}

	v.ballots = append(v.ballots, ballot{
		voter:            vote.Voter,
		remainingChoices: validRankings,
		criticScores:     vote.CriticScores,
	})
	return nil
}

// RunIRV executes Instant Runoff Voting: while no plan holds a
// majority of remaining first-choice votes, the plan with the fewest
// first-choice votes is eliminated and its ballots fall through to
// their next preference.
func (v *VotingEngine) RunIRV() (VotingResult, error) {
	if len(v.ballots) < v.config.MinVotes {
		return VotingResult{}, ErrNoVotes
	}

	activeBallots := make([]ballot, len(v.ballots))
	copy(activeBallots, v.ballots)
	eliminated := make(map[string]struct{})
	var eliminationOrder []string
	round := 0

	for {
		round++

		tallies := make(map[string]int)
		for id := range v.proposalIDs {
			if _, out := eliminated[id]; !out {
				tallies[id] = 0
			}
		}

		validBallotCount := 0
		for _, b := range activeBallots {
			for _, choice := range b.remainingChoices {
				if _, out := eliminated[choice]; !out {
					tallies[choice]++
					validBallotCount++
					break
				}
			}
		}

		if len(tallies) == 0 || validBallotCount == 0 {
			return VotingResult{}, &VotingError{Reason: "all proposals eliminated with no winner"}
		}

		majorityThreshold := validBallotCount/2 + 1

		winner, count := leaderOf(tallies)
		if count >= majorityThreshold || len(tallies) == 1 {
			v.finalized = true
			return VotingResult{
				Winner:            winner,
				Rounds:            round,
				EliminationOrder:  eliminationOrder,
				FinalTallies:      tallies,
				TotalVotes:        len(v.ballots),
				WinnerCriticScore: v.aggregateCriticScores(winner),
			}, nil
		}

		loser := weakestOf(tallies)
		eliminated[loser] = struct{}{}
		eliminationOrder = append(eliminationOrder, loser)

		for i := range activeBallots {
			filtered := activeBallots[i].remainingChoices[:0]
			for _, id := range activeBallots[i].remainingChoices {
				if _, out := eliminated[id]; !out {
					filtered = append(filtered, id)
				}
			}
			activeBallots[i].remainingChoices = filtered
		}
	}
}

// leaderOf returns the key with the highest tally, breaking ties by
// lexicographic key order for determinism.
func leaderOf(tallies map[string]int) (string, int) {
	var best string
	bestCount := -1
	for id, count := range tallies {
		if count > bestCount || (count == bestCount && id < best) {
			best, bestCount = id, count
		}
	}
	return best, bestCount
}

// weakestOf returns the key with the lowest tally, breaking ties by
// lexicographic key order for determinism.
func weakestOf(tallies map[string]int) string {
	var worst string
	worstCount := -1
	for id, count := range tallies {
		if worstCount == -1 || count < worstCount || (count == worstCount && id < worst) {
			worst, worstCount = id, count
		}
	}
	return worst
}

func (v *VotingEngine) aggregateCriticScores(planID string) *types.CriticScore {
	var feasibility, parallelism, completeness, risk, count float64
	for _, b := range v.ballots {
		if score, ok := b.criticScores[planID]; ok {
			feasibility += score.Feasibility
			parallelism += score.Parallelism
			completeness += score.Completeness
			risk += score.Risk
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &types.CriticScore{
		Feasibility:  feasibility / count,
		Parallelism:  parallelism / count,
		Completeness: completeness / count,
		Risk:         risk / count,
	}
}

// BallotCount returns the number of ballots received.
func (v *VotingEngine) BallotCount() int { return len(v.ballots) }

// ProposalCount returns the number of registered proposals.
func (v *VotingEngine) ProposalCount() int { return len(v.proposalIDs) }

// IsFinalized reports whether RunIRV has already produced a winner.
func (v *VotingEngine) IsFinalized() bool { return v.finalized }
