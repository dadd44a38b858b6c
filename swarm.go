// Package swarm provides a clean, single-import interface to the
// OpenSwarm coordination substrate: hierarchy allocation and
// elections, RFP/IRV/cascade consensus, and the orchestrator event
// loop that wires them to a transport.
//
// For wire-level protocol types, import
// github.com/Good-karma-lab/OpenSwarm-sub000/protocol directly.
package swarm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Good-karma-lab/OpenSwarm-sub000/consensus"
	"github.com/Good-karma-lab/OpenSwarm-sub000/hierarchy"
	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/orchestrator"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/transport"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// Type aliases for a clean single-import experience.
type (
	// Orchestrator types
	Orchestrator = orchestrator.Orchestrator
	Config       = orchestrator.Config

	// Identity types
	AgentId    = identity.AgentId
	Tier       = identity.Tier
	NodeScore  = identity.NodeScore
	AgentProfile = identity.AgentProfile

	// Core data-model types
	Task   = types.Task
	Plan   = types.Plan
	Artifact = types.Artifact

	// Consensus types
	RfpCoordinator = consensus.RfpCoordinator
	VotingEngine   = consensus.VotingEngine
	VotingConfig   = consensus.VotingConfig
	CascadeEngine  = consensus.CascadeEngine
	RfpPhase       = consensus.RfpPhase

	// Hierarchy types
	PyramidAllocator  = hierarchy.PyramidAllocator
	ElectionManager   = hierarchy.ElectionManager
	EpochManager      = hierarchy.EpochManager
	SuccessionManager = hierarchy.SuccessionManager

	// Transport boundary
	Transport = transport.Transport
)

// Tier constructors re-exported for convenience.
var (
	Tier1    = identity.Tier1
	Tier2    = identity.Tier2
	Executor = identity.Executor
	TierN    = identity.TierN
)

// RFP phase constants re-exported for convenience.
const (
	RfpIdle          = consensus.RfpIdle
	RfpCommitPhase   = consensus.RfpCommitPhase
	RfpRevealPhase   = consensus.RfpRevealPhase
	RfpReadyForVoting = consensus.RfpReadyForVoting
	RfpCompleted     = consensus.RfpCompleted
)

// New builds an Orchestrator for a single agent, wiring transport tr
// under config. Equivalent to orchestrator.New; re-exported here so
// callers of this package never need a second import.
func New(config Config, tr Transport, log swarmlog.Logger, reg prometheus.Registerer) *Orchestrator {
	return orchestrator.New(config, tr, log, reg)
}

// DefaultConfig returns the configuration used when no override is
// supplied.
func DefaultConfig(selfID AgentId) Config {
	return orchestrator.DefaultConfig(selfID)
}

// DefaultVotingConfig returns the default IRV voting configuration.
func DefaultVotingConfig() VotingConfig {
	return consensus.DefaultVotingConfig()
}
