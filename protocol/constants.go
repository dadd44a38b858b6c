// Package protocol defines the wire-level constants, JSON-RPC
// envelope, and narrow signing interfaces shared by the other
// packages. Of this module's packages it imports only identity and
// types (for the per-method param structs).
package protocol

import "time"

// Hierarchy and timing defaults, mirrored across every component that
// does not receive an explicit override.
const (
	// DefaultBranchingFactor (k) is how many subordinate nodes each
	// coordinator oversees in the pyramidal hierarchy.
	DefaultBranchingFactor uint32 = 10

	// DefaultEpochDuration is the default length of one epoch window.
	DefaultEpochDuration = time.Hour

	// KeepAliveInterval is how often a live agent re-announces itself.
	KeepAliveInterval = 10 * time.Second

	// LeaderTimeout is how long a leader may stay silent before
	// succession election is triggered.
	LeaderTimeout = 30 * time.Second

	// CommitRevealTimeout is the default commit-phase length after which
	// RfpCoordinator.IsCommitTimedOut reports true; the coordinator does
	// not move to reveal on its own when it elapses.
	CommitRevealTimeout = 60 * time.Second

	// VotingTimeout bounds the voting phase of the RFP protocol.
	VotingTimeout = 120 * time.Second

	// MaxHierarchyDepth bounds pyramid depth to prevent runaway
	// recursive decomposition.
	MaxHierarchyDepth uint32 = 10

	// TopicPrefix namespaces every pub/sub topic this swarm uses.
	TopicPrefix = "/openswarm/1.0.0"

	// JSONRPCVersion is the JSON-RPC envelope version this protocol uses.
	JSONRPCVersion = "2.0"

	// ProtocolVersion identifies this wire protocol to peers during handshake.
	ProtocolVersion = "/openswarm/aether/1.0.0"

	// ProofOfWorkDifficulty is the number of required leading zero bits.
	ProofOfWorkDifficulty uint32 = 16
)
