// Package granularity implements the adaptive decomposition-depth
// algorithm: given how many agents are available in a branch and the
// hierarchy's branching factor, decide whether a task should be
// decomposed further, and if so into how many subtasks, or executed
// atomically with redundant executors for reliability.
package granularity

import (
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
)

// DecompositionStrategy classifies how a task should be decomposed at
// a given tier based on the ratio of branch size to branching factor.
type DecompositionStrategy int

const (
	// MassiveParallelism applies when branch_size > k^2: fan out
	// across many coordinators.
	MassiveParallelism DecompositionStrategy = iota
	// StandardDecomposition applies when k < branch_size <= k^2.
	StandardDecomposition
	// DirectAssignment applies when branch_size <= k: assign directly
	// to subordinate executors.
	DirectAssignment
	// RedundantExecution applies to atomic tasks run on several
	// executors, accepting the first or majority result.
	RedundantExecution
)

func (s DecompositionStrategy) String() string {
	switch s {
	case MassiveParallelism:
		return "MassiveParallelism"
	case StandardDecomposition:
		return "StandardDecomposition"
	case DirectAssignment:
		return "DirectAssignment"
	case RedundantExecution:
		return "RedundantExecution"
	default:
		return "Unknown"
	}
}

// OptimalSubtaskCount computes min(k, max(1, nBranch/k)), always at
// least 1 and never more than k.
func OptimalSubtaskCount(nBranch uint64, k uint32) uint32 {
	var raw uint64 = 1
	if k > 0 {
		raw = nBranch / uint64(k)
	}
	count := uint32(raw)
	if raw < 1 {
		count = 1
	}
	if count > k {
		count = k
	}
	if count < 1 {
		count = 1
	}
	return count
}

// SelectStrategy picks a DecompositionStrategy from branch size,
// branching factor, and whether the task is atomic.
//
// Decision order: an atomic task with more than one available agent
// uses RedundantExecution; an atomic task alone uses DirectAssignment;
// otherwise branch_size is compared against k and k^2.
func SelectStrategy(nBranch uint64, k uint32, isAtomic bool) DecompositionStrategy {
	if isAtomic {
		if nBranch > 1 {
			return RedundantExecution
		}
		return DirectAssignment
	}

	kU64 := uint64(k)
	switch {
	case nBranch > kU64*kU64:
		return MassiveParallelism
	case nBranch > kU64:
		return StandardDecomposition
	default:
		return DirectAssignment
	}
}

// RedundantExecutionCount returns min(nBranch, k), floored at 1.
func RedundantExecutionCount(nBranch uint64, k uint32) uint32 {
	capped := nBranch
	if capped > uint64(k) {
		capped = uint64(k)
	}
	count := uint32(capped)
	if count < 1 {
		count = 1
	}
	return count
}

// Config parameterizes the instance-based Algorithm.
type Config struct {
	BranchingFactor               uint32
	MinSubtasks                   uint32
	MaxSubtasks                   uint32
	RedundancyFactor              uint32
	DecomposeComplexityThreshold  float64
	MinBranchSizeForDecomposition uint64
}

// DefaultConfig returns the configuration used when no override is supplied.
func DefaultConfig() Config {
	return Config{
		BranchingFactor:               protocol.DefaultBranchingFactor,
		MinSubtasks:                   2,
		MaxSubtasks:                   protocol.DefaultBranchingFactor,
		RedundancyFactor:              3,
		DecomposeComplexityThreshold:  0.7,
		MinBranchSizeForDecomposition: 3,
	}
}

// DecisionKind distinguishes the two Decision variants.
type DecisionKind int

const (
	DecisionDecompose DecisionKind = iota
	DecisionExecuteAtomic
)

// Decision is the outcome of Algorithm.Compute: either decompose into
// SubtaskCount subtasks with AgentsPerSubtask agents each, or execute
// the task atomically with Redundancy executors.
type Decision struct {
	Kind             DecisionKind
	SubtaskCount     uint32
	AgentsPerSubtask uint64
	Redundancy       uint32
}

// Algorithm is the instance-based, configurable granularity decision
// engine for deciding how far to decompose a task as it descends the
// hierarchy. No other package in this module calls it.
type Algorithm struct {
	config Config
}

// New creates an Algorithm with the given configuration.
func New(config Config) *Algorithm {
	return &Algorithm{config: config}
}

// NewDefault creates an Algorithm using DefaultConfig.
func NewDefault() *Algorithm {
	return New(DefaultConfig())
}

// Config returns the algorithm's configuration.
func (a *Algorithm) Config() Config {
	return a.config
}

// Compute decides whether to decompose or execute atomically, given
// the branch's current agent count, the task's estimated complexity in
// [0,1], and the current/max decomposition depth.
func (a *Algorithm) Compute(branchSize uint64, estimatedComplexity float64, currentDepth, maxDepth uint32) Decision {
	k := uint64(a.config.BranchingFactor)

	if currentDepth >= maxDepth {
		return Decision{Kind: DecisionExecuteAtomic, Redundancy: a.computeRedundancy(branchSize)}
	}

	if branchSize < a.config.MinBranchSizeForDecomposition {
		return Decision{Kind: DecisionExecuteAtomic, Redundancy: a.computeRedundancy(branchSize)}
	}

	rawSubtasks := branchSize / k
	forceDecompose := estimatedComplexity >= a.config.DecomposeComplexityThreshold

	if rawSubtasks < uint64(a.config.MinSubtasks) && !forceDecompose {
		return Decision{Kind: DecisionExecuteAtomic, Redundancy: a.computeRedundancy(branchSize)}
	}

	subtaskCount := rawSubtasks
	if subtaskCount < uint64(a.config.MinSubtasks) {
		subtaskCount = uint64(a.config.MinSubtasks)
	}
	if subtaskCount > uint64(a.config.MaxSubtasks) {
		subtaskCount = uint64(a.config.MaxSubtasks)
	}

	return Decision{
		Kind:             DecisionDecompose,
		SubtaskCount:     uint32(subtaskCount),
		AgentsPerSubtask: branchSize / subtaskCount,
	}
}

func (a *Algorithm) computeRedundancy(branchSize uint64) uint32 {
	floor := branchSize
	if floor < 1 {
		floor = 1
	}
	redundancy := a.config.RedundancyFactor
	if uint64(redundancy) > floor {
		redundancy = uint32(floor)
	}
	return redundancy
}
