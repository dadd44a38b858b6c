// Package hierarchy implements the dynamic pyramid allocation,
// weighted-reputation elections, geo-aware clustering, leader
// succession, and epoch lifecycle that together organize the swarm
// into a tree of coordinators overseeing executors.
package hierarchy

import (
	"math"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
)

// PyramidConfig parameterizes a PyramidAllocator.
type PyramidConfig struct {
	BranchingFactor uint32
	MaxDepth        uint32
}

// DefaultPyramidConfig returns the configuration used when no override
// is supplied: k from protocol.DefaultBranchingFactor, depth capped at
// protocol.MaxHierarchyDepth.
func DefaultPyramidConfig() PyramidConfig {
	return PyramidConfig{
		BranchingFactor: protocol.DefaultBranchingFactor,
		MaxDepth:        protocol.MaxHierarchyDepth,
	}
}

// PyramidLayout is the outcome of allocating swarmSize agents across
// tiers with a given branching factor.
type PyramidLayout struct {
	Depth           uint32
	Tier1Count      uint32
	AgentsPerTier   []uint32
	SwarmSize       uint64
	BranchingFactor uint32
}

// TierDistribution is the result of the static Distribute function.
type TierDistribution struct {
	Tiers []uint64
}

// PyramidAllocator computes and holds the current hierarchy layout for
// a swarm of a given size and branching factor.
type PyramidAllocator struct {
	config        PyramidConfig
	currentLayout *PyramidLayout
}

// NewPyramidAllocator creates an allocator with the given configuration.
func NewPyramidAllocator(config PyramidConfig) *PyramidAllocator {
	return &PyramidAllocator{config: config}
}

// NewDefaultPyramidAllocator creates an allocator using DefaultPyramidConfig.
func NewDefaultPyramidAllocator() *PyramidAllocator {
	return NewPyramidAllocator(DefaultPyramidConfig())
}

// ComputeDepth returns D = ceil(log_k(N)), clamped to [1, max_depth].
func (a *PyramidAllocator) ComputeDepth(swarmSize uint64) uint32 {
	if swarmSize <= 1 {
		return 1
	}
	k := float64(a.config.BranchingFactor)
	n := float64(swarmSize)
	depth := uint32(math.Ceil(math.Log(n) / math.Log(k)))
	return clampU32(depth, 1, a.config.MaxDepth)
}

// ComputeLayout computes the full tier-by-tier agent distribution for
// swarmSize agents.
func (a *PyramidAllocator) ComputeLayout(swarmSize uint64) (PyramidLayout, error) {
	depth := a.ComputeDepth(swarmSize)
	if depth > a.config.MaxDepth {
		return PyramidLayout{}, &MaxDepthExceededError{MaxDepth: a.config.MaxDepth}
	}

	k := a.config.BranchingFactor
	agentsPerTier := make([]uint32, 0, depth)
	remaining := swarmSize

	var tier1Count uint32
	if depth <= 1 {
		tier1Count = uint32(swarmSize)
	} else {
		divisor := uint64(math.Pow(float64(k), float64(depth-1)))
		tier1Count = uint32((swarmSize + divisor - 1) / divisor)
	}
	agentsPerTier = append(agentsPerTier, tier1Count)
	remaining = satSub(remaining, uint64(tier1Count))

	for tierIdx := uint32(1); tierIdx < satSubU32(depth, 1); tierIdx++ {
		count := minU32(agentsPerTier[tierIdx-1]*k, uint32(remaining))
		agentsPerTier = append(agentsPerTier, count)
		remaining = satSub(remaining, uint64(count))
	}

	if depth > 1 {
		agentsPerTier = append(agentsPerTier, uint32(remaining))
	}

	return PyramidLayout{
		Depth:           depth,
		Tier1Count:      tier1Count,
		AgentsPerTier:   agentsPerTier,
		SwarmSize:       swarmSize,
		BranchingFactor: k,
	}, nil
}

// Recompute computes the layout for swarmSize and stores it as the
// allocator's current layout.
func (a *PyramidAllocator) Recompute(swarmSize uint64) (PyramidLayout, error) {
	layout, err := a.ComputeLayout(swarmSize)
	if err != nil {
		return PyramidLayout{}, err
	}
	a.currentLayout = &layout
	return layout, nil
}

// CurrentLayout returns the most recently computed layout, if any.
func (a *PyramidAllocator) CurrentLayout() (PyramidLayout, bool) {
	if a.currentLayout == nil {
		return PyramidLayout{}, false
	}
	return *a.currentLayout, true
}

// AssignTier determines an agent's tier from its rank (0-indexed,
// agents sorted by composite score descending) within layout.
func (a *PyramidAllocator) AssignTier(rank int, layout PyramidLayout) identity.Tier {
	var cumulative uint32
	lastTierIdx := len(layout.AgentsPerTier) - 1
	for tierIdx, count := range layout.AgentsPerTier {
		cumulative += count
		if uint32(rank) < cumulative {
			switch {
			case tierIdx == 0 && len(layout.AgentsPerTier) == 1:
				return identity.Executor
			case tierIdx == 0:
				return identity.Tier1
			case tierIdx == lastTierIdx:
				return identity.Executor
			case tierIdx == 1:
				return identity.Tier2
			default:
				return identity.TierN(uint32(tierIdx) + 1)
			}
		}
	}
	return identity.Executor
}

// ComputeParentIndex returns which tier-above node oversees the given
// in-tier rank, grouping agents into branches of size k.
func (a *PyramidAllocator) ComputeParentIndex(agentRankInTier int) int {
	return agentRankInTier / int(a.config.BranchingFactor)
}

// BranchingFactor returns k.
func (a *PyramidAllocator) BranchingFactor() uint32 {
	return a.config.BranchingFactor
}

// MaxDepth returns the configured maximum hierarchy depth.
func (a *PyramidAllocator) MaxDepth() uint32 {
	return a.config.MaxDepth
}

// ComputeDepthStatic is the stateless form of ComputeDepth: returns 0
// for n == 0, 1 for n <= 1, and for k <= 1 degenerates to a linear
// chain capped at protocol.MaxHierarchyDepth.
func ComputeDepthStatic(n, k uint64) uint32 {
	if n == 0 {
		return 0
	}
	if n <= 1 {
		return 1
	}
	if k <= 1 {
		return minU32(uint32(n), protocol.MaxHierarchyDepth)
	}
	depth := uint32(math.Ceil(math.Log(float64(n)) / math.Log(float64(k))))
	return clampU32(depth, 1, protocol.MaxHierarchyDepth)
}

// Distribute spreads n agents across tiers with branching factor k,
// stateless. The sum of the returned Tiers slice equals n.
func Distribute(n, k uint64) TierDistribution {
	if n == 0 {
		return TierDistribution{}
	}
	depth := ComputeDepthStatic(n, k)
	if depth == 0 {
		return TierDistribution{}
	}
	if depth == 1 {
		return TierDistribution{Tiers: []uint64{n}}
	}

	tiers := make([]uint64, 0, depth)
	remaining := n

	tier1 := minU64(k, n)
	tiers = append(tiers, tier1)
	remaining -= tier1

	for i := uint32(1); i < satSubU32(depth, 1); i++ {
		above := tiers[i-1]
		ideal := above * k
		count := minU64(ideal, remaining)
		tiers = append(tiers, count)
		remaining -= count
	}

	if depth > 1 {
		tiers = append(tiers, remaining)
	}

	return TierDistribution{Tiers: tiers}
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func satSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func satSubU32(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
