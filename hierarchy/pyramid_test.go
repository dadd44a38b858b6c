package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
)

func TestDepthSingleAgent(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	assert.Equal(t, uint32(1), a.ComputeDepth(1))
}

func TestDepthSmallNetwork(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	assert.Equal(t, uint32(1), a.ComputeDepth(10))
	assert.Equal(t, uint32(2), a.ComputeDepth(11))
	assert.Equal(t, uint32(2), a.ComputeDepth(100))
	assert.Equal(t, uint32(3), a.ComputeDepth(101))
}

func TestDepthLargeNetwork(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	assert.Equal(t, uint32(4), a.ComputeDepth(10_000))
	assert.Equal(t, uint32(6), a.ComputeDepth(1_000_000))
}

func TestLayout100Agents(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	layout, err := a.ComputeLayout(100)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), layout.Depth)
	assert.Equal(t, uint32(10), layout.Tier1Count)
	assert.Len(t, layout.AgentsPerTier, 2)
}

func TestTierAssignment(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	layout, err := a.ComputeLayout(100)
	require.NoError(t, err)
	assert.True(t, identity.Tier1.Equal(a.AssignTier(0, layout)))
	assert.True(t, identity.Tier1.Equal(a.AssignTier(9, layout)))
	assert.True(t, identity.Executor.Equal(a.AssignTier(10, layout)))
}

func TestParentIndex(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	assert.Equal(t, 0, a.ComputeParentIndex(0))
	assert.Equal(t, 0, a.ComputeParentIndex(9))
	assert.Equal(t, 1, a.ComputeParentIndex(10))
	assert.Equal(t, 2, a.ComputeParentIndex(25))
}

func TestDistributeSumsToN(t *testing.T) {
	dist := Distribute(237, 10)
	var sum uint64
	for _, v := range dist.Tiers {
		sum += v
	}
	assert.Equal(t, uint64(237), sum)
}

func TestComputeDepthStaticEdgeCases(t *testing.T) {
	assert.Equal(t, uint32(0), ComputeDepthStatic(0, 10))
	assert.Equal(t, uint32(1), ComputeDepthStatic(1, 10))
}

func TestRecomputeStoresLayout(t *testing.T) {
	a := NewDefaultPyramidAllocator()
	_, ok := a.CurrentLayout()
	assert.False(t, ok)
	_, err := a.Recompute(50)
	require.NoError(t, err)
	layout, ok := a.CurrentLayout()
	assert.True(t, ok)
	assert.Equal(t, uint64(50), layout.SwarmSize)
}
