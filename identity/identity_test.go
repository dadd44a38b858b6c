package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeScore(t *testing.T) {
	stake := 0.5
	score := NodeScore{
		AgentId:        NewAgentId("did:swarm:test"),
		ProofOfCompute: 0.8,
		Reputation:     0.9,
		Uptime:         1.0,
		Stake:          &stake,
	}
	expected := 0.25*0.8 + 0.40*0.9 + 0.20*1.0 + 0.15*0.5
	assert.InDelta(t, expected, score.CompositeScore(), 1e-10)
}

func TestCompositeScoreNoStake(t *testing.T) {
	score := NodeScore{ProofOfCompute: 0.5, Reputation: 0.5, Uptime: 0.5}
	expected := 0.25*0.5 + 0.40*0.5 + 0.20*0.5
	assert.InDelta(t, expected, score.CompositeScore(), 1e-10)
}

func TestVivaldiDistance(t *testing.T) {
	a := VivaldiCoordinates{X: 0, Y: 0, Z: 0}
	b := VivaldiCoordinates{X: 3, Y: 4, Z: 0}
	assert.InDelta(t, 5.0, a.DistanceTo(b), 1e-10)
}

func TestVivaldiUpdateConverges(t *testing.T) {
	a := VivaldiCoordinates{X: 1, Y: 0, Z: 0}
	peer := VivaldiCoordinates{X: 0, Y: 0, Z: 0}
	before := a.DistanceTo(peer)
	a.Update(peer, 5.0, 0.5)
	after := a.DistanceTo(peer)
	require.NotEqual(t, before, after)
}

func TestTierDepthOrdering(t *testing.T) {
	assert.Less(t, Tier1.Depth(), Tier2.Depth())
	assert.Less(t, Tier2.Depth(), TierN(3).Depth())
	assert.True(t, Executor.IsExecutor())
	assert.False(t, Tier1.IsExecutor())
}

func TestTierEqual(t *testing.T) {
	assert.True(t, TierN(3).Equal(TierN(3)))
	assert.False(t, TierN(3).Equal(TierN(4)))
	assert.False(t, Tier1.Equal(TierN(1)))
}

func TestAgentProfileConstruction(t *testing.T) {
	gpu := uint32(8)
	profile := AgentProfile{
		AgentID:      NewAgentId("did:swarm:abc"),
		PubKey:       "base58key",
		Capabilities: AgentCapabilities{Models: []string{"claude-3"}, Skills: []string{"python-exec"}},
		Resources:    AgentResources{CPUCores: 4, RAMGB: 16, GPUVRAMGB: &gpu},
	}
	assert.Equal(t, uint32(4), profile.Resources.CPUCores)
	assert.Equal(t, uint32(8), *profile.Resources.GPUVRAMGB)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "Tier1", Tier1.String())
	assert.Equal(t, "Executor", Executor.String())
	assert.Equal(t, "Tier5", TierN(5).String())
}

func TestTierJSONRoundTrip(t *testing.T) {
	for _, tier := range []Tier{Tier1, Tier2, TierN(5), Executor} {
		data, err := json.Marshal(tier)
		require.NoError(t, err)

		var got Tier
		require.NoError(t, json.Unmarshal(data, &got))
		assert.True(t, tier.Equal(got), "round-tripped %s as %s", tier, got)
	}
}

func TestTierJSONRoundTripInStruct(t *testing.T) {
	type wrapper struct {
		Tier Tier `json:"tier"`
	}
	data, err := json.Marshal(wrapper{Tier: TierN(7)})
	require.NoError(t, err)

	var got wrapper
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, TierN(7).Equal(got.Tier))
}
