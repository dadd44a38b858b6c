package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
)

func TestKeepAliveResetsTimeout(t *testing.T) {
	sm := NewSuccessionManager(swarmlog.NewNoOpLogger())
	leader := identity.NewAgentId("leader1")
	sm.MonitorLeader(leader, nil)

	assert.Empty(t, sm.CheckTimeouts())

	sm.RecordKeepAlive(leader)
	assert.Empty(t, sm.CheckTimeouts())
}

func TestSuccessionInitiation(t *testing.T) {
	sm := NewSuccessionManager(swarmlog.NewNoOpLogger())
	leader := identity.NewAgentId("leader1")
	sm.MonitorLeader(leader, nil)

	stake1, stake2 := 0.5, 0.3
	scores := []identity.NodeScore{
		{AgentId: identity.NewAgentId("agent1"), ProofOfCompute: 0.9, Reputation: 0.9, Uptime: 1.0, Stake: &stake1},
		{AgentId: identity.NewAgentId("agent2"), ProofOfCompute: 0.7, Reputation: 0.8, Uptime: 0.9, Stake: &stake2},
	}

	proposed, err := sm.InitiateSuccession(leader, scores)
	require.NoError(t, err)
	assert.Equal(t, identity.NewAgentId("agent1"), proposed)
}

func TestSuccessionConfirmationByMajority(t *testing.T) {
	sm := NewSuccessionManager(swarmlog.NewNoOpLogger())
	leader := identity.NewAgentId("leader1")
	agent1 := identity.NewAgentId("agent1")
	branch := []identity.AgentId{agent1, identity.NewAgentId("agent2"), identity.NewAgentId("agent3")}
	sm.MonitorLeader(leader, nil)
	sm.SetBranch(leader, branch)

	stake := 0.5
	scores := []identity.NodeScore{
		{AgentId: agent1, ProofOfCompute: 0.9, Reputation: 0.9, Uptime: 1.0, Stake: &stake},
	}
	_, err := sm.InitiateSuccession(leader, scores)
	require.NoError(t, err)

	result, err := sm.RecordSuccessionVote(leader, agent1, 3)
	require.NoError(t, err)
	assert.Nil(t, result)

	result, err = sm.RecordSuccessionVote(leader, agent1, 3)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, agent1, result.NewLeader)
}

func TestSuccessionVoteUnknownCandidate(t *testing.T) {
	sm := NewSuccessionManager(swarmlog.NewNoOpLogger())
	leader := identity.NewAgentId("leader1")
	stake := 0.5
	_, err := sm.InitiateSuccession(leader, []identity.NodeScore{
		{AgentId: identity.NewAgentId("agent1"), Stake: &stake},
	})
	require.NoError(t, err)

	_, err = sm.RecordSuccessionVote(leader, identity.NewAgentId("ghost"), 1)
	assert.Error(t, err)
}
