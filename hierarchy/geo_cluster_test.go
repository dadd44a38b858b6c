package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
)

func TestFindClosestLeader(t *testing.T) {
	gc := NewDefaultGeoCluster()

	gc.RegisterLeader(identity.NewAgentId("leader1"), identity.VivaldiCoordinates{X: 10, Y: 0, Z: 0}, 100)
	gc.RegisterLeader(identity.NewAgentId("leader2"), identity.VivaldiCoordinates{X: -10, Y: 0, Z: 0}, 100)

	agentCoords := identity.VivaldiCoordinates{X: 8, Y: 0, Z: 0}
	leader, rtt, err := gc.FindBestLeader(agentCoords)
	require.NoError(t, err)
	assert.Equal(t, identity.NewAgentId("leader1"), leader)
	assert.InDelta(t, 2.0, rtt, 0.01)
}

func TestAssignmentAndLoad(t *testing.T) {
	gc := NewDefaultGeoCluster()

	gc.RegisterLeader(identity.NewAgentId("leader1"), identity.Origin(), 2)

	gc.UpdateAgentCoordinates(identity.NewAgentId("agent1"), identity.VivaldiCoordinates{X: 1})
	gc.UpdateAgentCoordinates(identity.NewAgentId("agent2"), identity.VivaldiCoordinates{X: 2})

	_, err := gc.AssignAgent(identity.NewAgentId("agent1"))
	require.NoError(t, err)
	_, err = gc.AssignAgent(identity.NewAgentId("agent2"))
	require.NoError(t, err)

	branch := gc.GetBranch(identity.NewAgentId("leader1"))
	assert.Len(t, branch, 2)
}

func TestRemoveLeaderOrphansAgents(t *testing.T) {
	gc := NewDefaultGeoCluster()
	gc.RegisterLeader(identity.NewAgentId("leader1"), identity.Origin(), 5)
	gc.UpdateAgentCoordinates(identity.NewAgentId("agent1"), identity.VivaldiCoordinates{X: 1})
	_, err := gc.AssignAgent(identity.NewAgentId("agent1"))
	require.NoError(t, err)

	gc.RemoveLeader(identity.NewAgentId("leader1"))
	_, ok := gc.GetAssignment(identity.NewAgentId("agent1"))
	assert.False(t, ok)
}

func TestFindBestLeaderNoLeaders(t *testing.T) {
	gc := NewDefaultGeoCluster()
	_, _, err := gc.FindBestLeader(identity.Origin())
	assert.Error(t, err)
}

func TestRebalanceAll(t *testing.T) {
	gc := NewDefaultGeoCluster()
	gc.RegisterLeader(identity.NewAgentId("leader1"), identity.Origin(), 10)
	gc.UpdateAgentCoordinates(identity.NewAgentId("agent1"), identity.VivaldiCoordinates{X: 1})
	gc.UpdateAgentCoordinates(identity.NewAgentId("agent2"), identity.VivaldiCoordinates{X: 2})

	results, err := gc.RebalanceAll()
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
