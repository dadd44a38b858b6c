package orchestrator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/transport"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *transport.MemoryTransport) {
	t.Helper()
	bus := transport.NewMemoryBus()
	tr := transport.NewMemoryTransport(bus, "self")
	o := New(DefaultConfig(identity.NewAgentId("self")), tr, swarmlog.NewNoOpLogger(), nil)
	return o, tr
}

func TestSnapshotReflectsInitialState(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	snap := o.Snapshot()
	assert.Equal(t, uint64(1), snap.CurrentEpoch)
	assert.Equal(t, identity.Executor, snap.MyTier)
}

func TestHandleCandidacyMessage(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	stake := 0.5
	params := protocol.CandidacyParams{
		AgentID: identity.NewAgentId("alice"),
		Epoch:   1,
		Score: identity.NodeScore{
			AgentId:        identity.NewAgentId("alice"),
			ProofOfCompute: 0.9,
			Reputation:     0.9,
			Uptime:         0.9,
			Stake:          &stake,
		},
	}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)

	envelope := protocol.NewSwarmMessage(protocol.MethodCandidacy.AsStr(), paramsJSON, "sig")
	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, o.handleMessage(transport.Message{Topic: "t", Source: "alice", Data: envelopeJSON}))
	assert.Equal(t, 1, o.election.CandidateCount())
}

func TestTierAssignmentUpdatesSelf(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	params := protocol.TierAssignmentParams{
		AssignedAgent: identity.NewAgentId("self"),
		Tier:          identity.Tier1,
		ParentID:      identity.NewAgentId("root"),
		Epoch:         1,
		BranchSize:    3,
	}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)
	envelope := protocol.NewSwarmMessage(protocol.MethodTierAssignment.AsStr(), paramsJSON, "sig")
	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, o.handleMessage(transport.Message{Topic: "t", Source: "root", Data: envelopeJSON}))

	snap := o.Snapshot()
	assert.True(t, snap.MyTier.Equal(identity.Tier1))
	require.NotNil(t, snap.ParentID)
	assert.Equal(t, identity.NewAgentId("root"), *snap.ParentID)
}

func TestHandleTaskAssignmentStoresOwnTask(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	task := types.NewTask("do the thing", 3, 1)
	params := protocol.TaskAssignmentParams{
		Task:          task,
		Assignee:      identity.NewAgentId("self"),
		ParentTaskID:  "root-task",
		WinningPlanID: "plan-1",
	}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)
	envelope := protocol.NewSwarmMessage(protocol.MethodTaskAssignment.AsStr(), paramsJSON, "sig")
	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, o.handleMessage(transport.Message{Topic: "t", Source: "root", Data: envelopeJSON}))
	assert.Contains(t, o.assignedTasks, task.TaskID)
}

func TestHandleSuccessionPromotesSelf(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	params := protocol.SuccessionParams{
		FailedLeader: identity.NewAgentId("old-leader"),
		NewLeader:    identity.NewAgentId("self"),
		Epoch:        1,
		BranchAgents: []identity.AgentId{identity.NewAgentId("self"), identity.NewAgentId("peer")},
	}
	paramsJSON, err := json.Marshal(params)
	require.NoError(t, err)
	envelope := protocol.NewSwarmMessage(protocol.MethodSuccession.AsStr(), paramsJSON, "sig")
	envelopeJSON, err := json.Marshal(envelope)
	require.NoError(t, err)

	require.NoError(t, o.handleMessage(transport.Message{Topic: "t", Source: "old-leader", Data: envelopeJSON}))
	assert.True(t, o.tier.Equal(identity.Tier1))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	o, tr := newTestOrchestrator(t)
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	o.config.EpochTick = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("orchestrator did not stop after cancel")
	}
}
