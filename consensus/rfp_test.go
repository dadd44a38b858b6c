package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

func makePlan(taskID, proposer string, epoch uint64) types.Plan {
	plan := types.NewPlan(taskID, identity.NewAgentId(proposer), epoch)
	plan.Subtasks = append(plan.Subtasks, types.PlanSubtask{
		Index:                0,
		Description:          "Subtask A",
		RequiredCapabilities: []string{"python"},
		EstimatedComplexity:  0.5,
	})
	plan.Rationale = "Test plan"
	return plan
}

func TestRfpLifecycle(t *testing.T) {
	task := types.NewTask("Test task", 1, 1)
	rfp := NewRfpCoordinator(task.TaskID, 1, 1, swarmlog.NewNoOpLogger())

	require.NoError(t, rfp.InjectTask(task))
	assert.Equal(t, RfpCommitPhase, rfp.Phase())

	plan := makePlan(task.TaskID, "alice", 1)
	hash, err := ComputePlanHash(plan)
	require.NoError(t, err)

	require.NoError(t, rfp.RecordCommit(protocol.ProposalCommitParams{
		TaskID:   task.TaskID,
		Proposer: identity.NewAgentId("alice"),
		Epoch:    1,
		PlanHash: hash,
	}))

	assert.Equal(t, RfpRevealPhase, rfp.Phase())

	require.NoError(t, rfp.RecordReveal(protocol.ProposalRevealParams{
		TaskID: task.TaskID,
		Plan:   plan,
	}))
	assert.Equal(t, RfpReadyForVoting, rfp.Phase())

	proposals, err := rfp.Finalize()
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, identity.NewAgentId("alice"), proposals[0].Proposer)
}

func TestRfpHashMismatchRejected(t *testing.T) {
	task := types.NewTask("Test", 1, 1)
	rfp := NewRfpCoordinator(task.TaskID, 1, 1, swarmlog.NewNoOpLogger())
	require.NoError(t, rfp.InjectTask(task))

	require.NoError(t, rfp.RecordCommit(protocol.ProposalCommitParams{
		TaskID:   task.TaskID,
		Proposer: identity.NewAgentId("alice"),
		Epoch:    1,
		PlanHash: "fake_hash",
	}))

	plan := makePlan(task.TaskID, "alice", 1)
	err := rfp.RecordReveal(protocol.ProposalRevealParams{TaskID: task.TaskID, Plan: plan})
	require.Error(t, err)
	var mismatch *HashMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
