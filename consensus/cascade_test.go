package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

func makeCascadePlan(taskID string) types.Plan {
	plan := types.NewPlan(taskID, identity.NewAgentId("coordinator"), 1)
	plan.Subtasks = []types.PlanSubtask{
		{Index: 0, Description: "Part A", EstimatedComplexity: 0.3},
		{Index: 1, Description: "Part B", EstimatedComplexity: 0.4},
		{Index: 2, Description: "Part C", EstimatedComplexity: 0.3},
	}
	return plan
}

func TestDistributeSubtasksRoundRobin(t *testing.T) {
	engine := NewCascadeEngine()
	plan := makeCascadePlan("root_task")

	subordinates := []Subordinate{
		{Agent: identity.NewAgentId("exec1"), Tier: identity.Executor},
		{Agent: identity.NewAgentId("exec2"), Tier: identity.Executor},
	}

	assignments, err := engine.DistributeSubtasks("root_task", plan, subordinates, 1, 3)
	require.NoError(t, err)
	require.Len(t, assignments, 3)

	assert.Equal(t, identity.NewAgentId("exec1"), assignments[0].Assignee)
	assert.Equal(t, identity.NewAgentId("exec2"), assignments[1].Assignee)
	assert.Equal(t, identity.NewAgentId("exec1"), assignments[2].Assignee)
}

func TestCascadeCompletionTracking(t *testing.T) {
	engine := NewCascadeEngine()
	plan := makeCascadePlan("root_task")

	subordinates := []Subordinate{
		{Agent: identity.NewAgentId("exec1"), Tier: identity.Executor},
		{Agent: identity.NewAgentId("exec2"), Tier: identity.Executor},
	}

	assignments, err := engine.DistributeSubtasks("root_task", plan, subordinates, 1, 3)
	require.NoError(t, err)

	done, err := engine.RecordSubtaskCompletion(assignments[0].Task.TaskID)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = engine.RecordSubtaskCompletion(assignments[1].Task.TaskID)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = engine.RecordSubtaskCompletion(assignments[2].Task.TaskID)
	require.NoError(t, err)
	assert.True(t, done)

	assert.True(t, engine.IsComplete())
}

func TestShouldStopConditions(t *testing.T) {
	assert.True(t, ShouldStop(StopAtomicTask))
	assert.True(t, ShouldStop(StopBottomTier))
	assert.True(t, ShouldStop(StopLowComplexity(0.05)))
	assert.False(t, ShouldStop(StopLowComplexity(0.5)))
}

func TestCascadeRequiresRecordedForMissingSubtask(t *testing.T) {
	engine := NewCascadeEngine()
	_, err := engine.RecordSubtaskCompletion("ghost")
	assert.Error(t, err)
}
