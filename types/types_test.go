package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("do the thing", 2, 7)
	assert.Equal(t, TaskPending, task.Status)
	assert.Equal(t, uint32(2), task.TierLevel)
	assert.Equal(t, uint64(7), task.Epoch)
	assert.NotEmpty(t, task.TaskID)
	assert.Nil(t, task.ParentTaskID)
}

func TestNewPlanDefaults(t *testing.T) {
	agent := identity.NewAgentId("did:swarm:abc")
	plan := NewPlan("task-1", agent, 3)
	assert.Equal(t, "task-1", plan.TaskID)
	assert.Equal(t, agent, plan.Proposer)
	assert.InDelta(t, 1.0, plan.EstimatedParallelism, 1e-10)
	assert.NotEmpty(t, plan.PlanID)
}

func TestNewArtifact(t *testing.T) {
	agent := identity.NewAgentId("did:swarm:producer")
	artifact := NewArtifact("task-1", agent, "cid123", "hash456", "text/plain", 128)
	assert.Equal(t, "cid123", artifact.ContentCID)
	assert.Equal(t, uint64(128), artifact.SizeBytes)
	assert.NotEmpty(t, artifact.ArtifactID)
}

func TestCriticScoreAggregate(t *testing.T) {
	score := CriticScore{Feasibility: 1.0, Parallelism: 1.0, Completeness: 1.0, Risk: 0.0}
	assert.InDelta(t, 1.0, score.Aggregate(), 1e-10)

	zero := CriticScore{}
	assert.InDelta(t, 0.15, zero.Aggregate(), 1e-10)
}

func TestCriticScoreHigherRiskLowersAggregate(t *testing.T) {
	low := CriticScore{Feasibility: 0.5, Parallelism: 0.5, Completeness: 0.5, Risk: 0.1}
	high := CriticScore{Feasibility: 0.5, Parallelism: 0.5, Completeness: 0.5, Risk: 0.9}
	assert.Greater(t, low.Aggregate(), high.Aggregate())
}

func TestTaskStatusString(t *testing.T) {
	assert.Equal(t, "Pending", TaskPending.String())
	assert.Equal(t, "Completed", TaskCompleted.String())
	assert.Equal(t, "Rejected", TaskRejected.String())
}
