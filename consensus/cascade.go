package consensus

import (
	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// StopCondition is the reason a recursive decomposition cascade stops
// at a given level instead of decomposing further.
type StopCondition struct {
	kind       stopKind
	complexity float64
}

type stopKind uint8

const (
	stopKindAtomicTask stopKind = iota
	stopKindBottomTier
	stopKindLowComplexity
)

var (
	StopAtomicTask = StopCondition{kind: stopKindAtomicTask}
	StopBottomTier = StopCondition{kind: stopKindBottomTier}
)

// StopLowComplexity builds a StopCondition carrying the measured
// complexity, compared against the 0.1 decomposition threshold.
func StopLowComplexity(complexity float64) StopCondition {
	return StopCondition{kind: stopKindLowComplexity, complexity: complexity}
}

// ShouldStop reports whether the cascade should stop decomposing at
// this level given condition.
func ShouldStop(condition StopCondition) bool {
	switch condition.kind {
	case stopKindAtomicTask, stopKindBottomTier:
		return true
	case stopKindLowComplexity:
		return condition.complexity < 0.1
	default:
		return true
	}
}

// SubtaskAssignment describes one subtask handed to a subordinate
// agent as part of a cascade level's distribution.
type SubtaskAssignment struct {
	Task            types.Task
	Assignee        identity.AgentId
	ParentTaskID    string
	PlanID          string
	AssigneeTier    identity.Tier
	RequiresCascade bool
}

// CascadeLevel tracks the subtask distribution made for one parent
// task's winning plan.
type CascadeLevel struct {
	ParentTaskID string
	PlanID       string
	Tier         uint32
	Assignments  []SubtaskAssignment
	AllAssigned  bool
}

// CascadeStatus is a point-in-time summary of cascade progress.
type CascadeStatus struct {
	RootTaskID        string
	ActiveLevels      int
	TotalSubtasks     int
	CompletedSubtasks int
	FailedSubtasks    int
}

// CascadeEngine tracks the tree of subtask decompositions from a root
// task through every intermediate tier down to leaf executor
// assignments.
type CascadeEngine struct {
	levels          map[string]CascadeLevel
	subtaskToParent map[string]string
	completed       map[string]bool
	failed          map[string]bool
	rootTaskID      string
}

// NewCascadeEngine creates an empty cascade engine.
func NewCascadeEngine() *CascadeEngine {
	return &CascadeEngine{
		levels:          make(map[string]CascadeLevel),
		subtaskToParent: make(map[string]string),
		completed:       make(map[string]bool),
		failed:          make(map[string]bool),
	}
}

// AssignedSubtask pairs an agent with the subtask task it was handed.
type AssignedSubtask struct {
	Agent identity.AgentId
	Task  types.Task
}

// Subordinate pairs a subordinate agent with its hierarchy tier, used
// to pick its cascade requirement during distribution.
type Subordinate struct {
	Agent identity.AgentId
	Tier  identity.Tier
}

// AssignSubtasks maps a plan's subtasks to agents round-robin, with
// wrap-around when there are fewer agents than subtasks. Unlike
// DistributeSubtasks, this is a pure helper that does not record
// cascade-engine state.
func AssignSubtasks(plan types.Plan, agents []identity.AgentId) []AssignedSubtask {
	out := make([]AssignedSubtask, len(plan.Subtasks))

	for idx, subtask := range plan.Subtasks {
		agent := agents[idx%len(agents)]
		task := types.NewTask(subtask.Description, 2, plan.Epoch)
		parentID := plan.TaskID
		task.ParentTaskID = &parentID
		task.AssignedTo = &agent
		out[idx] = AssignedSubtask{Agent: agent, Task: task}
	}
	return out
}

// PrimeOrchestrator returns the plan's proposer, who becomes the
// Prime Orchestrator for the cascade that plan's win initiates.
func PrimeOrchestrator(plan types.Plan) identity.AgentId {
	return plan.Proposer
}

// DistributeSubtasks assigns a winning plan's subtasks to subordinates
// round-robin and records a CascadeLevel for parentTaskID. tier is the
// hierarchy tier at which this level operates (the parent task's tier
// level plus one), supplied explicitly rather than inferred from plan
// contents; it is stored as given.
func (c *CascadeEngine) DistributeSubtasks(parentTaskID string, plan types.Plan, subordinates []Subordinate, epoch uint64, tier uint32) ([]SubtaskAssignment, error) {
	if len(subordinates) == 0 {
		return nil, &CascadeError{Reason: "no subordinates available for subtask distribution"}
	}
	if len(plan.Subtasks) == 0 {
		return nil, &CascadeError{Reason: "plan has no subtasks to distribute"}
	}

	if c.rootTaskID == "" {
		c.rootTaskID = parentTaskID
	}

	assignments := make([]SubtaskAssignment, 0, len(plan.Subtasks))

	for idx, planSubtask := range plan.Subtasks {
		sub := subordinates[idx%len(subordinates)]

		task := types.NewTask(planSubtask.Description, sub.Tier.Depth(), epoch)
		parentID := parentTaskID
		task.ParentTaskID = &parentID
		assignee := sub.Agent
		task.AssignedTo = &assignee
		task.Status = types.TaskPending

		requiresCascade := sub.Tier.Equal(identity.Tier2) || isTierN(sub.Tier)

		assignment := SubtaskAssignment{
			Task:            task,
			Assignee:        sub.Agent,
			ParentTaskID:    parentTaskID,
			PlanID:          plan.PlanID,
			AssigneeTier:    sub.Tier,
			RequiresCascade: requiresCascade,
		}

		c.subtaskToParent[task.TaskID] = parentTaskID
		c.completed[task.TaskID] = false

		assignments = append(assignments, assignment)
	}

	c.levels[parentTaskID] = CascadeLevel{
		ParentTaskID: parentTaskID,
		PlanID:       plan.PlanID,
		Tier:         tier,
		Assignments:  assignments,
		AllAssigned:  true,
	}

	return assignments, nil
}

// isTierN reports whether t is an intermediate TierN(n) level (n >= 3),
// as opposed to Tier1, Tier2, or Executor.
func isTierN(t identity.Tier) bool {
	return !t.Equal(identity.Tier1) && !t.Equal(identity.Tier2) && !t.IsExecutor()
}

// RecordSubtaskCompletion marks subtaskID done and reports whether
// every subtask for its parent task is now complete.
func (c *CascadeEngine) RecordSubtaskCompletion(subtaskID string) (bool, error) {
	if _, ok := c.completed[subtaskID]; !ok {
		return false, &TaskNotFoundError{TaskID: subtaskID}
	}
	c.completed[subtaskID] = true

	parentID, ok := c.subtaskToParent[subtaskID]
	if !ok {
		return false, &TaskNotFoundError{TaskID: subtaskID}
	}

	level, ok := c.levels[parentID]
	if !ok {
		return false, nil
	}

	allDone := true
	for _, a := range level.Assignments {
		if !c.completed[a.Task.TaskID] {
			allDone = false
			break
		}
	}
	return allDone, nil
}

// RecordSubtaskFailure marks subtaskID as failed for status reporting.
func (c *CascadeEngine) RecordSubtaskFailure(subtaskID string) error {
	if _, ok := c.completed[subtaskID]; !ok {
		return &TaskNotFoundError{TaskID: subtaskID}
	}
	c.failed[subtaskID] = true
	return nil
}

// Status returns a point-in-time summary of cascade progress.
func (c *CascadeEngine) Status() CascadeStatus {
	completed := 0
	for _, done := range c.completed {
		if done {
			completed++
		}
	}
	return CascadeStatus{
		RootTaskID:        c.rootTaskID,
		ActiveLevels:      len(c.levels),
		TotalSubtasks:     len(c.completed),
		CompletedSubtasks: completed,
		FailedSubtasks:    len(c.failed),
	}
}

// GetLevel returns the recorded cascade level for parentTaskID, if any.
func (c *CascadeEngine) GetLevel(parentTaskID string) (CascadeLevel, bool) {
	level, ok := c.levels[parentTaskID]
	return level, ok
}

// PendingSubtasks returns every subtask ID not yet completed.
func (c *CascadeEngine) PendingSubtasks() []string {
	var pending []string
	for id, done := range c.completed {
		if !done {
			pending = append(pending, id)
		}
	}
	return pending
}

// ParentOf returns the parent task ID for subtaskID.
func (c *CascadeEngine) ParentOf(subtaskID string) (string, bool) {
	parentID, ok := c.subtaskToParent[subtaskID]
	return parentID, ok
}

// IsComplete reports whether every tracked subtask at every level is done.
func (c *CascadeEngine) IsComplete() bool {
	for _, done := range c.completed {
		if !done {
			return false
		}
	}
	return true
}

// Reset clears all cascade state for reuse on a new root task.
func (c *CascadeEngine) Reset() {
	c.levels = make(map[string]CascadeLevel)
	c.subtaskToParent = make(map[string]string)
	c.completed = make(map[string]bool)
	c.failed = make(map[string]bool)
	c.rootTaskID = ""
}
