// Package orchestrator wires the hierarchy, consensus, protocol, and
// transport packages into a single per-agent event loop. Every state
// mutation runs under one writer lock; Run's two suspension loops
// (network ingestion, epoch ticking) only ever decide *when* to take
// that lock, never contend on sub-state directly.
package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Good-karma-lab/OpenSwarm-sub000/consensus"
	"github.com/Good-karma-lab/OpenSwarm-sub000/hierarchy"
	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/merkle"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/transport"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"

	"github.com/prometheus/client_golang/prometheus"
)

// Config parameterizes a single agent's Orchestrator.
type Config struct {
	SelfID          identity.AgentId
	BranchingFactor uint32
	MaxDepth        uint32
	EpochTick       time.Duration
}

// DefaultConfig returns the configuration used when no override is
// supplied: a 1-second epoch tick, the protocol's default branching
// factor and max hierarchy depth.
func DefaultConfig(selfID identity.AgentId) Config {
	return Config{
		SelfID:          selfID,
		BranchingFactor: protocol.DefaultBranchingFactor,
		MaxDepth:        protocol.MaxHierarchyDepth,
		EpochTick:       time.Second,
	}
}

// Orchestrator is the single-writer coordinator for one agent's view
// of the swarm: hierarchy allocation and elections, RFP/voting/cascade
// consensus rounds, and dispatch of inbound transport messages.
type Orchestrator struct {
	config    Config
	log       swarmlog.Logger
	transport transport.Transport
	metrics   *Metrics

	mu sync.Mutex

	pyramid    *hierarchy.PyramidAllocator
	geo        *hierarchy.GeoCluster
	succession *hierarchy.SuccessionManager
	epochs     *hierarchy.EpochManager
	election   *hierarchy.ElectionManager

	rfps    map[string]*consensus.RfpCoordinator
	votings map[string]*consensus.VotingEngine
	cascade *consensus.CascadeEngine
	results map[string]*merkle.Dag

	assignedTasks map[string]types.Task

	tier             identity.Tier
	parentID         *identity.AgentId
	subordinateCount uint32
}

// New builds an Orchestrator for config, using tr for pub/sub and
// emitting metrics to reg (nil disables metrics collection).
func New(config Config, tr transport.Transport, log swarmlog.Logger, reg prometheus.Registerer) *Orchestrator {
	log = swarmlog.OrNoOp(log)
	epochs := hierarchy.NewDefaultEpochManager(log)

	return &Orchestrator{
		config:    config,
		log:       log,
		transport: tr,
		metrics:   NewMetrics(reg),

		pyramid:    hierarchy.NewPyramidAllocator(hierarchy.PyramidConfig{BranchingFactor: config.BranchingFactor, MaxDepth: config.MaxDepth}),
		geo:        hierarchy.NewDefaultGeoCluster(),
		succession: hierarchy.NewSuccessionManager(log),
		epochs:     epochs,
		election:   hierarchy.NewElectionManager(hierarchy.DefaultElectionConfig(), epochs.CurrentEpoch(), log),

		rfps:    make(map[string]*consensus.RfpCoordinator),
		votings: make(map[string]*consensus.VotingEngine),
		cascade: consensus.NewCascadeEngine(),
		results: make(map[string]*merkle.Dag),

		assignedTasks: make(map[string]types.Task),

		tier: identity.Executor,
	}
}

// Run drives the orchestrator's two suspension loops — network-event
// ingestion and per-epoch-tick bookkeeping — until ctx is cancelled or
// either loop returns an error.
func (o *Orchestrator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	messages, err := o.transport.Subscribe(ctx, protocol.Topics{}.Hierarchy())
	if err != nil {
		return err
	}

	g.Go(func() error {
		return o.consumeMessages(ctx, messages)
	})

	g.Go(func() error {
		return o.tickEpochs(ctx)
	})

	return g.Wait()
}

func (o *Orchestrator) consumeMessages(ctx context.Context, messages <-chan transport.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := o.handleMessage(msg); err != nil {
				o.log.Warn("failed to handle message")
			}
		}
	}
}

func (o *Orchestrator) tickEpochs(ctx context.Context) error {
	interval := o.config.EpochTick
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			o.tickOnce()
		}
	}
}

func (o *Orchestrator) tickOnce() {
	o.mu.Lock()
	defer o.mu.Unlock()

	swarmSize := o.transport.EstimatedSwarmSize()
	action := o.epochs.Tick(swarmSize)
	if action == nil {
		return
	}

	switch action.Kind {
	case hierarchy.ActionTriggerElection:
		o.election = hierarchy.NewElectionManager(hierarchy.DefaultElectionConfig(), action.NewEpoch, o.log)
		o.pyramid.Recompute(action.EstimatedSwarmSize)
	case hierarchy.ActionFinalizeTransition:
		result, err := o.election.TallyAndElect()
		if err != nil {
			o.log.Warn("election finalize failed")
			return
		}
		o.epochs.AdvanceEpoch(result.Leaders, swarmSize)
		o.metrics.recordEpochTransition()
		o.metrics.recordElectionOutcome()
	}
}

// handleMessage dispatches one inbound transport message by its
// protocol method, mutating orchestrator state under the writer lock.
func (o *Orchestrator) handleMessage(msg transport.Message) error {
	var envelope protocol.SwarmMessage
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		return err
	}

	method, err := protocol.MethodFromStr(envelope.Method)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch method {
	case protocol.MethodCandidacy:
		var params protocol.CandidacyParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		return o.election.RegisterCandidate(params)

	case protocol.MethodElectionVote:
		var params protocol.ElectionVoteParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		return o.election.RecordVote(params)

	case protocol.MethodTaskInjection:
		var params protocol.TaskInjectionParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		rfp := consensus.NewRfpCoordinator(params.Task.TaskID, o.epochs.CurrentEpoch(), int(o.subordinateCount), o.log)
		if err := rfp.InjectTask(params.Task); err != nil {
			return err
		}
		o.rfps[params.Task.TaskID] = rfp
		return nil

	case protocol.MethodProposalCommit:
		var params protocol.ProposalCommitParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		rfp, ok := o.rfps[params.TaskID]
		if !ok {
			return &consensus.TaskNotFoundError{TaskID: params.TaskID}
		}
		return rfp.RecordCommit(params)

	case protocol.MethodProposalReveal:
		var params protocol.ProposalRevealParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		rfp, ok := o.rfps[params.TaskID]
		if !ok {
			return &consensus.TaskNotFoundError{TaskID: params.TaskID}
		}
		return rfp.RecordReveal(params)

	case protocol.MethodConsensusVote:
		var params protocol.ConsensusVoteParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		voting, ok := o.votings[params.TaskID]
		if !ok {
			return &consensus.TaskNotFoundError{TaskID: params.TaskID}
		}
		vote := types.RankedVote{
			Voter:        params.Voter,
			TaskID:       params.TaskID,
			Epoch:        params.Epoch,
			Rankings:     params.Rankings,
			CriticScores: params.CriticScores,
		}
		return voting.RecordVote(vote)

	case protocol.MethodTaskAssignment:
		var params protocol.TaskAssignmentParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		if params.Assignee == o.config.SelfID {
			o.assignedTasks[params.Task.TaskID] = params.Task
		}
		return nil

	case protocol.MethodResultSubmission:
		var params protocol.ResultSubmissionParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		dag, ok := o.results[params.TaskID]
		if !ok {
			dag = merkle.NewDag()
			o.results[params.TaskID] = dag
		}
		dag.AddLeaf(params.TaskID, []byte(params.Artifact.ContentCID))
		// The proof's last entry is the root the coordinator already
		// agreed on for this task and the entries before it are that
		// root's ordered child hashes; VerifyProof checks the leaf
		// appears among them and that hashing them reproduces the root.
		if n := len(params.MerkleProof); n > 0 && !merkle.VerifyProof(params.MerkleProof[n-1], params.MerkleProof[:n-1], params.Artifact.MerkleHash) {
			return &consensus.CascadeError{Reason: "merkle proof verification failed for task " + params.TaskID}
		}
		_, err := o.cascade.RecordSubtaskCompletion(params.TaskID)
		return err

	case protocol.MethodVerificationResult:
		var params protocol.VerificationResultParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		if !params.Accepted {
			return o.cascade.RecordSubtaskFailure(params.TaskID)
		}
		return nil

	case protocol.MethodSuccession:
		var params protocol.SuccessionParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		o.succession.UnmonitorLeader(params.FailedLeader)
		o.succession.MonitorLeader(params.NewLeader, nil)
		o.succession.SetBranch(params.NewLeader, params.BranchAgents)
		if params.NewLeader == o.config.SelfID {
			o.tier = identity.Tier1
		}
		return nil

	case protocol.MethodKeepAlive:
		var params protocol.KeepAliveParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		o.succession.RecordKeepAlive(params.AgentID)
		return nil

	case protocol.MethodTierAssignment:
		var params protocol.TierAssignmentParams
		if err := json.Unmarshal(envelope.Params, &params); err != nil {
			return err
		}
		if params.AssignedAgent == o.config.SelfID {
			o.tier = params.Tier
			parent := params.ParentID
			o.parentID = &parent
		}
		return nil

	default:
		return nil
	}
}

// BeginVoting creates a VotingEngine for taskID seeded with the RFP's
// revealed proposals, ready to accept ballots.
func (o *Orchestrator) BeginVoting(taskID string, config consensus.VotingConfig) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	rfp, ok := o.rfps[taskID]
	if !ok {
		return &consensus.TaskNotFoundError{TaskID: taskID}
	}
	proposals, err := rfp.Finalize()
	if err != nil {
		return err
	}

	engine := consensus.NewVotingEngine(config, taskID, o.epochs.CurrentEpoch())
	byPlan := make(map[string]identity.AgentId, len(proposals))
	for _, p := range proposals {
		byPlan[p.Plan.PlanID] = p.Proposer
	}
	engine.SetProposals(byPlan)
	o.votings[taskID] = engine
	return nil
}

// Snapshot returns a read-only view of this agent's position in the
// swarm, suitable for an RPC or TUI front-end (both out of scope
// here).
func (o *Orchestrator) Snapshot() types.NetworkStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	layout, _ := o.pyramid.CurrentLayout()
	return types.NetworkStats{
		TotalAgents:      o.transport.EstimatedSwarmSize(),
		HierarchyDepth:   layout.Depth,
		BranchingFactor:  o.config.BranchingFactor,
		CurrentEpoch:     o.epochs.CurrentEpoch(),
		MyTier:           o.tier,
		SubordinateCount: o.subordinateCount,
		ParentID:         o.parentID,
	}
}
