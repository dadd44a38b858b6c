package hierarchy

import (
	"time"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
	"github.com/Good-karma-lab/OpenSwarm-sub000/protocol"
	"github.com/Good-karma-lab/OpenSwarm-sub000/swarmlog"
	"github.com/Good-karma-lab/OpenSwarm-sub000/types"
)

// EpochConfig parameterizes epoch length and the grace period that
// tolerates late keep-alives after a boundary before finalizing.
type EpochConfig struct {
	Duration     time.Duration
	GracePeriod  time.Duration
}

// DefaultEpochConfig returns the configuration used when no override
// is supplied.
func DefaultEpochConfig() EpochConfig {
	return EpochConfig{
		Duration:    protocol.DefaultEpochDuration,
		GracePeriod: 10 * time.Second,
	}
}

// EpochInfo describes one epoch window.
type EpochInfo struct {
	EpochNumber         uint64
	StartedAt           time.Time
	EndsAt              time.Time
	Tier1Leaders        []identity.AgentId
	EstimatedSwarmSize  uint64
}

// EpochActionKind distinguishes the two transition signals EpochManager.Tick emits.
type EpochActionKind int

const (
	ActionTriggerElection EpochActionKind = iota
	ActionFinalizeTransition
)

// EpochAction is a signal the caller must act on: start a new election
// or finalize a pending transition.
type EpochAction struct {
	Kind                EpochActionKind
	NewEpoch            uint64
	EstimatedSwarmSize  uint64
	Epoch               uint64
}

// EpochManager tracks epoch boundaries and signals upper layers (via
// Tick) to trigger re-elections and finalize transitions.
type EpochManager struct {
	config                EpochConfig
	current               EpochInfo
	transitionInProgress  bool
	history               []EpochInfo
	maxHistory            int
	log                   swarmlog.Logger
	now                   func() time.Time
}

// NewEpochManager creates an EpochManager starting at epoch 1.
func NewEpochManager(config EpochConfig, log swarmlog.Logger) *EpochManager {
	now := time.Now()
	return &EpochManager{
		config: config,
		current: EpochInfo{
			EpochNumber:        1,
			StartedAt:          now,
			EndsAt:             now.Add(config.Duration),
			EstimatedSwarmSize: 1,
		},
		maxHistory: 100,
		log:        swarmlog.OrNoOp(log),
		now:        time.Now,
	}
}

// NewDefaultEpochManager creates an EpochManager using DefaultEpochConfig.
func NewDefaultEpochManager(log swarmlog.Logger) *EpochManager {
	return NewEpochManager(DefaultEpochConfig(), log)
}

// Tick checks whether the current epoch has expired or a pending
// transition's grace period has elapsed. Call this periodically (e.g.
// once per second from the orchestrator's event loop).
func (m *EpochManager) Tick(estimatedSwarmSize uint64) *EpochAction {
	now := m.now()

	if m.transitionInProgress {
		if now.After(m.current.EndsAt.Add(m.config.GracePeriod)) {
			m.transitionInProgress = false
			return &EpochAction{Kind: ActionFinalizeTransition, Epoch: m.current.EpochNumber}
		}
		return nil
	}

	if !now.Before(m.current.EndsAt) {
		m.transitionInProgress = true
		newEpoch := m.current.EpochNumber + 1
		m.log.Info("epoch boundary reached")
		return &EpochAction{Kind: ActionTriggerElection, NewEpoch: newEpoch, EstimatedSwarmSize: estimatedSwarmSize}
	}

	return nil
}

// AdvanceEpoch archives the current epoch and starts the next one with
// the freshly elected leaders, called once election results are known.
func (m *EpochManager) AdvanceEpoch(tier1Leaders []identity.AgentId, estimatedSwarmSize uint64) {
	m.history = append(m.history, m.current)
	if len(m.history) > m.maxHistory {
		m.history = m.history[1:]
	}

	now := m.now()
	newEpochNumber := m.current.EpochNumber + 1
	m.current = EpochInfo{
		EpochNumber:        newEpochNumber,
		StartedAt:          now,
		EndsAt:             now.Add(m.config.Duration),
		Tier1Leaders:       tier1Leaders,
		EstimatedSwarmSize: estimatedSwarmSize,
	}
	m.transitionInProgress = false
	m.log.Info("advanced to new epoch")
}

// ForceEpoch sets the current epoch directly, used for synchronizing
// a newly joined node to the swarm's current epoch.
func (m *EpochManager) ForceEpoch(epochNumber uint64, tier1Leaders []identity.AgentId, estimatedSwarmSize uint64) {
	now := m.now()
	m.current = EpochInfo{
		EpochNumber:        epochNumber,
		StartedAt:          now,
		EndsAt:             now.Add(m.config.Duration),
		Tier1Leaders:       tier1Leaders,
		EstimatedSwarmSize: estimatedSwarmSize,
	}
	m.transitionInProgress = false
}

// CurrentEpoch returns the current epoch number.
func (m *EpochManager) CurrentEpoch() uint64 {
	return m.current.EpochNumber
}

// CurrentInfo returns the full current epoch info.
func (m *EpochManager) CurrentInfo() EpochInfo {
	return m.current
}

// CurrentLeaders returns the Tier-1 leaders for the current epoch.
func (m *EpochManager) CurrentLeaders() []identity.AgentId {
	return m.current.Tier1Leaders
}

// RemainingTime returns how long remains in the current epoch, zero if expired.
func (m *EpochManager) RemainingTime() time.Duration {
	now := m.now()
	if !now.Before(m.current.EndsAt) {
		return 0
	}
	return m.current.EndsAt.Sub(now)
}

// IsTransitioning reports whether a transition is currently pending finalization.
func (m *EpochManager) IsTransitioning() bool {
	return m.transitionInProgress
}

// EpochDuration returns the configured epoch duration.
func (m *EpochManager) EpochDuration() time.Duration {
	return m.config.Duration
}

// GetEpochInfo looks up historical or current epoch info by number.
func (m *EpochManager) GetEpochInfo(epochNumber uint64) (EpochInfo, bool) {
	if epochNumber == m.current.EpochNumber {
		return m.current, true
	}
	for _, e := range m.history {
		if e.EpochNumber == epochNumber {
			return e, true
		}
	}
	return EpochInfo{}, false
}

// ToProtocolEpoch converts the current epoch into the wire-level
// types.Epoch representation.
func (m *EpochManager) ToProtocolEpoch() types.Epoch {
	return types.Epoch{
		EpochNumber:        m.current.EpochNumber,
		StartedAt:          m.current.StartedAt,
		DurationSecs:       uint64(m.config.Duration.Seconds()),
		Tier1Leaders:       m.current.Tier1Leaders,
		EstimatedSwarmSize: m.current.EstimatedSwarmSize,
	}
}
