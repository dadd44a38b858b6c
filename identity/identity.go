// Package identity defines the agent identity, scoring, and network
// coordinate types shared across the hierarchy and consensus packages.
package identity

import (
	"encoding/json"
	"fmt"
	"math"
)

// AgentId is an opaque swarm-wide identifier shaped as
// "did:swarm:<64-hex>", where the hex is the SHA-256 of the agent's
// public key. It is immutable for the agent's lifetime.
type AgentId string

// NewAgentId wraps a raw DID string as an AgentId.
func NewAgentId(did string) AgentId {
	return AgentId(did)
}

func (a AgentId) String() string {
	return string(a)
}

// Tier is a level in the dynamic pyramid hierarchy. TierN carries its
// own ordinal for n >= 3; Tier1, Tier2, and Executor are distinguished
// constructors for readability at call sites.
type Tier struct {
	kind tierKind
	n    uint32
}

type tierKind uint8

const (
	tierKindTier1 tierKind = iota
	tierKindTier2
	tierKindTierN
	tierKindExecutor
)

var (
	Tier1    = Tier{kind: tierKindTier1}
	Tier2    = Tier{kind: tierKindTier2}
	Executor = Tier{kind: tierKindExecutor}
)

// TierN builds a tier at depth n (n >= 3 by convention; lower values are
// accepted but collapse to the same ordinal behavior as Tier1/Tier2).
func TierN(n uint32) Tier {
	return Tier{kind: tierKindTierN, n: n}
}

// Depth returns the tier's ordinal depth. Executor is math.MaxUint32,
// i.e. "bottom of the pyramid" regardless of actual hierarchy depth.
func (t Tier) Depth() uint32 {
	switch t.kind {
	case tierKindTier1:
		return 1
	case tierKindTier2:
		return 2
	case tierKindTierN:
		return t.n
	case tierKindExecutor:
		return math.MaxUint32
	default:
		return math.MaxUint32
	}
}

// IsExecutor reports whether this tier is the leaf executor tier.
func (t Tier) IsExecutor() bool {
	return t.kind == tierKindExecutor
}

func (t Tier) String() string {
	switch t.kind {
	case tierKindTier1:
		return "Tier1"
	case tierKindTier2:
		return "Tier2"
	case tierKindTierN:
		return fmt.Sprintf("Tier%d", t.n)
	case tierKindExecutor:
		return "Executor"
	default:
		return "Unknown"
	}
}

// Equal reports whether two tiers denote the same level.
func (t Tier) Equal(other Tier) bool {
	return t.kind == other.kind && (t.kind != tierKindTierN || t.n == other.n)
}

// tierWire is Tier's wire representation. Tier's fields are
// unexported (to keep TierN's ordinal out of reach of callers who
// should use the Tier1/Tier2/Executor constructors instead), so it
// needs explicit (Un)MarshalJSON rather than relying on encoding/json
// reflecting over struct fields directly.
type tierWire struct {
	Kind tierKind `json:"kind"`
	N    uint32   `json:"n,omitempty"`
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(tierWire{Kind: t.kind, N: t.n})
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	var w tierWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.kind = w.Kind
	t.n = w.N
	return nil
}

// NodeScore carries the four signals used to compute an agent's
// composite election/ranking score.
type NodeScore struct {
	AgentId        AgentId
	ProofOfCompute float64 // [0,1]
	Reputation     float64 // [0,1]
	Uptime         float64 // [0,1]
	Stake          *float64 // optional, [0, inf)
}

// Composite weights: fixed, sum to 1.
const (
	weightProofOfCompute = 0.25
	weightReputation     = 0.40
	weightUptime         = 0.20
	weightStake          = 0.15
)

// CompositeScore computes the weighted composite score used throughout
// elections, succession ranking, and tier assignment.
func (s NodeScore) CompositeScore() float64 {
	stake := 0.0
	if s.Stake != nil {
		stake = math.Min(*s.Stake, 1.0)
	}
	return weightProofOfCompute*s.ProofOfCompute +
		weightReputation*s.Reputation +
		weightUptime*s.Uptime +
		weightStake*stake
}

// VivaldiCoordinates is a synthetic 3-D network coordinate whose
// Euclidean distance to another coordinate approximates one-way
// latency between the two nodes.
type VivaldiCoordinates struct {
	X, Y, Z float64
}

// Origin returns the coordinate (0,0,0), used as a default before any
// measurement has been taken.
func Origin() VivaldiCoordinates {
	return VivaldiCoordinates{}
}

// DistanceTo returns the Euclidean distance to another coordinate.
func (c VivaldiCoordinates) DistanceTo(other VivaldiCoordinates) float64 {
	dx := c.X - other.X
	dy := c.Y - other.Y
	dz := c.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Update moves the coordinate toward or away from peer by a fraction of
// the observed error between the measured RTT and the currently
// estimated distance, following the simplified Vivaldi algorithm.
func (c *VivaldiCoordinates) Update(peer VivaldiCoordinates, observedRTTMs, weight float64) {
	estimated := c.DistanceTo(peer)
	var delta float64
	if estimated > 0 {
		errorTerm := observedRTTMs - estimated
		delta = weight * errorTerm / estimated
	} else {
		delta = weight * 0.1
	}
	c.X += delta * (c.X - peer.X)
	c.Y += delta * (c.Y - peer.Y)
	c.Z += delta * (c.Z - peer.Z)
}

// AgentCapabilities is what an agent advertises it can do during the
// handshake: model providers it can call and executable skills it has.
type AgentCapabilities struct {
	Models []string
	Skills []string
}

// AgentResources describes the hardware an agent's host makes available.
type AgentResources struct {
	CPUCores  uint32
	RAMGB     uint32
	GPUVRAMGB *uint32
	DiskGB    *uint32
}

// AgentProfile is the full identity broadcast during handshake and elections.
type AgentProfile struct {
	AgentID        AgentId
	PubKey         string // base58-encoded Ed25519 public key
	Capabilities   AgentCapabilities
	Resources      AgentResources
	LocationVector VivaldiCoordinates
}
