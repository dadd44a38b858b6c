package hierarchy

import (
	"sort"

	"github.com/Good-karma-lab/OpenSwarm-sub000/identity"
)

// LeaderLocation is a registered Tier-1 leader's network position and
// subordinate capacity.
type LeaderLocation struct {
	AgentID     identity.AgentId
	Coordinates identity.VivaldiCoordinates
	Capacity    uint64
	CurrentLoad uint64
}

// ClusterAssignment records which leader an agent joined and the
// estimated RTT that drove the decision.
type ClusterAssignment struct {
	AgentID        identity.AgentId
	LeaderID       identity.AgentId
	EstimatedRTTMs float64
}

// GeoCluster assigns agents to the geographically (Vivaldi-)closest
// Tier-1 leader with spare capacity, minimizing branch latency.
type GeoCluster struct {
	leaders            map[identity.AgentId]LeaderLocation
	agentCoords        map[identity.AgentId]identity.VivaldiCoordinates
	assignments        map[identity.AgentId]ClusterAssignment
	maxRTTThresholdMs  float64
}

// NewGeoCluster creates a GeoCluster holding the given RTT threshold in
// milliseconds. No GeoCluster method reads the threshold.
func NewGeoCluster(maxRTTThresholdMs float64) *GeoCluster {
	return &GeoCluster{
		leaders:           make(map[identity.AgentId]LeaderLocation),
		agentCoords:       make(map[identity.AgentId]identity.VivaldiCoordinates),
		assignments:       make(map[identity.AgentId]ClusterAssignment),
		maxRTTThresholdMs: maxRTTThresholdMs,
	}
}

// NewDefaultGeoCluster creates a GeoCluster with a 500ms RTT threshold.
func NewDefaultGeoCluster() *GeoCluster {
	return NewGeoCluster(500.0)
}

// RegisterLeader registers or updates a Tier-1 leader's location and
// capacity, preserving its current load if already known.
func (g *GeoCluster) RegisterLeader(agentID identity.AgentId, coordinates identity.VivaldiCoordinates, capacity uint64) {
	load := uint64(0)
	if existing, ok := g.leaders[agentID]; ok {
		load = existing.CurrentLoad
	}
	g.leaders[agentID] = LeaderLocation{
		AgentID:     agentID,
		Coordinates: coordinates,
		Capacity:    capacity,
		CurrentLoad: load,
	}
}

// RemoveLeader removes a leader and orphans (unassigns) every agent
// that was in its branch.
func (g *GeoCluster) RemoveLeader(agentID identity.AgentId) {
	delete(g.leaders, agentID)
	for id, assignment := range g.assignments {
		if assignment.LeaderID == agentID {
			delete(g.assignments, id)
		}
	}
}

// UpdateAgentCoordinates records an agent's latest Vivaldi coordinates.
func (g *GeoCluster) UpdateAgentCoordinates(agentID identity.AgentId, coordinates identity.VivaldiCoordinates) {
	g.agentCoords[agentID] = coordinates
}

// FindBestLeader returns the closest leader with spare capacity, or
// falling back to the overall closest leader if none have capacity.
func (g *GeoCluster) FindBestLeader(agentCoords identity.VivaldiCoordinates) (identity.AgentId, float64, error) {
	if len(g.leaders) == 0 {
		return "", 0, &ElectionFailedError{Reason: "no leaders available for clustering"}
	}

	type candidate struct {
		id          identity.AgentId
		dist        float64
		hasCapacity bool
	}
	candidates := make([]candidate, 0, len(g.leaders))
	for id, leader := range g.leaders {
		candidates = append(candidates, candidate{
			id:          id,
			dist:        agentCoords.DistanceTo(leader.Coordinates),
			hasCapacity: leader.CurrentLoad < leader.Capacity,
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	for _, c := range candidates {
		if c.hasCapacity {
			return c.id, c.dist, nil
		}
	}
	return candidates[0].id, candidates[0].dist, nil
}

// AssignAgent computes and records an agent's optimal leader
// assignment, updating load counts on the old and new leader.
func (g *GeoCluster) AssignAgent(agentID identity.AgentId) (ClusterAssignment, error) {
	coords, ok := g.agentCoords[agentID]
	if !ok {
		coords = identity.Origin()
	}

	leaderID, estimatedRTT, err := g.FindBestLeader(coords)
	if err != nil {
		return ClusterAssignment{}, err
	}

	if old, ok := g.assignments[agentID]; ok {
		if oldLeader, ok := g.leaders[old.LeaderID]; ok {
			if oldLeader.CurrentLoad > 0 {
				oldLeader.CurrentLoad--
			}
			g.leaders[old.LeaderID] = oldLeader
		}
	}

	if newLeader, ok := g.leaders[leaderID]; ok {
		newLeader.CurrentLoad++
		g.leaders[leaderID] = newLeader
	}

	assignment := ClusterAssignment{
		AgentID:        agentID,
		LeaderID:       leaderID,
		EstimatedRTTMs: estimatedRTT,
	}
	g.assignments[agentID] = assignment
	return assignment, nil
}

// RebalanceAll resets every leader's load and recomputes every known
// agent's assignment from scratch, useful after elections or failover.
func (g *GeoCluster) RebalanceAll() ([]ClusterAssignment, error) {
	for id, leader := range g.leaders {
		leader.CurrentLoad = 0
		g.leaders[id] = leader
	}
	g.assignments = make(map[identity.AgentId]ClusterAssignment)

	agentIDs := make([]identity.AgentId, 0, len(g.agentCoords))
	for id := range g.agentCoords {
		agentIDs = append(agentIDs, id)
	}

	results := make([]ClusterAssignment, 0, len(agentIDs))
	for _, agentID := range agentIDs {
		assignment, err := g.AssignAgent(agentID)
		if err != nil {
			return nil, err
		}
		results = append(results, assignment)
	}
	return results, nil
}

// GetAssignment returns an agent's current leader assignment, if any.
func (g *GeoCluster) GetAssignment(agentID identity.AgentId) (ClusterAssignment, bool) {
	a, ok := g.assignments[agentID]
	return a, ok
}

// GetBranch returns every agent currently assigned to leaderID.
func (g *GeoCluster) GetBranch(leaderID identity.AgentId) []identity.AgentId {
	out := make([]identity.AgentId, 0)
	for id, assignment := range g.assignments {
		if assignment.LeaderID == leaderID {
			out = append(out, id)
		}
	}
	return out
}

// LeaderCount returns the number of registered leaders.
func (g *GeoCluster) LeaderCount() int {
	return len(g.leaders)
}

// LeaderIDs returns every registered leader's ID, in unspecified order.
func (g *GeoCluster) LeaderIDs() []identity.AgentId {
	out := make([]identity.AgentId, 0, len(g.leaders))
	for id := range g.leaders {
		out = append(out, id)
	}
	return out
}
