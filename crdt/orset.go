// Package crdt implements the Observed-Remove Set (OR-Set), a
// conflict-free replicated data type used for hot state that must
// converge across the swarm without coordination: task status
// tracking, active-agent lists, proposal and vote tracking.
//
// Each element is tagged with a unique identifier on add. Remove only
// tombstones tags currently observed by the removing replica, so a
// concurrent add on another replica survives a merge: add-wins.
package crdt

// UniqueTag identifies one specific add operation. The pair
// (NodeID, Counter) is unique across the swarm as long as node IDs are
// unique and each node's counter is monotonically increasing.
type UniqueTag struct {
	NodeID  string
	Counter uint64
}

// OrSet is an OR-Set CRDT over comparable element type T.
type OrSet[T comparable] struct {
	nodeID     string
	entries    map[T]map[UniqueTag]struct{}
	tombstones map[UniqueTag]struct{}
	counter    uint64
}

// NewOrSet creates an empty OR-Set replica identified by nodeID.
func NewOrSet[T comparable](nodeID string) *OrSet[T] {
	return &OrSet[T]{
		nodeID:     nodeID,
		entries:    make(map[T]map[UniqueTag]struct{}),
		tombstones: make(map[UniqueTag]struct{}),
	}
}

// NodeID returns this replica's node identifier.
func (s *OrSet[T]) NodeID() string {
	return s.nodeID
}

// Add inserts value, tagging it with a freshly minted unique tag so a
// concurrent remove elsewhere can never discard this specific add.
func (s *OrSet[T]) Add(value T) {
	s.counter++
	tag := UniqueTag{NodeID: s.nodeID, Counter: s.counter}
	tags, ok := s.entries[value]
	if !ok {
		tags = make(map[UniqueTag]struct{})
		s.entries[value] = tags
	}
	tags[tag] = struct{}{}
}

// Remove tombstones every tag currently observed for value. A tag
// created by a concurrent add on another replica that has not yet been
// observed here is untouched and will survive a later merge.
func (s *OrSet[T]) Remove(value T) {
	tags, ok := s.entries[value]
	if !ok {
		return
	}
	for tag := range tags {
		s.tombstones[tag] = struct{}{}
	}
}

// Contains reports whether value has at least one non-tombstoned tag.
func (s *OrSet[T]) Contains(value T) bool {
	tags, ok := s.entries[value]
	if !ok {
		return false
	}
	for tag := range tags {
		if _, dead := s.tombstones[tag]; !dead {
			return true
		}
	}
	return false
}

// Elements returns every currently present value, in unspecified order.
func (s *OrSet[T]) Elements() []T {
	out := make([]T, 0, len(s.entries))
	for value, tags := range s.entries {
		for tag := range tags {
			if _, dead := s.tombstones[tag]; !dead {
				out = append(out, value)
				break
			}
		}
	}
	return out
}

// Len returns the number of currently present elements.
func (s *OrSet[T]) Len() int {
	return len(s.Elements())
}

// IsEmpty reports whether the set has no present elements.
func (s *OrSet[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Merge folds another replica's state into this one. The merge unions
// entries and tombstones, is commutative, associative, and idempotent,
// which gives the set its convergence guarantee. A value present after
// merge needs only one surviving tag anywhere in the union.
func (s *OrSet[T]) Merge(other *OrSet[T]) {
	for value, tags := range other.entries {
		local, ok := s.entries[value]
		if !ok {
			local = make(map[UniqueTag]struct{})
			s.entries[value] = local
		}
		for tag := range tags {
			local[tag] = struct{}{}
		}
	}
	for tag := range other.tombstones {
		s.tombstones[tag] = struct{}{}
	}
}

// TaskStatusSet tracks task status strings across the swarm.
type TaskStatusSet = OrSet[string]

// AgentSet tracks active agent identifiers across the swarm.
type AgentSet = OrSet[string]
