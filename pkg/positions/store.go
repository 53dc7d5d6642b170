package positions

import (
	"sync"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Store holds saved node positions per graph ID in memory. It is safe for
// concurrent use.
type Store struct {
	mu     sync.RWMutex
	graphs map[string]map[string]graph.Position
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{graphs: make(map[string]map[string]graph.Position)}
}

// Save replaces the saved positions of graphID with those of nodes.
// Nodes without a finite position are not recorded.
func (s *Store) Save(graphID string, nodes []graph.Node) {
	saved := make(map[string]graph.Position, len(nodes))
	for _, n := range nodes {
		if n.HasPosition() {
			saved[n.ID] = *n.Position
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graphID] = saved
}

// Restore returns a copy of nodes in which every node with a saved position
// carries that position. Other nodes are returned unchanged.
func (s *Store) Restore(graphID string, nodes []graph.Node) []graph.Node {
	s.mu.RLock()
	saved := s.graphs[graphID]
	s.mu.RUnlock()

	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		if p, ok := saved[n.ID]; ok {
			n = n.WithPosition(p)
		}
		out[i] = n
	}
	return out
}

// Has reports whether positions were saved for graphID.
func (s *Store) Has(graphID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.graphs[graphID]
	return ok
}

// Clear forgets graphID.
func (s *Store) Clear(graphID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, graphID)
}

// ClearAll forgets every graph.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.graphs)
}
