package positions

import "github.com/matzehuels/linkgraph/pkg/graph"

// NodeDiff is the structural difference between two node sets.
type NodeDiff struct {
	Added      []graph.Node
	Removed    []graph.Node
	Unchanged  []graph.Node // carries the new node data
	AddedIDs   map[string]struct{}
	RemovedIDs map[string]struct{}
}

// Empty reports whether nothing was added or removed.
func (d NodeDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares old and new node sets by ID.
func Diff(old, new []graph.Node) NodeDiff {
	oldIDs := make(map[string]struct{}, len(old))
	for _, n := range old {
		oldIDs[n.ID] = struct{}{}
	}
	newIDs := make(map[string]struct{}, len(new))
	for _, n := range new {
		newIDs[n.ID] = struct{}{}
	}

	d := NodeDiff{
		AddedIDs:   make(map[string]struct{}),
		RemovedIDs: make(map[string]struct{}),
	}
	for _, n := range new {
		if _, ok := oldIDs[n.ID]; ok {
			d.Unchanged = append(d.Unchanged, n)
			continue
		}
		d.Added = append(d.Added, n)
		d.AddedIDs[n.ID] = struct{}{}
	}
	for _, n := range old {
		if _, ok := newIDs[n.ID]; !ok {
			d.Removed = append(d.Removed, n)
			d.RemovedIDs[n.ID] = struct{}{}
		}
	}
	return d
}
