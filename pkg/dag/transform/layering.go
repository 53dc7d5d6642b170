package transform

import "github.com/matzehuels/linkgraph/pkg/dag"

// AssignLayers layers an acyclic g in two passes.
//
// The first pass gives every node its longest-path distance from the
// sources, where an edge of span k keeps its target at least k layers below
// its source. The second pass lowers each source to sit just above its
// highest child: a document that only links into the middle of the graph
// is drawn next to its target rather than on the top layer, which keeps
// edges short.
//
// Nodes on a cycle keep layer 0; call [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	layers := make(map[string]int, len(nodes))
	pending := make(map[string]int, len(nodes))
	var order []string

	for _, n := range nodes {
		layers[n.ID] = 0
		pending[n.ID] = len(g.Parents(n.ID))
		if pending[n.ID] == 0 {
			order = append(order, n.ID)
		}
	}
	for i := 0; i < len(order); i++ {
		id := order[i]
		for _, child := range g.Children(id) {
			layers[child] = max(layers[child], layers[id]+span(g, id, child))
			if pending[child]--; pending[child] == 0 {
				order = append(order, child)
			}
		}
	}

	for _, n := range g.Sources() {
		children := g.Children(n.ID)
		if len(children) == 0 {
			continue
		}
		lowest := -1
		for _, child := range children {
			l := layers[child] - span(g, n.ID, child)
			if lowest < 0 || l < lowest {
				lowest = l
			}
		}
		layers[n.ID] = max(layers[n.ID], lowest)
	}

	g.SetLayers(layers)
}

func span(g *dag.DAG, from, to string) int {
	if e, ok := g.Edge(from, to); ok {
		return e.Span()
	}
	return 1
}
