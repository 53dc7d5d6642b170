package transform

import "github.com/matzehuels/linkgraph/pkg/dag"

// BreakCycles makes g acyclic and returns the number of edges it reversed.
//
// Edges closing a cycle are found by depth-first search. The search starts
// at roots in the given order, then at the remaining sources, then at any
// node not yet reached. Links leaving a root therefore keep their direction:
// passing the focus document as a root keeps it above what it links to even
// when those documents link back.
func BreakCycles(g *dag.DAG, roots ...string) int {
	type frame struct {
		id   string
		next int // index of the next child to visit
	}
	const (
		unseen = iota
		active
		finished
	)

	state := make(map[string]int, g.NodeCount())
	var closing []dag.Edge

	visit := func(start string) {
		if n, ok := g.Node(start); !ok || state[n.ID] != unseen {
			return
		}
		stack := []frame{{id: start}}
		state[start] = active
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				state[top.id] = finished
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch state[child] {
			case unseen:
				state[child] = active
				stack = append(stack, frame{id: child})
			case active:
				closing = append(closing, dag.Edge{From: top.id, To: child})
			}
		}
	}

	for _, id := range roots {
		visit(id)
	}
	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}

	// Parallel back edges are recorded once per copy but reversed together.
	reversed := 0
	for _, e := range closing {
		if g.HasEdge(e.From, e.To) {
			g.ReverseEdge(e.From, e.To)
			reversed++
		}
	}
	return reversed
}
