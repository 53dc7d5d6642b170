package transform

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/linkgraph/pkg/dag"
)

// Subdivide replaces every edge that skips layers with a chain of
// single-layer edges through [dag.NodeKindDummy] nodes, one per skipped
// layer:
//
//	Before: readme (layer 0) → api (layer 3)
//	After:  readme → readme->api@1 → readme->api@2 → api
//
// A dummy is named after its edge and layer and records the edge source in
// Origin. If the name is already taken, "+1", "+2"... is appended.
//
// Edges whose target is not below their source are left as they are;
// [AssignLayers] never produces them.
func Subdivide(g *dag.DAG) {
	var long []dag.Edge
	for _, e := range g.Edges() {
		src, ok1 := g.Node(e.From)
		dst, ok2 := g.Node(e.To)
		if ok1 && ok2 && dst.Layer > src.Layer+1 {
			long = append(long, e)
		}
	}

	for _, e := range long {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		g.RemoveEdge(e.From, e.To)

		prev := e.From
		for layer := src.Layer + 1; layer < dst.Layer; layer++ {
			id := freeID(g, e.From+"->"+e.To+"@"+strconv.Itoa(layer))
			mustAdd(g.AddNode(dag.Node{ID: id, Layer: layer, Kind: dag.NodeKindDummy, Origin: e.From}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: e.To}))
	}
}

func freeID(g *dag.DAG, base string) string {
	id := base
	for i := 1; ; i++ {
		if _, taken := g.Node(id); !taken {
			return id
		}
		id = fmt.Sprintf("%s+%d", base, i)
	}
}

// mustAdd panics on insertion errors, which only duplicate IDs or edges
// cause and freeID rules out.
func mustAdd(err error) {
	if err != nil {
		panic("subdivide: " + err.Error())
	}
}
