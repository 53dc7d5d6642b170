package ordering_test

import (
	"fmt"

	"github.com/matzehuels/linkgraph/pkg/dag"
	"github.com/matzehuels/linkgraph/pkg/dag/ordering"
)

func ExampleBarycentric() {
	// Classic crossing example: X pattern
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "b", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "x", Layer: 1})
	_ = g.AddNode(dag.Node{ID: "y", Layer: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println("Initial crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))

	orders := ordering.Barycentric{}.OrderLayers(g)
	fmt.Println("After ordering:", dag.CountCrossings(g, orders))
	// Output:
	// Initial crossings: 1
	// After ordering: 0
}
