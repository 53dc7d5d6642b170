package transform

import "github.com/matzehuels/linkgraph/pkg/dag"

// Normalize prepares g for layer-by-layer drawing: it breaks cycles
// starting from roots, layers the nodes and subdivides edges that skip
// layers. It returns the number of reversed edges.
func Normalize(g *dag.DAG, roots ...string) int {
	reversed := BreakCycles(g, roots...)
	AssignLayers(g)
	Subdivide(g)
	return reversed
}
