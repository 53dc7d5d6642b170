package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/linkgraph/pkg/dag"
)

// Orderer determines the horizontal sequence of nodes in each layer.
type Orderer interface {
	OrderLayers(g *dag.DAG) map[int][]string
}

// DefaultPasses is the number of down/up sweep pairs used when Passes is 0.
const DefaultPasses = 8

// Barycentric orders layers with alternating barycenter sweeps.
type Barycentric struct {
	// Passes is the number of down+up sweep pairs (0 = DefaultPasses).
	Passes int
}

// OrderLayers returns, for every layer of g, the node IDs in the ordering
// with the fewest crossings found.
func (b Barycentric) OrderLayers(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	layers := g.LayerIDs()
	orders := make(map[int][]string, len(layers))
	for _, l := range layers {
		orders[l] = dag.NodeIDs(g.NodesInLayer(l))
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		for i := 1; i < len(layers); i++ {
			sortByNeighbors(g, orders, layers[i], layers[i]-1, true)
		}
		transpose(g, orders, layers)
		for i := len(layers) - 2; i >= 0; i-- {
			sortByNeighbors(g, orders, layers[i], layers[i]+1, false)
		}
		transpose(g, orders, layers)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			bestCrossings = c
			best = cloneOrders(orders)
		}
	}
	return best
}

// sortByNeighbors reorders a layer by the mean position of each node's
// neighbours in the adjacent layer. Nodes without neighbours there keep their
// current position as their barycenter. The sort is stable.
func sortByNeighbors(g *dag.DAG, orders map[int][]string, layer, adj int, useParents bool) {
	adjPos := dag.PosMap(orders[adj])
	current := orders[layer]

	type keyed struct {
		id     string
		center float64
	}
	items := make([]keyed, len(current))
	for i, id := range current {
		neighbors := g.Children(id)
		if useParents {
			neighbors = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range neighbors {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		center := float64(i)
		if n > 0 {
			center = sum / float64(n)
		}
		items[i] = keyed{id: id, center: center}
	}

	slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.center, b.center) })
	for i, it := range items {
		current[i] = it.id
	}
}

// transpose swaps adjacent nodes while doing so strictly reduces crossings
// against both neighbouring layers.
func transpose(g *dag.DAG, orders map[int][]string, layers []int) {
	for improved := true; improved; {
		improved = false
		for _, l := range layers {
			row := orders[l]
			above := dag.PosMap(orders[l-1])
			below := dag.PosMap(orders[l+1])
			for i := 0; i+1 < len(row); i++ {
				left, right := row[i], row[i+1]
				before := dag.PairCrossings(g, left, right, above, true) +
					dag.PairCrossings(g, left, right, below, false)
				after := dag.PairCrossings(g, right, left, above, true) +
					dag.PairCrossings(g, right, left, below, false)
				if after < before {
					row[i], row[i+1] = right, left
					improved = true
				}
			}
		}
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for l, ids := range orders {
		out[l] = slices.Clone(ids)
	}
	return out
}
