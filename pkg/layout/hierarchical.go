package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/linkgraph/pkg/dag"
	"github.com/matzehuels/linkgraph/pkg/dag/ordering"
	"github.com/matzehuels/linkgraph/pkg/dag/transform"
	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Direction maps layers to a screen axis.
type Direction string

const (
	// TopBottom stacks layers vertically.
	TopBottom Direction = "TB"
	// LeftRight stacks layers horizontally.
	LeftRight Direction = "LR"
)

// Hierarchical layout defaults.
const (
	DefaultNodeSep         = 40.0
	DefaultRankSep         = 90.0
	DefaultNodeWidth       = 160.0
	DefaultNodeHeight      = 48.0
	DefaultExternalPadding = 24.0
	DefaultSweeps          = 8
	relaxIterations        = 6
)

// HierarchicalOptions configures layered layouts. Zero values take defaults.
type HierarchicalOptions struct {
	Direction       Direction
	NodeSep         float64 // gap between neighbours in a layer
	RankSep         float64 // gap between layers
	NodeWidth       float64
	NodeHeight      float64
	ExternalPadding float64 // extra margin around external nodes
	Sweeps          int     // barycentric sweep pairs
	Center          graph.Position
}

// ValidateAndSetDefaults fills zero values with defaults.
func (o *HierarchicalOptions) ValidateAndSetDefaults() {
	if o.Direction != LeftRight {
		o.Direction = TopBottom
	}
	if o.NodeSep <= 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = DefaultRankSep
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.ExternalPadding < 0 {
		o.ExternalPadding = 0
	} else if o.ExternalPadding == 0 {
		o.ExternalPadding = DefaultExternalPadding
	}
	if o.Sweeps <= 0 {
		o.Sweeps = DefaultSweeps
	}
	if o.Center == (graph.Position{}) {
		o.Center = graph.Position{X: DefaultWidth / 2, Y: DefaultHeight / 2}
	}
}

// size returns a node's box (width, height) including external padding.
func (o HierarchicalOptions) size(n graph.Node) (float64, float64) {
	w, h := o.NodeWidth, o.NodeHeight
	if n.Kind == graph.KindExternal {
		w += 2 * o.ExternalPadding
		h += 2 * o.ExternalPadding
	}
	return w, h
}

// minLen returns the minimum rank distance of an edge.
func minLen(e graph.Edge) int {
	if e.Kind == graph.EdgeExternal {
		return 2
	}
	return 1
}

// Hierarchical is the native layered [Strategy].
type Hierarchical struct {
	opts HierarchicalOptions
}

// NewHierarchical creates a native layered strategy.
func NewHierarchical(opts HierarchicalOptions) *Hierarchical {
	opts.ValidateAndSetDefaults()
	return &Hierarchical{opts: opts}
}

// Name implements Strategy.
func (h *Hierarchical) Name() string { return NameHierarchical }

// Options returns the effective options.
func (h *Hierarchical) Options() HierarchicalOptions { return h.opts }

// Layout implements Strategy.
func (h *Hierarchical) Layout(nodes []graph.Node, edges []graph.Edge) []graph.Node {
	if len(nodes) == 0 {
		return []graph.Node{}
	}
	o := h.opts
	g := h.buildDAG(nodes, edges)

	// nodes[0] is the focus document; cycles are broken so it ranks first.
	transform.Normalize(g, nodes[0].ID)
	orders := ordering.Barycentric{Passes: o.Sweeps}.OrderLayers(g)

	along := h.assignCoordinates(g, orders)

	// Rank axis: every layer gets the same thickness.
	thickness := o.NodeHeight + 2*o.ExternalPadding
	if o.Direction == LeftRight {
		thickness = o.NodeWidth + 2*o.ExternalPadding
	}

	pos := make([]graph.Position, len(nodes))
	for i, n := range nodes {
		// Nodes the DAG rejected (empty IDs) sit on the first layer.
		layer := 0
		if dn, ok := g.Node(n.ID); ok {
			layer = dn.Layer
		}
		a := along[n.ID]
		r := float64(layer) * (thickness + o.RankSep)
		if o.Direction == LeftRight {
			pos[i] = graph.Position{X: r, Y: a}
		} else {
			pos[i] = graph.Position{X: a, Y: r}
		}
	}
	recenter(pos, o.Center)
	return withPositions(nodes, pos, o.Center)
}

// buildDAG converts nodes and edges into a layered graph. Duplicate node IDs
// collapse onto the first occurrence; self loops, dangling edges and parallel
// edges are dropped.
func (h *Hierarchical) buildDAG(nodes []graph.Node, edges []graph.Edge) *dag.DAG {
	g := dag.New()
	for _, n := range nodes {
		w, ht := h.opts.size(n)
		extent := w
		if h.opts.Direction == LeftRight {
			extent = ht
		}
		_ = g.AddNode(dag.Node{ID: n.ID, Width: extent})
	}
	for _, e := range usableEdges(nodes, edges) {
		_ = g.AddEdge(dag.Edge{From: e.Source, To: e.Target, MinLen: minLen(e)})
	}
	return g
}

// assignCoordinates computes each node's coordinate along its layer: packed
// placement, then alternating relaxation toward the mean of neighbours in
// the adjacent layer under minimum-separation constraints.
func (h *Hierarchical) assignCoordinates(g *dag.DAG, orders map[int][]string) map[string]float64 {
	sep := h.opts.NodeSep
	width := func(id string) float64 {
		n, _ := g.Node(id)
		return n.Width
	}
	gap := func(a, b string) float64 { return (width(a)+width(b))/2 + sep }

	x := make(map[string]float64, g.NodeCount())
	layers := slices.Sorted(maps.Keys(orders))
	for _, l := range layers {
		cursor := 0.0
		for i, id := range orders[l] {
			if i > 0 {
				cursor += gap(orders[l][i-1], id)
			}
			x[id] = cursor
		}
	}

	relax := func(l int, useParents bool) {
		row := orders[l]
		if len(row) == 0 {
			return
		}
		desired := make([]float64, len(row))
		for i, id := range row {
			nbrs := g.Children(id)
			if useParents {
				nbrs = g.Parents(id)
			}
			desired[i] = x[id]
			if len(nbrs) > 0 {
				sum := 0.0
				for _, nb := range nbrs {
					sum += x[nb]
				}
				desired[i] = sum / float64(len(nbrs))
			}
		}
		placed := make([]float64, len(row))
		for i := range row {
			placed[i] = desired[i]
			if i > 0 {
				placed[i] = max(placed[i], placed[i-1]+gap(row[i-1], row[i]))
			}
		}
		// Shift the packed layer so its mean matches the desired mean.
		shift := mean(desired) - mean(placed)
		for i, id := range row {
			x[id] = placed[i] + shift
		}
	}

	for it := 0; it < relaxIterations; it++ {
		for _, l := range layers[min(1, len(layers)):] {
			relax(l, true)
		}
		for i := len(layers) - 2; i >= 0; i-- {
			relax(layers[i], false)
		}
	}
	return x
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := 0.0
	for _, f := range v {
		s += f
	}
	return s / float64(len(v))
}
