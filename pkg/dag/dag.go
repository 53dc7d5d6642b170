package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] for an edge from a node to itself.
	ErrSelfLoop = errors.New("self loop")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveLayers is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent layers (From.Layer+1 != To.Layer).
	ErrNonConsecutiveLayers = errors.New("edges must connect consecutive layers")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// NodeKind distinguishes original vertices from dummy nodes created while
// splitting long edges.
type NodeKind int

const (
	// NodeKindRegular is an original vertex.
	NodeKindRegular NodeKind = iota
	// NodeKindDummy is a synthetic node on a subdivided edge. Dummies carry
	// the ID of the edge's source in Origin.
	NodeKindDummy
)

// Node is a vertex with an assigned layer.
//
// Width is the node's extent along a layer (used by coordinate assignment);
// dummies have zero width.
type Node struct {
	ID     string
	Layer  int
	Width  float64
	Kind   NodeKind
	Origin string
}

// IsDummy reports whether the node was inserted to subdivide a long edge.
func (n Node) IsDummy() bool { return n.Kind == NodeKindDummy }

// Edge is a directed connection. MinLen is the minimum number of layers the
// edge must span after layering; values below 1 are treated as 1.
type Edge struct {
	From   string
	To     string
	MinLen int
}

// Span returns the effective minimum layer span.
func (e Edge) Span() int {
	if e.MinLen < 1 {
		return 1
	}
	return e.MinLen
}

// DAG is a directed graph prepared for layered drawing. Until cycles are
// broken it may contain cycles; [DAG.Validate] checks the final invariants.
//
// Iteration order everywhere is node insertion order so that every layout
// computed from a DAG is deterministic.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	layers   map[int][]*Node
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		layers:   make(map[int][]*Node),
	}
}

// AddNode adds a node and indexes it by its Layer.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.layers[node.Layer] = append(d.layers[node.Layer], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Self loops are rejected; parallel edges are allowed (see [DAG.HasEdge]).
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// HasEdge reports whether an edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	return slices.Contains(d.outgoing[from], to)
}

// Edge returns the first edge from→to.
func (d *DAG) Edge(from, to string) (Edge, bool) {
	for _, e := range d.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// RemoveEdge removes every edge from→to.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// ReverseEdge replaces every edge from→to with to→from, keeping MinLen.
// If the reversed edge already exists the edge is simply removed.
func (d *DAG) ReverseEdge(from, to string) {
	e, ok := d.Edge(from, to)
	if !ok {
		return
	}
	d.RemoveEdge(from, to)
	if d.HasEdge(to, from) {
		return
	}
	_ = d.AddEdge(Edge{From: to, To: from, MinLen: e.MinLen})
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the targets of the node's outgoing edges.
// The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of the node's incoming edges.
// The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// SetLayers updates layer assignments and rebuilds the layer index.
// Nodes missing from layers keep their current layer.
func (d *DAG) SetLayers(layers map[string]int) {
	d.layers = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if l, ok := layers[id]; ok {
			n.Layer = l
		}
		d.layers[n.Layer] = append(d.layers[n.Layer], n)
	}
}

// NodesInLayer returns the nodes assigned to a layer in insertion order.
func (d *DAG) NodesInLayer(layer int) []*Node { return d.layers[layer] }

// LayerIDs returns all layer indices in ascending order.
func (d *DAG) LayerIDs() []int {
	return slices.Sorted(maps.Keys(d.layers))
}

// MaxLayer returns the highest layer index, or 0 if the graph is empty.
func (d *DAG) MaxLayer() int {
	ids := d.LayerIDs()
	if len(ids) == 0 {
		return 0
	}
	return ids[len(ids)-1]
}

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Validate checks that every edge joins existing nodes in consecutive layers
// and that the graph is acyclic.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Layer != src.Layer+1 {
			return ErrNonConsecutiveLayers
		}
	}
	if d.HasCycle() {
		return ErrGraphHasCycle
	}
	return nil
}

// HasCycle reports whether the graph contains a directed cycle: whether
// some nodes are never freed when sources are peeled off one by one.
func (d *DAG) HasCycle() bool {
	pending := make(map[string]int, len(d.nodes))
	var ready []string
	for _, id := range d.order {
		pending[id] = len(d.incoming[id])
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}
	freed := 0
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		freed++
		for _, child := range d.outgoing[id] {
			if pending[child]--; pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}
	return freed < len(d.nodes)
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
