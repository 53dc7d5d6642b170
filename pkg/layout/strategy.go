// Package layout positions document graph nodes in 2-D.
//
// Three interchangeable [Strategy] implementations are provided:
//
//   - [NewForce]: a seeded force-directed simulation (springs, repulsion,
//     collision, centering) producing organic layouts
//   - [NewHierarchical]: a native Sugiyama-style layered layout built on
//     pkg/dag, pkg/dag/transform and pkg/dag/ordering
//   - [NewGraphviz]: the same layered contract computed by Graphviz "dot",
//     falling back to the native hierarchical strategy on failure
//
// Every strategy is a pure function of its input and options: the same nodes,
// edges and options always produce the same positions. Every input node
// receives exactly one finite position, whatever the edge set looks like
// (self loops, multi-edges, cycles, disconnected components, dangling edges).
//
// Inputs are never mutated; strategies return new node slices.
package layout

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Strategy names accepted by [New].
const (
	NameForce        = "force"
	NameHierarchical = "hierarchical"
	NameDot          = "dot"
)

// Names lists the available strategies.
func Names() []string {
	return []string{NameForce, NameHierarchical, NameDot}
}

// Strategy computes positions for a node set.
type Strategy interface {
	// Name identifies the strategy for logs, metrics and cache keys.
	Name() string
	// Layout returns a copy of nodes with positions assigned.
	Layout(nodes []graph.Node, edges []graph.Edge) []graph.Node
}

// Options bundles per-strategy options for [New].
type Options struct {
	Force        ForceOptions
	Hierarchical HierarchicalOptions
	Logger       *log.Logger
}

// New returns the strategy with the given name.
func New(name string, opts Options) (Strategy, error) {
	switch name {
	case NameForce, "":
		return NewForce(opts.Force), nil
	case NameHierarchical:
		return NewHierarchical(opts.Hierarchical), nil
	case NameDot:
		return NewGraphviz(opts.Hierarchical, opts.Logger), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (want one of %v)", name, Names())
}

// ApplyForce runs the force-directed layout once.
func ApplyForce(nodes []graph.Node, edges []graph.Edge, opts ForceOptions) []graph.Node {
	return NewForce(opts).Layout(nodes, edges)
}

// ApplyHierarchical runs the native hierarchical layout once.
func ApplyHierarchical(nodes []graph.Node, edges []graph.Edge, opts HierarchicalOptions) []graph.Node {
	return NewHierarchical(opts).Layout(nodes, edges)
}

// =============================================================================
// Shared helpers
// =============================================================================

// usableEdges drops self loops, edges with unknown endpoints and duplicates
// of the same (source, target) pair. Order is preserved.
func usableEdges(nodes []graph.Node, edges []graph.Edge) []graph.Edge {
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}
	seen := make(map[[2]string]struct{}, len(edges))
	out := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := known[e.Source]; !ok {
			continue
		}
		if _, ok := known[e.Target]; !ok {
			continue
		}
		key := [2]string{e.Source, e.Target}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// finite replaces a non-finite coordinate with the fallback.
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// recenter shifts positions so that their bounding-box center lies on c.
func recenter(pos []graph.Position, c graph.Position) {
	if len(pos) == 0 {
		return
	}
	minX, maxX := pos[0].X, pos[0].X
	minY, maxY := pos[0].Y, pos[0].Y
	for _, p := range pos[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	dx := c.X - (minX+maxX)/2
	dy := c.Y - (minY+maxY)/2
	for i := range pos {
		pos[i].X += dx
		pos[i].Y += dy
	}
}

// withPositions copies nodes and assigns pos[i] to nodes[i], clamping
// non-finite values to center.
func withPositions(nodes []graph.Node, pos []graph.Position, center graph.Position) []graph.Node {
	out := slices.Clone(nodes)
	for i := range out {
		p := graph.Position{X: finite(pos[i].X, center.X), Y: finite(pos[i].Y, center.Y)}
		out[i].Position = &p
	}
	return out
}
