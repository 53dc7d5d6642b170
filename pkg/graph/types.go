package graph

import (
	"math"
	"strings"

	"github.com/matzehuels/linkgraph/pkg/markdown"
)

// NodeKind discriminates document nodes from external domain nodes.
type NodeKind string

// EdgeKind discriminates links between documents from links leaving the tree.
type EdgeKind string

const (
	KindDocument NodeKind = "document"
	KindExternal NodeKind = "external"

	EdgeInternal EdgeKind = "internal"
	EdgeExternal EdgeKind = "external"
)

// ID prefixes.
const (
	DocumentPrefix = "doc:"
	ExternalPrefix = "ext:"
)

// =============================================================================
// Nodes and Edges
// =============================================================================

// Position is a 2-D coordinate in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Node is a vertex of a document graph. Exactly one of Doc and External is
// set, matching Kind. Position is nil until a layout has run.
type Node struct {
	ID       string            `json:"id"`
	Kind     NodeKind          `json:"kind"`
	Position *Position         `json:"position,omitempty"`
	Doc      *DocumentData     `json:"doc,omitempty"`
	External *ExternalNodeData `json:"external,omitempty"`
}

// DocumentData is the payload of a document node.
type DocumentData struct {
	Path        string         `json:"path"`
	Stats       markdown.Stats `json:"stats"`
	BrokenLinks []string       `json:"broken_links,omitempty"`
}

// ExternalNodeData is the payload of an aggregated external domain node.
type ExternalNodeData struct {
	Domain    string   `json:"domain"`
	LinkCount int      `json:"link_count"`
	URLs      []string `json:"urls"`
}

// Edge is a directed link between two nodes.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// Graph is a serializable node and edge list.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// HasPosition reports whether the node carries a finite position.
func (n Node) HasPosition() bool {
	return n.Position != nil && n.Position.IsFinite()
}

// WithPosition returns a copy of the node placed at p.
func (n Node) WithPosition(p Position) Node {
	n.Position = &p
	return n
}

// Label returns a short display name: the document title or the domain.
func (n Node) Label() string {
	switch {
	case n.Doc != nil && n.Doc.Stats.Title != "":
		return n.Doc.Stats.Title
	case n.Doc != nil:
		return n.Doc.Path
	case n.External != nil:
		return n.External.Domain
	}
	return n.ID
}

// =============================================================================
// Identity
// =============================================================================

// DocumentID returns the node ID of a document.
func DocumentID(path string) string { return DocumentPrefix + path }

// ExternalID returns the node ID of an external domain.
func ExternalID(domain string) string { return ExternalPrefix + domain }

// EdgeID returns the ID of the edge from source to target.
func EdgeID(source, target string) string { return source + "->" + target }

// PathFromID returns the document path encoded in a document node ID.
func PathFromID(id string) (string, bool) {
	return strings.CutPrefix(id, DocumentPrefix)
}

// ClonePositions returns a copy of nodes whose Position pointers are not
// shared with the input.
func ClonePositions(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		out[i] = n
	}
	return out
}
