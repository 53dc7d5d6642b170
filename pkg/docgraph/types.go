package docgraph

import (
	"slices"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// Phase names a stage of graph construction.
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseParsing  Phase = "parsing"
)

// Progress is reported during a build.
type Progress struct {
	Phase              Phase  `json:"phase"`
	Current            int    `json:"current"`
	Total              int    `json:"total"`
	CurrentFile        string `json:"current_file,omitempty"`
	InternalLinksFound int    `json:"internal_links_found"`
	ExternalLinksFound int    `json:"external_links_found"`
}

// ExternalData is the per-domain aggregate of external links.
type ExternalData struct {
	Nodes       []graph.Node `json:"nodes"`
	Edges       []graph.Edge `json:"edges"`
	DomainCount int          `json:"domain_count"`
	LinkCount   int          `json:"link_count"`
}

// Result is the outcome of a build.
type Result struct {
	BuildID         string       `json:"build_id"`
	Nodes           []graph.Node `json:"nodes"` // document nodes
	Edges           []graph.Edge `json:"edges"` // internal edges
	TotalDocuments  int          `json:"total_documents"`
	LoadedDocuments int          `json:"loaded_documents"`
	HasMore         bool         `json:"has_more"`
	External        ExternalData `json:"external"`
}

// Empty reports whether the result holds no documents.
func (r *Result) Empty() bool {
	return len(r.Nodes) == 0
}

// WithExternal returns document and external nodes and edges together.
func (r *Result) WithExternal() ([]graph.Node, []graph.Edge) {
	return slices.Concat(r.Nodes, r.External.Nodes), slices.Concat(r.Edges, r.External.Edges)
}

// Graph returns the result as a serializable graph, optionally including
// external nodes.
func (r *Result) Graph(withExternal bool) graph.Graph {
	if withExternal {
		nodes, edges := r.WithExternal()
		return graph.Graph{Nodes: nodes, Edges: edges}
	}
	return graph.Graph{Nodes: slices.Clone(r.Nodes), Edges: slices.Clone(r.Edges)}
}
