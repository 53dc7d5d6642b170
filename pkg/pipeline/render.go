package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/render/nodelink"
)

// RenderOptions selects the output of [Render].
type RenderOptions struct {
	Format   string `json:"format,omitempty"` // svg (default), png, pdf, dot or json
	Detailed bool   `json:"detailed,omitempty"`
}

// Render draws positioned nodes and edges in the requested format. JSON
// output is the serialized graph with positions.
func Render(ctx context.Context, nodes []graph.Node, edges []graph.Edge, opts RenderOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = FormatSVG
	}
	if !ValidFormats[format] {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if format == FormatJSON {
		return graph.MarshalGraph(graph.Graph{Nodes: nodes, Edges: edges})
	}
	data, err := nodelink.Render(ctx, nodes, edges, format, nodelink.Options{Detailed: opts.Detailed})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
