// Package pkg holds the libraries behind linkgraph, a visualizer for trees
// of linked markdown documents.
//
// # Data flow
//
//	document tree (local dir or in-memory FS)
//	         ↓
//	    [markdown]  parse links, front matter and stats
//	         ↓
//	    [docgraph]  reverse link index, bounded BFS around a focus document
//	         ↓
//	    [layout]    force, hierarchical or Graphviz dot positions
//	         ↓
//	    [render]    DOT, SVG, PNG, PDF or JSON
//
// [pipeline] wires these steps together behind a [pipeline.Runner], which
// owns the parse cache, saved positions and the layout cache. The CLI and
// the HTTP server both drive a Runner.
//
// # Quick start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(64), nil, nil)
//	defer runner.Close()
//
//	res, err := runner.BuildGraphData(ctx, pipeline.BuildOptions{
//	    RootPath:  "/home/me/notes",
//	    FocusFile: "index.md",
//	    MaxDepth:  2,
//	})
//	if err != nil {
//	    return err
//	}
//	g := res.Graph(true)
//
//	laid, err := runner.ApplyLayout(ctx, "", g.Nodes, g.Edges, pipeline.LayoutOptions{
//	    Algorithm: layout.NameHierarchical,
//	})
//	if err != nil {
//	    return err
//	}
//	svg, err := pipeline.Render(ctx, laid.Nodes, g.Edges, pipeline.RenderOptions{Format: "svg"})
//
// # Packages
//
// Graph model and input:
//   - [graph]: node, edge and position types with JSON encoding
//   - [fsys]: the file system abstraction, with OS and in-memory versions
//   - [markdown]: link extraction and document statistics
//   - [docgraph]: parse cache, reverse link index and graph builder
//
// Layout:
//   - [dag]: layered graph structure and crossing counts
//   - [dag/transform]: cycle breaking, layering and edge subdivision
//   - [dag/ordering]: barycentric crossing reduction
//   - [layout]: the layout strategies
//   - [positions]: saved positions, placement of new nodes and graph diffs
//   - [animate]: interpolated frames between two layouts
//
// Output:
//   - [render]: Graphviz DOT and SVG, PNG and PDF conversion
//
// Supporting packages:
//   - [cache]: memory and Redis caches for layout results
//   - [errors]: coded errors shared by the CLI and the API
//   - [observability]: hooks for build, layout and cache events
//   - [buildinfo]: version stamping
//
// [markdown]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/markdown
// [docgraph]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/docgraph
// [layout]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/pipeline#Runner
// [graph]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/graph
// [fsys]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/fsys
// [dag]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/dag/transform
// [dag/ordering]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/dag/ordering
// [positions]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/positions
// [animate]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/animate
// [cache]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/buildinfo
// [render]: https://pkg.go.dev/github.com/matzehuels/linkgraph/pkg/render
package pkg
