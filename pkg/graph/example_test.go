package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{{
			ID:   graph.ExternalID("go.dev"),
			Kind: graph.KindExternal,
			External: &graph.ExternalNodeData{
				Domain:    "go.dev",
				LinkCount: 2,
				URLs:      []string{"https://go.dev/a", "https://go.dev/b"},
			},
		}},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "ext:go.dev",
	//       "kind": "external",
	//       "external": {
	//         "domain": "go.dev",
	//         "link_count": 2,
	//         "urls": [
	//           "https://go.dev/a",
	//           "https://go.dev/b"
	//         ]
	//       }
	//     }
	//   ],
	//   "edges": []
	// }
}

func ExampleDocumentID() {
	id := graph.DocumentID("guides/setup.md")
	fmt.Println(id)
	fmt.Println(graph.EdgeID(id, graph.ExternalID("github.com")))

	path, ok := graph.PathFromID(id)
	fmt.Println(path, ok)
	// Output:
	// doc:guides/setup.md
	// doc:guides/setup.md->ext:github.com
	// guides/setup.md true
}
