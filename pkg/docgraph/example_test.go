package docgraph_test

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/fsys"
)

func ExampleBuilder_Build() {
	fs := fsys.NewMem()
	now := time.Now()
	fs.WriteFile("/notes/index.md", "# Index\n\n[Setup](setup.md) and [Go](https://go.dev)", now)
	fs.WriteFile("/notes/setup.md", "# Setup\n\nBack to [index](index.md).", now)
	fs.WriteFile("/notes/orphan.md", "# Orphan", now)

	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)

	b := docgraph.NewBuilder(fs, docgraph.NewParseCache(), logger)
	res, err := b.Build(context.Background(), docgraph.BuildRequest{
		Root:     "/notes",
		Focus:    "index.md",
		MaxDepth: 2,
		MaxNodes: 50,
	})
	if err != nil {
		panic(err)
	}

	for _, n := range res.Nodes {
		fmt.Println(n.ID, n.Label())
	}
	for _, e := range res.Edges {
		fmt.Println(e.ID)
	}
	fmt.Println("documents:", res.LoadedDocuments, "of", res.TotalDocuments)
	fmt.Println("domains:", res.External.DomainCount)
	// Output:
	// doc:index.md Index
	// doc:setup.md Setup
	// doc:index.md->doc:setup.md
	// doc:setup.md->doc:index.md
	// documents: 2 of 3
	// domains: 1
}
