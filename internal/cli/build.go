package cli

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output     string
		depth      int
		maxNodes   int
		noExternal bool
	)

	cmd := &cobra.Command{
		Use:   "build <root> <focus>",
		Short: "Build the link graph around a focus document",
		Long: `Build the link graph around a focus document.

The build command scans every markdown document under <root>, indexes its
links, and collects the documents reachable from <focus> by following links
in either direction, up to --depth steps and --max-nodes documents. External
links are aggregated into one node per domain.

The graph is written as JSON (default: <focus>.graph.json, "-" for stdout).`,
		Example: `  linkgraph build ~/notes index.md
  linkgraph build docs guide/setup.md --depth 1 --no-external -o setup.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], args[1], output, depth, maxNodes, noExternal)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <focus>.graph.json)")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum link distance from the focus (default from config, 3)")
	cmd.Flags().IntVarP(&maxNodes, "max-nodes", "n", 0, "maximum number of documents (default from config, 100)")
	cmd.Flags().BoolVar(&noExternal, "no-external", false, "omit external domain nodes")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, root, focus, output string, depth, maxNodes int, noExternal bool) error {
	runner, err := c.newRunner(ctx, root, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := output == "-"
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Scanning documents...")
		spinner.Start()
	}

	opts := c.buildOptions(root, focus, depth, maxNodes)
	opts.OnProgress = buildProgress(c.Logger, spinner)
	res, err := runner.BuildGraphData(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	g := res.Graph(!noExternal)
	if toStdout {
		return graph.WriteGraph(g, stdout)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(path.Base(filepath.ToSlash(focus)), ".graph.json")
	}
	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if res.Empty() {
		printWarning("%s could not be read; the graph is empty", focus)
	} else {
		printSuccess("Graph built")
	}
	printFile(outputPath)
	printGraphStats(res.LoadedDocuments, res.TotalDocuments, len(g.Edges), res.External.DomainCount)
	if res.HasMore {
		printDetail("more documents are reachable; raise --depth or --max-nodes")
	}
	if broken := brokenLinksTable(res.Nodes); broken != "" {
		printNewline()
		printWarning("Some links point to missing documents")
		fmt.Fprintln(stdout, broken)
	}
	printNewline()
	printNextStep("Lay out", "linkgraph layout "+outputPath)
	return nil
}

// derivedPath replaces the extension of p with suffix.
func derivedPath(p, suffix string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + suffix
}
