package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning graph nodes.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.LayoutOptions{}

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command takes a graph.json file (produced by 'build') and assigns
every node a position. The output is a graph file with positions
(default: <input>.layout.json) that 'render' draws without re-laying out.

Algorithms:
  force         organic force-directed simulation (default)
  hierarchical  layered layout, links point down (or right with --direction LR)
  dot           layered layout computed by Graphviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], c.layoutOptions(opts), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addLayoutFlags registers the flags shared by commands that lay out graphs.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.LayoutOptions) {
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "layout algorithm: "+strings.Join(layout.Names(), ", "))
	cmd.Flags().IntVar(&opts.Force.Iterations, "iterations", 0, "force simulation steps")
	cmd.Flags().Uint64Var(&opts.Force.Seed, "seed", 0, "random seed for the force layout")
	cmd.Flags().Float64Var(&opts.Force.Width, "width", 0, "layout width")
	cmd.Flags().Float64Var(&opts.Force.Height, "height", 0, "layout height")
	cmd.Flags().StringVar((*string)(&opts.Hierarchical.Direction), "direction", "", "layer direction for layered layouts: TB, LR")
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.LayoutOptions, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, "", noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spinner.Start()
	res, err := runner.ApplyLayout(ctx, "", g.Nodes, g.Edges, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".layout.json")
	}
	laid := graph.Graph{Nodes: res.Nodes, Edges: g.Edges}
	if err := graph.WriteGraphFile(laid, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printLayoutStats(len(res.Nodes), len(g.Edges), res.Algorithm, res.CacheHit)
	printNewline()
	printNextStep("Render", "linkgraph render "+outputPath)
	return nil
}
