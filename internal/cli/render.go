package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "pdf", "dot", "json"
	detailed bool     // add path and word counts to document labels
	relayout bool     // recompute positions even when the graph has them
	layout   pipeline.LayoutOptions
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}
	var formats string

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Draw a graph as SVG, PNG, PDF or DOT",
		Long: `Draw a graph as SVG, PNG, PDF or DOT.

Nodes keep the positions stored in the graph file (see 'layout'). Graphs
without positions, or any graph with --relayout, are laid out first.

PNG and PDF output require rsvg-convert (librsvg).`,
		Example: `  linkgraph render index.layout.json
  linkgraph render index.graph.json -a hierarchical -f svg,png -o site/graph`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			opts.layout = c.layoutOptions(opts.layout)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension (default: <input> base name)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated output formats: svg, png, pdf, dot, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show path and word count in labels")
	cmd.Flags().BoolVar(&opts.relayout, "relayout", false, "recompute positions")
	addLayoutFlags(cmd, &opts.layout)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	for _, f := range opts.formats {
		if !pipeline.ValidFormats[f] {
			return fmt.Errorf("unsupported format %q", f)
		}
	}

	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	nodes := g.Nodes
	if opts.relayout || !allPositioned(nodes) {
		runner, err := c.newRunner(ctx, "", false)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		res, err := runner.ApplyLayout(ctx, "", nodes, g.Edges, opts.layout)
		if err != nil {
			return fmt.Errorf("compute layout: %w", err)
		}
		nodes = res.Nodes
	}

	base := opts.output
	if base == "" {
		base = derivedPath(input, "")
		base = strings.TrimSuffix(base, ".layout")
		base = strings.TrimSuffix(base, ".graph")
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	var written []string
	for _, format := range opts.formats {
		data, err := pipeline.Render(ctx, nodes, g.Edges, pipeline.RenderOptions{Format: format, Detailed: opts.detailed})
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		path := base + "." + format
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	spinner.Stop()

	printSuccess("Rendered %d file(s)", len(written))
	for _, p := range written {
		printFile(p)
	}
	return nil
}

func allPositioned(nodes []graph.Node) bool {
	return !slices.ContainsFunc(nodes, func(n graph.Node) bool { return !n.HasPosition() })
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
