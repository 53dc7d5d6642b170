// Package pipeline provides the build → layout → render pipeline for linkgraph.
//
// This package is the public surface shared by the CLI and the HTTP server.
// By centralizing the orchestration here, every entry point gets the same
// caching, defaults and validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Scan the document tree and collect the neighbourhood of a focus
//     document (pkg/docgraph)
//  2. Layout: Compute node positions with a force-directed or layered
//     strategy (pkg/layout), optionally keeping earlier positions
//     (pkg/positions)
//  3. Render: Draw the positioned graph as SVG, PNG, PDF, DOT or JSON
//     (pkg/render/nodelink)
//
// Each stage can be run independently.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.BuildGraphData(ctx, pipeline.BuildOptions{
//	    RootPath:  "/home/me/notes",
//	    FocusFile: "index.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	nodes, edges := res.WithExternal()
//	laid, err := runner.ApplyLayout(ctx, res.BuildID, nodes, edges, pipeline.LayoutOptions{})
//	svg, err := pipeline.Render(ctx, laid.Nodes, edges, pipeline.RenderOptions{Format: "svg"})
package pipeline

import (
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/errors"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the default traversal depth from the focus document.
	DefaultMaxDepth = 3

	// DefaultMaxNodes is the default cap on loaded documents.
	DefaultMaxNodes = 100

	// DefaultAlgorithm is the default layout strategy.
	DefaultAlgorithm = layout.NameForce

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatDOT  = render.FormatDOT
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Build options
// =============================================================================

// BuildOptions configures a graph build.
type BuildOptions struct {
	// RootPath is the document root. Empty uses the runner's root.
	RootPath string `json:"root_path,omitempty"`
	// FocusFile is the root-relative path of the focus document.
	FocusFile string `json:"focus_file"`
	// MaxDepth bounds the traversal. Zero uses DefaultMaxDepth.
	MaxDepth int `json:"max_depth,omitempty"`
	// MaxNodes caps loaded documents. Zero uses DefaultMaxNodes.
	MaxNodes int `json:"max_nodes,omitempty"`

	OnProgress func(docgraph.Progress) `json:"-"`
	Logger     *log.Logger             `json:"-"`
}

// ValidateAndSetDefaults fills zero values and validates the result.
func (o *BuildOptions) ValidateAndSetDefaults() error {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.RootPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "root path is required")
	}
	if err := errors.ValidatePath(o.FocusFile); err != nil {
		return err
	}
	if err := errors.ValidateDepth(o.MaxDepth); err != nil {
		return err
	}
	return errors.ValidateNodeCap(o.MaxNodes)
}

// =============================================================================
// Layout options
// =============================================================================

// LayoutOptions configures [Runner.ApplyLayout].
type LayoutOptions struct {
	// Algorithm is one of layout.Names(). Empty uses DefaultAlgorithm.
	Algorithm string `json:"algorithm,omitempty"`
	// Incremental keeps the positions saved for the graph ID and only
	// places nodes that are new.
	Incremental bool `json:"incremental,omitempty"`
	// Refresh bypasses the layout cache.
	Refresh bool `json:"refresh,omitempty"`

	Force        layout.ForceOptions        `json:"force"`
	Hierarchical layout.HierarchicalOptions `json:"hierarchical"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero values and validates the algorithm.
func (o *LayoutOptions) ValidateAndSetDefaults() error {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if !slices.Contains(layout.Names(), o.Algorithm) {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (want one of %v)", o.Algorithm, layout.Names())
	}
	o.Force.ValidateAndSetDefaults()
	o.Hierarchical.ValidateAndSetDefaults()
	return nil
}

func (o LayoutOptions) strategy() (layout.Strategy, error) {
	return layout.New(o.Algorithm, layout.Options{
		Force:        o.Force,
		Hierarchical: o.Hierarchical,
		Logger:       o.Logger,
	})
}

// =============================================================================
// Results
// =============================================================================

// LayoutResult is the outcome of [Runner.ApplyLayout].
type LayoutResult struct {
	Nodes     []graph.Node  `json:"nodes"`
	Algorithm string        `json:"algorithm"`
	CacheHit  bool          `json:"cache_hit"`
	Skipped   bool          `json:"skipped"` // incremental run found no new nodes
	Added     int           `json:"added"`   // nodes placed by an incremental run
	Duration  time.Duration `json:"duration"`
}

// CacheStats reports the parsed-file cache size.
type CacheStats struct {
	ParsedFileCount int `json:"parsed_file_count"`
}
