package cli

import (
	"slices"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/graph"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , Dot ", []string{"svg", "dot"}},
		{"duplicates", "svg,svg,json", []string{"svg", "json"}},
		{"empty items", "svg,,", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{"index.md", ".graph.json", "index.graph.json"},
		{"out/index.graph.json", ".layout.json", "out/index.graph.layout.json"},
		{"notes", ".graph.json", "notes.graph.json"},
		{"a.b.md", "", "a.b"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.path, tt.suffix); got != tt.want {
			t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestAllPositioned(t *testing.T) {
	a := graph.Node{ID: "doc:a.md"}.WithPosition(graph.Position{X: 1, Y: 2})
	b := graph.Node{ID: "doc:b.md"}
	if !allPositioned(nil) || !allPositioned([]graph.Node{a}) {
		t.Error("positioned nodes reported unpositioned")
	}
	if allPositioned([]graph.Node{a, b}) {
		t.Error("b has no position")
	}
}
