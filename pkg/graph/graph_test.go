package graph

import (
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/linkgraph/pkg/markdown"
)

func sampleGraph() Graph {
	a, b := DocumentID("a.md"), DocumentID("b.md")
	return Graph{
		Nodes: []Node{
			{ID: a, Kind: KindDocument, Position: &Position{X: 1, Y: 2}, Doc: &DocumentData{
				Path:        "a.md",
				Stats:       markdown.Stats{Title: "A", WordCount: 3},
				BrokenLinks: []string{"missing.md"},
			}},
			{ID: b, Kind: KindDocument, Doc: &DocumentData{Path: "b.md"}},
		},
		Edges: []Edge{{ID: EdgeID(a, b), Source: a, Target: b, Kind: EdgeInternal}},
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := sampleGraph()

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error: %v", err)
	}
	got, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph() error: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, g)
	}
}

func TestGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(sampleGraph(), path); err != nil {
		t.Fatalf("WriteGraphFile() error: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("got %d nodes, %d edges, want 2, 1", len(g.Nodes), len(g.Edges))
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadGraphFile(missing) error = %v, want not-exist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"empty", `{"nodes":[],"edges":[]}`, ""},
		{"empty id", `{"nodes":[{"id":""}]}`, "empty id"},
		{"duplicate", `{"nodes":[{"id":"a"},{"id":"a"}]}`, "duplicate"},
		{"unknown source", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"x","target":"a"}]}`, "unknown source"},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"a","target":"x"}]}`, "unknown target"},
		{"malformed", `{"nodes":`, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalGraph([]byte(tt.json))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPositionIsFinite(t *testing.T) {
	tests := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{-1e9, 1e9}, true},
		{Position{math.NaN(), 0}, false},
		{Position{0, math.Inf(1)}, false},
		{Position{math.Inf(-1), 0}, false},
	}
	for _, tt := range tests {
		if got := tt.p.IsFinite(); got != tt.want {
			t.Errorf("%+v.IsFinite() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestNodeHelpers(t *testing.T) {
	n := Node{ID: DocumentID("x.md"), Kind: KindDocument, Doc: &DocumentData{Path: "x.md"}}
	if n.HasPosition() {
		t.Error("unpositioned node reports HasPosition")
	}
	if n.Label() != "x.md" {
		t.Errorf("Label() = %q, want x.md", n.Label())
	}

	placed := n.WithPosition(Position{X: 3, Y: 4})
	if !placed.HasPosition() || n.Position != nil {
		t.Error("WithPosition should return a positioned copy")
	}

	nan := n.WithPosition(Position{X: math.NaN()})
	if nan.HasPosition() {
		t.Error("non-finite position should not count")
	}

	cloned := ClonePositions([]Node{placed})
	cloned[0].Position.X = 99
	if placed.Position.X != 3 {
		t.Error("ClonePositions shares Position pointers")
	}
}
