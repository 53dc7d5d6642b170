package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/linkgraph/pkg/animate"
	"github.com/matzehuels/linkgraph/pkg/graph"
)

func docAt(path string, x, y float64) graph.Node {
	return graph.Node{
		ID:   graph.DocumentID(path),
		Kind: graph.KindDocument,
		Doc:  &graph.DocumentData{Path: path},
	}.WithPosition(graph.Position{X: x, Y: y})
}

func TestCanvasDraw(t *testing.T) {
	a, b := docAt("a.md", 0, 0), docAt("notes/b.md", 100, 0)
	ext := graph.Node{ID: graph.ExternalID("example.com"), Kind: graph.KindExternal}.
		WithPosition(graph.Position{X: 0, Y: 100})
	frame := animate.Frame{animate.Stable(a), animate.Stable(b), animate.Stable(ext)}
	edges := []graph.Edge{{ID: "e", Source: a.ID, Target: b.ID}}

	c := canvas{width: 11, height: 3, bounds: frameBounds([]animate.Frame{frame})}
	lines := strings.Split(c.draw(frame, edges, false), "\n")
	want := []string{
		"●·········●",
		"           ",
		"◆          ",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	labeled := c.draw(frame, nil, true)
	if first := strings.Split(labeled, "\n")[0]; !strings.HasPrefix(first, "● a") {
		t.Errorf("label missing: %q", first)
	}
}

func TestCanvasSinglePoint(t *testing.T) {
	frame := animate.Frame{animate.Stable(docAt("a.md", 5, 5))}
	c := canvas{width: 5, height: 3, bounds: frameBounds([]animate.Frame{frame})}
	lines := strings.Split(c.draw(frame, nil, false), "\n")
	if lines[1] != "  ●  " {
		t.Errorf("single node not centered: %q", lines)
	}
}

func TestNodeGlyph(t *testing.T) {
	broken := docAt("a.md", 0, 0)
	broken.Doc.BrokenLinks = []string{"gone.md"}
	tests := []struct {
		name string
		node animate.AnimatedNode
		want rune
	}{
		{"document", animate.Stable(docAt("a.md", 0, 0)), '●'},
		{"broken", animate.Stable(broken), '●'},
		{"fading", animate.AnimatedNode{Node: docAt("a.md", 0, 0), Opacity: 0.2}, '∘'},
		{"external", animate.Stable(graph.Node{Kind: graph.KindExternal}), '◆'},
		{"fading external", animate.AnimatedNode{Node: graph.Node{Kind: graph.KindExternal}, Opacity: 0.1}, '◇'},
	}
	for _, tt := range tests {
		if got, _ := nodeGlyph(tt.node); got != tt.want {
			t.Errorf("%s: glyph = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAnimationFrames(t *testing.T) {
	force := []graph.Node{docAt("a.md", 0, 0), docAt("b.md", 10, 0)}
	hier := []graph.Node{docAt("a.md", 0, 0), docAt("b.md", 0, 10)}

	frames, split := animationFrames(force, hier, 4)
	if split != 5 || len(frames) != 9 {
		t.Fatalf("split = %d frames = %d, want 5 and 9", split, len(frames))
	}
	first := frames[0][0]
	if first.State.Phase != animate.PhaseEntering || first.Opacity != 0 {
		t.Errorf("first frame = %+v, want an entering node", first)
	}
	last := frames[len(frames)-1]
	for i, an := range last {
		if *an.Node.Position != *hier[i].Position {
			t.Errorf("node %s ends at %+v, want %+v", an.Node.ID, *an.Node.Position, *hier[i].Position)
		}
	}
}

func TestAnimModel(t *testing.T) {
	frames, split := animationFrames([]graph.Node{docAt("a.md", 0, 0)}, []graph.Node{docAt("a.md", 5, 5)}, 2)
	m := newAnimModel(frames, nil, split, animateOpts{focus: "a.md", interval: time.Millisecond})
	if m.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}

	var model tea.Model = m
	for range len(frames) + 2 {
		model, _ = model.Update(tickMsg(time.Now()))
	}
	am := model.(animModel)
	if am.index != len(frames)-1 || am.playing {
		t.Errorf("index = %d playing = %v after playback", am.index, am.playing)
	}
	if !strings.Contains(am.View(), "force → hierarchical") {
		t.Errorf("view status missing stage: %q", am.View())
	}

	model, cmd := am.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if am = model.(animModel); am.index != 0 || !am.playing || cmd == nil {
		t.Errorf("replay: index = %d playing = %v", am.index, am.playing)
	}

	model, _ = am.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	if am = model.(animModel); am.canvas.width != 40 || am.canvas.height != 10 {
		t.Errorf("canvas = %dx%d", am.canvas.width, am.canvas.height)
	}

	if _, cmd := am.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
