package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkgraph/pkg/animate"
	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

const (
	defaultAnimateFrames   = 40
	defaultAnimateInterval = 40 * time.Millisecond
)

type animateOpts struct {
	root, focus string
	depth       int
	maxNodes    int
	noExternal  bool
	frames      int
	interval    time.Duration
	labels      bool
	plain       bool
}

// animateCommand creates the animate command.
func (c *CLI) animateCommand() *cobra.Command {
	var opts animateOpts

	cmd := &cobra.Command{
		Use:   "animate <root> <focus>",
		Short: "Animate the graph in the terminal",
		Long: `Animate the graph in the terminal.

Nodes fade in at their force-directed positions, then move to their
hierarchical positions. Press r to replay and q to quit.

With --plain, frames are printed one after another instead of running an
interactive view.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.root, opts.focus = args[0], args[1]
			return c.runAnimate(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "maximum link distance from the focus")
	cmd.Flags().IntVarP(&opts.maxNodes, "max-nodes", "n", 0, "maximum number of documents")
	cmd.Flags().BoolVar(&opts.noExternal, "no-external", false, "omit external domains")
	cmd.Flags().IntVar(&opts.frames, "frames", defaultAnimateFrames, "frames per transition")
	cmd.Flags().DurationVar(&opts.interval, "interval", defaultAnimateInterval, "time between frames")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "print document names next to nodes")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print frames without the interactive view")

	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, opts animateOpts) error {
	runner, err := c.newRunner(ctx, opts.root, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.BuildGraphData(ctx, c.buildOptions(opts.root, opts.focus, opts.depth, opts.maxNodes))
	if err != nil {
		return err
	}
	if res.Empty() {
		printWarning("%s is missing or unreadable; nothing to animate", opts.focus)
		return nil
	}
	g := res.Graph(!opts.noExternal)

	lo := c.layoutOptions(pipeline.LayoutOptions{})
	lo.Algorithm = layout.NameForce
	force, err := runner.ApplyLayout(ctx, "", g.Nodes, g.Edges, lo)
	if err != nil {
		return err
	}
	lo.Algorithm = layout.NameHierarchical
	hier, err := runner.ApplyLayout(ctx, "", g.Nodes, g.Edges, lo)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", len(g.Nodes)))

	frames, split := animationFrames(force.Nodes, hier.Nodes, opts.frames)
	m := newAnimModel(frames, g.Edges, split, opts)

	if opts.plain {
		return playPlain(ctx, stdout, m)
	}
	if _, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("animation: %w", err)
	}
	return nil
}

// animationFrames joins an entry animation into the force layout with a
// transition from force to hierarchical positions. split is the index of
// the first transition frame.
func animationFrames(force, hier []graph.Node, frameCount int) (frames []animate.Frame, split int) {
	frames = animate.Compose(nil, force, frameCount)
	split = len(frames)
	frames = append(frames, animate.Compose(force, hier, frameCount)[1:]...)
	return frames, split
}

func playPlain(ctx context.Context, w io.Writer, m animModel) error {
	return animate.Play(ctx, m.frames, m.interval, func(i int, _ animate.Frame) error {
		m.index = i
		_, err := fmt.Fprintln(w, m.View())
		return err
	})
}

// =============================================================================
// Model
// =============================================================================

type tickMsg time.Time

// animModel is the bubbletea model that steps through frames.
type animModel struct {
	frames   []animate.Frame
	edges    []graph.Edge
	split    int
	index    int
	interval time.Duration
	labels   bool
	title    string
	canvas   canvas
	playing  bool
}

func newAnimModel(frames []animate.Frame, edges []graph.Edge, split int, opts animateOpts) animModel {
	interval := opts.interval
	if interval <= 0 {
		interval = defaultAnimateInterval
	}
	return animModel{
		frames:   frames,
		edges:    edges,
		split:    split,
		interval: interval,
		labels:   opts.labels,
		title:    opts.focus,
		canvas:   canvas{width: 80, height: 24, bounds: frameBounds(frames)},
		playing:  true,
	}
}

func (m animModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m animModel) Init() tea.Cmd {
	return m.tick()
}

func (m animModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.index < len(m.frames)-1 {
			m.index++
			return m, m.tick()
		}
		m.playing = false
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.index = 0
			if !m.playing {
				m.playing = true
				return m, m.tick()
			}
		}
	case tea.WindowSizeMsg:
		m.canvas.width = max(msg.Width, 10)
		m.canvas.height = max(msg.Height-2, 5)
	}
	return m, nil
}

func (m animModel) View() string {
	if len(m.frames) == 0 {
		return ""
	}
	stage := "entering"
	if m.index >= m.split {
		stage = "force → hierarchical"
	}
	status := fmt.Sprintf("%s · %s · frame %d/%d · r replay · q quit",
		m.title, stage, m.index+1, len(m.frames))
	return m.canvas.draw(m.frames[m.index], m.edges, m.labels) + "\n" + StyleDim.Render(status)
}

// =============================================================================
// Canvas
// =============================================================================

var (
	styleDocNode  = lipgloss.NewStyle().Foreground(colorAccent)
	styleBroken   = lipgloss.NewStyle().Foreground(colorBad)
	styleExtNode  = lipgloss.NewStyle().Foreground(colorMuted)
	styleEdge     = lipgloss.NewStyle().Foreground(colorFaint)
	styleNodeText = lipgloss.NewStyle().Foreground(colorText)
)

type bounds struct {
	minX, minY, maxX, maxY float64
}

// frameBounds returns the extent of every positioned node across frames.
func frameBounds(frames []animate.Frame) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, f := range frames {
		for _, an := range f {
			if !an.Node.HasPosition() {
				continue
			}
			p := an.Node.Position
			b.minX, b.maxX = min(b.minX, p.X), max(b.maxX, p.X)
			b.minY, b.maxY = min(b.minY, p.Y), max(b.maxY, p.Y)
		}
	}
	if math.IsInf(b.minX, 1) {
		return bounds{}
	}
	return b
}

type cell struct {
	r     rune
	style *lipgloss.Style
}

// canvas projects layout coordinates onto a character grid.
type canvas struct {
	width, height int
	bounds        bounds
}

func (c canvas) project(p graph.Position) (int, int) {
	scale := func(v, lo, hi float64, n int) int {
		if n <= 1 || hi-lo < 1e-9 {
			return n / 2
		}
		i := int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
		return min(max(i, 0), n-1)
	}
	return scale(p.X, c.bounds.minX, c.bounds.maxX, c.width), scale(p.Y, c.bounds.minY, c.bounds.maxY, c.height)
}

// draw renders one frame. Edges are drawn first so nodes stay visible.
func (c canvas) draw(frame animate.Frame, edges []graph.Edge, labels bool) string {
	grid := make([][]cell, c.height)
	for y := range grid {
		grid[y] = make([]cell, c.width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}
	set := func(x, y int, r rune, s *lipgloss.Style) {
		if y >= 0 && y < c.height && x >= 0 && x < c.width {
			grid[y][x] = cell{r: r, style: s}
		}
	}

	type point struct{ x, y int }
	at := make(map[string]point, len(frame))
	for _, an := range frame {
		if an.Node.HasPosition() && an.Opacity >= 0.5 {
			x, y := c.project(*an.Node.Position)
			at[an.Node.ID] = point{x, y}
		}
	}

	for _, e := range edges {
		a, ok1 := at[e.Source]
		b, ok2 := at[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		steps := max(abs(b.x-a.x), abs(b.y-a.y))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			x := a.x + int(math.Round(t*float64(b.x-a.x)))
			y := a.y + int(math.Round(t*float64(b.y-a.y)))
			set(x, y, '·', &styleEdge)
		}
	}

	for _, an := range frame {
		if !an.Node.HasPosition() {
			continue
		}
		x, y := c.project(*an.Node.Position)
		r, s := nodeGlyph(an)
		set(x, y, r, s)
		if labels && an.Opacity >= 0.5 && an.Node.Doc != nil {
			name := strings.TrimSuffix(path.Base(an.Node.Doc.Path), path.Ext(an.Node.Doc.Path))
			for i, lr := range []rune(name) {
				if x+2+i >= c.width || (grid[y][x+2+i].r != ' ' && grid[y][x+2+i].r != '·') {
					break
				}
				set(x+2+i, y, lr, &styleNodeText)
			}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range row {
			if cl.style == nil {
				b.WriteRune(cl.r)
				continue
			}
			b.WriteString(cl.style.Render(string(cl.r)))
		}
	}
	return b.String()
}

func nodeGlyph(an animate.AnimatedNode) (rune, *lipgloss.Style) {
	faint := an.Opacity < 0.5
	switch {
	case an.Node.Kind == graph.KindExternal && faint:
		return '◇', &styleExtNode
	case an.Node.Kind == graph.KindExternal:
		return '◆', &styleExtNode
	case faint:
		return '∘', &styleDocNode
	case an.Node.Doc != nil && len(an.Node.Doc.BrokenLinks) > 0:
		return '●', &styleBroken
	default:
		return '●', &styleDocNode
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
