package animate

import (
	"math"

	"github.com/matzehuels/linkgraph/pkg/graph"
	"github.com/matzehuels/linkgraph/pkg/positions"
)

// Phase is the animation phase of a node.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseStable   Phase = "stable"
	PhaseExiting  Phase = "exiting"
)

// Scale and opacity bounds.
const (
	minScale = 0.5
	maxScale = 1.0
)

// State is the animation state of one node.
type State struct {
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
}

// AnimatedNode pairs a node with its visual state.
type AnimatedNode struct {
	Node    graph.Node `json:"node"`
	State   State      `json:"state"`
	Opacity float64    `json:"opacity"`
	Scale   float64    `json:"scale"`
}

// Frame is one rendered step of an animation.
type Frame []AnimatedNode

// Stable wraps a node as fully visible and settled.
func Stable(n graph.Node) AnimatedNode {
	return AnimatedNode{Node: n, State: State{Phase: PhaseStable, Progress: 1}, Opacity: 1, Scale: maxScale}
}

// EaseOutCubic decelerates toward t = 1.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// InterpolatePosition eases from start to end. t is clamped to [0, 1];
// t = 0 returns start and t = 1 returns end exactly.
func InterpolatePosition(start, end graph.Position, t float64) graph.Position {
	t = clamp01(t)
	switch t {
	case 0:
		return start
	case 1:
		return end
	}
	e := EaseOutCubic(t)
	return graph.Position{
		X: start.X + (end.X-start.X)*e,
		Y: start.Y + (end.Y-start.Y)*e,
	}
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	return min(t, 1)
}

// TransitionFrames returns frameCount+1 node sets moving from the start
// layout to the end layout. Nodes are taken from end; a node positioned in
// both sets is eased, any other node is carried unchanged. frameCount < 1
// yields only the end state.
func TransitionFrames(start, end []graph.Node, frameCount int) [][]graph.Node {
	if frameCount < 1 {
		return [][]graph.Node{graph.ClonePositions(end)}
	}
	from := make(map[string]graph.Position, len(start))
	for _, n := range start {
		if n.HasPosition() {
			from[n.ID] = *n.Position
		}
	}

	frames := make([][]graph.Node, frameCount+1)
	for f := 0; f <= frameCount; f++ {
		t := float64(f) / float64(frameCount)
		frame := make([]graph.Node, len(end))
		for i, n := range end {
			s, ok := from[n.ID]
			if !ok || !n.HasPosition() {
				frame[i] = n
				continue
			}
			frame[i] = n.WithPosition(InterpolatePosition(s, *n.Position, t))
		}
		frames[f] = frame
	}
	return frames
}

// EntryFrames fades nodes in: opacity 0 to 1 and scale 0.5 to 1, eased.
// The final frame is stable. frameCount < 1 is treated as 1.
func EntryFrames(nodes []graph.Node, frameCount int) []Frame {
	frameCount = max(frameCount, 1)
	frames := make([]Frame, frameCount)
	for f := range frameCount {
		t := 1.0
		if frameCount > 1 {
			t = float64(f) / float64(frameCount-1)
		}
		e := EaseOutCubic(t)
		state := State{Phase: PhaseEntering, Progress: t}
		if f == frameCount-1 {
			state = State{Phase: PhaseStable, Progress: 1}
			e = 1
		}
		frame := make(Frame, len(nodes))
		for i, n := range nodes {
			frame[i] = AnimatedNode{
				Node:    n,
				State:   state,
				Opacity: e,
				Scale:   minScale + (maxScale-minScale)*e,
			}
		}
		frames[f] = frame
	}
	return frames
}

// ExitFrames fades nodes out: opacity 1 toward 0 and scale 1 toward 0.5.
// Every frame is exiting. frameCount <= 1 yields no frames, meaning the
// nodes are removed immediately.
func ExitFrames(nodes []graph.Node, frameCount int) []Frame {
	if frameCount <= 1 {
		return nil
	}
	frames := make([]Frame, frameCount)
	for f := range frameCount {
		t := float64(f) / float64(frameCount)
		e := EaseOutCubic(t)
		frame := make(Frame, len(nodes))
		for i, n := range nodes {
			frame[i] = AnimatedNode{
				Node:    n,
				State:   State{Phase: PhaseExiting, Progress: t},
				Opacity: 1 - e,
				Scale:   maxScale - (maxScale-minScale)*e,
			}
		}
		frames[f] = frame
	}
	return frames
}

// Merge overlays animating nodes on a stable set. An animating node replaces
// the stable node with the same ID; animating nodes without a stable
// counterpart are appended in order.
func Merge(stable []graph.Node, animating []AnimatedNode) []AnimatedNode {
	byID := make(map[string]int, len(animating))
	for i, a := range animating {
		byID[a.Node.ID] = i
	}
	used := make([]bool, len(animating))

	out := make([]AnimatedNode, 0, len(stable)+len(animating))
	for _, n := range stable {
		if i, ok := byID[n.ID]; ok {
			out = append(out, animating[i])
			used[i] = true
			continue
		}
		out = append(out, Stable(n))
	}
	for i, a := range animating {
		if !used[i] {
			out = append(out, a)
		}
	}
	return out
}

// Compose builds the frames for a rebuild from prev to next: nodes in both
// move, added nodes fade in at their new positions and removed nodes fade
// out at their old ones. It returns frameCount+1 frames.
func Compose(prev, next []graph.Node, frameCount int) []Frame {
	frameCount = max(frameCount, 1)
	diff := positions.Diff(prev, next)

	moves := TransitionFrames(prev, diff.Unchanged, frameCount)
	enter := EntryFrames(diff.Added, frameCount+1)
	exit := ExitFrames(diff.Removed, frameCount)

	frames := make([]Frame, frameCount+1)
	for f := range frames {
		var animating []AnimatedNode
		animating = append(animating, enter[f]...)
		if f < len(exit) {
			animating = append(animating, exit[f]...)
		}
		frames[f] = Merge(moves[f], animating)
	}
	return frames
}
