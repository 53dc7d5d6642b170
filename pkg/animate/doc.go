// Package animate produces animation frames for graph transitions.
//
// Frame producers are pure: [TransitionFrames] eases positions from one
// layout to another, [EntryFrames] fades and grows appearing nodes, and
// [ExitFrames] fades and shrinks disappearing ones. [Compose] combines the
// three for a rebuild, and [Merge] overlays animating nodes on a stable set.
//
// Playback is separate. [Play] feeds frames to a render callback on a ticker
// until the frames run out or the context is cancelled.
package animate
