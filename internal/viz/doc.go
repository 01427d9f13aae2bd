// Package viz draws accretion frames in the terminal.
//
// Frames are painted onto a braille [Canvas] (2x4 sub-pixels per cell) with
// per-cell tints taken from the body colors. Each live body becomes a square
// of side m^(1/3)·density plus a trail segment from its pre-step to its
// post-step position; dead bodies and bodies outside the view are skipped.
//
// [Model] is a Bubble Tea program used for both live runs and replays of
// stored runs, with a side panel charting body count and total energy.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	[ ]    - Step one frame back/forward (pauses)
//	{ }    - Step ten frames back/forward
//	+ -    - Zoom
//	Arrows - Pan
//	T      - Cycle color themes
//	?      - Show help
package viz
