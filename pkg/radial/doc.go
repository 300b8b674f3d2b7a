// Package radial lays out a knowledge graph around a chosen focus node.
//
// # Overview
//
// Every time the user picks a new focus, the view layer hands the complete
// node and edge sets to [Relayout] (or [Engine.Relayout]) and receives copies
// with position, visibility, selection and opacity filled in. The engine is a
// pure function of (focus, graph): it holds no state between calls and never
// modifies the slices it is given.
//
// # Pipeline
//
// A relayout runs four steps, each usable on its own:
//
//  1. [Distances]: breadth-first search from the focus over edges treated as
//     undirected. Unreachable nodes are absent from the result.
//  2. [Rings]: nodes grouped by hop distance, input order kept within a ring.
//  3. [Policy]: nodes and edges more than Cutoff hops away (default 3) are
//     hidden; visible edges get an opacity from their farthest endpoint.
//  4. [Placer]: the focus is pinned at the origin; every other visible node is
//     spread around one ring of radius BaseRadius, with per-node jitter and an
//     opacity that steps down with distance (1.0, 0.9, 0.5, 0.25).
//
// Hidden nodes keep their previous position.
//
// # Jitter
//
// Radius jitter comes from a [JitterSource]. The default draws from the
// process-wide generator, so two relayouts of the same graph differ in
// position while agreeing on rings, visibility and opacity. Pass
// [SeededJitter] for reproducible output or [NoJitter] to disable it:
//
//	eng := radial.NewEngine(&radial.Options{Jitter: radial.SeededJitter(42)})
//	res, err := eng.Relayout("n1", g.Nodes, g.Edges)
//
// # Concentric Mode
//
// With Options.Concentric each distance tier gets its own ring of radius
// BaseRadius*distance. Visibility and opacity are unchanged.
//
// # Unknown Focus
//
// A focus ID that names no node is accepted: the search still runs from it,
// so nodes connected to that ID through edges are laid out around an empty
// origin. Set Options.Strict to reject such calls with
// errors.ErrCodeFocusNotFound.
package radial
