// Package nodelink renders a radial layout as a node-link diagram.
//
// # Usage
//
//	res, _ := radial.NewEngine(nil).Relayout("n1", g.Nodes, g.Edges)
//	dot := nodelink.ToDOT(res.Export(0, false), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// Positions are not recomputed. Each node carries pos="x,y!" in points and
// the graph is laid out by neato, which keeps pinned nodes where they are and
// only routes edges. The canvas y axis points down while Graphviz's points
// up, so y is negated.
//
// Node fill follows the node type and fades with the node's opacity. The
// focus is drawn with a heavy outline. Hidden nodes and edges are left out
// unless [Options.IncludeHidden] is set, in which case they are drawn
// dotted and faint.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly; no system Graphviz is needed.
package nodelink
