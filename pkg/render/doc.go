// Package render turns laid out knowledge graphs into pictures.
//
// The [nodelink] subpackage emits Graphviz DOT with every node pinned at
// the position the radial engine assigned, and renders it to SVG in
// process:
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/kgraph/pkg/render/nodelink
package render
