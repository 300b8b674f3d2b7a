package nodelink

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/kgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node type and properties to labels.
	Detailed bool

	// IncludeHidden draws nodes and edges the layout hid.
	IncludeHidden bool

	// EdgeLabels prints relation labels on edges.
	EdgeLabels bool
}

// hiddenOpacity is the alpha used for hidden items when they are drawn.
const hiddenOpacity = 0.1

var typeColors = map[string]string{
	graph.TypeDocument:       "4f86c6",
	graph.TypeScan:           "8e6cc2",
	graph.TypeImplementation: "3aa57a",
	graph.TypeAssessment:     "d98c2b",
}

const defaultColor = "9aa0a6"

// ToDOT converts a layout to Graphviz DOT with pinned node positions.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, fontname=\"Helvetica\", margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	drawn := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.Hidden && !opts.IncludeHidden {
			continue
		}
		if drawn[n.ID] {
			continue
		}
		drawn[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.Hidden && !opts.IncludeHidden {
			continue
		}
		if !drawn[e.Source] || !drawn[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, opts Options) []string {
	color, ok := typeColors[n.Type]
	if !ok {
		color = defaultColor
	}
	op := opacityOf(n.Style, n.Hidden)

	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Position.X, -n.Position.Y),
		fmt.Sprintf("fillcolor=\"#%s%s\"", color, alpha(op)),
		fmt.Sprintf("color=\"#333333%s\"", alpha(op)),
		fmt.Sprintf("fontcolor=\"#000000%s\"", alpha(max(op, 0.4))),
	}
	if n.Selected {
		attrs = append(attrs, "penwidth=3")
	}
	if n.Hidden {
		attrs = append(attrs, "style=\"rounded,filled,dotted\"")
	}
	return attrs
}

func edgeAttrs(e graph.Edge, opts Options) []string {
	op := opacityOf(e.Style, e.Hidden)
	attrs := []string{fmt.Sprintf("color=\"#555555%s\"", alpha(op))}
	if opts.EdgeLabels && e.Label != "" {
		attrs = append(attrs,
			fmt.Sprintf("label=%q", e.Label),
			fmt.Sprintf("fontcolor=\"#555555%s\"", alpha(op)))
	}
	if e.Hidden {
		attrs = append(attrs, "style=dotted")
	}
	return attrs
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{label}
	if n.Type != "" {
		parts = append(parts, "type: "+n.Type)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Properties)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Properties[k]))
	}
	return strings.Join(parts, "\n")
}

func opacityOf(s graph.Style, hidden bool) float64 {
	if hidden {
		return hiddenOpacity
	}
	if op, ok := s.Opacity(); ok {
		return op
	}
	return 1
}

// alpha formats an opacity in [0,1] as a two digit hex alpha channel.
func alpha(op float64) string {
	op = min(max(op, 0), 1)
	return fmt.Sprintf("%02x", int(math.Round(op*255)))
}
