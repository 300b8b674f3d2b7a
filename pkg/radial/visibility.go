package radial

import (
	"github.com/matzehuels/kgraph/pkg/graph"
)

// DefaultCutoff is the number of hops beyond which nodes and edges are hidden.
const DefaultCutoff = 3

// Edge opacity steps, keyed by the larger endpoint distance.
const (
	edgeOpacityNear = 0.8  // both endpoints within one hop
	edgeOpacityMid  = 0.4  // farthest endpoint two hops away
	edgeOpacityFar  = 0.15 // farthest endpoint at the cutoff
)

// Policy decides which nodes and edges are shown for a distance map.
// The zero value hides everything except the focus; use [DefaultPolicy].
type Policy struct {
	// Cutoff is the largest distance still shown.
	Cutoff int
}

// DefaultPolicy returns the policy with a cutoff of [DefaultCutoff].
func DefaultPolicy() Policy {
	return Policy{Cutoff: DefaultCutoff}
}

// NodeVisible reports whether the node id is reachable within the cutoff.
func (p Policy) NodeVisible(id string, d DistanceMap) bool {
	dist, ok := d[id]
	return ok && dist <= p.Cutoff
}

// EdgeVisible reports whether both endpoints of e are reachable within the
// cutoff. An edge with either endpoint hidden is hidden.
func (p Policy) EdgeVisible(e graph.Edge, d DistanceMap) bool {
	return p.NodeVisible(e.Source, d) && p.NodeVisible(e.Target, d)
}

// EdgeOpacity returns the opacity for a visible edge whose endpoints are at
// distances d1 and d2.
func EdgeOpacity(d1, d2 int) float64 {
	switch m := max(d1, d2); {
	case m <= 1:
		return edgeOpacityNear
	case m == 2:
		return edgeOpacityMid
	default:
		return edgeOpacityFar
	}
}

// ApplyEdges returns copies of edges with Hidden and Style set for d.
// Visible edges get an opacity from [EdgeOpacity]. Hidden edges keep their
// previous style.
func (p Policy) ApplyEdges(edges []graph.Edge, d DistanceMap) []graph.Edge {
	out := make([]graph.Edge, len(edges))
	for i, e := range edges {
		e = e.Clone()
		if p.EdgeVisible(e, d) {
			e.Hidden = false
			e.Style = e.Style.WithOpacity(EdgeOpacity(d[e.Source], d[e.Target]))
		} else {
			e.Hidden = true
		}
		out[i] = e
	}
	return out
}
