package radial

import (
	"math"

	"github.com/matzehuels/kgraph/pkg/graph"
)

// Placement defaults.
const (
	// DefaultBaseRadius is the ring radius in canvas units.
	DefaultBaseRadius = 400.0

	// DefaultJitterFraction is the total jitter span as a fraction of the
	// base radius. 0.125 of 400 gives offsets in [-25, +25).
	DefaultJitterFraction = 0.125
)

// Node opacity steps by distance from the focus.
const (
	opacityFocus = 1.0
	opacityNear  = 0.9
	opacityMid   = 0.5
	opacityFar   = 0.25
)

// NodeOpacity returns the emphasis for a node at distance d:
// 1.0 for the focus, 0.9 one hop out, 0.5 at two hops and 0.25 beyond.
func NodeOpacity(d int) float64 {
	switch {
	case d <= 0:
		return opacityFocus
	case d == 1:
		return opacityNear
	case d == 2:
		return opacityMid
	default:
		return opacityFar
	}
}

// Placer assigns positions and opacity to the nodes a [Policy] shows.
type Placer struct {
	// BaseRadius is the ring radius. In concentric mode it is the spacing
	// between consecutive rings.
	BaseRadius float64

	// JitterFraction scales the jitter span relative to BaseRadius.
	// Each node's radius is offset by a uniform value in
	// [-JitterFraction*BaseRadius/2, +JitterFraction*BaseRadius/2).
	JitterFraction float64

	// Jitter supplies the randomness. Nil means [SystemJitter].
	Jitter JitterSource

	// Policy decides which nodes are placed.
	Policy Policy

	// Concentric gives each distance tier its own ring.
	Concentric bool
}

// Place returns copies of nodes positioned around focusID.
//
// The focus is pinned at the origin with full opacity. Every other visible
// node is spread evenly around a single ring, in input order, with the
// radius jittered per node. Hidden nodes are marked hidden and keep their
// position. The input slice is not modified.
func (p Placer) Place(nodes []graph.Node, d DistanceMap, focusID string) []graph.Node {
	jitter := p.Jitter
	if jitter == nil {
		jitter = SystemJitter()
	}

	slots := p.slots(nodes, d, focusID)

	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		n = n.Clone()
		if !p.Policy.NodeVisible(n.ID, d) {
			n.Hidden = true
			out[i] = n
			continue
		}

		dist := d[n.ID]
		n.Hidden = false
		n.Style = n.Style.WithOpacity(NodeOpacity(dist))

		if n.ID == focusID {
			n.Position = graph.Position{}
			out[i] = n
			continue
		}

		s := slots[n.ID]
		angle := 2 * math.Pi * float64(s.index) / float64(s.count)
		radius := p.radiusFor(dist) + (jitter.Float64()-0.5)*p.JitterFraction*p.BaseRadius
		n.Position = graph.Position{
			X: math.Cos(angle) * radius,
			Y: math.Sin(angle) * radius,
		}
		out[i] = n
	}
	return out
}

// slot is a node's angular index out of count positions on its ring.
type slot struct {
	index int
	count int
}

// slots numbers the visible non-focus nodes in input order. On the single
// ring every such node shares one sequence; in concentric mode each
// distance has its own. A repeated ID keeps its first slot.
func (p Placer) slots(nodes []graph.Node, d DistanceMap, focusID string) map[string]slot {
	indices := make(map[string]int)
	counts := make(map[int]int)

	for _, n := range nodes {
		if n.ID == focusID || !p.Policy.NodeVisible(n.ID, d) {
			continue
		}
		if _, dup := indices[n.ID]; dup {
			continue
		}
		tier := p.tier(d[n.ID])
		indices[n.ID] = counts[tier]
		counts[tier]++
	}

	out := make(map[string]slot, len(indices))
	for id, idx := range indices {
		out[id] = slot{index: idx, count: counts[p.tier(d[id])]}
	}
	return out
}

func (p Placer) tier(dist int) int {
	if p.Concentric {
		return dist
	}
	return 1
}

func (p Placer) radiusFor(dist int) float64 {
	if p.Concentric {
		return p.BaseRadius * float64(dist)
	}
	return p.BaseRadius
}
