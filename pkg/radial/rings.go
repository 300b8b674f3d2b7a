package radial

import (
	"maps"
	"slices"

	"github.com/matzehuels/kgraph/pkg/graph"
)

// Ring is the set of nodes at one distance from the focus.
type Ring struct {
	Distance int
	Nodes    []graph.Node
}

// Rings groups nodes by their distance in d. Nodes missing from d are left
// out. Within a ring nodes keep their input order, and no key exists for a
// distance without members.
func Rings(nodes []graph.Node, d DistanceMap) map[int][]graph.Node {
	rings := make(map[int][]graph.Node)
	for _, n := range nodes {
		dist, ok := d[n.ID]
		if !ok {
			continue
		}
		rings[dist] = append(rings[dist], n)
	}
	return rings
}

// SortedRings returns rings ordered by ascending distance.
func SortedRings(rings map[int][]graph.Node) []Ring {
	out := make([]Ring, 0, len(rings))
	for _, dist := range slices.Sorted(maps.Keys(rings)) {
		out = append(out, Ring{Distance: dist, Nodes: rings[dist]})
	}
	return out
}

// Summaries reduces rings to node IDs for serialization.
func Summaries(rings map[int][]graph.Node) []graph.RingSummary {
	sorted := SortedRings(rings)
	out := make([]graph.RingSummary, len(sorted))
	for i, r := range sorted {
		ids := make([]string, len(r.Nodes))
		for j, n := range r.Nodes {
			ids[j] = n.ID
		}
		out[i] = graph.RingSummary{Distance: r.Distance, NodeIDs: ids}
	}
	return out
}
