package radial

import (
	"github.com/matzehuels/kgraph/pkg/graph"
)

// DistanceMap maps node IDs to their hop distance from the focus.
// The focus maps to 0. Unreachable nodes are absent, which is distinct
// from a distance of 0.
type DistanceMap map[string]int

// Of returns the distance of id and whether it is reachable.
func (d DistanceMap) Of(id string) (int, bool) {
	v, ok := d[id]
	return v, ok
}

// Max returns the largest distance in the map, or 0 for an empty map.
func (d DistanceMap) Max() int {
	m := 0
	for _, v := range d {
		m = max(m, v)
	}
	return m
}

// Distances computes the shortest hop distance from focusID to every node
// reachable through edges.
//
// Edges are traversed in both directions. Nodes are expanded in FIFO order
// and the first discovery of a node fixes its distance, so the result is the
// true shortest path length in the unweighted graph. Edges may reference IDs
// that are not nodes; such endpoints are reached like any other.
//
// The result always contains focusID at distance 0, even when no edge
// touches it or no node carries that ID.
func Distances(focusID string, edges []graph.Edge) DistanceMap {
	adj := adjacency(edges)
	dist := DistanceMap{focusID: 0}
	queue := []string{focusID}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		next := dist[current] + 1
		for _, neighbor := range adj[current] {
			if _, seen := dist[neighbor]; seen {
				continue
			}
			dist[neighbor] = next
			queue = append(queue, neighbor)
		}
	}

	return dist
}

// adjacency indexes edges by endpoint. Each node's neighbor list follows
// edge order, so traversal visits neighbors in the same order as scanning
// the edge list for incident edges would.
func adjacency(edges []graph.Edge) map[string][]string {
	adj := make(map[string][]string, len(edges))
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		if e.Target != e.Source {
			adj[e.Target] = append(adj[e.Target], e.Source)
		}
	}
	return adj
}
