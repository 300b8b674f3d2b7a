package radial

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/kgraph/pkg/graph"
)

func edges(pairs ...string) []graph.Edge {
	out := make([]graph.Edge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, graph.Edge{
			ID:     graph.EdgeID(pairs[i], pairs[i+1]),
			Source: pairs[i],
			Target: pairs[i+1],
		})
	}
	return out
}

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id, Type: graph.TypeDocument, Label: id}
	}
	return out
}

func TestDistances(t *testing.T) {
	tests := []struct {
		name  string
		focus string
		edges []graph.Edge
		want  DistanceMap
	}{
		{
			name:  "focus A",
			focus: "A",
			edges: edges("A", "B", "A", "C", "C", "D"),
			want:  DistanceMap{"A": 0, "B": 1, "C": 1, "D": 2},
		},
		{
			name:  "focus B reaches D in three hops",
			focus: "B",
			edges: edges("A", "B", "A", "C", "C", "D"),
			want:  DistanceMap{"B": 0, "A": 1, "C": 2, "D": 3},
		},
		{
			name:  "edges are undirected",
			focus: "D",
			edges: edges("A", "B", "B", "C", "C", "D"),
			want:  DistanceMap{"D": 0, "C": 1, "B": 2, "A": 3},
		},
		{
			name:  "no edges",
			focus: "A",
			edges: nil,
			want:  DistanceMap{"A": 0},
		},
		{
			name:  "no incident edges",
			focus: "A",
			edges: edges("B", "C"),
			want:  DistanceMap{"A": 0},
		},
		{
			name:  "unknown focus still searched",
			focus: "ghost",
			edges: edges("ghost", "A"),
			want:  DistanceMap{"ghost": 0, "A": 1},
		},
		{
			name:  "dangling target reached",
			focus: "A",
			edges: edges("A", "missing"),
			want:  DistanceMap{"A": 0, "missing": 1},
		},
		{
			name:  "self loop and duplicates",
			focus: "A",
			edges: edges("A", "A", "A", "B", "A", "B", "B", "A"),
			want:  DistanceMap{"A": 0, "B": 1},
		},
		{
			name:  "shortest path wins over first edge",
			focus: "A",
			edges: edges("A", "B", "B", "C", "C", "D", "A", "D"),
			want:  DistanceMap{"A": 0, "B": 1, "D": 1, "C": 2},
		},
		{
			name:  "empty endpoints ignored",
			focus: "A",
			edges: []graph.Edge{{Source: "A", Target: ""}, {Source: "", Target: "B"}},
			want:  DistanceMap{"A": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distances(tt.focus, tt.edges)
			if !maps.Equal(got, tt.want) {
				t.Errorf("Distances(%q) = %v, want %v", tt.focus, got, tt.want)
			}
		})
	}
}

// relaxDistances computes hop distances by repeated edge relaxation. It is
// slow but obviously correct.
func relaxDistances(focus string, es []graph.Edge, n int) DistanceMap {
	d := DistanceMap{focus: 0}
	for range n + 1 {
		for _, e := range es {
			if ds, ok := d[e.Source]; ok {
				if dt, ok := d[e.Target]; !ok || ds+1 < dt {
					d[e.Target] = ds + 1
				}
			}
			if dt, ok := d[e.Target]; ok {
				if ds, ok := d[e.Source]; !ok || dt+1 < ds {
					d[e.Source] = dt + 1
				}
			}
		}
	}
	return d
}

func TestDistancesMatchesRelaxation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := range 200 {
		n := 1 + rng.IntN(12)
		m := rng.IntN(2 * n)
		es := make([]graph.Edge, m)
		for i := range es {
			es[i] = graph.Edge{
				Source: fmt.Sprintf("n%d", rng.IntN(n)),
				Target: fmt.Sprintf("n%d", rng.IntN(n)),
			}
		}
		focus := fmt.Sprintf("n%d", rng.IntN(n))

		got := Distances(focus, es)
		want := relaxDistances(focus, es, n)
		if !maps.Equal(got, want) {
			t.Fatalf("trial %d: Distances(%q, %v) = %v, want %v", trial, focus, es, got, want)
		}
	}
}

func TestDistanceMapMax(t *testing.T) {
	tests := []struct {
		name string
		d    DistanceMap
		want int
	}{
		{"empty", DistanceMap{}, 0},
		{"focus only", DistanceMap{"A": 0}, 0},
		{"chain", DistanceMap{"A": 0, "B": 1, "C": 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Max(); got != tt.want {
				t.Errorf("Max() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDistanceMapOf(t *testing.T) {
	d := DistanceMap{"A": 0, "B": 2}
	if v, ok := d.Of("A"); !ok || v != 0 {
		t.Errorf("Of(A) = %d, %v, want 0, true", v, ok)
	}
	if _, ok := d.Of("Z"); ok {
		t.Error("Of(Z) reported reachable")
	}
}
