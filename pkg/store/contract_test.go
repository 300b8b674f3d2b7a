package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
)

// runStoreContract checks behavior every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		g := graph.Sample()
		g.Nodes[0].Position = graph.Position{X: 10, Y: 20}
		g.Nodes[0].Hidden = true

		rec, err := s.Create(ctx, "sample", g)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.ID == "" {
			t.Fatal("Create returned an empty ID")
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Name != "sample" {
			t.Errorf("Name = %q, want sample", got.Name)
		}
		if len(got.Graph.Nodes) != 6 || len(got.Graph.Edges) != 5 {
			t.Errorf("got %d nodes, %d edges; want 6, 5", len(got.Graph.Nodes), len(got.Graph.Edges))
		}
		n := got.Graph.Nodes[0]
		if n.Position != (graph.Position{}) || n.Hidden {
			t.Errorf("derived fields were stored: %+v", n)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "does-not-exist")
		if !stderrors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if !errors.Is(err, errors.ErrCodeGraphNotFound) {
			t.Errorf("err code = %s, want GRAPH_NOT_FOUND", errors.GetCode(err))
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		bad := graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}}
		if _, err := s.Create(ctx, "bad", bad); !errors.Is(err, errors.ErrCodeInvalidGraph) {
			t.Errorf("err = %v, want INVALID_GRAPH", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		first, err := s.Create(ctx, "first", graph.Sample())
		if err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
		second, err := s.Create(ctx, "second", graph.Graph{Nodes: []graph.Node{{ID: "x"}}})
		if err != nil {
			t.Fatal(err)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		pos := map[string]int{}
		for i, sum := range list {
			pos[sum.ID] = i
		}
		if pos[second.ID] > pos[first.ID] {
			t.Errorf("second listed after first: %v", list)
		}
		for _, sum := range list {
			if sum.ID == second.ID && (sum.Nodes != 1 || sum.Edges != 0) {
				t.Errorf("summary = %+v, want 1 node 0 edges", sum)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec, err := s.Create(ctx, "doomed", graph.Sample())
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, rec.ID); !stderrors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete: %v", err)
		}
		if err := s.Delete(ctx, rec.ID); !stderrors.Is(err, ErrNotFound) {
			t.Errorf("second Delete: %v, want ErrNotFound", err)
		}
	})
}
