// Package store persists knowledge graphs by ID.
//
// Only graph structure is stored: nodes, edges, labels and properties.
// Positions, visibility and emphasis are derived per focus by the radial
// engine and are never persisted.
//
// Two backends are provided: [MemoryStore] for tests and single-process use,
// and [MongoStore] for the API server.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
)

// ErrNotFound is returned when no graph has the requested ID. It carries
// errors.ErrCodeGraphNotFound.
var ErrNotFound error = errors.New(errors.ErrCodeGraphNotFound, "graph not found")

// Record is a stored graph.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// Summary describes a stored graph without its contents.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the record's summary.
func (r Record) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		Nodes:     len(r.Graph.Nodes),
		Edges:     len(r.Graph.Edges),
		CreatedAt: r.CreatedAt,
	}
}

// Store saves and loads graphs.
type Store interface {
	// Create validates g, assigns it a new ID and stores its structure.
	Create(ctx context.Context, name string, g graph.Graph) (Record, error)

	// Get returns the graph with id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// List returns summaries, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes the graph with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close(ctx context.Context) error
}

// newRecord validates g and builds a record with a fresh ID.
func newRecord(name string, g graph.Graph) (Record, error) {
	if err := graph.Validate(g); err != nil {
		return Record{}, err
	}
	return Record{
		ID:        uuid.NewString(),
		Name:      name,
		Graph:     graph.Structure(graph.Normalize(g)),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}
