// Package graph provides serialization types for knowledge graphs and their
// radial layouts.
//
// This package defines the canonical wire format for kgraph's graph data,
// used for JSON files, API requests and responses, caching and storage.
//
// # Core Types
//
//   - [Graph]: Node-link envelope exchanged with the view layer
//   - [Node], [Edge]: Documents and the relationships between them
//   - [Position], [Style]: Derived fields written by the layout engine
//   - [Layout]: A graph laid out around a focus node, plus ring summaries
//
// # Graph Serialization
//
// Graphs use the node-link JSON format served by the original graph API:
//
//	{
//	  "nodes": [{"id": "n1", "type": "Document", "label": "Data Privacy Statement"}],
//	  "edges": [{"source": "n1", "target": "n2", "label": "is referenced by"}]
//	}
//
// After layout, nodes carry "position", "hidden", "selected" and
// "style": {"opacity": ...}; edges carry "hidden" and "style".
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")  // File → Graph
//	graph.WriteGraphFile(g, "output.json")     // Graph → File
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)    // []byte → Graph
//
// # Validation
//
// [Validate] rejects empty identifiers, duplicate node IDs and edges with an
// empty endpoint. Edges pointing at IDs that are not nodes are allowed; the
// layout engine tolerates them.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
