// Package pkg provides the libraries behind kgraph, a focus-driven radial
// re-layout engine for knowledge graphs.
//
// # Overview
//
// Given a knowledge graph and a focus node, kgraph measures how many hops
// every other node sits from the focus, places the focus at the origin and
// spreads the nearby nodes around it, fading both nodes and edges as they
// get further away. Nodes more than three hops out are hidden.
//
// # Architecture
//
//	Documents ──[graphgen]──▶ Graph ──[radial]──▶ Layout ──[render/nodelink]──▶ DOT/SVG
//	                            │                    │
//	                         [store]              [cache]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/kgraph/pkg/graph"
//	    "github.com/matzehuels/kgraph/pkg/radial"
//	)
//
//	g := graph.Sample()
//	engine := radial.NewEngine(&radial.Options{Jitter: radial.SeededJitter(42)})
//	res, err := engine.Relayout("n6", g.Nodes, g.Edges)
//
// # Main Packages
//
//   - [graph]: node, edge and layout types with JSON import/export
//   - [radial]: hop distances, ring placement and visibility
//   - [pipeline]: validate, lay out and render with caching
//   - [graphgen]: LLM extraction of graphs from documents
//   - [render]: Graphviz output for finished layouts
//   - [store]: persisted graphs (MongoDB or in memory)
//   - [cache]: file and Redis caches for layouts and extractions
//   - [server]: the HTTP API
//   - [config]: TOML configuration with environment overrides
//   - [errors]: coded errors shared by the CLI and the API
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/graph
// [radial]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/radial
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/pipeline
// [graphgen]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/graphgen
// [render]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/render
// [store]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/kgraph/pkg/errors
package pkg
