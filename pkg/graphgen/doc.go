// Package graphgen extracts a knowledge graph from free-text documents with
// a language model.
//
// The model is reached through any OpenAI-compatible chat completions API.
// The defaults target a local Ollama server:
//
//	gen := graphgen.New(graphgen.Config{}, nil, logger)
//	g, err := gen.Generate(ctx, graphgen.SampleDocuments())
//
// The prompt asks for a JSON object with "nodes" and "edges" using the node
// types and relation labels of package graph. Models often wrap their
// answer in a Markdown code fence or add prose around it; [ExtractJSON]
// recovers the object in either case and [ParseResponse] validates it.
//
// Results are cached by a hash of the documents and the model name, since
// generation is slow and not deterministic.
package graphgen
