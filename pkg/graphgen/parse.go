package graphgen

import (
	"strings"

	"github.com/matzehuels/kgraph/pkg/errors"
	"github.com/matzehuels/kgraph/pkg/graph"
)

// ExtractJSON returns the JSON object in a model response. It prefers a
// ```json fence, then any ``` fence, then the span from the first '{' to
// the last '}'.
func ExtractJSON(response string) (string, error) {
	if body, ok := fenced(response, "```json"); ok {
		return body, nil
	}
	if body, ok := fenced(response, "```"); ok && strings.HasPrefix(body, "{") {
		return body, nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return "", errors.New(errors.ErrCodeLLMResponse, "response contains no JSON object")
	}
	return response[start : end+1], nil
}

// fenced returns the text between open and the next closing ``` fence.
func fenced(s, open string) (string, bool) {
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(open):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 && !strings.Contains(rest[:j], "{") {
		// skip an info string such as "```JSON"
		rest = rest[j+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// ParseResponse extracts, decodes and validates the graph in a model
// response. Failures carry errors.ErrCodeLLMResponse.
func ParseResponse(response string) (graph.Graph, error) {
	body, err := ExtractJSON(response)
	if err != nil {
		return graph.Graph{}, err
	}
	g, err := graph.UnmarshalGraph([]byte(body))
	if err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeLLMResponse, err, "model returned an unusable graph")
	}
	return g, nil
}
