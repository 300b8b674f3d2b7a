package graphgen

import (
	"strings"
	"testing"

	"github.com/matzehuels/kgraph/pkg/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "json fence",
			response: "Here you go:\n```json\n{\"nodes\": []}\n```\nAnything else?",
			want:     `{"nodes": []}`,
		},
		{
			name:     "plain fence",
			response: "```\n{\"nodes\": []}\n```",
			want:     `{"nodes": []}`,
		},
		{
			name:     "uppercase info string",
			response: "```JSON\n{\"nodes\": []}\n```",
			want:     `{"nodes": []}`,
		},
		{
			name:     "bare object with prose",
			response: "Sure! {\"nodes\": [], \"edges\": []} Hope this helps.",
			want:     `{"nodes": [], "edges": []}`,
		},
		{
			name:     "bare object",
			response: `{"nodes": []}`,
			want:     `{"nodes": []}`,
		},
		{
			name:     "no object",
			response: "I cannot help with that.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeLLMResponse) {
					t.Errorf("error code = %s, want LLM_RESPONSE", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	response := "```json\n" + `{
  "nodes": [
    {"id": "doc1", "type": "Document", "label": "Data Privacy"},
    {"id": "doc2", "type": "Document", "label": "Coding Standards"}
  ],
  "edges": [
    {"source": "doc1", "target": "doc2", "label": "is referenced by"}
  ]
}` + "\n```"

	g, err := ParseResponse(response)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	if g.Edges[0].ID != "doc1-doc2" {
		t.Errorf("edge ID = %q, want doc1-doc2", g.Edges[0].ID)
	}
}

func TestParseResponseInvalid(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "{nodes: oops}"},
		{"duplicate ids", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`},
		{"empty endpoint", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.response)
			if !errors.Is(err, errors.ErrCodeLLMResponse) {
				t.Errorf("err = %v, want LLM_RESPONSE", err)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(SampleDocuments())

	for _, want := range []string{
		`"Document" | "Scan" | "Implementation" | "Assessment"`,
		`"is referenced by" | "conflicts with" | "implements" | "requires"`,
		"Document 1:",
		"Document 4:",
		`"id": "doc2"`,
		"Output the JSON object only",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestValidateDocuments(t *testing.T) {
	tests := []struct {
		name    string
		docs    []Document
		wantErr bool
	}{
		{"sample", SampleDocuments(), false},
		{"none", nil, true},
		{"missing id", []Document{{Content: "x"}}, true},
		{"missing content", []Document{{ID: "d"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocuments(tt.docs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocuments() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestReadDocuments(t *testing.T) {
	docs, err := ReadDocuments(strings.NewReader(`[{"id":"a","content":"text"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Errorf("docs = %+v", docs)
	}

	if _, err := ReadDocuments(strings.NewReader(`{"id":"a"}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("object input: err = %v, want INVALID_FORMAT", err)
	}
}
