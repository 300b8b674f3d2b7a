package graphgen

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/matzehuels/kgraph/pkg/graph"
)

const systemPrompt = "You extract knowledge graphs from documents and answer with JSON only."

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"json":   indentJSON,
	"quoted": quoteJoin,
}).Parse(`Extract nodes (documents) and references between them from the documents below.
Provide the output as a JSON object with two arrays: "nodes" and "edges".
Nodes should represent documents and scans with their properties.
Edges should represent relationships between these nodes.
The format must be as follows:

interface Node {
    id: string
    type: {{quoted .Types}}
    label: string
    properties?: Record<string, any>
}

interface Edge {
    source: string
    target: string
    label: {{quoted .Relations}}
    properties?: Record<string, any>
}

Documents:
{{range $i, $d := .Documents}}
Document {{inc $i}}:
"""
{{json $d}}
"""
{{end}}
Output the JSON object only, without any additional text.
`))

// BuildPrompt renders the extraction prompt for docs.
func BuildPrompt(docs []Document) string {
	var b strings.Builder
	_ = promptTmpl.Execute(&b, struct {
		Types     []string
		Relations []string
		Documents []Document
	}{graph.KnownTypes, graph.KnownRelations, docs})
	return b.String()
}

func indentJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, " | ")
}
