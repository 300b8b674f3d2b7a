package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/kgraph/pkg/graph"
)

func ExampleWriteGraph() {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "n1", Type: graph.TypeDocument, Label: "Data Privacy Statement"},
			{ID: "n3", Type: graph.TypeDocument, Label: "GDPR Compliance Policy"},
		},
		Edges: []graph.Edge{
			{ID: "n1-n3", Source: "n1", Target: "n3", Label: graph.RelReferencedBy},
		},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "n1",
	//       "type": "Document",
	//       "label": "Data Privacy Statement",
	//       "position": {
	//         "x": 0,
	//         "y": 0
	//       }
	//     },
	//     {
	//       "id": "n3",
	//       "type": "Document",
	//       "label": "GDPR Compliance Policy",
	//       "position": {
	//         "x": 0,
	//         "y": 0
	//       }
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "n1-n3",
	//       "source": "n1",
	//       "target": "n3",
	//       "label": "is referenced by"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	jsonData := `{
		"nodes": [
			{"id": "n1", "type": "Document"},
			{"id": "n5", "type": "Implementation"}
		],
		"edges": [
			{"source": "n1", "target": "n5", "label": "implements"}
		]
	}`

	g, err := graph.ReadGraph(strings.NewReader(jsonData))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", len(g.Nodes))
	fmt.Println("Edges:", len(g.Edges))
	fmt.Println("Edge ID:", g.Edges[0].ID)
	// Output:
	// Nodes: 2
	// Edges: 1
	// Edge ID: n1-n5
}

func ExampleSample() {
	g := graph.Sample()
	for _, n := range g.Nodes[:3] {
		fmt.Printf("%s %-9s %s\n", n.ID, n.Type, n.Label)
	}
	// Output:
	// n1 Document  Data Privacy Statement
	// n2 Scan      Execution Advisory for Data Privacy Statement
	// n3 Document  GDPR Compliance Policy
}
