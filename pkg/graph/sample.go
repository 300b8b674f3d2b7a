package graph

// Sample returns the demonstration graph: a data privacy statement and the
// documents, scans, implementations and assessments around it.
func Sample() Graph {
	return Normalize(Graph{
		Nodes: []Node{
			{ID: "n1", Label: "Data Privacy Statement", Type: TypeDocument},
			{ID: "n2", Label: "Execution Advisory for Data Privacy Statement", Type: TypeScan},
			{ID: "n3", Label: "GDPR Compliance Policy", Type: TypeDocument},
			{ID: "n4", Label: "Legacy Privacy Framework", Type: TypeDocument},
			{ID: "n5", Label: "User Consent Remark", Type: TypeImplementation},
			{ID: "n6", Label: "Data Protection Impact Assessment", Type: TypeAssessment},
		},
		Edges: []Edge{
			{Source: "n1", Target: "n2", Label: RelReferencedBy},
			{Source: "n1", Target: "n3", Label: RelReferencedBy},
			{Source: "n1", Target: "n4", Label: RelConflictsWith},
			{Source: "n1", Target: "n5", Label: RelImplements},
			{Source: "n2", Target: "n6", Label: RelRequires},
		},
	})
}
