package graph

import (
	"maps"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node types produced by the document extractor.
const (
	TypeDocument       = "Document"
	TypeScan           = "Scan"
	TypeImplementation = "Implementation"
	TypeAssessment     = "Assessment"
)

// Relationship labels produced by the document extractor.
const (
	RelReferencedBy  = "is referenced by"
	RelConflictsWith = "conflicts with"
	RelImplements    = "implements"
	RelRequires      = "requires"
)

// KnownTypes lists the node types the extractor is asked to produce.
var KnownTypes = []string{TypeDocument, TypeScan, TypeImplementation, TypeAssessment}

// KnownRelations lists the relationship labels the extractor is asked to produce.
var KnownRelations = []string{RelReferencedBy, RelConflictsWith, RelImplements, RelRequires}

// styleOpacity is the Style key holding emphasis.
const styleOpacity = "opacity"

// =============================================================================
// Graph - Knowledge Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for knowledge graphs.
// Used for API responses, storage, caching, and files.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node - Document Vertex
// =============================================================================

// Node is a document (or scan, implementation, assessment) in the graph.
//
// ID, Type, Label and Properties belong to the caller and are passed through
// every layout call unchanged. Position, Hidden, Selected and Style are
// derived by the layout engine.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Type       string         `json:"type,omitempty" bson:"type,omitempty"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`

	Position Position `json:"position" bson:"-"`
	Hidden   bool     `json:"hidden,omitempty" bson:"-"`
	Selected bool     `json:"selected,omitempty" bson:"-"`
	Style    Style    `json:"style,omitempty" bson:"-"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Visible reports whether the node is shown.
func (n *Node) Visible() bool { return !n.Hidden }

// Clone returns a copy of n whose maps can be modified independently.
func (n Node) Clone() Node {
	n.Properties = maps.Clone(n.Properties)
	n.Style = maps.Clone(n.Style)
	return n
}

// =============================================================================
// Edge - Relationship
// =============================================================================

// Edge is a labelled relationship between two nodes. Direction is kept for
// display; the layout engine treats edges as undirected.
type Edge struct {
	ID         string         `json:"id,omitempty" bson:"id,omitempty"`
	Source     string         `json:"source" bson:"source"`
	Target     string         `json:"target" bson:"target"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`

	Hidden bool  `json:"hidden,omitempty" bson:"-"`
	Style  Style `json:"style,omitempty" bson:"-"`
}

// Visible reports whether the edge is shown.
func (e *Edge) Visible() bool { return !e.Hidden }

// Clone returns a copy of e whose maps can be modified independently.
func (e Edge) Clone() Edge {
	e.Properties = maps.Clone(e.Properties)
	e.Style = maps.Clone(e.Style)
	return e
}

// EdgeID returns the conventional identifier "source-target".
func EdgeID(source, target string) string {
	return source + "-" + target
}

// =============================================================================
// Position and Style
// =============================================================================

// Position is a 2-D canvas coordinate. The focus node sits at the origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style holds presentational attributes forwarded to the view layer.
// Unknown keys are preserved; the layout engine only writes "opacity".
type Style map[string]any

// Opacity returns the emphasis value, if one has been set.
func (s Style) Opacity() (float64, bool) {
	switch v := s[styleOpacity].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// WithOpacity returns a copy of s with opacity set to v.
// The receiver is not modified.
func (s Style) WithOpacity(v float64) Style {
	out := make(Style, len(s)+1)
	maps.Copy(out, s)
	out[styleOpacity] = v
	return out
}
