package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Radial Visualization Format
// =============================================================================

// Layout is the serialization format for a graph laid out around a focus node.
//
// Nodes and Edges are the complete input sets with derived fields filled in;
// hidden items are retained. Rings summarizes ring membership by distance
// (ascending) and is omitted for nodes that are unreachable from Focus.
type Layout struct {
	Focus      string        `json:"focus"`
	Nodes      []Node        `json:"nodes"`
	Edges      []Edge        `json:"edges"`
	Rings      []RingSummary `json:"rings,omitempty"`
	Stats      LayoutStats   `json:"stats"`
	Seed       uint64        `json:"seed,omitempty"`
	Concentric bool          `json:"concentric,omitempty"`
}

// RingSummary lists the node IDs at one hop distance from the focus.
type RingSummary struct {
	Distance int      `json:"distance"`
	NodeIDs  []string `json:"node_ids"`
}

// LayoutStats counts what a layout shows and hides.
type LayoutStats struct {
	VisibleNodes int `json:"visible_nodes"`
	HiddenNodes  int `json:"hidden_nodes"`
	VisibleEdges int `json:"visible_edges"`
	HiddenEdges  int `json:"hidden_edges"`
	MaxDistance  int `json:"max_distance"`
}

// Graph returns the laid out nodes and edges as a Graph.
func (l *Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout must name its focus node.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Focus == "" {
		return Layout{}, fmt.Errorf("layout must name a focus node")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
