// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

// Stats is a flat summary of a loaded dataset, shaped for the output
// pipeline (keys double as --attrs/--filter keys).
type Stats struct {
	Name           string  `json:"name"`
	Variant        string  `json:"variant"`
	Graphs         int     `json:"graphs"`
	AvgNodes       float64 `json:"avg_nodes"`
	AvgEdges       float64 `json:"avg_edges"`
	NodeFeatures   int     `json:"node_features"`
	NodeAttributes int     `json:"node_attributes"`
	NodeLabels     int     `json:"node_labels"`
	EdgeFeatures   int     `json:"edge_features"`
	EdgeAttributes int     `json:"edge_attributes"`
	EdgeLabels     int     `json:"edge_labels"`
	Classes        int     `json:"classes"`
}

// Variant names the on-disk subtree flavor.
func (d *Dataset) Variant() string {
	if d.Cleaned {
		return "cleaned"
	}
	return "canonical"
}

// Stats summarizes the loaded records. Call after Load.
func (d *Dataset) Stats() Stats {
	s := Stats{
		Name:           d.Name,
		Variant:        d.Variant(),
		Graphs:         d.Len(),
		NodeFeatures:   d.NumNodeFeatures(),
		NodeAttributes: d.NumNodeAttributes(),
		NodeLabels:     d.NumNodeLabels(),
		EdgeFeatures:   d.NumEdgeFeatures(),
		EdgeAttributes: d.NumEdgeAttributes(),
		EdgeLabels:     d.NumEdgeLabels(),
	}

	if d.Len() == 0 {
		return s
	}

	classes := make(map[float64]bool)
	var nodes, edges int
	for _, g := range d.graphs {
		nodes += g.NumNodes()
		edges += g.NumEdges()
		if len(g.Y) == 1 {
			classes[g.Y[0]] = true
		}
	}
	s.AvgNodes = float64(nodes) / float64(d.Len())
	s.AvgEdges = float64(edges) / float64(d.Len())
	s.Classes = len(classes)

	return s
}
