// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// ReadDataset parses the raw TU text files for the named dataset out of dir
// and returns the graph records plus the node and edge attribute-channel
// counts. All raw files are 1-based, one line per entity:
//
//	NAME_A.txt               src, dst per edge (required)
//	NAME_graph_indicator.txt graph id per node (required)
//	NAME_node_attributes.txt float channels per node
//	NAME_node_labels.txt     integer label column(s) per node, one-hot expanded
//	NAME_edge_attributes.txt float channels per edge
//	NAME_edge_labels.txt     integer label column(s) per edge, one-hot expanded
//	NAME_graph_attributes.txt float target per graph
//	NAME_graph_labels.txt    integer class per graph, shifted to 0-based
//
// Node ids are remapped to 0-based per-graph ids, self-loops are dropped and
// duplicate edges coalesced keeping the first occurrence.
func ReadDataset(dir string, name string) ([]*Graph, int, int, error) {
	prefix := dir + string(os.PathSeparator) + name + "_"

	edges, err := readPairs(prefix + "A.txt")
	if err != nil {
		return nil, 0, 0, err
	}

	indicator, err := readIntColumn(prefix + "graph_indicator.txt")
	if err != nil {
		return nil, 0, 0, err
	}
	numNodes := len(indicator)

	nodeX, numNodeAttributes, err := readChannels(prefix, "node", numNodes)
	if err != nil {
		return nil, 0, 0, err
	}

	edgeX, numEdgeAttributes, err := readChannels(prefix, "edge", len(edges))
	if err != nil {
		return nil, 0, 0, err
	}

	targets, err := readTargets(prefix)
	if err != nil {
		return nil, 0, 0, err
	}

	graphs, err := assemble(edges, indicator, nodeX, edgeX, targets)
	if err != nil {
		return nil, 0, 0, err
	}

	log.Debugf("read %s: %d graphs, %d nodes, %d edges, %d/%d attribute channels",
		name, len(graphs), numNodes, len(edges), numNodeAttributes, numEdgeAttributes)

	return graphs, numNodeAttributes, numEdgeAttributes, nil
}

// readChannels builds the feature matrix for one entity kind ("node" or
// "edge"): continuous attribute columns first, then one-hot expanded label
// columns. Returns the matrix and the attribute column count.
func readChannels(prefix string, kind string, rows int) (Matrix, int, error) {
	attrs, ok, err := readFloatMatrix(prefix + kind + "_attributes.txt")
	if err != nil {
		return Matrix{}, 0, err
	}
	if ok && attrs.Rows != rows {
		return Matrix{}, 0, fmt.Errorf("%s attribute rows (%d) do not match %s count (%d)",
			kind, attrs.Rows, kind, rows)
	}

	labels, ok, err := readIntMatrix(prefix + kind + "_labels.txt")
	if err != nil {
		return Matrix{}, 0, err
	}
	if ok && len(labels) != rows {
		return Matrix{}, 0, fmt.Errorf("%s label rows (%d) do not match %s count (%d)",
			kind, len(labels), kind, rows)
	}

	x := hcat(attrs, oneHot(labels))
	x.Rows = rows

	return x, attrs.Cols, nil
}

// readTargets returns the per-graph target values, preferring continuous
// graph attributes over categorical graph labels. Labels are shifted so the
// smallest class is 0. Returns nil when the dataset carries no targets.
func readTargets(prefix string) ([]float64, error) {
	attrs, ok, err := readFloatMatrix(prefix + "graph_attributes.txt")
	if err != nil {
		return nil, err
	}
	if ok {
		if attrs.Cols != 1 {
			return nil, fmt.Errorf("graph attributes must be a single column, got %d", attrs.Cols)
		}
		return attrs.Data, nil
	}

	labels, ok, err := readIntMatrix(prefix + "graph_labels.txt")
	if err != nil || !ok {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%sgraph_labels.txt is empty", prefix)
	}

	lo := labels[0][0]
	for _, row := range labels {
		if row[0] < lo {
			lo = row[0]
		}
	}

	targets := make([]float64, len(labels))
	for i, row := range labels {
		targets[i] = float64(row[0] - lo)
	}
	return targets, nil
}

// assemble splits the flat node and edge sets into per-graph records.
func assemble(edges [][2]int, indicator []int, nodeX Matrix, edgeX Matrix, targets []float64) ([]*Graph, error) {
	numGraphs := 0
	for _, g := range indicator {
		if g < 1 {
			return nil, fmt.Errorf("graph indicator values must be 1-based, got %d", g)
		}
		if g > numGraphs {
			numGraphs = g
		}
	}
	if targets != nil && len(targets) != numGraphs {
		return nil, fmt.Errorf("graph target rows (%d) do not match graph count (%d)", len(targets), numGraphs)
	}

	// Per-node graph assignment and 0-based local index, in file order.
	nodeGraph := make([]int, len(indicator))
	localID := make([]int, len(indicator))
	counts := make([]int, numGraphs)
	for i, g := range indicator {
		nodeGraph[i] = g - 1
		localID[i] = counts[g-1]
		counts[g-1]++
	}

	graphs := make([]*Graph, numGraphs)
	for g := 0; g < numGraphs; g++ {
		graphs[g] = &Graph{
			X:        Matrix{Rows: 0, Cols: nodeX.Cols, Data: []float64{}},
			EdgeAttr: Matrix{Rows: 0, Cols: edgeX.Cols, Data: []float64{}},
		}
		if targets != nil {
			graphs[g].Y = []float64{targets[g]}
		}
	}

	for i := range indicator {
		gr := graphs[nodeGraph[i]]
		gr.X.Rows++
		if nodeX.Cols > 0 {
			gr.X.Data = append(gr.X.Data, nodeX.Row(i)...)
		}
	}

	seen := make(map[[2]int]bool)
	for k, e := range edges {
		src, dst := e[0]-1, e[1]-1
		if src < 0 || src >= len(indicator) || dst < 0 || dst >= len(indicator) {
			return nil, fmt.Errorf("edge (%d, %d) references an unknown node", e[0], e[1])
		}
		if nodeGraph[src] != nodeGraph[dst] {
			return nil, fmt.Errorf("edge (%d, %d) crosses graphs", e[0], e[1])
		}
		if src == dst {
			// Self-loops are dropped.
			continue
		}

		key := [2]int{src, dst}
		if seen[key] {
			// Duplicate edge: first occurrence wins.
			continue
		}
		seen[key] = true

		gr := graphs[nodeGraph[src]]
		gr.EdgeSrc = append(gr.EdgeSrc, localID[src])
		gr.EdgeDst = append(gr.EdgeDst, localID[dst])
		gr.EdgeAttr.Rows++
		if edgeX.Cols > 0 {
			gr.EdgeAttr.Data = append(gr.EdgeAttr.Data, edgeX.Row(k)...)
		}
	}

	return graphs, nil
}

// oneHot expands integer label columns into concatenated one-hot channels.
// Each column is shifted so its smallest value maps to the first channel;
// the channel width is that column's global value range.
func oneHot(labels [][]int) Matrix {
	if len(labels) == 0 {
		return Matrix{}
	}

	cols := len(labels[0])
	lo := make([]int, cols)
	hi := make([]int, cols)
	for c := 0; c < cols; c++ {
		lo[c], hi[c] = labels[0][c], labels[0][c]
	}
	for _, row := range labels {
		for c, v := range row {
			if v < lo[c] {
				lo[c] = v
			}
			if v > hi[c] {
				hi[c] = v
			}
		}
	}

	width := 0
	offset := make([]int, cols)
	for c := 0; c < cols; c++ {
		offset[c] = width
		width += hi[c] - lo[c] + 1
	}

	out := NewMatrix(len(labels), width)
	for r, row := range labels {
		for c, v := range row {
			out.Set(r, offset[c]+v-lo[c], 1)
		}
	}
	return out
}

// readLines returns the non-empty trimmed lines of path.
func readLines(path string) ([]string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, true, nil
}

// readFloatMatrix parses a comma-separated float file. ok is false when the
// file does not exist.
func readFloatMatrix(path string) (Matrix, bool, error) {
	lines, ok, err := readLines(path)
	if err != nil || !ok {
		return Matrix{}, ok, err
	}

	var m Matrix
	for i, line := range lines {
		fields := splitFields(line)
		if i == 0 {
			m = Matrix{Cols: len(fields), Data: make([]float64, 0, len(lines)*len(fields))}
		} else if len(fields) != m.Cols {
			return Matrix{}, true, fmt.Errorf("%s:%d: expected %d columns, got %d", path, i+1, m.Cols, len(fields))
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return Matrix{}, true, fmt.Errorf("%s:%d: %w", path, i+1, err)
			}
			m.Data = append(m.Data, v)
		}
		m.Rows++
	}
	return m, true, nil
}

// readIntMatrix parses a comma-separated integer file. ok is false when the
// file does not exist.
func readIntMatrix(path string) ([][]int, bool, error) {
	lines, ok, err := readLines(path)
	if err != nil || !ok {
		return nil, ok, err
	}

	rows := make([][]int, 0, len(lines))
	for i, line := range lines {
		fields := splitFields(line)
		if i > 0 && len(fields) != len(rows[0]) {
			return nil, true, fmt.Errorf("%s:%d: expected %d columns, got %d", path, i+1, len(rows[0]), len(fields))
		}
		row := make([]int, len(fields))
		for c, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, true, fmt.Errorf("%s:%d: %w", path, i+1, err)
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return rows, true, nil
}

// readIntColumn parses a required single-column integer file.
func readIntColumn(path string) ([]int, error) {
	rows, ok, err := readIntMatrix(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("required file missing: %s", path)
	}
	out := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != 1 {
			return nil, fmt.Errorf("%s:%d: expected a single column", path, i+1)
		}
		out[i] = row[0]
	}
	return out, nil
}

// readPairs parses the required two-column edge file.
func readPairs(path string) ([][2]int, error) {
	rows, ok, err := readIntMatrix(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("required file missing: %s", path)
	}
	out := make([][2]int, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("%s:%d: expected src, dst", path, i+1)
		}
		out[i] = [2]int{row[0], row[1]}
	}
	return out, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
