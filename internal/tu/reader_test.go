// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The TRI fixture: three graphs (a bidirected triangle, a two-node graph
// whose raw file carries a self-loop and a duplicate edge, and a two-node
// path), two float node attribute channels, one node label column with
// values {0,1,2}, one float edge attribute channel, one edge label column
// with values {1,2}, and graph labels {1,2}.
func readTRI(t *testing.T) ([]*Graph, int, int) {
	t.Helper()
	graphs, nodeAttrs, edgeAttrs, err := ReadDataset(filepath.Join("testdata", "TRI"), "TRI")
	require.NoError(t, err)
	return graphs, nodeAttrs, edgeAttrs
}

func TestReadDataset_Shapes(t *testing.T) {
	graphs, nodeAttrs, edgeAttrs := readTRI(t)

	require.Len(t, graphs, 3)
	assert.Equal(t, 2, nodeAttrs)
	assert.Equal(t, 1, edgeAttrs)

	// 2 attribute channels + 3 one-hot label channels.
	for _, g := range graphs {
		assert.Equal(t, 5, g.X.Cols)
		assert.Equal(t, 3, g.EdgeAttr.Cols)
	}

	assert.Equal(t, 3, graphs[0].NumNodes())
	assert.Equal(t, 6, graphs[0].NumEdges())
	assert.Equal(t, 2, graphs[1].NumNodes())
	assert.Equal(t, 2, graphs[2].NumNodes())
}

func TestReadDataset_OneHotNodeChannels(t *testing.T) {
	graphs, _, _ := readTRI(t)

	// Node 1: attributes (0.10, 1.00), label 0.
	assert.Equal(t, []float64{0.10, 1.00, 1, 0, 0}, graphs[0].X.Row(0))
	// Node 4 (first node of graph 2): attributes (0.40, 0.70), label 2.
	assert.Equal(t, []float64{0.40, 0.70, 0, 0, 1}, graphs[1].X.Row(0))
}

func TestReadDataset_EdgeChannels(t *testing.T) {
	graphs, _, _ := readTRI(t)

	// Third edge of graph 1 (2 -> 3): attribute 1.5, label 2.
	assert.Equal(t, 1, graphs[0].EdgeSrc[2])
	assert.Equal(t, 2, graphs[0].EdgeDst[2])
	assert.Equal(t, []float64{1.5, 0, 1}, graphs[0].EdgeAttr.Row(2))
}

func TestReadDataset_DropsSelfLoopsAndDuplicates(t *testing.T) {
	graphs, _, _ := readTRI(t)

	// Graph 2's raw lines carry (5,5) and a repeated (4,5); only the two
	// distinct non-loop edges survive, remapped to local ids.
	g := graphs[1]
	require.Equal(t, 2, g.NumEdges())
	assert.Equal(t, []int{0, 1}, g.EdgeSrc)
	assert.Equal(t, []int{1, 0}, g.EdgeDst)
	// First occurrence's values win for the kept (4,5).
	assert.Equal(t, []float64{3.5, 0, 1}, g.EdgeAttr.Row(0))
}

func TestReadDataset_GraphLabelsShiftedToZero(t *testing.T) {
	graphs, _, _ := readTRI(t)

	assert.Equal(t, []float64{1}, graphs[0].Y)
	assert.Equal(t, []float64{0}, graphs[1].Y)
	assert.Equal(t, []float64{1}, graphs[2].Y)
}

func TestReadDataset_GraphAttributesPreferred(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, map[string]string{
		"REG_A.txt":                "1, 2\n2, 1\n",
		"REG_graph_indicator.txt":  "1\n1\n",
		"REG_graph_labels.txt":     "1\n",
		"REG_graph_attributes.txt": "-2.75\n",
	})

	graphs, nodeAttrs, edgeAttrs, err := ReadDataset(dir, "REG")
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	// Continuous target wins over the categorical label.
	assert.Equal(t, []float64{-2.75}, graphs[0].Y)
	assert.Equal(t, 0, nodeAttrs)
	assert.Equal(t, 0, edgeAttrs)
	// No channel files at all: node count still tracked, zero columns.
	assert.Equal(t, 2, graphs[0].X.Rows)
	assert.Equal(t, 0, graphs[0].X.Cols)
}

func TestReadDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "missing indicator",
			files: map[string]string{
				"BAD_A.txt": "1, 2\n",
			},
			wantErr: "required file missing",
		},
		{
			name: "cross graph edge",
			files: map[string]string{
				"BAD_A.txt":               "1, 2\n",
				"BAD_graph_indicator.txt": "1\n2\n",
			},
			wantErr: "crosses graphs",
		},
		{
			name: "edge references unknown node",
			files: map[string]string{
				"BAD_A.txt":               "1, 9\n",
				"BAD_graph_indicator.txt": "1\n1\n",
			},
			wantErr: "unknown node",
		},
		{
			name: "ragged attribute rows",
			files: map[string]string{
				"BAD_A.txt":               "1, 2\n2, 1\n",
				"BAD_graph_indicator.txt": "1\n1\n",
				"BAD_node_attributes.txt": "0.1\n",
			},
			wantErr: "do not match",
		},
		{
			name: "empty graph labels file",
			files: map[string]string{
				"BAD_A.txt":               "1, 2\n2, 1\n",
				"BAD_graph_indicator.txt": "1\n1\n",
				"BAD_graph_labels.txt":    "",
			},
			wantErr: "graph_labels.txt is empty",
		},
		{
			name: "malformed float",
			files: map[string]string{
				"BAD_A.txt":               "1, 2\n2, 1\n",
				"BAD_graph_indicator.txt": "1\n1\n",
				"BAD_node_attributes.txt": "0.1\nnope\n",
			},
			wantErr: "invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeRaw(t, dir, tt.files)

			_, _, _, err := ReadDataset(dir, "BAD")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeRaw(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}
