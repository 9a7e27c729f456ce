// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

// Matrix is a dense row-major float matrix. It is deliberately minimal:
// the cache only ever stores, slices and compares feature channels, so a
// flat backing slice with explicit dimensions is the whole need.
type Matrix struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row r, column c.
func (m Matrix) At(r, c int) float64 {
	return m.Data[r*m.Cols+c]
}

// Set assigns the value at row r, column c.
func (m *Matrix) Set(r, c int, v float64) {
	m.Data[r*m.Cols+c] = v
}

// Row returns the r-th row as a slice view into the backing array.
func (m Matrix) Row(r int) []float64 {
	return m.Data[r*m.Cols : (r+1)*m.Cols]
}

// WithoutLeadingCols returns a copy of m with the first n columns removed.
// Used to strip attribute channels when a caller only wants label channels.
func (m Matrix) WithoutLeadingCols(n int) Matrix {
	if n <= 0 {
		return m
	}
	if n >= m.Cols {
		return Matrix{Rows: m.Rows, Cols: 0, Data: []float64{}}
	}
	out := NewMatrix(m.Rows, m.Cols-n)
	for r := 0; r < m.Rows; r++ {
		copy(out.Row(r), m.Row(r)[n:])
	}
	return out
}

// hcat concatenates two matrices column-wise. Either side may be empty
// (zero columns); row counts must agree when both are populated.
func hcat(a, b Matrix) Matrix {
	if a.Cols == 0 {
		return b
	}
	if b.Cols == 0 {
		return a
	}
	out := NewMatrix(a.Rows, a.Cols+b.Cols)
	for r := 0; r < a.Rows; r++ {
		copy(out.Row(r)[:a.Cols], a.Row(r))
		copy(out.Row(r)[a.Cols:], b.Row(r))
	}
	return out
}

// Graph is one labeled benchmark graph: a node feature matrix whose leading
// columns are continuous attributes and trailing columns one-hot labels, a
// sparse adjacency as parallel src/dst slices with per-edge value channels
// split the same way, and an optional graph-level target.
type Graph struct {
	X        Matrix    `json:"x"`
	EdgeSrc  []int     `json:"edge_src"`
	EdgeDst  []int     `json:"edge_dst"`
	EdgeAttr Matrix    `json:"edge_attr"`
	Y        []float64 `json:"y,omitempty"`
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return g.X.Rows
}

// NumEdges returns the (directed) edge count.
func (g *Graph) NumEdges() int {
	return len(g.EdgeSrc)
}

// Transform maps a graph record to a replacement record.
type Transform func(*Graph) *Graph

// Filter reports whether a graph record should be kept.
type Filter func(*Graph) bool
