// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix_WithoutLeadingCols(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(0, 2, 3)
	m.Set(1, 0, 4)
	m.Set(1, 1, 5)
	m.Set(1, 2, 6)

	got := m.WithoutLeadingCols(1)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 2, got.Cols)
	assert.Equal(t, []float64{2, 3}, got.Row(0))
	assert.Equal(t, []float64{5, 6}, got.Row(1))

	// Zero is a no-op.
	assert.Equal(t, m, m.WithoutLeadingCols(0))

	// Stripping everything keeps the row count.
	empty := m.WithoutLeadingCols(3)
	assert.Equal(t, 2, empty.Rows)
	assert.Equal(t, 0, empty.Cols)
}

func TestHcat(t *testing.T) {
	a := NewMatrix(2, 1)
	a.Set(0, 0, 1)
	a.Set(1, 0, 2)

	b := NewMatrix(2, 2)
	b.Set(0, 0, 3)
	b.Set(0, 1, 4)
	b.Set(1, 0, 5)
	b.Set(1, 1, 6)

	got := hcat(a, b)
	assert.Equal(t, 3, got.Cols)
	assert.Equal(t, []float64{1, 3, 4}, got.Row(0))
	assert.Equal(t, []float64{2, 5, 6}, got.Row(1))

	// Either side may be columnless.
	assert.Equal(t, b, hcat(Matrix{Rows: 2}, b))
	assert.Equal(t, a, hcat(a, Matrix{Rows: 2}))
}
