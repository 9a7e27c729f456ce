// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestModel_Update(t *testing.T) {
	m := model{label: "MUTAG", bar: progress.New(progress.WithDefaultGradient())}

	next, _ := m.Update(updateMsg{done: 512, total: 1024})
	m = next.(model)
	assert.Equal(t, int64(512), m.done)
	assert.Equal(t, int64(1024), m.total)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80})
	m = next.(model)
	assert.Equal(t, 80, m.width)
}

func TestModel_View(t *testing.T) {
	m := model{label: "MUTAG", bar: progress.New(progress.WithDefaultGradient())}

	m.done = 512
	m.total = 1024
	view := m.View()
	assert.Contains(t, view, "MUTAG")
	assert.Contains(t, view, "512 B")
	assert.Contains(t, view, "1.0 kB")

	// Unknown total falls back to a byte count.
	m.total = 0
	assert.Contains(t, m.View(), "512 B")
}

func TestTracker_NilIsInert(t *testing.T) {
	var tr *Tracker
	tr.Update(1, 2)
	tr.Finish()
}
