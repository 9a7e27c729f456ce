// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package progress renders a live download meter on interactive terminals.
package progress

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

type updateMsg struct {
	done  int64
	total int64
}

type finishMsg struct{}

type model struct {
	label string
	bar   progress.Model
	done  int64
	total int64
	width int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case updateMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil
	case finishMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.label)
	b.WriteString(" ")

	if m.total > 0 {
		b.WriteString(m.bar.ViewAs(float64(m.done) / float64(m.total)))
		b.WriteString(fmt.Sprintf(" %s/%s",
			humanize.Bytes(uint64(m.done)),   //nolint:gosec
			humanize.Bytes(uint64(m.total)))) //nolint:gosec
	} else {
		// No Content-Length from upstream, show bytes only.
		b.WriteString(humanize.Bytes(uint64(m.done))) //nolint:gosec
	}

	return b.String()
}

// Tracker drives the meter for one download. A nil Tracker is inert, so
// callers don't have to special-case non-interactive runs.
type Tracker struct {
	program *tea.Program
	done    chan struct{}
}

// Start begins rendering a meter labeled with label. It returns nil when
// stdout is not a terminal.
func Start(label string) *Tracker {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}

	m := model{
		label: label,
		bar:   progress.New(progress.WithDefaultGradient()),
	}

	t := &Tracker{
		program: tea.NewProgram(m, tea.WithOutput(os.Stderr)),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		_, _ = t.program.Run()
	}()

	return t
}

// Update feeds the meter. Its signature matches fetch.ProgressFunc so it can
// be handed straight to the download options.
func (t *Tracker) Update(done int64, total int64) {
	if t == nil {
		return
	}
	t.program.Send(updateMsg{done: done, total: total})
}

// Finish stops the meter and waits for the terminal to be released.
func (t *Tracker) Finish() {
	if t == nil {
		return
	}
	t.program.Send(finishMsg{})
	<-t.done
}
