// Package tui provides the interactive focus countdown screen.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/fentz26/critterfocus/internal/ui"
)

// Outcome is how the countdown ended.
type Outcome int

const (
	// OutcomePending means the countdown has not finished.
	OutcomePending Outcome = iota
	// OutcomeCompleted means the timer ran out.
	OutcomeCompleted
	// OutcomeAborted means the user gave up.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeAborted:
		return "aborted"
	default:
		return "pending"
	}
}

const tickInterval = time.Second

var (
	timeStyle   = lipgloss.NewStyle().Bold(true).Foreground(ui.PrimaryColor).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(ui.WarningColor).Italic(true)
)

// FocusModel counts down one focus session.
type FocusModel struct {
	taskTitle string
	companion string
	total     time.Duration

	timer    timer.Model
	progress progress.Model
	help     help.Model
	keys     keyMap

	paused  bool
	outcome Outcome
}

// NewFocusModel creates a countdown of length d for a task. companion is
// shown under the task and may be empty.
func NewFocusModel(taskTitle, companion string, d time.Duration) *FocusModel {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40
	return &FocusModel{
		taskTitle: taskTitle,
		companion: companion,
		total:     d,
		timer:     timer.NewWithInterval(d, tickInterval),
		progress:  p,
		help:      help.New(),
		keys:      defaultKeys,
	}
}

// Outcome reports how the countdown ended.
func (m *FocusModel) Outcome() Outcome {
	return m.outcome
}

// Init implements tea.Model
func (m *FocusModel) Init() tea.Cmd {
	return m.timer.Init()
}

// Update implements tea.Model
func (m *FocusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timer.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		m.outcome = OutcomeCompleted
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-4, 60)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Abort):
			m.outcome = OutcomeAborted
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, m.timer.Toggle()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// elapsed is the fraction of the session already spent.
func (m *FocusModel) elapsed() float64 {
	if m.total <= 0 {
		return 1
	}
	done := m.total - m.timer.Timeout
	if done < 0 {
		done = 0
	}
	return float64(done) / float64(m.total)
}

// View implements tea.Model
func (m *FocusModel) View() string {
	var b strings.Builder

	b.WriteString(ui.Heading(ui.IconFocus, "Focus: "+m.taskTitle))
	b.WriteString("\n")
	if m.companion != "" {
		b.WriteString(ui.Muted.Render("with " + m.companion))
		b.WriteString("\n")
	}

	remaining := timeStyle.Render(formatRemaining(m.timer.Timeout))
	if m.paused {
		remaining += "  " + pausedStyle.Render("paused")
	}
	b.WriteString(remaining)
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.elapsed()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}

// IsTTY reports whether stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RunFocus runs the countdown full-screen and returns its outcome.
func RunFocus(m *FocusModel) (Outcome, error) {
	if !IsTTY() {
		return OutcomePending, fmt.Errorf("focus screen needs a terminal; use 'critter focus start' and 'critter focus end' instead")
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return OutcomePending, err
	}
	return final.(*FocusModel).Outcome(), nil
}
