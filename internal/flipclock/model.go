// Package flipclock renders the wedding countdown as a flip clock in the terminal.
package flipclock

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"casamento/internal/countdown"
)

var (
	colorCard    = lipgloss.Color("#3b2f2f")
	colorCardFg  = lipgloss.Color("#fdf6ec")
	colorFlip    = lipgloss.Color("#c9a227")
	colorMutedFg = lipgloss.Color("#8a7f72")
)

func styleCard() lipgloss.Style {
	return lipgloss.NewStyle().
		Width(8).
		Align(lipgloss.Center).
		Padding(1, 0).
		Bold(true).
		Foreground(colorCardFg).
		Background(colorCard)
}

func styleLabel() lipgloss.Style {
	return lipgloss.NewStyle().Width(8).Align(lipgloss.Center).Foreground(colorMutedFg)
}

type tickMsg time.Time

// Model is the bubbletea model of the countdown
type Model struct {
	target    time.Time
	now       func() time.Time
	remaining countdown.TimeRemaining
	flips     *countdown.FlipTracker
	at        time.Time
	quitting  bool
}

// New creates a model counting down to target
func New(target time.Time, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		target: target,
		now:    now,
		flips:  countdown.NewFlipTracker(countdown.FlipDuration),
	}
	m.observe(now())
	return m
}

func (m *Model) observe(at time.Time) {
	m.at = at
	m.remaining = countdown.Compute(m.target, at)
	m.flips.Observe(m.remaining, at)
}

func tick() tea.Cmd {
	return tea.Tick(countdown.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		m.observe(m.now())
		if m.remaining.Expired() {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

// Remaining is the last computed record
func (m Model) Remaining() countdown.TimeRemaining {
	return m.remaining
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.remaining.Expired() {
		return lipgloss.NewStyle().Bold(true).Foreground(colorFlip).Render(countdown.FinishedMessage) + "\n"
	}

	cards := make([]string, 0, len(countdown.AllUnits))
	for _, uv := range m.remaining.Units() {
		card := styleCard()
		text := uv.Text()
		if _, ok := m.flips.Flipping(uv.Unit, m.at); ok {
			card = card.Foreground(colorFlip)
		}
		cards = append(cards, lipgloss.JoinVertical(lipgloss.Center,
			card.Render(text),
			styleLabel().Render(uv.Label()),
		))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, spaced(cards)...)
	help := lipgloss.NewStyle().Foreground(colorMutedFg).Render("q: sair")
	return strings.Join([]string{row, "", help}, "\n") + "\n"
}

func spaced(cards []string) []string {
	out := make([]string, 0, 2*len(cards))
	for i, c := range cards {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}
