package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

const (
	minBarWidth = 10
	maxBarWidth = 60
)

// Model is the live search view following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type Model struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model
	bar    progress.Model

	// target is the database path shown in the header.
	target string

	// last is the most recent probe, valid once seen is set.
	last domain.Progress
	seen bool

	trueProbes  int
	falseProbes int

	// stopping is set by the first quit key, forced by the second.
	stopping bool
	forced   bool
	finished bool

	onStop func()
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// NewModel creates the view for a search against target. onStop is called
// once, when the user first asks to stop.
func NewModel(target string, onStop func()) *Model {
	s := styles.DefaultStyles()
	theme := s.Theme()

	return &Model{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		help:   help.New(),
		bar: progress.New(
			progress.WithGradient(string(theme.Primary), string(theme.Secondary)),
			progress.WithWidth(maxBarWidth/2),
		),
		target: target,
		onStop: onStop,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = clamp(msg.Width-4, minBarWidth, maxBarWidth)
		return m, nil

	case tea.KeyMsg:
		if !keymap.Matches(msg.String(), m.keys.Quit) {
			return m, nil
		}
		if m.stopping {
			m.forced = true
			return m, tea.Quit
		}
		m.stopping = true
		if m.onStop != nil {
			m.onStop()
		}
		return m, nil

	case messages.ProbeReported:
		m.last = msg.Progress
		m.seen = true
		switch msg.Progress.Outcome {
		case domain.OutcomeTrue:
			m.trueProbes++
		case domain.OutcomeFalse:
			m.falseProbes++
		}
		return m, nil

	case messages.LogLine:
		return m, tea.Println(msg.Text)

	case messages.SearchFinished:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model. A finished view renders nothing so the
// terminal is left to the final result.
func (m *Model) View() string {
	if m.finished || m.forced {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("pitrseek"))
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render(m.target))
	b.WriteString("\n\n")

	b.WriteString(m.bar.ViewAs(m.Percent()))
	if m.seen {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  probe %d/%d", m.last.Step, m.last.Budget)))
	}
	b.WriteString("\n\n")

	if m.seen {
		w := m.last.Window
		b.WriteString(m.styles.Label.Render("Window"))
		b.WriteString(m.styles.Normal.Render(fmt.Sprintf("%s → %s (%s)",
			domain.FormatTimestamp(w.Start), domain.FormatTimestamp(w.End), w.Width())))
		b.WriteString("\n")

		b.WriteString(m.styles.Label.Render("Probe"))
		b.WriteString(m.styles.Normal.Render(domain.FormatTimestamp(m.last.Midpoint)))
		b.WriteString("  ")
		b.WriteString(m.styles.Outcome(m.last.Outcome).Render(m.last.Outcome.String()))
		b.WriteString("\n")

		b.WriteString(m.styles.Label.Render("Results"))
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("%d true", m.trueProbes)))
		b.WriteString(m.styles.Muted.Render(", "))
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("%d false", m.falseProbes)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.styles.Muted.Render("Waiting for the first probe..."))
		b.WriteString("\n\n")
	}

	if m.stopping {
		b.WriteString(m.styles.Warning.Render("Stopping after the current probe. Press q again to exit now."))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	b.WriteString("\n")

	return b.String()
}

// Percent is the share of the iteration budget spent so far.
func (m *Model) Percent() float64 {
	if !m.seen || m.last.Budget <= 0 {
		return 0
	}
	p := float64(m.last.Step) / float64(m.last.Budget)
	if p > 1 {
		return 1
	}
	return p
}

// Stopping reports whether the user asked the search to stop.
func (m *Model) Stopping() bool {
	return m.stopping
}

// Forced reports whether the user asked to exit without waiting.
func (m *Model) Forced() bool {
	return m.forced
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
