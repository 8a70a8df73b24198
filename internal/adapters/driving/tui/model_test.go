package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

var midnight = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func probe(step int, outcome domain.ProbeOutcome) messages.ProbeReported {
	return messages.ProbeReported{Progress: domain.Progress{
		Window:   domain.Window{Start: midnight, End: midnight.Add(time.Minute)},
		Midpoint: midnight.Add(30 * time.Second),
		Outcome:  outcome,
		Step:     step,
		Budget:   14,
	}}
}

func quitKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
}

func TestModel_InitialView(t *testing.T) {
	m := NewModel("projects/p/instances/i/databases/d", nil)

	assert.Nil(t, m.Init())
	view := m.View()
	assert.Contains(t, view, "pitrseek")
	assert.Contains(t, view, "projects/p/instances/i/databases/d")
	assert.Contains(t, view, "Waiting for the first probe")
	assert.Zero(t, m.Percent())
}

func TestModel_ProbeReported(t *testing.T) {
	m := NewModel("db", nil)

	m.Update(probe(1, domain.OutcomeTrue))
	m.Update(probe(2, domain.OutcomeFalse))
	_, cmd := m.Update(probe(7, domain.OutcomeTrue))

	assert.Nil(t, cmd)
	assert.InDelta(t, 0.5, m.Percent(), 1e-9)
	view := m.View()
	assert.Contains(t, view, "probe 7/14")
	assert.Contains(t, view, "2024-03-01T00:00:30Z")
	assert.Contains(t, view, "2 true")
	assert.Contains(t, view, "1 false")
}

func TestModel_PercentCapped(t *testing.T) {
	m := NewModel("db", nil)

	m.Update(probe(20, domain.OutcomeTrue))

	assert.InDelta(t, 1.0, m.Percent(), 1e-9)
}

func TestModel_QuitTwice(t *testing.T) {
	stops := 0
	m := NewModel("db", func() { stops++ })

	_, cmd := m.Update(quitKey())
	assert.Nil(t, cmd)
	assert.True(t, m.Stopping())
	assert.False(t, m.Forced())
	assert.Contains(t, m.View(), "Stopping after the current probe")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Forced())
	assert.Equal(t, 1, stops)
	assert.Empty(t, m.View())
}

func TestModel_IgnoresOtherKeys(t *testing.T) {
	m := NewModel("db", nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Nil(t, cmd)
	assert.False(t, m.Stopping())
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("db", nil)

	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Equal(t, maxBarWidth, m.bar.Width)

	m.Update(tea.WindowSizeMsg{Width: 8, Height: 40})
	assert.Equal(t, minBarWidth, m.bar.Width)

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 40})
	assert.Equal(t, 36, m.bar.Width)
}

func TestModel_SearchFinished(t *testing.T) {
	m := NewModel("db", nil)

	_, cmd := m.Update(messages.SearchFinished{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_LogLine(t *testing.T) {
	m := NewModel("db", nil)

	_, cmd := m.Update(messages.LogLine{Text: "[WARN] table not found"})

	assert.NotNil(t, cmd)
}
