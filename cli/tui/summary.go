package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/hmvalidate/batch"
	"github.com/pithecene-io/hmvalidate/cli/reader"
)

// tally is the part of a report or stored batch record the summary view
// shows.
type tally struct {
	title        string
	runID        string
	format       string
	total        int
	valid        int
	invalid      int
	other        int
	invalidFiles []string
	stats        *batch.ErrorStats
}

func tallyOf(viewType string, data any) (tally, bool) {
	switch viewType {
	case ViewSummaryReport:
		r, ok := data.(*batch.BatchReport)
		if !ok {
			return tally{}, false
		}
		return tally{
			title: "Batch Report", runID: r.RunID, format: r.Format,
			total: r.Total, valid: r.Valid, invalid: r.Invalid, other: r.Other,
			invalidFiles: r.InvalidFiles, stats: &r.ErrorStats,
		}, true
	case ViewSummaryBatch:
		b, ok := data.(*reader.BatchItem)
		if !ok {
			return tally{}, false
		}
		return tally{
			title: "Stored Batch", runID: b.RunID, format: b.Format,
			total: b.Total, valid: b.Valid, invalid: b.Invalid, other: b.Other,
			invalidFiles: b.InvalidFiles,
		}, true
	}
	return tally{}, false
}

// SummaryModel is a Bubble Tea model for batch summary views.
type SummaryModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewSummaryModel creates a new summary model.
func NewSummaryModel(viewType string, data any) SummaryModel {
	return SummaryModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m SummaryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m SummaryModel) View() string {
	if m.quitting {
		return ""
	}

	t, ok := tallyOf(m.viewType, m.data)
	var content string
	if ok {
		content = m.renderTally(t)
	} else {
		content = fmt.Sprintf("Invalid data type for %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m SummaryModel) renderTally(t tally) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(t.title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Run ID:"), ValueStyle.Render(t.runID)))
	b.WriteString(fmt.Sprintf("%s %s\n\n", LabelStyle.Render("Format:"), ValueStyle.Render(t.format)))

	boxes := []string{
		m.renderStatBox("Total", t.total, highlightColor),
		m.renderStatBox("Valid", t.valid, successColor),
		m.renderStatBox("Invalid", t.invalid, errorColor),
		m.renderStatBox("Other", t.other, warningColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))

	if t.stats != nil && t.stats.Files > 0 {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %s\n",
			LabelStyle.Render("Errors/file:"),
			ValueStyle.Render(fmt.Sprintf("mean %.1f  median %.1f  p90 %.1f  max %.0f",
				t.stats.Mean, t.stats.Median, t.stats.P90, t.stats.Max))))
	}

	if len(t.invalidFiles) > 0 {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("Invalid files:"))
		b.WriteString("\n")
		for _, f := range t.invalidFiles {
			b.WriteString("  " + f + "\n")
		}
	}

	return b.String()
}

func (m SummaryModel) renderStatBox(label string, value int, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunSummaryTUI runs the summary TUI.
func RunSummaryTUI(viewType string, data any) error {
	model := NewSummaryModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderSummaryStatic renders summary data without full TUI (for fallback).
func RenderSummaryStatic(viewType string, data any) string {
	model := NewSummaryModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
