package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/hmvalidate/cli/reader"
)

// defaultPageSize is the number of findings shown before the window size
// is known.
const defaultPageSize = 15

// InspectModel is a Bubble Tea model for the log inspect view.
// Findings scroll with the up/down keys.
type InspectModel struct {
	viewType string
	data     any
	offset   int
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Down):
			if m.offset < m.maxOffset() {
				m.offset++
			}
		case key.Matches(msg, keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		}
	}

	return m, nil
}

func (m InspectModel) pageSize() int {
	// Header box and help take roughly 14 lines.
	if m.height > 20 {
		return m.height - 14
	}
	return defaultPageSize
}

func (m InspectModel) maxOffset() int {
	data, ok := m.data.(*reader.InspectLogResponse)
	if !ok {
		return 0
	}
	return max(len(data.Findings)-m.pageSize(), 0)
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case ViewInspectLog:
		content = m.renderInspectLog()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("↑/↓ scroll findings • q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectLog() string {
	data, ok := m.data.(*reader.InspectLogResponse)
	if !ok {
		return "Invalid data type for inspect_log"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Validation Log"))
	b.WriteString("\n\n")

	rows := [][]string{
		{"Path", data.Path},
		{"Result", data.Classification},
		{"Last line", data.LastLine},
		{"Errors", fmt.Sprintf("%d", data.Errors)},
		{"Warnings", fmt.Sprintf("%d", data.Warnings)},
	}
	if data.Truncated {
		rows = append(rows, []string{"Scan", "stopped at error limit"})
	}
	for _, row := range rows {
		label := LabelStyle.Render(row[0] + ":")
		value := ValueStyle.Render(row[1])
		if row[0] == "Result" {
			value = ClassificationStyle(data.Classification).Render(row[1])
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label, value))
	}
	header := BoxStyle.Render(b.String())

	if len(data.Findings) == 0 {
		return header
	}

	var f strings.Builder
	end := min(m.offset+m.pageSize(), len(data.Findings))
	for _, e := range data.Findings[m.offset:end] {
		f.WriteString(fmt.Sprintf("%5d %s %s\n",
			e.Line,
			LevelStyle(e.Level).Render(fmt.Sprintf("%-5s", e.Level)),
			e.Message))
	}
	f.WriteString(HelpStyle.Render(fmt.Sprintf("findings %d-%d of %d", m.offset+1, end, len(data.Findings))))

	return lipgloss.JoinVertical(lipgloss.Left, header, f.String())
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
