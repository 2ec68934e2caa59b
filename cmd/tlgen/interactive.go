package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/tl-codec/internal/tlgen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ctorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	filename string
	groups   []tlgen.Group
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
	stateDetail
)

func newInteractiveModel(filename string) *interactiveModel {
	filter := textinput.New()
	filter.Placeholder = "result type"
	filter.Prompt = "/ "
	filter.Width = 30

	return &interactiveModel{
		filename: filename,
		filter:   filter,
		state:    stateBrowse,
	}
}

type loadedMsg struct {
	err    error
	groups []tlgen.Group
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchema
}

func (m *interactiveModel) loadSchema() tea.Msg {
	cfg := &tlgen.Config{SchemaFile: m.filename}
	if err := cfg.Validate(); err != nil {
		return loadedMsg{err: err}
	}
	if err := cfg.AbsolutePaths(); err != nil {
		return loadedMsg{err: err}
	}

	schema, err := tlgen.NewParser(cfg).ParseFile()
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{groups: schema.Groups()}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateBrowse && len(m.visible) > 0 {
				m.state = stateDetail
			}

		case "/":
			if m.state == stateBrowse {
				m.state = stateFilter
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "esc":
			switch m.state {
			case stateDetail:
				m.state = stateBrowse
			case stateBrowse:
				m.filter.SetValue("")
				m.applyFilter()
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.groups = msg.groups
		m.applyFilter()
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.state = stateBrowse
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, g := range m.groups {
		if needle == "" || strings.Contains(strings.ToLower(g.Result), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.groups == nil {
		return "Loading schema..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("TL Schema"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}

		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no matching result types"))
			b.WriteString("\n")
		}
		for row, i := range m.visible {
			g := m.groups[i]
			line := fmt.Sprintf("%s (%d constructors)", typeStyle.Render(g.Result), len(g.Constructors))
			if row == m.selected && m.state == stateBrowse {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc cancel"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
		}

	case stateDetail:
		g := m.groups[m.visible[m.selected]]
		b.WriteString(typeStyle.Render(g.Result))
		b.WriteString("\n\n")
		for _, c := range g.Constructors {
			b.WriteString("  ")
			b.WriteString(formatConstructor(c))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • q quit"))
	}

	return b.String()
}

func formatConstructor(c *tlgen.Constructor) string {
	var b strings.Builder
	b.WriteString(ctorStyle.Render(c.Name))
	b.WriteString(idStyle.Render(fmt.Sprintf("#%08x", c.ID)))
	for _, f := range c.Fields {
		b.WriteString(" ")
		b.WriteString(f.Name)
		b.WriteString(":")
		b.WriteString(typeStyle.Render(f.Type))
	}
	b.WriteString(" = ")
	b.WriteString(typeStyle.Render(c.Result))
	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
