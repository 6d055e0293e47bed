package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coregx/fsmpack/dict"
	"github.com/coregx/fsmpack/image"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxArcs = 16

type inspectModel struct {
	filename string
	img      *image.Image
	scanner  *dict.Scanner
	input    textinput.Model
	walk     walk
}

func newInspectModel(filename string, m *image.Image, kind dict.Output) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "type a word"
	ti.Prompt = "word: "
	ti.Width = 40
	ti.Focus()

	// weights are shown only for finite images
	s, _ := dict.NewScanner(m, kind)
	return &inspectModel{
		filename: filename,
		img:      m,
		scanner:  s,
		input:    ti,
		walk:     walkText(m, ""),
	}
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+u":
			m.input.SetValue("")
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.walk = walkText(m.img, m.input.Value())
	return m, cmd
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("fsmpack inspect"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	path := make([]string, len(m.walk.states))
	for i, s := range m.walk.states {
		path[i] = fmt.Sprint(s)
	}
	b.WriteString("path: " + stateStyle.Render(strings.Join(path, " -> ")) + "\n")

	if m.walk.err != "" {
		b.WriteString(errorStyle.Render(m.walk.err))
		b.WriteString("\n")
	} else {
		state := m.walk.last()
		r, _ := m.img.Record(state)
		fmt.Fprintf(&b, "record: %s, %d bytes at %d\n", r.Type, r.Size, r.Offset)
		if r.Final {
			line := "final"
			if m.scanner != nil {
				if ws, ok := m.scanner.Lookup(m.input.Value()); ok {
					line += ", weights " + formatWeights(ws)
				}
			}
			b.WriteString(acceptStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(describeArcs(m.img, state, maxArcs))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type to walk • ctrl+u clear • esc quit"))
	return b.String()
}
