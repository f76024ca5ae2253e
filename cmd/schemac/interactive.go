package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/holiman/uint256"

	"github.com/wippyai/schemac"
	"github.com/wippyai/schemac/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel browses a compiled schema and packs single field values
// into scratch words to show where their bits land.
type interactiveModel struct {
	err      error
	art      *schemac.Artifact
	filename string
	result   string
	fields   []fieldInfo
	input    textinput.Model
	selected int
	state    modelState
}

type fieldInfo struct {
	decl     schema.FieldDeclaration
	position string
}

type modelState int

const (
	stateSelectField modelState = iota
	stateInputValue
	stateShowResult
	stateShowPlan
)

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		state:    stateSelectField,
	}
}

type loadedMsg struct {
	err    error
	art    *schemac.Artifact
	fields []fieldInfo
}

type encodeResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchema
}

func (m *interactiveModel) loadSchema() tea.Msg {
	art, err := schemac.CompileFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	first := make(map[int]string, len(art.Slots))
	for _, sl := range art.Slots {
		if sl.ElementIndex == 0 {
			first[sl.FieldID] = fmt.Sprintf("word %d bit %d", sl.WordIndex, sl.BitOffset)
		}
	}

	fields := make([]fieldInfo, 0, len(art.Schema.Fields))
	for _, f := range art.Schema.Fields {
		pos := first[f.ID]
		if f.Dynamic() {
			pos = "reference store"
		}
		fields = append(fields, fieldInfo{decl: f, position: pos})
	}
	return loadedMsg{art: art, fields: fields}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputValue {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectField && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectField && m.selected < len(m.fields)-1 {
				m.selected++
			}

		case "p":
			if m.state == stateSelectField {
				m.state = stateShowPlan
			}

		case "enter":
			switch m.state {
			case stateSelectField:
				if len(m.fields) == 0 || m.fields[m.selected].decl.Dynamic() {
					break
				}
				m.prepareInput()
				m.state = stateInputValue
				return m, textinput.Blink

			case stateInputValue:
				return m, m.encodeField

			case stateShowResult, stateShowPlan:
				m.reset()
			}

		case "esc":
			if m.state != stateSelectField {
				m.reset()
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.art = msg.art
		m.fields = msg.fields

	case encodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectField
	m.result = ""
	m.err = nil
}

func (m *interactiveModel) prepareInput() {
	f := m.fields[m.selected].decl
	ti := textinput.New()
	ti.Prompt = f.Key + ": "
	ti.Placeholder = f.Type.String()
	if f.Cardinality > 1 {
		ti.Placeholder = fmt.Sprintf("%d comma-separated %s values", f.Cardinality, f.Type)
	}
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) encodeField() tea.Msg {
	f := m.fields[m.selected].decl
	words := make([]*uint256.Int, m.art.WordCount)
	for i := range words {
		words[i] = new(uint256.Int)
	}

	if err := m.art.Codec.EncodeField(words, f.Key, convertValue(m.input.Value(), f)); err != nil {
		return encodeResultMsg{err: err}
	}
	back, err := m.art.Codec.DecodeField(words, f.Key)
	if err != nil {
		return encodeResultMsg{err: err}
	}

	var b strings.Builder
	for i, w := range words {
		if w.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "word %d: %s\n", i, w.Hex())
	}
	fmt.Fprintf(&b, "\ndecodes as: %v", back)
	return encodeResultMsg{result: b.String()}
}

// convertValue turns text input into a value the codec accepts. Numbers,
// text and addresses pass through as strings.
func convertValue(value string, f schema.FieldDeclaration) any {
	one := func(s string) any {
		s = strings.TrimSpace(s)
		if f.Type == schema.TypeBool {
			return s == "true" || s == "1"
		}
		return s
	}
	if f.Cardinality == 1 {
		return one(value)
	}
	parts := strings.Split(value, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = one(p)
	}
	return out
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.art == nil {
		return "Compiling schema..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("schemac"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d words\n\n", m.art.WordCount))

	switch m.state {
	case stateSelectField:
		b.WriteString("Select a field to pack:\n\n")
		for i, f := range m.fields {
			line := m.formatField(f)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter pack • p plan • q quit"))

	case stateInputValue:
		f := m.fields[m.selected]
		b.WriteString(fmt.Sprintf("Packing %s\n\n", fieldStyle.Render(f.decl.Key)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter pack • esc back"))

	case stateShowResult:
		f := m.fields[m.selected]
		b.WriteString(fmt.Sprintf("Packed %s:\n\n", fieldStyle.Render(f.decl.Key)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))

	case stateShowPlan:
		b.WriteString("Capability plan:\n\n")
		b.WriteString(resultStyle.Render(m.art.Plan.String()))
		b.WriteString("\n\n")
		for _, d := range m.art.RefStores {
			b.WriteString(typeStyle.Render(d.String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatField(f fieldInfo) string {
	typ := f.decl.Type.String()
	switch {
	case f.decl.Dynamic():
		typ += "[]"
	case f.decl.Cardinality > 1:
		typ += fmt.Sprintf("[%d]", f.decl.Cardinality)
	}
	return fieldStyle.Render(f.decl.Key) + ": " + typeStyle.Render(typ) + "  " + helpStyle.Render(f.position)
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
