package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type pathPromptModel struct {
	title     string
	help      string
	input     textinput.Model
	validate  func(string) error
	value     string
	done      bool
	canceled  bool
	errorText string
}

func newPathPromptModel(title, help, initialPath string, validate func(string) error) pathPromptModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/repository"
	ti.Prompt = "> "
	ti.SetValue(initialPath)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 70

	return pathPromptModel{
		title:    title,
		help:     help,
		input:    ti,
		validate: validate,
	}
}

func (m pathPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pathPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				m.errorText = "Repository path is required."
				return m, nil
			}
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errorText = err.Error()
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m pathPromptModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")
	if m.errorText != "" {
		b.WriteString(errorStyle.Render("  " + m.errorText))
		b.WriteString("\n\n")
	}
	b.WriteString(dimStyle.Render(m.help))
	b.WriteString("\n")
	return b.String()
}

// RunPathPrompt asks for a path until validate accepts it. validate may be nil.
func RunPathPrompt(title, help, initialPath string, validate func(string) error) (string, error) {
	model := newPathPromptModel(title, help, initialPath, validate)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	result := finalModel.(pathPromptModel)
	if result.canceled {
		return "", fmt.Errorf("prompt canceled")
	}
	return result.value, nil
}
