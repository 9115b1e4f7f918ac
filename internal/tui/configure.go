package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ishaan812/gitscribe/internal/config"
	"github.com/ishaan812/gitscribe/internal/constants"
)

// Configuration steps
type configStep int

const (
	configStepMenu configStep = iota
	configStepProvider
	configStepEndpoint
	configStepModel
	configStepLanguage
	configStepReview
	configStepSaved
)

// ConfigModel for the configuration TUI
type ConfigModel struct {
	step          configStep
	config        *config.Config
	save          func(*config.Config) error
	selectedIdx   int
	textInput     textinput.Model
	spinner       spinner.Model
	testing       bool
	testResult    string
	testSuccess   bool
	err           error
	animationTick int

	menuOptions []menuOption
}

type menuOption struct {
	key         string
	title       string
	description string
}

// NewConfigModel creates a configuration model editing a copy of cfg.
// save persists the result when the user chooses Save & Exit.
func NewConfigModel(cfg *config.Config, save func(*config.Config) error) ConfigModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	edited := *cfg

	menuOpts := []menuOption{
		{"1", "LLM Provider", "Switch between local Ollama and Gemini"},
		{"2", "Model", "Change the model used for analysis"},
		{"3", "Output Language", "Language of feature lists and summaries"},
		{"4", "Streaming", "Echo model output while it is generated"},
		{"5", "Review Settings", "View current configuration"},
		{"6", "Save & Exit", "Save changes and exit"},
		{"0", "Cancel", "Exit without saving"},
	}

	return ConfigModel{
		step:        configStepMenu,
		config:      &edited,
		save:        save,
		textInput:   ti,
		spinner:     s,
		menuOptions: menuOpts,
	}
}

func (m ConfigModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.step == configStepMenu || m.step == configStepSaved {
				return m, tea.Quit
			}
		case "enter":
			return m.handleEnter()
		case "up", "k":
			if m.isListStep() && m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.isListStep() && m.selectedIdx < m.listLen()-1 {
				m.selectedIdx++
			}
		case "esc":
			if m.step != configStepMenu && m.step != configStepSaved {
				m.step = configStepMenu
				m.selectedIdx = 0
				m.prepareStep()
			}
		}

	case tickMsg:
		m.animationTick++
		if m.testing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, tea.Batch(cmd, tickCmd())
		}
		return m, tickCmd()

	case testResultMsg:
		m.testing = false
		m.testSuccess = msg.success
		m.testResult = msg.message
		if msg.success {
			m.step = configStepModel
			m.prepareStep()
		}
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.isInputStep() {
		m.textInput, cmd = m.textInput.Update(msg)
	}

	return m, cmd
}

func (m ConfigModel) isListStep() bool {
	return m.step == configStepMenu || m.step == configStepProvider
}

func (m ConfigModel) isInputStep() bool {
	return m.step == configStepEndpoint || m.step == configStepModel || m.step == configStepLanguage
}

func (m ConfigModel) listLen() int {
	if m.step == configStepProvider {
		return len(constants.AllProviders)
	}
	return len(m.menuOptions)
}

func (m ConfigModel) provider() constants.Provider {
	p, _ := constants.ParseProvider(m.config.Provider)
	return p
}

func (m ConfigModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.step {
	case configStepMenu:
		if m.selectedIdx >= len(m.menuOptions) {
			return m, nil
		}

		switch m.menuOptions[m.selectedIdx].key {
		case "1":
			m.step = configStepProvider
			m.selectedIdx = 0
		case "2":
			m.step = configStepModel
			m.prepareStep()
		case "3":
			m.step = configStepLanguage
			m.prepareStep()
		case "4":
			m.config.Streaming = !m.config.Streaming
		case "5":
			m.step = configStepReview
		case "6":
			return m.finishConfiguration()
		case "0":
			return m, tea.Quit
		}
		return m, nil

	case configStepProvider:
		m.config.Provider = strings.ToLower(constants.AllProviders[m.selectedIdx].Name)
		m.step = configStepEndpoint
		m.prepareStep()
		return m, nil

	case configStepEndpoint:
		value := strings.TrimSpace(m.textInput.Value())
		switch m.provider() {
		case constants.ProviderGemini:
			if value != "" {
				m.config.GeminiAPIKey = value
			}
		default:
			if value != "" {
				m.config.OllamaBaseURL = value
			}
		}
		m.testing = true
		m.testResult = ""
		return m, tea.Batch(
			m.spinner.Tick,
			testProvider(m.provider(), m.config.GeminiAPIKey, m.config.OllamaBaseURL),
		)

	case configStepModel:
		if value := strings.TrimSpace(m.textInput.Value()); value != "" {
			m.config.SetModel(value)
		}
		m.step = configStepMenu
		m.selectedIdx = 0
		return m, nil

	case configStepLanguage:
		if value := strings.TrimSpace(m.textInput.Value()); value != "" {
			m.config.Language = value
		}
		m.step = configStepMenu
		m.selectedIdx = 0
		return m, nil

	case configStepReview:
		m.step = configStepMenu
		m.selectedIdx = 0
		return m, nil

	case configStepSaved:
		return m, tea.Quit
	}

	return m, nil
}

func (m *ConfigModel) prepareStep() {
	m.textInput.Reset()
	m.textInput.EchoMode = textinput.EchoNormal
	m.testResult = ""
	m.testSuccess = false

	switch m.step {
	case configStepEndpoint:
		if m.provider() == constants.ProviderGemini {
			m.textInput.EchoMode = textinput.EchoPassword
			m.textInput.Placeholder = "Enter API key"
			if m.config.GeminiAPIKey != "" {
				m.textInput.Placeholder = maskKey(m.config.GeminiAPIKey)
			}
		} else {
			m.textInput.Placeholder = m.config.OllamaBaseURL
		}
	case configStepModel:
		m.textInput.Placeholder = m.config.Model()
	case configStepLanguage:
		m.textInput.Placeholder = m.config.Language
	}
}

func (m ConfigModel) finishConfiguration() (tea.Model, tea.Cmd) {
	if err := m.config.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	if m.save != nil {
		if err := m.save(m.config); err != nil {
			m.err = err
			return m, nil
		}
	}

	m.step = configStepSaved
	return m, nil
}

func (m ConfigModel) View() string {
	switch m.step {
	case configStepMenu:
		return m.viewMenu()
	case configStepProvider:
		return RenderSelectList(
			"Configure LLM Provider",
			dimStyle.Render(fmt.Sprintf("Current: %s", m.config.Provider)),
			ProviderItems(),
			m.selectedIdx,
			"↑/↓: navigate • enter: select • esc: back",
		)
	case configStepEndpoint:
		return m.viewEndpoint()
	case configStepModel:
		return RenderTextInput(
			fmt.Sprintf("Select %s Model", titleCase(m.config.Provider)),
			dimStyle.Render(fmt.Sprintf("Current: %s", m.config.Model()))+"\n",
			m.textInput, nil,
			"Press Enter to save • Esc to cancel",
		)
	case configStepLanguage:
		return RenderTextInput(
			"Output Language",
			dimStyle.Render(fmt.Sprintf("Current: %s", m.config.Language))+"\n",
			m.textInput, nil,
			"Press Enter to save • Esc to cancel",
		)
	case configStepReview:
		return m.viewReview()
	case configStepSaved:
		return m.viewSaved()
	}
	return ""
}

func (m ConfigModel) viewMenu() string {
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(titleStyle.Render("gitscribe Configuration"))
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render("Current Settings:"))
	s.WriteString("\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("  LLM: %s (%s)", m.config.Provider, m.config.Model())))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("  Language: %s • Streaming: %s", m.config.Language, onOff(m.config.Streaming))))
	s.WriteString("\n\n")

	for i, opt := range m.menuOptions {
		cursor := "  "
		style := normalStyle
		if i == m.selectedIdx {
			cursor = "> "
			style = selectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("%s[%s] %s", cursor, opt.key, opt.title)))
		s.WriteString("\n")
		s.WriteString(dimStyle.Render(fmt.Sprintf("      %s", opt.description)))
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render("↑/↓: navigate • enter: select • esc: back • q: quit"))
	s.WriteString("\n")
	return s.String()
}

func (m ConfigModel) viewEndpoint() string {
	providerName := titleCase(m.config.Provider)

	var body string
	if m.provider() == constants.ProviderGemini {
		body = normalStyle.Render(fmt.Sprintf("%s API key (leave empty to keep current):", providerName))
	} else {
		body = normalStyle.Render(fmt.Sprintf("%s base URL (leave empty to keep current):", providerName))
	}
	body += "\n"

	test := &TestState{
		Testing:     m.testing,
		Spinner:     m.spinner,
		TestResult:  m.testResult,
		TestSuccess: m.testSuccess,
	}

	return RenderTextInput(
		fmt.Sprintf("Configure %s", providerName),
		body, m.textInput, test,
		"Press Enter to test and continue • Esc to cancel",
	)
}

func (m ConfigModel) viewReview() string {
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(titleStyle.Render("Configuration Review"))
	s.WriteString("\n\n")

	s.WriteString(successStyle.Render("LLM Provider:"))
	s.WriteString("\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("  %s", m.config.Provider)))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("  Model: %s", m.config.Model())))
	s.WriteString("\n")
	if m.provider() == constants.ProviderGemini {
		key := "(not set)"
		if m.config.GeminiAPIKey != "" {
			key = maskKey(m.config.GeminiAPIKey)
		}
		s.WriteString(dimStyle.Render(fmt.Sprintf("  API key: %s", key)))
	} else {
		s.WriteString(dimStyle.Render(fmt.Sprintf("  URL: %s", m.config.OllamaBaseURL)))
	}
	s.WriteString("\n\n")

	s.WriteString(successStyle.Render("Output:"))
	s.WriteString("\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("  Language: %s", m.config.Language)))
	s.WriteString("\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("  Streaming: %s", onOff(m.config.Streaming))))
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render("Press Enter to return • Esc to go back"))
	s.WriteString("\n")
	return s.String()
}

func (m ConfigModel) viewSaved() string {
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(successStyle.Render("  Configuration Saved!"))
	s.WriteString("\n\n")
	s.WriteString(normalStyle.Render("Your settings have been updated successfully."))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("Press Enter or q to exit"))
	s.WriteString("\n")
	return s.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// RunConfigure runs the configuration TUI and returns the saved config.
func RunConfigure(cfg *config.Config, save func(*config.Config) error) (*config.Config, error) {
	p := tea.NewProgram(NewConfigModel(cfg, save))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(ConfigModel)
	if m.step != configStepSaved {
		return nil, fmt.Errorf("configuration canceled")
	}

	return m.config, nil
}
