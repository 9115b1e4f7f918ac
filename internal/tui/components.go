package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ishaan812/gitscribe/internal/constants"
)

// ── Shared types ───────────────────────────────────────────────────────────

// SelectItem represents a selectable item in a list.
type SelectItem struct {
	Label       string
	Description string
}

// TestState holds state for connection-testing feedback in text input views.
type TestState struct {
	Testing     bool
	Spinner     spinner.Model
	TestResult  string
	TestSuccess bool
}

// ── Messages ───────────────────────────────────────────────────────────────

type tickMsg time.Time

type testResultMsg struct {
	success bool
	message string
}

// ── Commands ───────────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// testProvider checks that Ollama answers at baseURL, or that a Gemini key
// was given.
func testProvider(provider constants.Provider, apiKey, baseURL string) tea.Cmd {
	return func() tea.Msg {
		return checkProvider(provider, apiKey, baseURL)
	}
}

func checkProvider(provider constants.Provider, apiKey, baseURL string) testResultMsg {
	if provider == constants.ProviderGemini {
		if strings.TrimSpace(apiKey) == "" {
			return testResultMsg{false, "API key is required"}
		}
		return testResultMsg{true, "API key saved!"}
	}

	url := strings.TrimRight(baseURL, "/")
	if url == "" {
		url = constants.GetDefaultBaseURL(constants.ProviderOllama)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/tags", nil)
	if err != nil {
		return testResultMsg{false, fmt.Sprintf("Invalid URL: %v", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return testResultMsg{false, "Cannot connect to Ollama. Is it running?"}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return testResultMsg{true, "Connected to Ollama!"}
	}
	return testResultMsg{false, fmt.Sprintf("Ollama returned status %d", resp.StatusCode)}
}

// ── Helpers ────────────────────────────────────────────────────────────────

// maskKey masks an API key for display (first 4 + last 4 chars).
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// titleCase capitalises the first letter of s.
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ProviderItems converts provider info to SelectItems.
func ProviderItems() []SelectItem {
	items := make([]SelectItem, len(constants.AllProviders))
	for i, p := range constants.AllProviders {
		items[i] = SelectItem{Label: p.Name, Description: p.Description}
	}
	return items
}

// ── View renderers ─────────────────────────────────────────────────────────

// RenderSelectList renders a navigable selection list with each description
// on the line below its label.
func RenderSelectList(title, header string, items []SelectItem, selectedIdx int, helpText string) string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if header != "" {
		s.WriteString(header)
		s.WriteString("\n\n")
	}

	for i, item := range items {
		cursor := "  "
		style := normalStyle
		if i == selectedIdx {
			cursor = "> "
			style = selectedStyle
		}
		s.WriteString(style.Render(cursor + item.Label))
		s.WriteString("\n")
		if item.Description != "" {
			s.WriteString(dimStyle.Render("    " + item.Description))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render(helpText))
	s.WriteString("\n")
	return s.String()
}

// RenderTextInput renders a text input step with optional test feedback.
// Pass a nil test to omit the feedback line.
func RenderTextInput(title, body string, ti textinput.Model, test *TestState, helpText string) string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if body != "" {
		s.WriteString(body)
	}

	s.WriteString("\n")
	s.WriteString(inputStyle.Render(ti.View()))
	s.WriteString("\n")

	if test != nil {
		if test.Testing {
			s.WriteString("\n")
			s.WriteString(test.Spinner.View())
			s.WriteString(" Testing connection...")
			s.WriteString("\n")
		} else if test.TestResult != "" {
			s.WriteString("\n")
			if test.TestSuccess {
				s.WriteString(successStyle.Render("  " + test.TestResult))
			} else {
				s.WriteString(errorStyle.Render("  " + test.TestResult))
			}
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render(helpText))
	s.WriteString("\n")
	return s.String()
}
