package tui

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan812/gitscribe/internal/config"
	"github.com/ishaan812/gitscribe/internal/constants"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestMaskKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "***", maskKey("short"))
	assert.Equal(t, "AIza...wxyz", maskKey("AIzaSyABCDEFwxyz"))
}

func TestRenderSelectList(t *testing.T) {
	t.Parallel()

	out := RenderSelectList("Pick", "", ProviderItems(), 1, "help")
	assert.Contains(t, out, "> Gemini")
	assert.Contains(t, out, "  Ollama")
	assert.Contains(t, out, "help")
}

func TestCheckProvider_Ollama(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	got := checkProvider(constants.ProviderOllama, "", server.URL+"/")
	assert.True(t, got.success, got.message)

	got = checkProvider(constants.ProviderGemini, "", "")
	assert.False(t, got.success)
	got = checkProvider(constants.ProviderGemini, "key", "")
	assert.True(t, got.success)
}

func TestConfigModel_EditAndSave(t *testing.T) {
	t.Parallel()

	var saved *config.Config
	original := config.Default()
	m := NewConfigModel(original, func(c *config.Config) error {
		saved = c
		return nil
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	// Language.
	tm.Send(key("down"))
	tm.Send(key("down"))
	tm.Send(key("enter"))
	tm.Type("Portuguese")
	tm.Send(key("enter"))

	// Streaming toggle.
	tm.Send(key("down"))
	tm.Send(key("down"))
	tm.Send(key("down"))
	tm.Send(key("enter"))

	// Save & Exit.
	tm.Send(key("down"))
	tm.Send(key("down"))
	tm.Send(key("enter"))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Configuration Saved!"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(key("q"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(ConfigModel)
	assert.Equal(t, configStepSaved, final.step)
	require.NotNil(t, saved)
	assert.Equal(t, "Portuguese", saved.Language)
	assert.True(t, saved.Streaming)
	assert.Equal(t, "English", original.Language, "the caller's config is not modified")
}

func TestConfigModel_ProviderSwitch(t *testing.T) {
	t.Parallel()

	var m tea.Model = NewConfigModel(config.Default(), nil)
	m, _ = m.Update(key("enter"))
	require.Equal(t, configStepProvider, m.(ConfigModel).step)
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	require.Equal(t, configStepEndpoint, m.(ConfigModel).step)
	assert.Equal(t, "gemini", m.(ConfigModel).config.Provider)

	m = typeText(m, "secret-key-1234")
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.(ConfigModel).testing)

	m, _ = m.Update(testResultMsg{success: true, message: "ok"})
	cm := m.(ConfigModel)
	assert.Equal(t, configStepModel, cm.step)
	assert.Equal(t, "secret-key-1234", cm.config.GeminiAPIKey)
	assert.Contains(t, cm.View(), "Gemini")
}

func TestConfigModel_SaveFailureStaysInMenu(t *testing.T) {
	t.Parallel()

	var m tea.Model = NewConfigModel(config.Default(), func(*config.Config) error {
		return errors.New("disk full")
	})
	for range 5 {
		m, _ = m.Update(key("down"))
	}
	m, _ = m.Update(key("enter"))
	cm := m.(ConfigModel)
	assert.Equal(t, configStepMenu, cm.step)
	assert.Contains(t, cm.View(), "disk full")
}

func TestPathPrompt_Validates(t *testing.T) {
	t.Parallel()

	m := newPathPromptModel("Repository", "help", "", func(p string) error {
		if !strings.HasPrefix(p, "/") {
			return errors.New("use an absolute path")
		}
		return nil
	})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 24))

	tm.Send(key("enter"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Repository path is required."))
	})

	tm.Type("relative")
	tm.Send(key("enter"))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("use an absolute path"))
	})

	tm.Send(key("esc"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(time.Second)).(pathPromptModel)
	assert.True(t, final.canceled)
	assert.Empty(t, final.value)
}

func TestPathPrompt_Accepts(t *testing.T) {
	t.Parallel()

	m := newPathPromptModel("Repository", "help", "/srv/app", nil)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 24))

	tm.Send(key("enter"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(time.Second)).(pathPromptModel)
	assert.True(t, final.done)
	assert.False(t, final.canceled)
	assert.Equal(t, "/srv/app", final.value)
}

func TestHeading(t *testing.T) {
	t.Parallel()

	assert.Contains(t, Heading("Commands"), "Commands")
}

func TestStatusTable(t *testing.T) {
	t.Parallel()

	out := StatusTable("Session", []Field{{Label: "Repository", Value: "/srv/app"}, {Label: "Summary", Value: ""}})
	assert.Contains(t, out, "Session")
	assert.Contains(t, out, "/srv/app")
	assert.Contains(t, out, "-")
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	t.Parallel()

	out := RenderMarkdown("# Features\n\n- Login flow", 60)
	assert.Contains(t, out, "Login flow")
}
