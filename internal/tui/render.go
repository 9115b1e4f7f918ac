package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// RenderMarkdown renders md for the terminal, wrapped to width. Rendering
// failures fall back to the raw text.
func RenderMarkdown(md string, width int) string {
	width -= 2
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)

	var rendered string
	if err == nil {
		rendered, err = renderer.Render(md)
	}
	if err != nil {
		return md
	}
	return rendered
}

// Banner renders the shell's welcome box.
func Banner(title, subtitle string) string {
	return bannerStyle.Render(titleStyle.UnsetMarginBottom().Render(title) + "\n" + dimStyle.Render(subtitle))
}

// Field is one labeled row of a status table.
type Field struct {
	Label string
	Value string
}

// StatusTable renders label/value rows with the labels in a fixed column.
func StatusTable(title string, fields []Field) string {
	rows := make([]string, 0, len(fields)+1)
	rows = append(rows, titleStyle.UnsetMarginBottom().Render(title))
	for _, f := range fields {
		value := f.Value
		if strings.TrimSpace(value) == "" {
			value = dimStyle.Render("-")
		} else {
			value = normalStyle.Render(value)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.Label), value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Heading renders a section title.
func Heading(text string) string {
	return selectedStyle.Render(text)
}
