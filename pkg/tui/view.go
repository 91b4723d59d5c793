package tui

import (
	"strings"

	"github.com/liut/chatbot/pkg/models/chat"
)

// View implements tea.Model
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Input.Render(m.textarea.View()))
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m Model) statusLine() string {
	if m.sending {
		return m.spinner.View() + m.styles.Muted.Render(" waiting for reply...")
	}
	return m.styles.Muted.Render("Enter send · Alt+Enter newline · PgUp/PgDn scroll · Ctrl+C quit")
}

func (m Model) renderRows() string {
	var sb strings.Builder
	for _, r := range m.rows {
		switch r.role {
		case chat.RoleUser:
			sb.WriteString(m.styles.UserLabel.Render(r.role.Label()) + "\n")
			sb.WriteString(m.styles.UserBody.Width(m.viewport.Width).Render(r.content))
			sb.WriteString("\n")
		default:
			sb.WriteString(m.styles.AILabel.Render(r.role.Label()) + "\n")
			sb.WriteString(m.renderMarkdown(r.content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderMarkdown falls back to plain text when glamour is absent or fails
func (m Model) renderMarkdown(content string) (result string) {
	plain := func() string {
		return m.styles.AIBody.Width(m.viewport.Width).Render(content)
	}
	defer func() {
		if r := recover(); r != nil {
			result = plain()
		}
	}()

	if m.renderer != nil {
		if out, err := m.renderer.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return plain()
}
