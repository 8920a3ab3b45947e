// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/util"
)

// maxPromptLines caps the debug prompt shown in the sidebar.
const maxPromptLines = 40

// View renders the chat view.
func (m Model) View() string {
	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderSidebar(),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		m.theme.InputContainer.Render(m.input.View()),
		m.renderStatus(),
	)
}

func (m Model) renderHeader() string {
	st := m.sess.Status()
	title := m.theme.HeaderTitle.Render("groundchat")
	sub := fmt.Sprintf("%s | %d rows", st.Settings.Model, st.ContextRows)
	if st.ContextErr != nil {
		sub = fmt.Sprintf("%s | no dataset", st.Settings.Model)
	}
	return m.theme.Header.Render(title + "  " + m.theme.HeaderSubtitle.Render(sub))
}

// renderConversation renders every message, newest last.
func (m Model) renderConversation() string {
	msgs := m.sess.Messages()
	if len(msgs) == 0 {
		return m.theme.Muted.Render("Ask a question about the loaded reviews and shipping data.")
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.theme.Muted.Render("thinking..."))
	}
	return b.String()
}

func (m Model) renderMessage(msg model.Message) string {
	stamp := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04:05"))
	if msg.Role == model.RoleUser {
		label := m.theme.UserLabel.Render(msg.Role.DisplayName())
		return label + " " + stamp + "\n" + m.theme.UserBubble.Render(msg.Content)
	}

	label := m.theme.AssistantLabel.Render(msg.Role.DisplayName())
	body := msg.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			body = strings.TrimSpace(out)
		}
	}
	return label + " " + stamp + "\n" + m.theme.AssistantBubble.Render(body)
}

func (m Model) renderSidebar() string {
	settings := m.sess.Settings()
	inner := sidebarWidth - 4

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Controls"))
	b.WriteString("\n")
	row := func(k, v string) {
		b.WriteString(m.theme.SidebarKey.Render(util.PadRight(k, 10)))
		b.WriteString(m.theme.SidebarValue.Render(util.TruncateWidth(v, inner-10)))
		b.WriteString("\n")
	}
	row("model", settings.Model)
	row("window", fmt.Sprintf("%d", settings.HistoryWindow))
	row("history", onOff(settings.UseHistory))
	row("debug", onOff(settings.Debug))
	row("messages", fmt.Sprintf("%d", len(m.sess.Messages())))

	b.WriteString("\n")
	for _, kb := range m.keys.ShortHelp() {
		h := kb.Help()
		b.WriteString(m.theme.Muted.Render(util.PadRight(h.Key, 6) + h.Desc))
		b.WriteString("\n")
	}

	if settings.Debug {
		b.WriteString("\n")
		b.WriteString(m.theme.SidebarTitle.Render("Prompt"))
		b.WriteString("\n")
		b.WriteString(m.theme.DebugPrompt.Render(m.debugPrompt(inner)))
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(max(0, m.viewport.Height-2)).
		Render(b.String())
}

// debugPrompt returns the prompt of the turn in flight, or the last sent
// prompt when idle, truncated to width.
func (m Model) debugPrompt(width int) string {
	text := ""
	if m.busy {
		text = m.pending.get()
	} else if m.lastTurn != nil {
		text = m.lastTurn.Prompt
	}
	if text == "" {
		if m.busy {
			return "(building prompt...)"
		}
		return "(no prompt yet)"
	}
	lines := strings.Split(text, "\n")
	if len(lines) > maxPromptLines {
		lines = append(lines[:maxPromptLines], "...")
	}
	for i, l := range lines {
		lines[i] = util.TruncateWidth(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	text := m.status
	if m.err != nil {
		text = m.theme.Error.Render(m.err.Error())
	} else if text == "" {
		text = "ready"
	}
	width := max(m.width, minViewWidth)
	return m.theme.StatusBar.Width(width).Render(text)
}
