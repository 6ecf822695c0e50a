// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/util"
)

// chromeHeight is the vertical space taken by everything that is not the
// transcript viewport: header, document panel, input, status bar.
const chromeHeight = 9

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Starting finchat..."
	}

	if m.picking {
		return m.viewFilePicker()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewDocumentPanel())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())
	return b.String()
}

// viewHeader renders the brand and the session tabs.
func (m *Model) viewHeader() string {
	brand := m.theme.HeaderBrand.Render("finchat")

	var tabs []string
	for _, kind := range []model.SessionKind{model.KindChat, model.KindVisualize} {
		label := kind.Title()
		if kind == m.active {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, brand, "  ", strings.Join(tabs, " "))
	return m.theme.Header.Width(m.width).Render(row)
}

// viewDocumentPanel renders the active session's document line.
func (m *Model) viewDocumentPanel() string {
	st := m.state()

	var line string
	if st.Document == nil {
		line = m.theme.DocumentPending.Render("No document. Press C-o to choose one.")
	} else {
		name := m.theme.DocumentName.Render(util.TruncateWidth(st.Document.Name, 40))
		size := util.FormatBytes(st.Document.SizeBytes)
		var status string
		if st.Document.Processed {
			status = m.theme.DocumentProcessed.Render("processed")
		} else if st.IsProcessing {
			status = m.theme.DocumentPending.Render("processing...")
		} else {
			status = m.theme.DocumentPending.Render("not processed")
		}
		line = fmt.Sprintf("%s  %s  %s", name, size, status)
	}

	if m.active == model.KindVisualize {
		mode := "basic"
		if m.advanced {
			mode = "advanced"
		}
		line += "  " + m.theme.ArtifactNote.Render("["+mode+" charts]")
	}

	return m.theme.DocumentPanel.Width(m.width).Render(line)
}

// renderTranscript renders the full message list for the viewport.
func (m *Model) renderTranscript(st model.SessionState) string {
	if len(st.Transcript) == 0 {
		return m.theme.Timestamp.Render("  No messages yet.")
	}

	wrap := m.width - 8
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder
	for i, msg := range st.Transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, wrap))
		b.WriteString("\n")
	}

	if st.IsProcessing {
		b.WriteString("\n" + m.spin.View() + m.theme.ThinkingText.Render(" Processing document..."))
	} else if st.IsLoading {
		b.WriteString("\n" + m.spin.View() + m.theme.ThinkingText.Render(" Thinking..."))
	}

	if st.LastError != "" {
		b.WriteString("\n" + m.theme.ErrorBanner.Render(st.LastError))
	}

	return b.String()
}

// renderMessage renders one transcript entry as a labelled bubble.
func (m *Model) renderMessage(msg model.Message, wrap int) string {
	label := m.theme.RoleLabel.Render(msg.Role.DisplayName())
	if m.cfg.UI.ShowTimestamps {
		label += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	content := msg.Content
	if msg.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	var body string
	if m.cfg.UI.CompactMode {
		body = lipgloss.NewStyle().Width(wrap).Render(content)
	} else {
		bubble := m.theme.AssistantBubble
		if msg.Role == model.RoleUser {
			bubble = m.theme.UserBubble
		}
		body = bubble.Width(wrap).Render(content)
	}

	if msg.HasArtifact() {
		note := m.theme.ArtifactNote.Render("[chart attached, C-s to save as PNG]")
		body = lipgloss.JoinVertical(lipgloss.Left, body, note)
	}

	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}

// viewInput renders the prompt line.
func (m *Model) viewInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

// viewStatusBar renders the status note, or key help when there is none.
func (m *Model) viewStatusBar() string {
	if m.showHelp {
		return m.theme.StatusBar.Width(m.width).Render(m.help.View(m.keys))
	}
	if m.statusNote != "" {
		return m.theme.StatusBar.Width(m.width).Render(m.statusNote)
	}
	return m.theme.StatusBar.Width(m.width).Render(m.help.View(m.keys))
}

// viewFilePicker renders the file selection overlay.
func (m *Model) viewFilePicker() string {
	title := m.theme.HeaderBrand.Render("Choose a document")
	hint := m.theme.Timestamp.Render("enter to select, esc to cancel")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.picker.View(), "", hint)
}
