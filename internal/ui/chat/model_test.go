// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/finchat-tui/internal/config"
	"github.com/jeranaias/finchat-tui/internal/gateway"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
)

func testModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	reducer := session.NewReducer(session.NewStore(nil), backend)
	m := New(reducer, backend, config.Default())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*Model)
}

func TestModel_StartsOnChatSession(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	if m.active != model.KindChat {
		t.Errorf("active = %v, want %v", m.active, model.KindChat)
	}
}

func TestModel_TabSwitchesSession(t *testing.T) {
	m := testModel(t, &fakeBackend{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*Model)
	if m.active != model.KindVisualize {
		t.Fatalf("active = %v, want %v", m.active, model.KindVisualize)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*Model)
	if m.active != model.KindChat {
		t.Errorf("active = %v, want %v", m.active, model.KindChat)
	}
}

func TestModel_SubmitRejectedWithoutDocument(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	m.input.SetValue("what is the total")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if cmd != nil {
		t.Error("cmd != nil, want no ask command before a document is processed")
	}
	if st := m.state(); len(st.Transcript) != 0 {
		t.Errorf("transcript gained %d messages, want 0", len(st.Transcript))
	}
	if m.statusNote == "" {
		t.Error("statusNote empty, want a hint to process a document")
	}
}

func TestModel_FileReadStartsProcessing(t *testing.T) {
	m := testModel(t, &fakeBackend{processResp: &gateway.ProcessDocumentResponse{Status: "ok"}})

	updated, cmd := m.Update(fileReadMsg{
		Kind: model.KindChat,
		File: model.FileSelection{Name: "q3.csv", Size: 4, Data: []byte("data")},
	})
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("cmd = nil, want process command")
	}
	st := m.state()
	if !st.IsProcessing {
		t.Error("IsProcessing = false, want true during upload")
	}
	if st.Document == nil || st.Document.Name != "q3.csv" {
		t.Errorf("Document = %+v, want q3.csv", st.Document)
	}
}

func TestModel_DocumentResultReplacesTranscript(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	m.reducer.SelectFile(model.KindChat, model.FileSelection{Name: "q3.csv", Data: []byte("x")})
	m.reducer.ApplyDocument(model.KindChat)

	updated, _ := m.Update(documentResultMsg{Kind: model.KindChat, Name: "q3.csv"})
	m = updated.(*Model)

	st := m.state()
	if len(st.Transcript) != 1 {
		t.Fatalf("transcript has %d messages, want 1", len(st.Transcript))
	}
	if got, want := st.Transcript[0].Content, session.ProcessedAnnouncement("q3.csv"); got != want {
		t.Errorf("announcement = %q, want %q", got, want)
	}
	if !st.Document.Processed {
		t.Error("Processed = false, want true")
	}
}

func TestModel_AskResultAppendsAnswer(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	m.reducer.SelectFile(model.KindChat, model.FileSelection{Name: "q3.csv", Data: []byte("x")})
	m.reducer.ApplyDocument(model.KindChat)
	m.reducer.ReconcileDocument(model.KindChat, "q3.csv", nil)
	m.reducer.ApplyPrompt(model.KindChat, "total revenue?")

	updated, _ := m.Update(askResultMsg{Kind: model.KindChat, Resp: &gateway.AskResponse{Answer: "$1.2M"}})
	m = updated.(*Model)

	st := m.state()
	last := st.Transcript[len(st.Transcript)-1]
	if last.Role != model.RoleAssistant || last.Content != "$1.2M" {
		t.Errorf("last message = %v %q, want assistant $1.2M", last.Role, last.Content)
	}
	if st.IsLoading {
		t.Error("IsLoading = true after reconcile, want false")
	}
}

func TestModel_ClearRequiresConfirmation(t *testing.T) {
	m := testModel(t, &fakeBackend{})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(*Model)
	if cmd != nil {
		t.Error("first C-x produced a command, want confirmation prompt only")
	}
	if !m.confirmClear {
		t.Error("confirmClear = false after first C-x")
	}

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(*Model)
	if cmd == nil {
		t.Error("second C-x produced no command, want clear command")
	}
	if m.confirmClear {
		t.Error("confirmClear survived the second C-x")
	}
}

func TestModel_ViewShowsSessionTabs(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	out := m.View()
	if !strings.Contains(out, "Document Chat") {
		t.Error("view missing Document Chat tab")
	}
	if !strings.Contains(out, "Data Visualize") {
		t.Error("view missing Data Visualize tab")
	}
}

func TestModel_ToggleModeOnlyInVisualize(t *testing.T) {
	m := testModel(t, &fakeBackend{})
	before := m.advanced

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	m = updated.(*Model)
	if m.advanced != before {
		t.Error("advanced toggled on chat session")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	m = updated.(*Model)
	if m.advanced == before {
		t.Error("advanced did not toggle on visualize session")
	}
}
