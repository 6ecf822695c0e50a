// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/finchat-tui/internal/export"
	"github.com/jeranaias/finchat-tui/internal/gateway"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// readFileCmd loads the chosen file into memory. Documents are sent whole
// as multipart uploads, so the full content is read up front.
func readFileCmd(kind model.SessionKind, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileReadMsg{Kind: kind, Err: err}
		}
		return fileReadMsg{
			Kind: kind,
			File: model.FileSelection{
				Name: filepath.Base(path),
				Size: int64(len(data)),
				Data: data,
			},
		}
	}
}

// processDocumentCmd uploads the pending file to the session's
// ingestion endpoint. The caller must have run the reducer's apply
// phase first; the returned message drives the reconcile phase.
func processDocumentCmd(backend session.Backend, kind model.SessionKind, file model.FileSelection) tea.Cmd {
	return func() tea.Msg {
		err := session.UploadDocument(context.Background(), backend, kind, file)
		return documentResultMsg{Kind: kind, Name: file.Name, Err: err}
	}
}

// askCmd sends the prompt to the backend. The caller must have run the
// reducer's apply phase first.
func askCmd(backend session.Backend, kind model.SessionKind, prompt string, advanced bool) tea.Cmd {
	return func() tea.Msg {
		resp, err := backend.Ask(context.Background(), prompt, kind, advanced)
		return askResultMsg{Kind: kind, Resp: resp, Err: err}
	}
}

// clearCmd runs the full clear-session action through the reducer.
func clearCmd(reducer *session.Reducer, kind model.SessionKind) tea.Cmd {
	return func() tea.Msg {
		err := reducer.ClearSession(context.Background(), kind)
		return clearResultMsg{Kind: kind, Err: err}
	}
}

// saveImageCmd writes the latest visualization image as a PNG file.
func saveImageCmd(state model.SessionState, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := export.SaveArtifactPNG(&state, opts)
		return fileWrittenMsg{Path: path, Err: err}
	}
}

// documentChecker is the optional backend capability used for the
// startup inventory check. Fakes without it simply skip the check.
type documentChecker interface {
	CheckDocuments(ctx context.Context) (*gateway.CheckDocumentsResponse, error)
}

// checkDocumentsCmd asks the backend whether any processed documents
// exist. Used once at startup to flag a stale mirror.
func checkDocumentsCmd(backend session.Backend) tea.Cmd {
	checker, ok := backend.(documentChecker)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		resp, err := checker.CheckDocuments(context.Background())
		return checkDocumentsMsg{Resp: resp, Err: err}
	}
}

// exportCmd writes the session transcript as a Markdown file.
func exportCmd(state model.SessionState, opts *export.Options) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ExportMarkdown(&state, opts)
		return fileWrittenMsg{Path: path, Err: err}
	}
}
