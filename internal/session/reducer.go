// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/finchat-tui/internal/gateway"
	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// USER-VISIBLE STRINGS
// =============================================================================

const (
	// AskFailureMessage is appended as an assistant message when an ask
	// call fails for any reason.
	AskFailureMessage = "Sorry, there was an error processing your request."

	// ClearFailureMessage is surfaced as a banner when clear-uploads fails.
	ClearFailureMessage = "Failed to clear uploads"
)

// ProcessedAnnouncement is the single assistant message that replaces the
// transcript after a document is processed.
func ProcessedAnnouncement(name string) string {
	return fmt.Sprintf("Document %q has been processed successfully. You can now ask questions about it.", name)
}

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is the slice of the gateway client the reducer consumes.
type Backend interface {
	ProcessDocument(ctx context.Context, fileBytes []byte, fileName string) (*gateway.ProcessDocumentResponse, error)
	UploadVisualizationData(ctx context.Context, fileBytes []byte, fileName string) (*gateway.ProcessDocumentResponse, error)
	Ask(ctx context.Context, prompt string, kind model.SessionKind, advanced bool) (*gateway.AskResponse, error)
	ClearUploads(ctx context.Context) (*gateway.ClearResponse, error)
}

// UploadDocument sends a file to the session's ingestion endpoint: the
// chat session uses process-document, the visualize session its own
// save-visualize-data path.
func UploadDocument(ctx context.Context, backend Backend, kind model.SessionKind, file model.FileSelection) error {
	var err error
	if kind == model.KindVisualize {
		_, err = backend.UploadVisualizationData(ctx, file.Data, file.Name)
	} else {
		_, err = backend.ProcessDocument(ctx, file.Data, file.Name)
	}
	return err
}

// =============================================================================
// REDUCER
// =============================================================================

// Reducer applies user actions to the session store. Each network-backed
// action runs in two phases: an optimistic apply before the call, and a
// reconcile once the response lands. The phases are exported separately
// so a caller driving its own event loop can run the network call as a
// background command between them.
//
// Reconciles apply unconditionally: a response landing after a newer
// local action overwrites it. Request ordering is not enforced.
type Reducer struct {
	store   *Store
	backend Backend
}

// NewReducer creates a reducer over the given store and backend.
func NewReducer(store *Store, backend Backend) *Reducer {
	return &Reducer{store: store, backend: backend}
}

// Store returns the underlying session store.
func (r *Reducer) Store() *Store {
	return r.store
}

// =============================================================================
// SELECT FILE
// =============================================================================

// SelectFile records a chosen file. Purely local: the document resets to
// unprocessed, any previous error clears, the transcript is untouched.
func (r *Reducer) SelectFile(kind model.SessionKind, file model.FileSelection) {
	r.store.Update(kind, func(st *model.SessionState) {
		st.Pending = &file
		st.Document = file.Descriptor()
		st.LastError = ""
	})
}

// =============================================================================
// SUBMIT DOCUMENT
// =============================================================================

// ApplyDocument starts document processing for the pending file. It
// returns the selection to process, or ok=false when no file is pending
// or processing is already underway.
func (r *Reducer) ApplyDocument(kind model.SessionKind) (file model.FileSelection, ok bool) {
	state := r.store.Get(kind)
	if state.Pending == nil || state.IsProcessing {
		return model.FileSelection{}, false
	}
	file = *state.Pending

	r.store.UpdateEphemeral(kind, func(st *model.SessionState) {
		st.IsProcessing = true
		st.LastError = ""
	})
	return file, true
}

// ReconcileDocument merges the outcome of a process-document call. On
// success the entire transcript is replaced with a single announcement
// and the document is marked processed. On failure the transcript is
// untouched and the error is surfaced as a banner.
func (r *Reducer) ReconcileDocument(kind model.SessionKind, fileName string, err error) {
	if err != nil {
		r.store.UpdateEphemeral(kind, func(st *model.SessionState) {
			st.IsProcessing = false
			st.LastError = err.Error()
		})
		return
	}

	r.store.Update(kind, func(st *model.SessionState) {
		st.IsProcessing = false
		st.LastError = ""
		st.Transcript = []model.Message{
			model.NewAssistantMessage(ProcessedAnnouncement(fileName)),
		}
		if st.Document != nil {
			st.Document.Processed = true
		} else {
			st.Document = &model.DocumentDescriptor{Name: fileName, Processed: true}
		}
	})
}

// SubmitDocument runs both phases synchronously. It reports whether a
// call was made and any gateway error.
func (r *Reducer) SubmitDocument(ctx context.Context, kind model.SessionKind) (bool, error) {
	file, ok := r.ApplyDocument(kind)
	if !ok {
		return false, nil
	}
	err := UploadDocument(ctx, r.backend, kind, file)
	r.ReconcileDocument(kind, file.Name, err)
	return true, err
}

// =============================================================================
// SUBMIT PROMPT
// =============================================================================

// ApplyPrompt appends the user's message and raises the loading flag.
// It returns ok=false, without touching state or issuing any call, when
// the prompt is blank or no processed document is available.
func (r *Reducer) ApplyPrompt(kind model.SessionKind, prompt string) bool {
	if strings.TrimSpace(prompt) == "" {
		return false
	}
	if !r.store.Get(kind).CanAsk() {
		return false
	}

	r.store.Update(kind, func(st *model.SessionState) {
		st.Transcript = append(st.Transcript, model.NewUserMessage(prompt))
		st.LastError = ""
	})
	r.store.UpdateEphemeral(kind, func(st *model.SessionState) {
		st.IsLoading = true
	})
	return true
}

// ReconcilePrompt merges the outcome of an ask call, appending exactly
// one assistant message: the answer on success, a fixed failure string
// on error.
func (r *Reducer) ReconcilePrompt(kind model.SessionKind, resp *gateway.AskResponse, err error) {
	r.store.Update(kind, func(st *model.SessionState) {
		st.IsLoading = false
		if err != nil || resp == nil {
			st.Transcript = append(st.Transcript, model.NewAssistantMessage(AskFailureMessage))
			return
		}
		if resp.Artifact != nil {
			st.LatestArtifact = resp.Artifact
			st.Transcript = append(st.Transcript, model.NewArtifactMessage(resp.Answer, resp.Artifact.Image))
			return
		}
		st.Transcript = append(st.Transcript, model.NewAssistantMessage(resp.Answer))
	})
}

// SubmitPrompt runs both phases synchronously. advanced selects the
// structured visualization envelope and is ignored for the chat session.
func (r *Reducer) SubmitPrompt(ctx context.Context, kind model.SessionKind, prompt string, advanced bool) bool {
	if !r.ApplyPrompt(kind, prompt) {
		return false
	}
	resp, err := r.backend.Ask(ctx, prompt, kind, advanced)
	r.ReconcilePrompt(kind, resp, err)
	return true
}

// =============================================================================
// CLEAR SESSION
// =============================================================================

// ClearSession asks the backend to discard uploaded document state, then
// resets the session. On success the mirror keys are erased too. On
// failure the in-memory session is still reset but the mirror is left
// alone, and the failure banner is surfaced.
func (r *Reducer) ClearSession(ctx context.Context, kind model.SessionKind) error {
	_, err := r.backend.ClearUploads(ctx)
	if err != nil {
		r.store.UpdateEphemeral(kind, func(st *model.SessionState) {
			st.Transcript = nil
			st.Document = nil
			st.Pending = nil
			st.LatestArtifact = nil
			st.IsLoading = false
			st.IsProcessing = false
			st.LastError = ClearFailureMessage
		})
		return err
	}
	return r.store.Reset(kind)
}
