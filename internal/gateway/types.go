// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"encoding/json"

	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// chatRequest is the JSON body for POST /doc-chat.
type chatRequest struct {
	Prompt string `json:"prompt"`
}

// visualizeRequest is the JSON body for POST /visualize. Advance is a text
// flag ("true"/"false"), not a boolean; the backend contract predates the
// client and must be preserved.
type visualizeRequest struct {
	Prompt  string `json:"prompt"`
	Advance string `json:"advance"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ProcessDocumentResponse is the acknowledgment for a document ingestion.
type ProcessDocumentResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"response"`
}

// AskResponse is the normalized result of an ask operation. For the chat
// session only Answer is set. For the visualization session Artifact is
// always set and Answer carries the explanation in advanced mode, or a
// fixed caption in basic mode.
type AskResponse struct {
	Answer   string
	Artifact *model.VisualizationArtifact
}

// ClearResponse is the acknowledgment for a clear-uploads call.
type ClearResponse struct {
	Message string `json:"message"`
}

// CheckDocumentsResponse reports whether the backend still holds processed
// document state for this client. Advisory only; see Client.CheckDocuments.
type CheckDocumentsResponse struct {
	Status        string `json:"status"`
	DocumentCount int    `json:"document_count"`
	Message       string `json:"message,omitempty"`
}

// OK reports whether the backend considers a document available.
func (r CheckDocumentsResponse) OK() bool {
	return r.Status == "success"
}

// =============================================================================
// VISUALIZATION ENVELOPES
// =============================================================================

// advancedEnvelope is the advanced-mode response for POST /visualize.
// The three keys are all required; the caller decides the mode, never the
// response shape (basic mode returns raw image bytes instead of JSON).
type advancedEnvelope struct {
	Image       *string          `json:"image"`
	Data        *advancedPayload `json:"data"`
	Explanation *string          `json:"explanation"`
}

type advancedPayload struct {
	VisualizationData json.RawMessage `json:"visualization_data"`
}

// validate returns the name of the first missing key, or "".
func (e advancedEnvelope) validate() string {
	switch {
	case e.Image == nil:
		return "image"
	case e.Data == nil || len(e.Data.VisualizationData) == 0:
		return "data"
	case e.Explanation == nil:
		return "explanation"
	}
	return ""
}
