// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/finchat-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports sessions to JSON format.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// jsonEnvelope is the exported document shape. The raw base64 image is
// omitted to keep exports reviewable; use SaveArtifactPNG for the image.
type jsonEnvelope struct {
	Session    string                    `json:"session"`
	Document   *model.DocumentDescriptor `json:"document,omitempty"`
	Messages   []model.Message           `json:"messages"`
	ExportedAt time.Time                 `json:"exportedAt"`
}

// Export converts a session to indented JSON.
func (e *JSONExporter) Export(state *model.SessionState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(state.Transcript) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	messages := make([]model.Message, len(state.Transcript))
	copy(messages, state.Transcript)
	for i := range messages {
		messages[i].ImageData = ""
	}

	envelope := jsonEnvelope{
		Session:    string(state.Kind),
		Document:   state.Document,
		Messages:   messages,
		ExportedAt: time.Now(),
	}
	return json.MarshalIndent(envelope, "", "  ")
}
