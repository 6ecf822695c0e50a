// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "encoding/json"

// =============================================================================
// VISUALIZATION ARTIFACT
// =============================================================================

// VisualizationArtifact is the output of a visualization request. The image
// is kept base64-encoded because the local mirror only stores text; the UI
// and the export path decode it on demand.
//
// Basic mode responses carry only the image. Advanced mode additionally
// carries the structured series the chart was drawn from and a natural
// language explanation.
type VisualizationArtifact struct {
	// Image is the base64-encoded chart image (PNG bytes, opaque to the
	// client).
	Image string `json:"image"`

	// Series is the structured data payload from advanced mode, kept as raw
	// JSON because its shape is backend-defined.
	Series json.RawMessage `json:"series,omitempty"`

	// Explanation is the advanced-mode natural language summary.
	Explanation string `json:"explanation,omitempty"`
}

// IsAdvanced reports whether the artifact carries the advanced-mode fields.
func (a *VisualizationArtifact) IsAdvanced() bool {
	return a != nil && len(a.Series) > 0
}
