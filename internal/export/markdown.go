// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// Export converts a session to Markdown format.
func (e *MarkdownExporter) Export(state *model.SessionState) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(state.Transcript) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("session: %s\n", state.Kind))
		if state.Document != nil {
			sb.WriteString(fmt.Sprintf("document: %s\n", state.Document.Name))
			sb.WriteString(fmt.Sprintf("size: %s\n", util.FormatBytes(state.Document.SizeBytes)))
			sb.WriteString(fmt.Sprintf("processed: %t\n", state.Document.Processed))
		}
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(state.Transcript)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: finchat\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", state.Kind.Title()))

	for i, msg := range state.Transcript {
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				msg.Role.DisplayName(),
				msg.Timestamp.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", msg.Role.DisplayName()))
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n")
		if msg.HasArtifact() {
			sb.WriteString("\n*(chart attached; export the image separately)*\n")
		}

		if i < len(state.Transcript)-1 {
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}
