// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides session export functionality for finchat.
// Transcripts can be exported to Markdown or JSON, and visualization
// images can be saved as PNG files.
package export
