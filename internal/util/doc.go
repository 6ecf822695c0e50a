// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the finchat application.
//
// This package contains common helper functions used throughout the
// application for string display, formatting, and file operations.
//
// Key functions:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - FormatBytes: human-readable file sizes
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
