// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of finchat: argument
// parsing, the line-mode REPL used when full-screen mode is unwanted or no TTY is available,
// and the one-shot maintenance commands (clear, export, check, version).
//
// The full-screen interface lives in internal/ui/chat; this package is
// the plain-terminal counterpart built on the same session reducer, so
// both front ends share identical semantics.
package cli
