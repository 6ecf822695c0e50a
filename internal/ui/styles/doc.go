// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the finchat TUI.
//
// The Theme struct bundles every lip gloss style the views need, built on
// an adaptive color palette that adjusts to light and dark terminals.
// Status messages carry ASCII shape indicators alongside color so states
// remain distinguishable for colorblind users.
package styles
