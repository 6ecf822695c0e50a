// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the canonical in-memory state for the chat and
// visualize sessions and drives state transitions for user actions.
//
// The Store holds one SessionState per session kind and mirrors every
// durable change to the local store so a session survives a restart.
// The Reducer turns user actions (select file, submit document, submit
// prompt, clear) into an optimistic state change followed by a
// reconciliation once the backend responds.
package session
