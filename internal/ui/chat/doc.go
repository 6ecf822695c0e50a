// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea interface for finchat.
//
// One Model drives both sessions (document chat and data visualize) as
// tabs over a shared session store. User actions run through the session
// reducer: the optimistic phase happens in Update, the network call runs
// as a Bubble Tea command, and the resulting message reconciles the
// outcome back into the store.
package chat
