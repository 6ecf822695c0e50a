// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every layer of the
// finchat client: chat messages, document descriptors, visualization
// artifacts, and the per-session state snapshot.
//
// The types here are plain data. Validation and state transitions live in
// the session package; serialization for the local mirror lives in
// localstore.
package model
