// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for finchat.
//
// Configuration is read from ~/.finchat/config.toml with sensible defaults,
// environment variable overrides, and validation. A file watcher can reload
// the configuration while the application is running.
package config
