// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Shared application wiring for all finchat front ends.

package cli

import (
	"fmt"
	"time"

	"github.com/jeranaias/finchat-tui/internal/config"
	"github.com/jeranaias/finchat-tui/internal/gateway"
	"github.com/jeranaias/finchat-tui/internal/localstore"
	"github.com/jeranaias/finchat-tui/internal/model"
	"github.com/jeranaias/finchat-tui/internal/session"
)

// App bundles the wired components every command works against.
type App struct {
	Config  *config.Config
	Client  *gateway.Client
	Reducer *session.Reducer

	store *localstore.Store
}

// NewApp loads configuration, opens the local mirror, and hydrates both
// sessions. Callers must Close the returned App.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	mirrorPath, err := cfg.MirrorPath()
	if err != nil {
		return nil, fmt.Errorf("resolve mirror path: %w", err)
	}
	kv, err := localstore.Open(mirrorPath)
	if err != nil {
		return nil, fmt.Errorf("open local mirror: %w", err)
	}

	client := gateway.NewClientWithConfig(&gateway.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.RequestTimeoutSecs) * time.Second,
	})

	store := session.NewStore(localstore.NewBridge(kv))
	store.Hydrate(model.KindChat)
	store.Hydrate(model.KindVisualize)

	return &App{
		Config:  cfg,
		Client:  client,
		Reducer: session.NewReducer(store, client),
		store:   kv,
	}, nil
}

// Close releases the local mirror.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
