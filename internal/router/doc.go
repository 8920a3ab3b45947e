// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router dispatches completion requests to the backend that serves
// each model.
//
// A Router is itself a completion.Backend. Backends are registered by name
// with a factory and built on first use, so a provider that is never
// selected never needs credentials.
//
// # Usage
//
//	r := router.New(config.BackendWarehouse, logger)
//	r.Register(config.BackendWarehouse, router.Static(wh.Completer()))
//	r.Register(config.BackendAnthropic, func(ctx context.Context) (completion.Backend, error) {
//	    return claude.New(claude.Config{APIKey: key})
//	})
//	r.Route("claude-3-5-sonnet", config.BackendAnthropic)
//	invoker := completion.NewInvoker(r, logger)
package router
