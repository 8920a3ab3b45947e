// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for groundchat.
//
// Supports TOML, JSON-with-comments and YAML files, with built-in defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ChatConfig: Initial session controls (model, history window, debug)
//   - BackendConfig: Which completion backend answers each model
//   - WarehouseConfig: Tabular source and SQL completion settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GROUNDCHAT_*, OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY)
//   - --config PATH, or the first of ~/.groundchat/config.toml, config.json, config.yaml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	sess, err := session.New(cfg.Settings())
package config
