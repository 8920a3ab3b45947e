// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the groundchat command line.
//
// # Commands
//
//   - tui: full-screen chat (default)
//   - chat: line-oriented REPL with slash commands
//   - ask: answer one question and exit
//   - search: query the retrieval service
//   - data: import a CSV into the warehouse or show the loaded table
//   - config: show, get, set, path or init the configuration
//   - models: list the allow-listed models and their backends
//   - version: print version information
//
// Main parses the arguments, builds an App for commands that talk to the
// warehouse or a model, and maps errors to exit codes.
package cli
