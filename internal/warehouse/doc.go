// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package warehouse connects to the SQL data warehouse that hosts the
// context table and, optionally, the LLM completion function.
//
// Any database/sql driver can be used; the pure-Go SQLite driver is
// registered by default so a local file works out of the box.
//
// # Capabilities
//
//   - Load: full snapshot of a table as a dataset.Dataset (dataset.Source)
//   - Completer: runs the configured completion statement with
//     (model, prompt) parameters (completion.Backend)
//   - ImportCSV: loads a CSV file into a TEXT-typed table for local demos
//
// Failing to open or ping the warehouse is a configuration failure
// (ErrNoConnection) and should stop the current invocation.
package warehouse
