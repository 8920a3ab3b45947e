// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to Markdown or JSON.
//
// Exports are one-way snapshots: nothing in groundchat reads them back, so
// the conversation itself stays in memory only.
//
// # Usage
//
//	t := export.NewTranscript(sess.Conversation(), sess.Settings().Model)
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export
