// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search queries a remote retrieval service for document chunks.
//
// The service is a hosted search endpoint: it accepts a query string, the
// columns to return and a result limit, and answers with matching rows. The
// package only speaks to the service; it never builds embeddings or indexes.
//
// Usage:
//
//	client := search.NewClient(url, token)
//	resp, err := client.Search(ctx, search.Query{Text: "tents"})
//	resp.Render(os.Stdout, search.ChunkColumn, search.SourceColumn)
package search
