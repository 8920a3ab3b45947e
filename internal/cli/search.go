// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jeranaias/groundchat/internal/search"
)

// runSearch sends one query to the retrieval service.
func runSearch(ctx context.Context, args Args, out io.Writer) error {
	query := args.Query()
	if query == "" {
		return usageErrorf("search requires a query")
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	client := search.NewClient(cfg.Search.URL, cfg.Search.Token)
	if !client.IsConfigured() {
		return fmt.Errorf("%w: set search.url or GROUNDCHAT_SEARCH_URL", search.ErrNotConfigured)
	}

	resp, err := client.Search(ctx, search.Query{Text: query, Limit: cfg.Search.Limit})
	if err != nil {
		return &CommandError{Command: "search", Err: err}
	}

	if args.Raw || args.JSON {
		text, err := resp.JSON()
		if err != nil {
			return err
		}
		if isTerminalWriter(out) {
			text = search.HighlightJSON(text)
		}
		fmt.Fprintln(out, text)
		return nil
	}
	return resp.Render(out, search.ChunkColumn, search.SourceColumn)
}
