// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package warehouse

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jeranaias/groundchat/internal/completion"
)

// Completer runs the warehouse completion function.
type Completer struct {
	w *Warehouse
}

// Completer returns the completion backend for this warehouse.
func (w *Warehouse) Completer() *Completer {
	return &Completer{w: w}
}

// Complete executes the configured statement with (modelID, prompt) and
// returns every result row. Errors are returned unchanged for the invoker.
func (c *Completer) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	ctx, span := c.w.tracer.Start(ctx, "warehouse.Complete", trace.WithAttributes(
		attribute.String("model", modelID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.w.cfg.QueryTimeout)
	defer cancel()

	rows, err := c.w.db.QueryContext(ctx, c.w.cfg.CompleteQuery, modelID, prompt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out completion.ResultSet
	for rows.Next() {
		values, err := scanRow(rows, len(columns))
		if err != nil {
			return nil, err
		}
		out = append(out, completion.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
