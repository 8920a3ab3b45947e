// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jeranaias/groundchat/internal/cache"
)

// CachedSource serves snapshots from a cache.Store, falling back to the
// wrapped Source on a miss. Cache failures are logged and never fail a load.
type CachedSource struct {
	source Source
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSource wraps source with store. A nil logger uses slog.Default().
func NewCachedSource(source Source, store cache.Store, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{source: source, store: store, ttl: ttl, logger: logger}
}

// CacheKey returns the key a table snapshot is stored under.
func CacheKey(table string) string {
	return "dataset:" + table
}

// Load returns the cached snapshot for table or loads and caches it.
func (c *CachedSource) Load(ctx context.Context, table string) (*Dataset, error) {
	key := CacheKey(table)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var ds Dataset
		jsonErr := json.Unmarshal(data, &ds)
		if jsonErr == nil {
			c.logger.Debug("dataset cache hit", "table", table, "rows", ds.Len())
			return &ds, nil
		}
		c.logger.Warn("discarding corrupt cached dataset", "table", table, "error", jsonErr)
	case !errors.Is(err, cache.ErrMiss):
		c.logger.Warn("dataset cache unavailable", "table", table, "error", err)
	}

	ds, err := c.source.Load(ctx, table)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(ds); jsonErr == nil {
		if setErr := c.store.Set(ctx, key, encoded, c.ttl); setErr != nil {
			c.logger.Warn("failed to cache dataset", "table", table, "error", setErr)
		}
	}
	return ds, nil
}

// Invalidate removes the cached snapshot for table.
func (c *CachedSource) Invalidate(ctx context.Context, table string) error {
	return c.store.Delete(ctx, CacheKey(table))
}
