// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides a small key/value store with expiry, used to keep
// dataset snapshots between runs.
//
// Two implementations are provided:
//
//   - MemoryStore: process-local map, the default
//   - RedisStore: shared Redis instance, selected when a redis URL is configured
//
// Use Open to pick the implementation from configuration.
package cache
