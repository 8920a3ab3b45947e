// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dataset holds the tabular context snapshot that grounds answers.
//
// A Dataset is loaded once per session from a Source (typically the
// warehouse package) and serialized into prompt text with Format. A
// CachedSource keeps loaded snapshots in a cache.Store so repeated runs
// against the same table skip the warehouse round trip.
//
// Format never truncates: every row and column of the snapshot is emitted.
// Very large tables therefore produce very large prompts.
package dataset
