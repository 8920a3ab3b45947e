// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the CLI, TUI and exporters.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - TruncateWidth: display-width truncation with an ellipsis
//   - PadRight: display-width padding
//   - FormatDuration: compact latency labels ("850ms", "2.4s", "1m05s")
package util
