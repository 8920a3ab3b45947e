// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry wires OpenTelemetry tracing and keeps per-run turn
// statistics.
//
// # Key Types
//
//   - Config: tracing switch and output file
//   - Stats: per-model turn counts and latency for the current run
//
// # Usage
//
// Install tracing at startup:
//
//	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer shutdown(context.Background())
//
// When tracing is disabled Setup installs nothing and the global no-op
// provider stays in place, so instrumented packages pay no export cost.
package telemetry
