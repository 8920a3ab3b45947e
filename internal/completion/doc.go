// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion defines the completion capability and the invoker that
// turns its outcome into user-facing text.
//
// A Backend accepts a model identifier and a prompt and returns a result set
// whose first row's first column holds the generated text. Backends exist
// for a warehouse SQL function (package warehouse), a local Ollama server,
// OpenAI-compatible endpoints, Anthropic and Gemini.
//
// The Invoker makes exactly one attempt per turn. Failures never propagate
// to the caller; they become one of two fixed fallback strings.
//
//	inv := completion.NewInvoker(backend, logger)
//	res := inv.Invoke(ctx, "claude-3-5-sonnet", promptText)
//	fmt.Println(res.Text)
package completion
