// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt builds the grounded instruction prompt for one chat turn.
//
// History selects the window of prior messages and renders it as
// "<role>: <content>" lines. Assemble places history, dataset context and
// the question into the fixed [INST] template, always in that order.
//
//	history := prompt.History(conv.Messages(), 5, true)
//	text := prompt.Assemble(question, dataset.Format(ds), history)
package prompt
