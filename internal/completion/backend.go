// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
)

// Row is one result row. Values are driver-native: string, []byte, nil, ...
type Row []any

// ResultSet is the tabular result returned by a completion capability.
type ResultSet []Row

// TextResult wraps a single string as a one-row, one-column result set.
func TextResult(text string) ResultSet {
	return ResultSet{Row{text}}
}

// Backend is the external completion capability.
type Backend interface {
	Complete(ctx context.Context, modelID, prompt string) (ResultSet, error)
}

// Func adapts a function to the Backend interface.
type Func func(ctx context.Context, modelID, prompt string) (ResultSet, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, modelID, prompt string) (ResultSet, error) {
	return f(ctx, modelID, prompt)
}

// Static is a Backend that returns a fixed result or error. It records the
// last request it received.
type Static struct {
	Result ResultSet
	Err    error

	LastModel  string
	LastPrompt string
	Calls      int
}

// Complete records the request and returns the configured outcome.
func (s *Static) Complete(_ context.Context, modelID, prompt string) (ResultSet, error) {
	s.Calls++
	s.LastModel = modelID
	s.LastPrompt = prompt
	return s.Result, s.Err
}
