// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"

	"github.com/jeranaias/groundchat/internal/completion"
)

// DefaultModelMap translates allow-listed model IDs to Ollama tags.
var DefaultModelMap = map[string]string{
	"llama3-8b":     "llama3:8b",
	"gemma-7b":      "gemma:7b",
	"mistral-large": "mistral-large",
}

// Backend answers completion requests with a local Ollama model.
type Backend struct {
	client *Client
	models map[string]string
}

// NewBackend creates a backend. Model IDs missing from models are sent as-is.
func NewBackend(client *Client, models map[string]string) *Backend {
	return &Backend{client: client, models: models}
}

// ResolveModel returns the Ollama tag used for an allow-listed model ID.
func (b *Backend) ResolveModel(modelID string) string {
	if tag, ok := b.models[modelID]; ok && tag != "" {
		return tag
	}
	return modelID
}

// Complete sends the prompt to /api/generate and returns a one-row result.
func (b *Backend) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	resp, err := b.client.Generate(ctx, b.ResolveModel(modelID), prompt)
	if err != nil {
		return nil, err
	}
	return completion.TextResult(resp.Response), nil
}
