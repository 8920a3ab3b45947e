// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"

	"github.com/jeranaias/groundchat/internal/completion"
)

// OpenRouterModels maps allow-listed model IDs to OpenRouter identifiers.
var OpenRouterModels = map[string]string{
	"claude-3-5-sonnet": "anthropic/claude-3.5-sonnet",
	"mistral-large":     "mistralai/mistral-large",
	"gemma-7b":          "google/gemma-7b-it",
	"llama3-8b":         "meta-llama/llama-3-8b-instruct",
}

// Backend sends each prompt as a single user message.
type Backend struct {
	client *Client
	models map[string]string
}

// NewBackend creates a backend. Model IDs missing from models are sent as-is.
func NewBackend(client *Client, models map[string]string) *Backend {
	return &Backend{client: client, models: models}
}

// ResolveModel returns the provider model name for an allow-listed ID.
func (b *Backend) ResolveModel(modelID string) string {
	if name, ok := b.models[modelID]; ok && name != "" {
		return name
	}
	return modelID
}

// Complete returns the first choice's content as a one-row result. A
// response without choices yields an empty result set.
func (b *Backend) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	resp, err := b.client.Chat(ctx, b.ResolveModel(modelID), []ChatMessage{NewUserMessage(prompt)})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return completion.ResultSet{}, nil
	}
	return completion.TextResult(resp.GetContent()), nil
}
