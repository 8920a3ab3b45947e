// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package claude answers completion requests with the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jeranaias/groundchat/internal/completion"
)

// DefaultMaxTokens caps each answer.
const DefaultMaxTokens = 1024

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("anthropic API key not configured")

// DefaultModelMap translates allow-listed model IDs to Anthropic model names.
var DefaultModelMap = map[string]string{
	"claude-3-5-sonnet": string(anthropic.ModelClaude3_5SonnetLatest),
}

// Config holds Anthropic backend settings.
type Config struct {
	APIKey    string
	BaseURL   string
	MaxTokens int64
	Models    map[string]string
}

// Backend sends each prompt as one user text block.
type Backend struct {
	client    anthropic.Client
	maxTokens int64
	models    map[string]string
}

// New creates a backend. The SDK's own retries are disabled so every turn
// makes exactly one request.
func New(cfg Config) (*Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Models == nil {
		cfg.Models = DefaultModelMap
	}
	return &Backend{
		client:    anthropic.NewClient(opts...),
		maxTokens: cfg.MaxTokens,
		models:    cfg.Models,
	}, nil
}

// ResolveModel returns the Anthropic model name for an allow-listed ID.
func (b *Backend) ResolveModel(modelID string) string {
	if name, ok := b.models[modelID]; ok && name != "" {
		return name
	}
	return modelID
}

// Complete joins every text block of the reply into one result row. A reply
// without text blocks yields an empty result set.
func (b *Backend) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.ResolveModel(modelID)),
		MaxTokens: b.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return completion.ResultSet{}, nil
	}
	return completion.TextResult(strings.Join(parts, "")), nil
}
