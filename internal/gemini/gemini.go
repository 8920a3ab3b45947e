// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini answers completion requests with the Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jeranaias/groundchat/internal/completion"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("google API key not configured")

// DefaultModelMap translates allow-listed model IDs to Gemini API model names.
var DefaultModelMap = map[string]string{
	"gemma-7b": "gemma-3-12b-it",
}

// Config holds Gemini backend settings.
type Config struct {
	APIKey          string
	BaseURL         string
	Temperature     float32
	MaxOutputTokens int32
	Models          map[string]string
}

// Backend sends each prompt as a single text content.
type Backend struct {
	client *genai.Client
	config *genai.GenerateContentConfig
	models map[string]string
}

// New creates a backend for the Gemini API.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		t := cfg.Temperature
		genCfg.Temperature = &t
	}
	if cfg.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = cfg.MaxOutputTokens
	}
	if cfg.Models == nil {
		cfg.Models = DefaultModelMap
	}
	return &Backend{client: client, config: genCfg, models: cfg.Models}, nil
}

// ResolveModel returns the Gemini model name for an allow-listed ID.
func (b *Backend) ResolveModel(modelID string) string {
	if name, ok := b.models[modelID]; ok && name != "" {
		return name
	}
	return modelID
}

// Complete returns the response text as a one-row result. A response with
// no text yields an empty result set.
func (b *Backend) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.ResolveModel(modelID), genai.Text(prompt), b.config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return completion.ResultSet{}, nil
	}
	return completion.TextResult(text), nil
}
