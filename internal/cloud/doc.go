// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides an OpenAI-compatible chat-completions client.
//
// The same client talks to OpenAI, OpenRouter, or any gateway that exposes
// POST {base}/chat/completions. Each call is a single attempt; requests are
// paced by a token-bucket rate limiter so a burst of turns cannot exceed
// the provider's request quota.
//
// # Key Types
//
//   - Client: HTTP client with API key, base URL, sampling parameters and limiter
//   - Backend: completion.Backend that sends the prompt as one user message
//   - APIError: structured error body returned by the provider
//
// # Usage
//
//	client := cloud.NewClient(apiKey, cloud.WithBaseURL(cloud.OpenAIURL))
//	resp, err := client.Chat(ctx, "gpt-4o", []cloud.ChatMessage{cloud.NewUserMessage("Hi")})
//	fmt.Println(resp.GetContent())
//
// API keys are never logged; KeyFingerprint gives a stable identifier instead.
package cloud
