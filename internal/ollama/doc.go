// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// The client sends single, non-streaming generate requests to a local
// Ollama server. Backend adapts it to completion.Backend so a local model
// can answer grounded questions in place of a hosted completion function.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - Backend: completion.Backend over /api/generate
//   - ClientError: typed error with an ErrorType for handling
//
// # Usage
//
//	client := ollama.NewClient()
//	if err := client.CheckRunning(ctx); err != nil {
//	    return err
//	}
//	resp, err := client.Generate(ctx, "llama3:8b", prompt)
//	fmt.Println(resp.Response)
//
// Allow-listed model IDs are translated to Ollama tags with a model map:
//
//	backend := ollama.NewBackend(client, ollama.DefaultModelMap)
package ollama
