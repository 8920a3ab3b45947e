// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes one entry in the completion model allow-list.
type ModelInfo struct {
	// ID is the model identifier passed to the completion capability
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Provider identifies who trains the model
	Provider string `json:"provider"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// String returns "Name (id)".
func (m ModelInfo) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.ID)
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the allow-list of selectable completion models, in display order.
// The first entry is the default.
var Models = []ModelInfo{
	{
		ID:          "claude-3-5-sonnet",
		Name:        "Claude 3.5 Sonnet",
		Provider:    "Anthropic",
		Description: "Strong reasoning over tabular context",
	},
	{
		ID:          "mistral-large",
		Name:        "Mistral Large",
		Provider:    "Mistral AI",
		Description: "Large general-purpose model",
	},
	{
		ID:          "gemma-7b",
		Name:        "Gemma 7B",
		Provider:    "Google",
		Description: "Small open model, fast answers",
	},
	{
		ID:          "llama3-8b",
		Name:        "Llama 3 8B",
		Provider:    "Meta",
		Description: "Small open model, runs locally",
	},
}

// DefaultModel is the model selected for a new session.
var DefaultModel = Models[0].ID

// IsAllowed reports whether id is in the allow-list.
func IsAllowed(id string) bool {
	_, ok := GetModelInfo(id)
	return ok
}

// GetModelInfo looks up an allow-listed model by exact ID (case-insensitive).
func GetModelInfo(id string) (ModelInfo, bool) {
	id = strings.TrimSpace(id)
	for _, info := range Models {
		if strings.EqualFold(info.ID, id) {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// ModelIDs returns the allow-listed IDs in display order.
func ModelIDs() []string {
	ids := make([]string, len(Models))
	for i, info := range Models {
		ids[i] = info.ID
	}
	return ids
}

// NextModel returns the allow-listed model after current, wrapping around.
// An unknown current yields the default.
func NextModel(current string) string {
	for i, info := range Models {
		if info.ID == current {
			return Models[(i+1)%len(Models)].ID
		}
	}
	return DefaultModel
}
