// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"

	"github.com/jeranaias/groundchat/internal/model"
)

// History window bounds.
const (
	MinHistoryWindow     = 1
	MaxHistoryWindow     = 25
	DefaultHistoryWindow = 5
)

// Validation errors for settings changes.
var (
	ErrUnknownModel     = errors.New("model is not in the allow-list")
	ErrWindowOutOfRange = errors.New("history window out of range")
)

// Settings are the user-adjustable chat controls.
type Settings struct {
	Model         string `json:"model"`
	HistoryWindow int    `json:"history_window"`
	UseHistory    bool   `json:"use_history"`
	Debug         bool   `json:"debug"`
}

// DefaultSettings returns the settings a new session starts with.
func DefaultSettings() Settings {
	return Settings{
		Model:         model.DefaultModel,
		HistoryWindow: DefaultHistoryWindow,
		UseHistory:    true,
		Debug:         false,
	}
}

// Validate checks the model against the allow-list and the window bounds.
func (s Settings) Validate() error {
	if err := validateModel(s.Model); err != nil {
		return err
	}
	return validateWindow(s.HistoryWindow)
}

func validateModel(id string) error {
	if !model.IsAllowed(id) {
		return fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	return nil
}

func validateWindow(n int) error {
	if n < MinHistoryWindow || n > MaxHistoryWindow {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrWindowOutOfRange, n, MinHistoryWindow, MaxHistoryWindow)
	}
	return nil
}
