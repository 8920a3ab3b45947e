// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/jeranaias/groundchat/internal/model"
)

// Sentinels returned by History in place of rendered messages.
const (
	HistoryDisabled = "Chat history is disabled."
	NoHistory       = "No prior chat history available or used."
)

// Window returns the messages that precede the in-flight (last) message,
// limited to the n most recent. A window smaller than 1 is treated as 1.
// With fewer than two messages the result is empty.
func Window(messages []model.Message, n int) []model.Message {
	if n < 1 {
		n = 1
	}
	prior := len(messages) - 1
	if prior <= 0 {
		return nil
	}
	start := prior - n
	if start < 0 {
		start = 0
	}
	return messages[start:prior]
}

// History renders the history window for the in-flight message.
// It returns HistoryDisabled when useHistory is false and NoHistory when the
// window is empty.
func History(messages []model.Message, n int, useHistory bool) string {
	if !useHistory {
		return HistoryDisabled
	}
	window := Window(messages, n)
	if len(window) == 0 {
		return NoHistory
	}
	lines := make([]string, len(window))
	for i, msg := range window {
		lines[i] = msg.Line()
	}
	return strings.Join(lines, "\n")
}
