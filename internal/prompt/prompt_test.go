// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groundchat/internal/model"
)

func conversation(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.NewMessage(role, fmt.Sprintf("m%d", i))
	}
	return msgs
}

// =============================================================================
// HISTORY WINDOW TESTS
// =============================================================================

func TestWindow_Size(t *testing.T) {
	for m := 0; m <= 12; m++ {
		for n := 1; n <= 25; n++ {
			msgs := conversation(m)
			window := Window(msgs, n)

			want := n
			if m-1 < want {
				want = m - 1
			}
			if want < 0 {
				want = 0
			}
			require.Len(t, window, want, "M=%d N=%d", m, n)

			for _, msg := range window {
				assert.NotEqual(t, msgs[m-1].ID, msg.ID, "in-flight message leaked into window (M=%d N=%d)", m, n)
			}
			if want > 0 {
				assert.Equal(t, msgs[m-2].ID, window[len(window)-1].ID, "window must end right before the in-flight message")
			}
		}
	}
}

func TestWindow_ClampsBelowOne(t *testing.T) {
	msgs := conversation(4)
	assert.Len(t, Window(msgs, 0), 1)
	assert.Len(t, Window(msgs, -3), 1)
}

func TestHistory_Disabled(t *testing.T) {
	for _, m := range []int{0, 1, 5} {
		assert.Equal(t, HistoryDisabled, History(conversation(m), 5, false))
	}
}

func TestHistory_NoPriorMessages(t *testing.T) {
	assert.Equal(t, NoHistory, History(nil, 5, true))
	assert.Equal(t, NoHistory, History(conversation(1), 5, true))
}

func TestHistory_RendersChronologicalLines(t *testing.T) {
	msgs := conversation(5)
	got := History(msgs, 3, true)

	assert.Equal(t, "assistant: m1\nuser: m2\nassistant: m3", got)
}

func TestHistory_ExcludesInFlightQuestion(t *testing.T) {
	msgs := []model.Message{
		model.NewUserMessage("Hi"),
		model.NewUserMessage("Any goggles review?"),
	}

	got := History(msgs, 5, true)

	assert.Contains(t, got, "user: Hi")
	assert.NotContains(t, got, "Any goggles review?")
}

// =============================================================================
// ASSEMBLER TESTS
// =============================================================================

func TestAssemble_SectionOrder(t *testing.T) {
	out := Assemble("QUESTION-TEXT", "CONTEXT-TEXT", "HISTORY-TEXT")

	for _, s := range []string{"HISTORY-TEXT", "CONTEXT-TEXT", "QUESTION-TEXT"} {
		assert.Equal(t, 1, strings.Count(out, s), "%s must appear exactly once", s)
	}
	h := strings.Index(out, "HISTORY-TEXT")
	c := strings.Index(out, "CONTEXT-TEXT")
	q := strings.Index(out, "QUESTION-TEXT")
	assert.Less(t, h, c)
	assert.Less(t, c, q)
}

func TestAssemble_Delimiters(t *testing.T) {
	out := Assemble("q", "c", "h")

	assert.True(t, strings.HasPrefix(out, "[INST]"))
	assert.True(t, strings.HasSuffix(out, "Answer:"))
	assert.Contains(t, out, "<chat_history>\nh\n</chat_history>")
	assert.Contains(t, out, "<context>\nc\n</context>")
	assert.Contains(t, out, "<question>\nq\n</question>")
}

func TestAssemble_PlaceholdersInValuesAreLiteral(t *testing.T) {
	out := Assemble("what is {dataset_context}?", "ctx", "{user_question}")

	assert.Contains(t, out, "<chat_history>\n{user_question}\n</chat_history>")
	assert.Contains(t, out, "<question>\nwhat is {dataset_context}?\n</question>")
}
