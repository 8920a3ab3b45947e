// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "User"},
		{RoleAssistant, "Assistant"},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.role.DisplayName())
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "Hello", msg.Content)
	assert.Len(t, msg.ID, 16)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessage_Line(t *testing.T) {
	assert.Equal(t, "user: Hi", NewUserMessage("Hi").Line())
	assert.Equal(t, "assistant: Hello there", NewAssistantMessage("Hello there").Line())
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("The quick brown fox jumps over the lazy dog")

	assert.Equal(t, "The quick brown fox jumps over the lazy dog", msg.Preview(100))
	assert.Equal(t, "The qui...", msg.Preview(10))
	assert.Equal(t, "", msg.Preview(0))
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation()
	conv.AppendUser("one")
	conv.AppendAssistant("two")
	conv.AppendUser("three")

	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)
	assert.Equal(t, "three", msgs[2].Content)
	assert.Equal(t, 3, conv.Len())
}

func TestConversation_AlternationNotEnforced(t *testing.T) {
	conv := NewConversation()
	conv.AppendUser("first")
	conv.AppendUser("second")

	assert.Equal(t, 2, conv.Len())
}

func TestConversation_MessagesReturnsCopy(t *testing.T) {
	conv := NewConversation()
	conv.AppendUser("original")

	msgs := conv.Messages()
	msgs[0].Content = "tampered"

	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "original", last.Content)
}

func TestConversation_Last(t *testing.T) {
	conv := NewConversation()

	_, ok := conv.Last()
	assert.False(t, ok)

	conv.AppendUser("q")
	conv.AppendAssistant("a")
	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)
}

func TestConversation_Clear(t *testing.T) {
	conv := NewConversation()
	id := conv.ID
	conv.AppendUser("q")
	before := conv.Messages()

	conv.Clear()

	assert.True(t, conv.IsEmpty())
	assert.Equal(t, id, conv.ID)
	assert.Len(t, before, 1, "previously returned copies are unaffected")

	conv.AppendUser("again")
	assert.Equal(t, 1, conv.Len())
}

func TestConversation_Title(t *testing.T) {
	conv := NewConversation()
	assert.Equal(t, "New Conversation", conv.Title())

	conv.AppendUser("Any goggles review?")
	assert.Equal(t, "Any goggles review?", conv.Title())
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestModels_AllowList(t *testing.T) {
	assert.Equal(t, []string{"claude-3-5-sonnet", "mistral-large", "gemma-7b", "llama3-8b"}, ModelIDs())
	assert.Equal(t, "claude-3-5-sonnet", DefaultModel)
}

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"claude-3-5-sonnet", true},
		{"LLAMA3-8B", true},
		{" gemma-7b ", true},
		{"gpt-4o", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAllowed(tc.id))
		})
	}
}

func TestNextModel(t *testing.T) {
	assert.Equal(t, "mistral-large", NextModel("claude-3-5-sonnet"))
	assert.Equal(t, "claude-3-5-sonnet", NextModel("llama3-8b"))
	assert.Equal(t, DefaultModel, NextModel("unknown"))
}
