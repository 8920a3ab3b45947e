// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the prompt pipeline,
// the session runner and the user interfaces.
//
// # Key Types
//
//   - Conversation: ordered, append-only store of messages for one session
//   - Message: immutable role-tagged message value
//   - ModelInfo: entry in the completion model allow-list
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AppendUser("Any goggles review?")
//	for _, msg := range conv.Messages() {
//	    fmt.Printf("%s: %s\n", msg.Role, msg.Content)
//	}
//
// Messages are handed out by value. Mutating a returned slice never changes
// the stored conversation.
package model
