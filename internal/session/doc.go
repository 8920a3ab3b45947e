// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the state of one chat session and runs its turns.
//
// A Session is the single owner of the chat settings, the conversation and
// the dataset snapshot. User-facing controls change it only through its
// methods. A Runner drives one turn at a time through the pipeline:
//
//	append question -> select history -> format context -> assemble prompt
//	-> (debug: observe prompt) -> invoke completion -> append answer
//
// # Turn States
//
//	Idle -> AwaitingInput -> Processing -> Idle
//
// A submitted turn always runs to completion. Completion failures become
// fallback answers, so the conversation never stops on its own.
//
// # Usage
//
//	sess, err := session.New(session.DefaultSettings())
//	if err != nil {
//	    return err
//	}
//	sess.LoadContext(ctx, source, "REVIEWS")
//	runner := session.NewRunner(completion.NewInvoker(backend, logger), logger)
//	turn, err := runner.Submit(ctx, sess, "Any goggles review?")
package session
