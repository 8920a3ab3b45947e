// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen Bubble Tea chat view.

The view wraps a session.Session and a session.Runner. Each submitted
question runs as a tea.Cmd so the spinner keeps animating while the
completion backend works; the answer arrives as a turnDoneMsg.

# Layout

	+-----------------------------------------+------------+
	| header: title, model, dataset rows       |            |
	+-----------------------------------------+  sidebar   |
	| viewport: conversation (glamour)         |  controls  |
	|                                          |  [prompt]  |
	+-----------------------------------------+------------+
	| > input                                              |
	| status bar                                           |
	+------------------------------------------------------+

# Key Bindings

  - Enter: submit the question
  - Ctrl+L: clear the conversation
  - Ctrl+D: toggle the debug prompt view
  - Ctrl+H: toggle chat history
  - Ctrl+N: cycle the model
  - +/-: grow or shrink the history window (input empty)
  - PgUp/PgDn: scroll
  - Ctrl+C: quit
*/
package chat
