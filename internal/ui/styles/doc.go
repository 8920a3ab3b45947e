// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the color palette and lipgloss theme shared by the
groundchat REPL and TUI.

All colors are lipgloss.AdaptiveColor values, so light and dark terminals
each get a readable variant. NewTheme detects the background with termenv.

# Colors

  - Purple: assistant messages and selections
  - Cyan: brand, prompts and user messages
  - Emerald: success and enabled toggles
  - Amber: warnings and fallback answers
  - Rose: errors
*/
package styles
