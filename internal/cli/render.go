// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/groundchat/internal/completion"
	"github.com/jeranaias/groundchat/internal/session"
)

// Renderer prints assistant answers. Markdown is rendered with glamour only
// when the output is a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// NewRenderer creates a renderer for out.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if !isTerminalWriter(out) {
		return r
	}
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err == nil {
		r.markdown = md
	}
	return r
}

// Markdown renders text, or returns it unchanged for non-terminals.
func (r *Renderer) Markdown(text string) string {
	if r.markdown == nil {
		return text
	}
	out, err := r.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Answer prints the assistant reply for a turn.
func (r *Renderer) Answer(turn session.Turn) {
	fmt.Fprintln(r.out, assistantStyle.Render(turn.Answer.Role.DisplayName()+":"))
	if turn.Outcome != completion.OutcomeOK {
		fmt.Fprintln(r.out, fallbackStyle.Render(turn.Answer.Content))
		return
	}
	fmt.Fprintln(r.out, r.Markdown(turn.Answer.Content))
}

// Prompt prints the generated prompt for debug mode.
func (r *Renderer) Prompt(turn session.Turn) {
	fmt.Fprintln(r.out, DimStyle.Render("--- prompt ("+turn.Model+") ---"))
	fmt.Fprintln(r.out, DimStyle.Render(turn.Prompt))
	fmt.Fprintln(r.out, DimStyle.Render("--- end prompt ---"))
}

// Warn prints a warning line.
func (r *Renderer) Warn(err error) {
	fmt.Fprintln(r.out, WarningStyle.Render("Warning: ")+err.Error())
}
