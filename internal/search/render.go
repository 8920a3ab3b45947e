// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
)

var (
	chunkStyle   = lipgloss.NewStyle().Bold(true)
	captionStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// JSON returns the response as indented JSON.
func (r *Response) JSON() (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode search response: %w", err)
	}
	return string(data), nil
}

// Render writes each result as a bold chunk, a source caption and a
// separator line.
func (r *Response) Render(w io.Writer, chunkCol, sourceCol string) error {
	if r == nil || len(r.Results) == 0 {
		_, err := fmt.Fprintln(w, captionStyle.Render("No results."))
		return err
	}
	for _, res := range r.Results {
		var b strings.Builder
		b.WriteString(chunkStyle.Render(res.Text(chunkCol)))
		b.WriteString("\n")
		if src := res.Text(sourceCol); src != "" {
			b.WriteString(captionStyle.Render("Source: " + src))
			b.WriteString("\n")
		}
		b.WriteString("---\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// HighlightJSON colorizes JSON text for a 256-color terminal. The input is
// returned unchanged if highlighting fails.
func HighlightJSON(text string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return text
	}
	return buf.String()
}
