// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groundchat/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func testTranscript() Transcript {
	conv := model.NewConversation()
	conv.AppendUser("Which product has the most shipping delays?")
	conv.AppendAssistant("The **Alpine Tent** has the most delays.")
	return NewTranscript(conv, "llama3-8b")
}

func TestNewTranscript(t *testing.T) {
	tr := testTranscript()
	assert.Equal(t, "Which product has the most shipping delays?", tr.Title)
	assert.Equal(t, "llama3-8b", tr.Model)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, model.RoleUser, tr.Messages[0].Role)
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(testTranscript())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "model: llama3-8b\n")
	assert.Contains(t, md, "exported: 2025-03-14T09:26:53Z")
	assert.Contains(t, md, "### User")
	assert.Contains(t, md, "### Assistant")
	assert.Contains(t, md, "The **Alpine Tent** has the most delays.")
	assert.Less(t, strings.Index(md, "### User"), strings.Index(md, "### Assistant"))
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := testOptions("")
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(testTranscript())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# Which product"))
	assert.NotContains(t, string(out), "<sub>")
}

// Newlines in the title must not inject front matter keys.
func TestMarkdownExport_YAMLInjection(t *testing.T) {
	tr := testTranscript()
	tr.Title = "Test\nmodel: evil"

	out, err := NewMarkdownExporter(testOptions("")).Export(tr)
	require.NoError(t, err)
	assert.Contains(t, string(out), `title: "Test\nmodel: evil"`)
	assert.Equal(t, 1, strings.Count(string(out), "\nmodel: "))
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(testOptions("")).Export(testTranscript())
	require.NoError(t, err)

	var doc struct {
		Model      string          `json:"model"`
		Messages   []model.Message `json:"messages"`
		ExportedAt time.Time       `json:"exported_at"`
		Generator  string          `json:"generator"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "llama3-8b", doc.Model)
	assert.Len(t, doc.Messages, 2)
	assert.True(t, doc.ExportedAt.Equal(fixedNow))
	assert.Equal(t, "groundchat", doc.Generator)
}

func TestExportEmpty(t *testing.T) {
	empty := NewTranscript(model.NewConversation(), "gemma-7b")

	_, err := NewMarkdownExporter(nil).Export(empty)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
	_, err = ExportToFile(empty, NewJSONExporter(nil), testOptions(t.TempDir()))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	exporter, err := ForFormat("json", testOptions(dir))
	require.NoError(t, err)

	path, err := ExportToFile(testTranscript(), exporter, testOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_20250314_092653.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"", "md", "Markdown"} {
		e, err := ForFormat(f, nil)
		require.NoError(t, err)
		assert.Equal(t, ".md", e.FileExtension())
	}
	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":                  "conversation",
		"a/b:c?":            "a-b-c-",
		"what about tents?": "what_about_tents-",
		"tab\there":         "tab_here",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
