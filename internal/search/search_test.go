// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_SendsDefaults(t *testing.T) {
	var got Query
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"CHUNK":"Tents sleep four.","file_name":"tents.pdf"}],"request_id":"req-1"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "tok").Search(context.Background(), Query{Text: "tents"})
	require.NoError(t, err)

	want := Query{Text: "tents", Columns: []string{ChunkColumn, SourceColumn}, Limit: DefaultLimit}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Tents sleep four.", resp.Results[0].Text(ChunkColumn))
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestSearch_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "x").Search(context.Background(), Query{Text: "q"})
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusUnauthorized, svcErr.Status)
	assert.Contains(t, svcErr.Error(), "bad token")
}

func TestSearch_Validation(t *testing.T) {
	_, err := NewClient("", "").Search(context.Background(), Query{Text: "q"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("http://localhost", "").Search(context.Background(), Query{Text: "  "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestResponse_Render(t *testing.T) {
	resp := &Response{Results: []Result{
		{"CHUNK": "first", "file_name": "a.pdf"},
		{"CHUNK": "second"},
	}}
	var buf bytes.Buffer
	require.NoError(t, resp.Render(&buf, ChunkColumn, SourceColumn))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "---"))
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "Source: a.pdf")
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestResponse_RenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Response{}).Render(&buf, ChunkColumn, SourceColumn))
	assert.Contains(t, buf.String(), "No results.")
}

func TestResponse_JSON(t *testing.T) {
	resp := &Response{Results: []Result{{"CHUNK": "c"}}, RequestID: "r"}
	text, err := resp.JSON()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &back))
	assert.Equal(t, "r", back["request_id"])
	assert.Contains(t, HighlightJSON(text), "request_id")
}

func TestResult_TextNonString(t *testing.T) {
	r := Result{"score": 0.5, "missing": nil}
	assert.Equal(t, "0.5", r.Text("score"))
	assert.Equal(t, "", r.Text("missing"))
	assert.Equal(t, "", r.Text("absent"))
}
