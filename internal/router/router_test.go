// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groundchat/internal/completion"
)

func echo(name string) completion.Backend {
	return completion.Func(func(_ context.Context, modelID, _ string) (completion.ResultSet, error) {
		return completion.TextResult(name + ":" + modelID), nil
	})
}

func TestRouter_RoutesByModel(t *testing.T) {
	r := New("warehouse", nil).
		Register("warehouse", Static(echo("warehouse"))).
		Register("ollama", Static(echo("ollama"))).
		Route("llama3-8b", "ollama")

	rows, err := r.Complete(context.Background(), "llama3-8b", "p")
	require.NoError(t, err)
	assert.Equal(t, completion.TextResult("ollama:llama3-8b"), rows)

	rows, err = r.Complete(context.Background(), "gemma-7b", "p")
	require.NoError(t, err)
	assert.Equal(t, completion.TextResult("warehouse:gemma-7b"), rows)

	assert.Equal(t, "ollama", r.BackendFor("llama3-8b"))
	assert.Equal(t, []string{"ollama", "warehouse"}, r.Backends())
}

func TestRouter_LazyBuildOnce(t *testing.T) {
	builds := 0
	r := New("cloud", nil).Register("cloud", func(context.Context) (completion.Backend, error) {
		builds++
		return echo("cloud"), nil
	})
	assert.Equal(t, 0, builds)

	for i := 0; i < 3; i++ {
		_, err := r.Complete(context.Background(), "mistral-large", "p")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
}

func TestRouter_BuildFailureBecomesFallback(t *testing.T) {
	errNoKey := errors.New("no key")
	r := New("anthropic", nil).Register("anthropic", func(context.Context) (completion.Backend, error) {
		return nil, errNoKey
	})

	_, err := r.Complete(context.Background(), "claude-3-5-sonnet", "p")
	assert.ErrorIs(t, err, errNoKey)

	res := completion.NewInvoker(r, nil).Invoke(context.Background(), "claude-3-5-sonnet", "p")
	assert.Equal(t, completion.ErrorResponse, res.Text)
}

func TestRouter_UnknownBackend(t *testing.T) {
	r := New("gemini", nil)
	_, err := r.Complete(context.Background(), "gemma-7b", "p")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestRouter_PromptTooLong(t *testing.T) {
	called := false
	r := New("w", nil).Register("w", Static(completion.Func(func(context.Context, string, string) (completion.ResultSet, error) {
		called = true
		return nil, nil
	})))

	_, err := r.Complete(context.Background(), "m", strings.Repeat("x", MaxPromptLength+1))
	assert.ErrorIs(t, err, ErrPromptTooLong)
	assert.False(t, called)
}
