// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/groundchat/internal/completion"
	"github.com/jeranaias/groundchat/internal/dataset"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/prompt"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	sess, err := New(DefaultSettings())
	require.NoError(t, err)
	return sess
}

func newRunner(backend completion.Backend) *Runner {
	return NewRunner(completion.NewInvoker(backend, nil), nil)
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, model.DefaultModel, s.Model)
	assert.Equal(t, 5, s.HistoryWindow)
	assert.True(t, s.UseHistory)
	assert.False(t, s.Debug)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"unknown model", func(s *Settings) { s.Model = "gpt-4o" }, ErrUnknownModel},
		{"window zero", func(s *Settings) { s.HistoryWindow = 0 }, ErrWindowOutOfRange},
		{"window too large", func(s *Settings) { s.HistoryWindow = 26 }, ErrWindowOutOfRange},
		{"window max", func(s *Settings) { s.HistoryWindow = 25 }, nil},
		{"window min", func(s *Settings) { s.HistoryWindow = 1 }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestSession_Controls(t *testing.T) {
	sess := newSession(t)

	require.NoError(t, sess.SetModel("LLAMA3-8B"))
	assert.Equal(t, "llama3-8b", sess.Settings().Model)
	assert.ErrorIs(t, sess.SetModel("unknown"), ErrUnknownModel)

	require.NoError(t, sess.SetHistoryWindow(25))
	assert.ErrorIs(t, sess.SetHistoryWindow(26), ErrWindowOutOfRange)
	assert.Equal(t, 25, sess.Settings().HistoryWindow)

	assert.Equal(t, 25, sess.AdjustHistoryWindow(+1))
	assert.Equal(t, 24, sess.AdjustHistoryWindow(-1))
	assert.Equal(t, 1, sess.AdjustHistoryWindow(-100))

	sess.SetUseHistory(false)
	sess.SetDebug(true)
	s := sess.Settings()
	assert.False(t, s.UseHistory)
	assert.True(t, s.Debug)
}

// =============================================================================
// TURN TESTS
// =============================================================================

func TestSubmit_EndToEndHistory(t *testing.T) {
	sess := newSession(t)
	sess.Conversation().AppendUser("Hi")

	backend := &completion.Static{Result: completion.TextResult("Mostly about fogging.")}
	turn, err := newRunner(backend).Submit(context.Background(), sess, "Any goggles review?")
	require.NoError(t, err)

	assert.Contains(t, turn.History, "user: Hi")
	assert.NotContains(t, turn.History, "Any goggles review?")
	assert.Contains(t, turn.Prompt, "<question>\nAny goggles review?\n</question>")
	assert.Equal(t, turn.Prompt, backend.LastPrompt)
	assert.Equal(t, model.DefaultModel, backend.LastModel)

	msgs := sess.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "Any goggles review?", msgs[1].Content)
	assert.Equal(t, model.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "Mostly about fogging.", msgs[2].Content)
	assert.Equal(t, StateIdle, sess.State())
	assert.Equal(t, 1, sess.Turns())
}

func TestSubmit_FirstTurnHasNoHistory(t *testing.T) {
	sess := newSession(t)
	turn, err := newRunner(&completion.Static{Result: completion.TextResult("hi")}).
		Submit(context.Background(), sess, "hello")
	require.NoError(t, err)

	assert.Equal(t, prompt.NoHistory, turn.History)
}

func TestSubmit_HistoryDisabled(t *testing.T) {
	sess := newSession(t)
	sess.Conversation().AppendUser("earlier")
	sess.SetUseHistory(false)

	turn, err := newRunner(&completion.Static{Result: completion.TextResult("x")}).
		Submit(context.Background(), sess, "now")
	require.NoError(t, err)

	assert.Equal(t, prompt.HistoryDisabled, turn.History)
}

func TestSubmit_FallbacksKeepConversationGoing(t *testing.T) {
	sess := newSession(t)

	turn, err := newRunner(&completion.Static{Err: errors.New("boom")}).
		Submit(context.Background(), sess, "first")
	require.NoError(t, err)
	assert.Equal(t, completion.ErrorResponse, turn.Answer.Content)
	assert.Equal(t, completion.OutcomeError, turn.Outcome)

	turn, err = newRunner(&completion.Static{}).Submit(context.Background(), sess, "second")
	require.NoError(t, err)
	assert.Equal(t, completion.NoResponse, turn.Answer.Content)

	assert.Equal(t, 4, sess.Len())
	assert.Equal(t, StateIdle, sess.State())
}

func TestSubmit_EmptyQuestion(t *testing.T) {
	sess := newSession(t)
	_, err := newRunner(&completion.Static{}).Submit(context.Background(), sess, "   ")

	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Equal(t, 0, sess.Len())
}

func TestSubmit_QuestionAppendedBeforeCompletion(t *testing.T) {
	sess := newSession(t)
	var seen []model.Message
	backend := completion.Func(func(context.Context, string, string) (completion.ResultSet, error) {
		seen = sess.Messages()
		assert.Equal(t, StateProcessing, sess.State())
		return completion.TextResult("ok"), nil
	})

	_, err := newRunner(backend).Submit(context.Background(), sess, "q")
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, "q", seen[0].Content)
}

func TestSubmit_RejectsConcurrentTurn(t *testing.T) {
	sess := newSession(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := completion.Func(func(context.Context, string, string) (completion.ResultSet, error) {
		close(entered)
		<-release
		return completion.TextResult("done"), nil
	})
	runner := newRunner(backend)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Submit(context.Background(), sess, "first")
		done <- err
	}()
	<-entered

	_, err := runner.Submit(context.Background(), sess, "second")
	assert.ErrorIs(t, err, ErrTurnInProgress)
	assert.ErrorIs(t, sess.Clear(), ErrTurnInProgress)
	assert.ErrorIs(t, sess.AwaitInput(), ErrTurnInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 2, sess.Len())
}

func TestSubmit_DebugObserver(t *testing.T) {
	sess := newSession(t)
	var observed []Turn
	runner := newRunner(&completion.Static{Result: completion.TextResult("a")}).
		WithObserver(ObserverFunc(func(turn Turn, _ Settings) {
			observed = append(observed, turn)
		}))

	_, err := runner.Submit(context.Background(), sess, "not observed")
	require.NoError(t, err)
	assert.Empty(t, observed)

	sess.SetDebug(true)
	turn, err := runner.Submit(context.Background(), sess, "observed")
	require.NoError(t, err)
	require.Len(t, observed, 1)
	assert.Equal(t, turn.Prompt, observed[0].Prompt)
	assert.Empty(t, observed[0].Answer.Content, "observer runs before the completion")
}

func TestSubmit_UsesSelectedModel(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.SetModel("mistral-large"))
	backend := &completion.Static{Result: completion.TextResult("a")}

	turn, err := newRunner(backend).Submit(context.Background(), sess, "q")
	require.NoError(t, err)
	assert.Equal(t, "mistral-large", backend.LastModel)
	assert.Equal(t, "mistral-large", turn.Model)
}

// =============================================================================
// STATE AND CONTEXT TESTS
// =============================================================================

func TestSession_StateTransitions(t *testing.T) {
	sess := newSession(t)
	assert.Equal(t, StateIdle, sess.State())

	require.NoError(t, sess.AwaitInput())
	assert.Equal(t, StateAwaitingInput, sess.State())

	_, err := newRunner(&completion.Static{Result: completion.TextResult("a")}).
		Submit(context.Background(), sess, "q")
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State())
}

func TestSession_Clear(t *testing.T) {
	sess := newSession(t)
	_, err := newRunner(&completion.Static{Result: completion.TextResult("a")}).
		Submit(context.Background(), sess, "q")
	require.NoError(t, err)

	require.NoError(t, sess.Clear())
	assert.Equal(t, 0, sess.Len())
	assert.Equal(t, 0, sess.Turns())
}

func TestSession_ContextInPrompt(t *testing.T) {
	sess := newSession(t)
	sess.SetContext(dataset.New([]string{"PRODUCT"}, [][]string{{"Goggles"}}))
	backend := &completion.Static{Result: completion.TextResult("a")}

	turn, err := newRunner(backend).Submit(context.Background(), sess, "q")
	require.NoError(t, err)
	assert.Contains(t, turn.Context, "Goggles")
	assert.Contains(t, backend.LastPrompt, "Goggles")
}

func TestSession_LoadContextFailureUsesSentinel(t *testing.T) {
	sess := newSession(t)
	sess.SetContext(dataset.New([]string{"A"}, [][]string{{"stale"}}))
	src := dataset.SourceFunc(func(context.Context, string) (*dataset.Dataset, error) {
		return nil, errors.New("unreachable")
	})

	err := sess.LoadContext(context.Background(), src, "REVIEWS", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrLoad)
	assert.ErrorIs(t, sess.ContextError(), dataset.ErrLoad)
	assert.Equal(t, dataset.NoContext, sess.ContextText())

	turn, err := newRunner(&completion.Static{Result: completion.TextResult("a")}).
		Submit(context.Background(), sess, "q")
	require.NoError(t, err)
	assert.Equal(t, dataset.NoContext, turn.Context)
}

func TestSession_LoadContext(t *testing.T) {
	sess := newSession(t)
	ds := dataset.New([]string{"A"}, [][]string{{"1"}, {"2"}})

	require.NoError(t, sess.LoadContext(context.Background(), dataset.Static{Data: ds}, "T", nil))
	assert.Equal(t, 2, sess.Context().Len())
	assert.NoError(t, sess.ContextError())
	assert.Equal(t, 2, sess.Status().ContextRows)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_input", StateAwaitingInput.String())
	assert.Equal(t, "processing", StateProcessing.String())
}
