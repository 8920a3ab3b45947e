// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jeranaias/groundchat/internal/completion"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/prompt"
)

// Turn records everything that went into and came out of one question.
type Turn struct {
	Question string
	Model    string
	History  string
	Context  string
	Prompt   string
	Answer   model.Message
	Outcome  completion.Outcome
	Err      error
	Duration time.Duration
}

// PromptObserver receives the assembled prompt before it is sent. It is
// only called when the session has debug enabled.
type PromptObserver interface {
	ObservePrompt(turn Turn, settings Settings)
}

// ObserverFunc adapts a function to PromptObserver.
type ObserverFunc func(turn Turn, settings Settings)

// ObservePrompt calls f.
func (f ObserverFunc) ObservePrompt(turn Turn, settings Settings) {
	f(turn, settings)
}

// Runner executes chat turns against a session.
type Runner struct {
	invoker  *completion.Invoker
	logger   *slog.Logger
	tracer   trace.Tracer
	observer PromptObserver
}

// NewRunner creates a runner. A nil logger uses slog.Default().
func NewRunner(invoker *completion.Invoker, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		invoker: invoker,
		logger:  logger,
		tracer:  otel.Tracer("github.com/jeranaias/groundchat/internal/session"),
	}
}

// WithObserver sets the debug prompt observer.
func (r *Runner) WithObserver(o PromptObserver) *Runner {
	r.observer = o
	return r
}

// Submit runs one turn: the question is appended before anything else, then
// the prompt is built from the history window and the dataset context and
// sent once to the completion backend. The answer, or a fallback text, is
// appended and the session returns to Idle.
//
// The only errors are ErrEmptyQuestion and ErrTurnInProgress, both returned
// before the conversation is touched.
func (r *Runner) Submit(ctx context.Context, sess *Session, question string) (Turn, error) {
	messages, settings, contextText, err := sess.begin(question)
	if err != nil {
		return Turn{}, err
	}

	ctx, span := r.tracer.Start(ctx, "session.Submit", trace.WithAttributes(
		attribute.String("session.id", sess.ID()),
		attribute.String("model", settings.Model),
		attribute.Int("history.window", settings.HistoryWindow),
		attribute.Bool("history.enabled", settings.UseHistory),
	))
	defer span.End()

	start := time.Now()
	turn := Turn{
		Question: question,
		Model:    settings.Model,
		History:  prompt.History(messages, settings.HistoryWindow, settings.UseHistory),
		Context:  contextText,
	}
	turn.Prompt = prompt.Assemble(question, turn.Context, turn.History)

	if settings.Debug && r.observer != nil {
		r.observer.ObservePrompt(turn, settings)
	}
	r.logger.Debug("submitting turn",
		"session", sess.ID(),
		"model", settings.Model,
		"messages", len(messages),
		"prompt_chars", len(turn.Prompt),
	)

	res := r.invoker.Invoke(ctx, settings.Model, turn.Prompt)
	turn.Outcome = res.Outcome
	turn.Err = res.Err
	turn.Answer = sess.finish(res.Text)
	turn.Duration = time.Since(start)

	span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
	r.logger.Info("turn complete",
		"session", sess.ID(),
		"model", settings.Model,
		"outcome", res.Outcome.String(),
		"duration", turn.Duration,
	)
	return turn, nil
}
