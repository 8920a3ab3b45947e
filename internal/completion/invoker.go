// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fallback texts shown to the user in place of a completion.
const (
	NoResponse    = "Sorry, received no response from the model."
	ErrorResponse = "Sorry, I encountered an error trying to generate a response."
)

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome classifies how an invocation ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeEmpty
	OutcomeError
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one invocation. Text is always user-presentable.
type Result struct {
	Text     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Fallback reports whether Text is one of the fallback strings.
func (r Result) Fallback() bool {
	return r.Outcome != OutcomeOK
}

// =============================================================================
// INVOKER
// =============================================================================

// Invoker sends one prompt to a Backend and converts failures to fallbacks.
type Invoker struct {
	backend Backend
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewInvoker creates an invoker. A nil logger uses slog.Default().
func NewInvoker(backend Backend, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		backend: backend,
		logger:  logger,
		tracer:  otel.Tracer("github.com/jeranaias/groundchat/internal/completion"),
	}
}

// Backend returns the wrapped backend.
func (i *Invoker) Backend() Backend {
	return i.backend
}

// Invoke makes exactly one call to the backend. It never returns an error:
// a raised failure yields ErrorResponse and an empty result yields NoResponse.
func (i *Invoker) Invoke(ctx context.Context, modelID, prompt string) Result {
	ctx, span := i.tracer.Start(ctx, "completion.Invoke", trace.WithAttributes(
		attribute.String("model", modelID),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	rows, err := i.backend.Complete(ctx, modelID, prompt)
	res := Result{Duration: time.Since(start)}

	if err != nil {
		res.Text = ErrorResponse
		res.Outcome = OutcomeError
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		i.logger.Error("completion failed", "model", modelID, "duration", res.Duration, "error", err)
		return res
	}

	text, ok := FirstText(rows)
	if !ok {
		res.Text = NoResponse
		res.Outcome = OutcomeEmpty
		span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
		i.logger.Warn("completion returned no text", "model", modelID, "rows", len(rows), "duration", res.Duration)
		return res
	}

	res.Text = text
	res.Outcome = OutcomeOK
	span.SetAttributes(
		attribute.String("outcome", res.Outcome.String()),
		attribute.Int("response.length", len(text)),
	)
	i.logger.Debug("completion succeeded", "model", modelID, "duration", res.Duration, "chars", len(text))
	return res
}

// FirstText extracts the first column of the first row as text. It returns
// false for an empty result, an empty first row, NULL, or blank text.
func FirstText(rows ResultSet) (string, bool) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", false
	}
	var text string
	switch v := rows[0][0].(type) {
	case nil:
		return "", false
	case string:
		text = v
	case []byte:
		text = string(v)
	case *string:
		if v == nil {
			return "", false
		}
		text = *v
	case fmt.Stringer:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
