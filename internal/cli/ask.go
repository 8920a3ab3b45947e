// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeranaias/groundchat/internal/session"
)

// askOutput is the --json form of an answer.
type askOutput struct {
	Model       string `json:"model"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Outcome     string `json:"outcome"`
	DurationMS  int64  `json:"duration_ms"`
	ContextRows int    `json:"context_rows"`
	Prompt      string `json:"prompt,omitempty"`
}

// runAsk answers one question against a fresh session.
func runAsk(ctx context.Context, app *App, args Args, out io.Writer) error {
	question := args.Query()
	if question == "" {
		return usageErrorf("ask requires a question")
	}

	render := NewRenderer(out)
	warn := render.Warn
	if args.JSON || args.Quiet {
		warn = nil
	}
	sess, err := app.NewSession(ctx, warn)
	if err != nil {
		return err
	}

	runner := app.NewRunner()
	if !args.JSON {
		runner.WithObserver(session.ObserverFunc(func(turn session.Turn, _ session.Settings) {
			render.Prompt(turn)
		}))
	}

	turn, err := runner.Submit(ctx, sess, question)
	if err != nil {
		return usageErrorf("%v", err)
	}
	app.Record(turn)

	switch {
	case args.JSON:
		res := askOutput{
			Model:       turn.Model,
			Question:    turn.Question,
			Answer:      turn.Answer.Content,
			Outcome:     turn.Outcome.String(),
			DurationMS:  turn.Duration.Milliseconds(),
			ContextRows: sess.Status().ContextRows,
		}
		if sess.Settings().Debug {
			res.Prompt = turn.Prompt
		}
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case args.Quiet:
		fmt.Fprintln(out, turn.Answer.Content)
	default:
		render.Answer(turn)
	}
	return nil
}
