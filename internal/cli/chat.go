// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/groundchat/internal/config"
	"github.com/jeranaias/groundchat/internal/session"
	"github.com/jeranaias/groundchat/internal/util"
)

// historyFileName is the REPL input history kept in the config directory.
const historyFileName = "chat_history"

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides line editing and input history for the REPL.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeSlash)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{line: line, historyFile: filepath.Join(dir, historyFileName)}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Prompt reads one line. io.EOF is returned on Ctrl+D or Ctrl+C.
func (r *lineReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return input, err
}

// Add appends a line to the history.
func (r *lineReader) Add(input string) {
	r.line.AppendHistory(input)
}

// Close saves the history and restores the terminal.
func (r *lineReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// runChat runs the line-oriented REPL.
func runChat(ctx context.Context, app *App, args Args, out io.Writer) error {
	render := NewRenderer(out)
	sess, err := app.NewSession(ctx, render.Warn)
	if err != nil {
		return err
	}
	runner := app.NewRunner().WithObserver(session.ObserverFunc(func(turn session.Turn, _ session.Settings) {
		render.Prompt(turn)
	}))
	slash := newSlashHandler(sess, out, args.Format, args.Output)

	if !args.Quiet {
		printBanner(out, sess)
		for _, w := range app.Config.Warnings() {
			render.Warn(errors.New(w))
		}
	}

	reader := newLineReader()
	defer reader.Close()

	for {
		if err := sess.AwaitInput(); err != nil {
			return err
		}
		input, err := reader.Prompt("you> ")
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		reader.Add(input)

		if strings.HasPrefix(input, "/") {
			if slash.Handle(input) {
				break
			}
			continue
		}

		turn, err := runner.Submit(ctx, sess, input)
		if err != nil {
			render.Warn(err)
			continue
		}
		app.Record(turn)
		render.Answer(turn)
		fmt.Fprintln(out)
		if ctx.Err() != nil {
			break
		}
	}

	if !args.Quiet {
		printSummary(out, app)
	}
	return nil
}

func printBanner(out io.Writer, sess *session.Session) {
	st := sess.Status()
	fmt.Fprintln(out, TitleStyle.Render("groundchat "+Version))
	rows := fmt.Sprintf("%d rows", st.ContextRows)
	if st.ContextErr != nil {
		rows = "none"
	}
	fmt.Fprintln(out, DimStyle.Render(fmt.Sprintf("model %s | window %d | context %s | /help for commands",
		st.Settings.Model, st.Settings.HistoryWindow, rows)))
	fmt.Fprintln(out)
}

// printSummary prints per-model turn statistics.
func printSummary(out io.Writer, app *App) {
	snap := app.Stats.Snapshot()
	if len(snap) == 0 {
		return
	}
	fmt.Fprintln(out, TitleStyle.Render("Session summary"))
	for _, m := range snap {
		fmt.Fprintf(out, "  %s  %d turns, %d fallbacks, avg %s\n",
			util.PadRight(m.Model, 18), m.Turns, m.Fallbacks, util.FormatDuration(m.Average()))
	}
	fmt.Fprintln(out, DimStyle.Render("  duration "+util.FormatDuration(app.Stats.Uptime())))
}
