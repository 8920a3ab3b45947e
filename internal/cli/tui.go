// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/groundchat/internal/ui/chat"
	"github.com/jeranaias/groundchat/internal/ui/styles"
)

// runTUI starts the full-screen chat. A dataset load failure is shown in the
// header instead of being printed.
func runTUI(ctx context.Context, app *App) error {
	sess, err := app.NewSession(ctx, nil)
	if err != nil {
		return err
	}

	m := chat.New(ctx, styles.NewTheme(), sess, app.NewRunner()).
		WithLogger(app.Logger).
		WithRecorder(app.Record)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
