// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/groundchat/internal/completion"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/session"
	"github.com/jeranaias/groundchat/internal/ui/styles"
)

const (
	sidebarWidth  = 36
	headerHeight  = 1
	footerHeight  = 4
	minViewWidth  = 20
	minViewHeight = 3
)

// =============================================================================
// MESSAGES
// =============================================================================

// turnDoneMsg carries the result of an asynchronous Submit.
type turnDoneMsg struct {
	turn session.Turn
	err  error
}

// pendingPrompt holds the prompt of the turn in flight. The runner writes it
// from the submit goroutine; the view reads it while the model is busy.
type pendingPrompt struct {
	mu     sync.Mutex
	prompt string
}

func (p *pendingPrompt) observe(turn session.Turn, _ session.Settings) {
	p.mu.Lock()
	p.prompt = turn.Prompt
	p.mu.Unlock()
}

func (p *pendingPrompt) get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompt
}

func (p *pendingPrompt) reset() {
	p.mu.Lock()
	p.prompt = ""
	p.mu.Unlock()
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// TurnRecorder receives every completed turn.
type TurnRecorder func(turn session.Turn)

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx    context.Context
	theme  *styles.Theme
	keys   KeyMap
	sess   *session.Session
	runner *session.Runner
	logger *slog.Logger
	record TurnRecorder

	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	busy     bool
	pending  *pendingPrompt
	lastTurn *session.Turn
	status   string
	err      error
}

// New creates a chat model over sess. Questions are answered by runner, and
// the model registers itself as the runner's prompt observer so debug mode
// shows the prompt while the request is in flight.
func New(ctx context.Context, theme *styles.Theme, sess *session.Session, runner *session.Runner) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = "Ask about the data..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	m := Model{
		ctx:      ctx,
		theme:    theme,
		keys:     DefaultKeyMap(),
		sess:     sess,
		runner:   runner,
		logger:   slog.Default(),
		viewport: vp,
		input:    ti,
		spinner:  sp,
		pending:  &pendingPrompt{},
	}
	if runner != nil {
		runner.WithObserver(session.ObserverFunc(m.pending.observe))
	}
	_ = sess.AwaitInput()
	m.renderer = newRenderer(theme, vp.Width)
	m.refresh()
	return m
}

// WithLogger sets the logger.
func (m Model) WithLogger(logger *slog.Logger) Model {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithRecorder sets a callback for completed turns.
func (m Model) WithRecorder(r TurnRecorder) Model {
	m.record = r
	return m
}

// Session returns the underlying session.
func (m Model) Session() *session.Session {
	return m.sess
}

// Busy reports whether a turn is in flight.
func (m Model) Busy() bool {
	return m.busy
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnDoneMsg:
		m.busy = false
		m.pending.reset()
		_ = m.sess.AwaitInput()
		if msg.err != nil {
			m.err = msg.err
			m.refresh()
			return m, nil
		}
		turn := msg.turn
		m.lastTurn = &turn
		m.err = nil
		m.status = fmt.Sprintf("%s answered in %s", turn.Model, turn.Duration.Round(time.Millisecond))
		if turn.Outcome != completion.OutcomeOK {
			m.status = fmt.Sprintf("%s: fallback (%s)", turn.Model, turn.Outcome)
		}
		if m.record != nil {
			m.record(turn)
		}
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.busy {
			return m, nil
		}
		question := m.input.Value()
		if len(question) == 0 {
			return m, nil
		}
		m.input.Reset()
		m.pending.reset()
		m.busy = true
		m.err = nil
		m.status = "thinking..."
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.submitCmd(question))

	case key.Matches(msg, m.keys.Clear):
		if err := m.sess.Clear(); err != nil {
			m.err = err
		} else {
			m.lastTurn = nil
			m.err = nil
			m.status = "conversation cleared"
			_ = m.sess.AwaitInput()
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Debug):
		on := !m.sess.Settings().Debug
		m.sess.SetDebug(on)
		m.status = "debug " + onOff(on)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.History):
		on := !m.sess.Settings().UseHistory
		m.sess.SetUseHistory(on)
		m.status = "history " + onOff(on)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.NextModel):
		next := model.NextModel(m.sess.Settings().Model)
		if err := m.sess.SetModel(next); err != nil {
			m.err = err
		} else {
			m.status = "model " + next
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.WindowUp, m.keys.WindowDown) && m.input.Value() == "":
		delta := 1
		if key.Matches(msg, m.keys.WindowDown) {
			delta = -1
		}
		n := m.sess.AdjustHistoryWindow(delta)
		m.status = fmt.Sprintf("history window %d", n)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitCmd runs one turn off the UI goroutine.
func (m Model) submitCmd(question string) tea.Cmd {
	ctx, sess, runner, logger := m.ctx, m.sess, m.runner, m.logger
	return func() tea.Msg {
		turn, err := runner.Submit(ctx, sess, question)
		if err != nil && !errors.Is(err, session.ErrEmptyQuestion) {
			logger.Warn("submit rejected", "error", err)
		}
		return turnDoneMsg{turn: turn, err: err}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = max(minViewWidth, width-sidebarWidth-1)
	m.viewport.Height = max(minViewHeight, height-headerHeight-footerHeight)
	m.input.Width = max(minViewWidth, width-4)
	m.renderer = newRenderer(m.theme, m.viewport.Width-2)
	m.refresh()
}

// refresh re-renders the conversation into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderConversation())
}

func newRenderer(theme *styles.Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(minViewWidth, width)),
	)
	if err != nil {
		return nil
	}
	return r
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
