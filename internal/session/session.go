// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/groundchat/internal/dataset"
	"github.com/jeranaias/groundchat/internal/model"
)

// =============================================================================
// TURN STATE
// =============================================================================

// State is the position of the session in the turn state machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateProcessing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting_input"
	case StateProcessing:
		return "processing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// State machine errors.
var (
	ErrTurnInProgress = errors.New("a turn is already being processed")
	ErrEmptyQuestion  = errors.New("question is empty")
)

// =============================================================================
// SESSION
// =============================================================================

// Session is the explicit context object for one chat session. It owns the
// settings, the conversation and the dataset snapshot.
//
// Methods are safe to call from a UI goroutine while a turn is in flight.
type Session struct {
	mu sync.Mutex

	id      string
	started time.Time

	settings Settings
	conv     *model.Conversation

	data        *dataset.Dataset
	contextText string
	dataErr     error

	state State
	turns int
}

// New creates an idle session with validated settings.
func New(settings Settings) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		id:          uuid.NewString(),
		started:     time.Now(),
		settings:    settings,
		conv:        model.NewConversation(),
		contextText: dataset.Format(nil),
		state:       StateIdle,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Started returns when the session was created.
func (s *Session) Started() time.Time {
	return s.started
}

// =============================================================================
// SETTINGS CONTROLS
// =============================================================================

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetModel selects an allow-listed completion model.
func (s *Session) SetModel(id string) error {
	info, ok := model.GetModelInfo(id)
	if !ok {
		return validateModel(id)
	}
	s.mu.Lock()
	s.settings.Model = info.ID
	s.mu.Unlock()
	return nil
}

// SetHistoryWindow sets how many prior messages are sent with each question.
func (s *Session) SetHistoryWindow(n int) error {
	if err := validateWindow(n); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings.HistoryWindow = n
	s.mu.Unlock()
	return nil
}

// AdjustHistoryWindow moves the window by delta, clamped to the valid range.
func (s *Session) AdjustHistoryWindow(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.settings.HistoryWindow + delta
	if n < MinHistoryWindow {
		n = MinHistoryWindow
	}
	if n > MaxHistoryWindow {
		n = MaxHistoryWindow
	}
	s.settings.HistoryWindow = n
	return n
}

// SetUseHistory enables or disables sending chat history.
func (s *Session) SetUseHistory(on bool) {
	s.mu.Lock()
	s.settings.UseHistory = on
	s.mu.Unlock()
}

// SetDebug enables or disables prompt inspection.
func (s *Session) SetDebug(on bool) {
	s.mu.Lock()
	s.settings.Debug = on
	s.mu.Unlock()
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Messages returns a copy of the conversation.
func (s *Session) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Messages()
}

// Len returns the number of messages in the conversation.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Len()
}

// Conversation returns the underlying store. Callers must not use it while a
// turn is processing.
func (s *Session) Conversation() *model.Conversation {
	return s.conv
}

// Clear removes every message. It fails while a turn is processing.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return ErrTurnInProgress
	}
	s.conv.Clear()
	s.turns = 0
	return nil
}

// Turns returns how many turns have completed since the last clear.
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}

// =============================================================================
// DATASET CONTEXT
// =============================================================================

// SetContext installs a dataset snapshot. A nil dataset clears it.
func (s *Session) SetContext(ds *dataset.Dataset) {
	text := dataset.Format(ds)
	s.mu.Lock()
	s.data = ds
	s.contextText = text
	s.dataErr = nil
	s.mu.Unlock()
}

// LoadContext fetches the dataset snapshot for table from source. On failure
// the session keeps an empty context, the failure is logged, and the wrapped
// dataset.ErrLoad is returned so the caller can warn the user.
func (s *Session) LoadContext(ctx context.Context, source dataset.Source, table string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ds, err := source.Load(ctx, table)
	if err != nil {
		if !errors.Is(err, dataset.ErrLoad) {
			err = fmt.Errorf("%w: %s: %w", dataset.ErrLoad, table, err)
		}
		logger.Warn("continuing without dataset context", "table", table, "error", err)
		s.SetContext(nil)
		s.mu.Lock()
		s.dataErr = err
		s.mu.Unlock()
		return err
	}
	s.SetContext(ds)
	logger.Info("dataset context loaded", "table", table, "rows", ds.Len(), "columns", len(ds.Columns))
	return nil
}

// Context returns the dataset snapshot, which may be nil.
func (s *Session) Context() *dataset.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// ContextText returns the serialized dataset used in prompts.
func (s *Session) ContextText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextText
}

// ContextError returns the last dataset load failure, if any.
func (s *Session) ContextError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataErr
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// State returns the current turn state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AwaitInput moves an idle session to AwaitingInput. It fails while a turn
// is processing.
func (s *Session) AwaitInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return ErrTurnInProgress
	}
	s.state = StateAwaitingInput
	return nil
}

// begin appends the question and enters Processing. It returns the
// conversation snapshot and settings the turn must use.
func (s *Session) begin(question string) ([]model.Message, Settings, string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, Settings{}, "", ErrEmptyQuestion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateProcessing {
		return nil, Settings{}, "", ErrTurnInProgress
	}
	s.state = StateProcessing
	s.conv.AppendUser(question)
	return s.conv.Messages(), s.settings, s.contextText, nil
}

// finish appends the answer and returns to Idle.
func (s *Session) finish(answer string) model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.conv.AppendAssistant(answer)
	s.turns++
	s.state = StateIdle
	return msg
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a point-in-time summary of the session.
type Status struct {
	ID          string
	Started     time.Time
	Duration    time.Duration
	Settings    Settings
	State       State
	Messages    int
	Turns       int
	ContextRows int
	ContextErr  error
}

// Status returns the current session summary.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:          s.id,
		Started:     s.started,
		Duration:    time.Since(s.started),
		Settings:    s.settings,
		State:       s.state,
		Messages:    s.conv.Len(),
		Turns:       s.turns,
		ContextRows: s.data.Len(),
		ContextErr:  s.dataErr,
	}
}
