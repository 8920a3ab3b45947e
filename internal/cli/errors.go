// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/groundchat/internal/config"
	"github.com/jeranaias/groundchat/internal/search"
	"github.com/jeranaias/groundchat/internal/warehouse"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration failure, including an
	// unreachable warehouse
	ExitConfigError = 3
	// ExitNetworkError indicates a remote service failure
	ExitNetworkError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports invalid arguments.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// usageErrorf builds a UsageError.
func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "data", "search")
	Action  string // Action being performed (e.g., "import")
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usage *UsageError
	var invalid config.ValidateErrors
	var svc *search.ServiceError
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.Is(err, warehouse.ErrNoConnection), errors.As(err, &invalid):
		return ExitConfigError
	case errors.Is(err, errConfigLoad), errors.Is(err, search.ErrNotConfigured):
		return ExitConfigError
	case errors.As(err, &svc):
		return ExitNetworkError
	}
	return ExitGeneralError
}

// errConfigLoad marks failures reading or parsing the config file.
var errConfigLoad = errors.New("configuration error")
