// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jeranaias/groundchat/internal/completion"
)

// MaxPromptLength is the largest prompt forwarded to a backend, in bytes.
const MaxPromptLength = 4 << 20

var (
	// ErrUnknownBackend is returned when a route names an unregistered backend.
	ErrUnknownBackend = errors.New("no backend registered")
	// ErrPromptTooLong is returned when a prompt exceeds MaxPromptLength.
	ErrPromptTooLong = fmt.Errorf("prompt exceeds maximum length of %d bytes", MaxPromptLength)
)

// Factory builds a backend on first use.
type Factory func(ctx context.Context) (completion.Backend, error)

// Static wraps an already-built backend as a Factory.
func Static(b completion.Backend) Factory {
	return func(context.Context) (completion.Backend, error) { return b, nil }
}

// Router sends each model to its backend.
type Router struct {
	mu        sync.Mutex
	fallback  string
	routes    map[string]string
	factories map[string]Factory
	built     map[string]completion.Backend
	logger    *slog.Logger
}

// New creates a router whose unrouted models go to the fallback backend.
func New(fallback string, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		fallback:  fallback,
		routes:    make(map[string]string),
		factories: make(map[string]Factory),
		built:     make(map[string]completion.Backend),
		logger:    logger,
	}
}

// Register adds a named backend.
func (r *Router) Register(name string, f Factory) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.built, name)
	return r
}

// Route sends modelID to the named backend.
func (r *Router) Route(modelID, backend string) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[modelID] = backend
	return r
}

// BackendFor returns the backend name that answers modelID.
func (r *Router) BackendFor(modelID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backendFor(modelID)
}

func (r *Router) backendFor(modelID string) string {
	if name, ok := r.routes[modelID]; ok {
		return name
	}
	return r.fallback
}

// Backends returns the registered backend names, sorted.
func (r *Router) Backends() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the backend for modelID, building it if needed. Build
// failures are not cached.
func (r *Router) Resolve(ctx context.Context, modelID string) (string, completion.Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.backendFor(modelID)
	if b, ok := r.built[name]; ok {
		return name, b, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return name, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b, err := f(ctx)
	if err != nil {
		return name, nil, fmt.Errorf("failed to initialize %s backend: %w", name, err)
	}
	r.built[name] = b
	r.logger.Debug("backend initialized", "backend", name)
	return name, b, nil
}

// Complete implements completion.Backend.
func (r *Router) Complete(ctx context.Context, modelID, prompt string) (completion.ResultSet, error) {
	if len(prompt) > MaxPromptLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrPromptTooLong, len(prompt))
	}
	name, b, err := r.Resolve(ctx, modelID)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("routing completion", "model", modelID, "backend", name, "prompt_bytes", len(prompt))
	return b.Complete(ctx, modelID, prompt)
}
