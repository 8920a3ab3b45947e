// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

const (
	// ChunkColumn holds the matched text.
	ChunkColumn = "CHUNK"
	// SourceColumn names the document a chunk came from.
	SourceColumn = "file_name"
	// DefaultLimit is the number of results requested when unset.
	DefaultLimit = 3
	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrNotConfigured is returned when no service URL is set.
	ErrNotConfigured = errors.New("search service not configured")
	// ErrEmptyQuery is returned for a blank query string.
	ErrEmptyQuery = errors.New("search query is empty")
)

// ServiceError is a non-2xx answer from the search service.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("search service returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("search service returned HTTP %d: %s", e.Status, e.Message)
}

// =============================================================================
// TYPES
// =============================================================================

// Query is one search request.
type Query struct {
	Text    string   `json:"query"`
	Columns []string `json:"columns"`
	Limit   int      `json:"limit"`
}

// withDefaults fills unset columns and limit.
func (q Query) withDefaults() Query {
	if len(q.Columns) == 0 {
		q.Columns = []string{ChunkColumn, SourceColumn}
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Result is one row returned by the service, keyed by column name.
type Result map[string]any

// Text returns a column as a string, or "" when absent.
func (r Result) Text(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Response is the decoded service answer.
type Response struct {
	Results   []Result `json:"results"`
	RequestID string   `json:"request_id,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the search service.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at url.
func NewClient(url, token string, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimSpace(url),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
		tracer:     otel.Tracer("github.com/jeranaias/groundchat/internal/search"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether a service URL is set.
func (c *Client) IsConfigured() bool {
	return c.url != ""
}

// Search runs q against the service.
func (c *Client) Search(ctx context.Context, q Query) (*Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuery
	}
	q = q.withDefaults()

	ctx, span := c.tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.Int("search.limit", q.Limit),
		attribute.StringSlice("search.columns", q.Columns),
	))
	defer span.End()

	resp, err := c.do(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("search failed", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.results", len(resp.Results)))
	c.logger.Debug("search completed", "results", len(resp.Results), "request_id", resp.RequestID)
	return resp, nil
}

func (c *Client) do(ctx context.Context, q Query) (*Response, error) {
	body, err := sonic.ConfigFastest.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &ServiceError{Status: httpResp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	var out Response
	if err := sonic.ConfigFastest.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &out, nil
}
