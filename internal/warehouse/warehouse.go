// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/groundchat/internal/dataset"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoConnection means the warehouse could not be opened or reached.
	ErrNoConnection = errors.New("no active warehouse connection")

	// ErrInvalidIdentifier rejects table or column names that are not plain
	// (optionally dotted) SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)

// NullText is how NULL cells appear in a loaded dataset.
const NullText = "NULL"

// DefaultCompleteQuery calls the warehouse-hosted completion function.
const DefaultCompleteQuery = "SELECT snowflake.cortex.complete(?, ?)"

var (
	identPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)
	columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
)

// ValidateIdentifier checks a possibly qualified table name such as
// DB.SCHEMA.TABLE.
func ValidateIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds warehouse connection settings.
type Config struct {
	// Driver is the database/sql driver name (default: sqlite)
	Driver string

	// DSN is the driver-specific data source name
	DSN string

	// CompleteQuery is the parameterized completion statement taking
	// (model, prompt) in that order
	CompleteQuery string

	// QueryTimeout bounds each statement (default: 2m)
	QueryTimeout time.Duration
}

// DefaultConfig returns a configuration for a local SQLite file.
func DefaultConfig() Config {
	return Config{
		Driver:        "sqlite",
		DSN:           "warehouse.db",
		CompleteQuery: DefaultCompleteQuery,
		QueryTimeout:  2 * time.Minute,
	}
}

// =============================================================================
// WAREHOUSE
// =============================================================================

// Warehouse is an open connection to the data warehouse.
type Warehouse struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
	tracer trace.Tracer
}

// Open connects to the warehouse and verifies the connection. Any failure is
// reported as ErrNoConnection.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Warehouse, error) {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Driver == "" {
		cfg.Driver = defaults.Driver
	}
	if cfg.DSN == "" {
		cfg.DSN = defaults.DSN
	}
	if cfg.CompleteQuery == "" {
		cfg.CompleteQuery = defaults.CompleteQuery
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = defaults.QueryTimeout
	}

	if !slices.Contains(sql.Drivers(), cfg.Driver) {
		return nil, fmt.Errorf("%w: driver %q is not available", ErrNoConnection, cfg.Driver)
	}

	if cfg.Driver == "sqlite" && isFilePath(cfg.DSN) {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)

		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA temp_store=MEMORY",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("%w: failed to set pragma: %w", ErrNoConnection, err)
			}
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}

	logger.Debug("warehouse connected", "driver", cfg.Driver)
	return &Warehouse{
		db:     db,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("github.com/jeranaias/groundchat/internal/warehouse"),
	}, nil
}

func isFilePath(dsn string) bool {
	if dsn == "" || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return false
	}
	return true
}

// DB exposes the underlying handle.
func (w *Warehouse) DB() *sql.DB {
	return w.db
}

// Config returns the effective configuration.
func (w *Warehouse) Config() Config {
	return w.cfg
}

// Close closes the connection.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// =============================================================================
// TABULAR SOURCE
// =============================================================================

// Load returns every row of table. Cells are rendered as text and NULL
// becomes NullText. Failures wrap dataset.ErrLoad.
func (w *Warehouse) Load(ctx context.Context, table string) (*dataset.Dataset, error) {
	ctx, span := w.tracer.Start(ctx, "warehouse.Load", trace.WithAttributes(
		attribute.String("table", table),
	))
	defer span.End()

	ds, err := w.load(ctx, table)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return nil, fmt.Errorf("%w: %s: %w", dataset.ErrLoad, table, err)
	}
	span.SetAttributes(attribute.Int("rows", ds.Len()))
	return ds, nil
}

func (w *Warehouse) load(ctx context.Context, table string) (*dataset.Dataset, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, w.cfg.QueryTimeout)
	defer cancel()

	rows, err := w.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var data [][]string
	for rows.Next() {
		values, err := scanRow(rows, len(columns))
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellText(v)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ds := dataset.New(columns, data)
	ds.Table = table
	w.logger.Debug("table loaded", "table", table, "rows", len(data), "columns", len(columns))
	return ds, nil
}

func scanRow(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
