// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/groundchat/internal/cache"
	"github.com/jeranaias/groundchat/internal/logging"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/session"
	"github.com/jeranaias/groundchat/internal/telemetry"
	"github.com/jeranaias/groundchat/internal/util"
	"github.com/jeranaias/groundchat/internal/warehouse"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Backend names accepted by backend.mode and backend.routes.
const (
	BackendWarehouse = "warehouse"
	BackendOllama    = "ollama"
	BackendCloud     = "cloud"
	BackendAnthropic = "anthropic"
	BackendGemini    = "gemini"
	BackendAuto      = "auto"
)

// Config is the main configuration structure.
type Config struct {
	Chat      ChatConfig       `toml:"chat" json:"chat" yaml:"chat"`
	Context   ContextConfig    `toml:"context" json:"context" yaml:"context"`
	Backend   BackendConfig    `toml:"backend" json:"backend" yaml:"backend"`
	Warehouse WarehouseConfig  `toml:"warehouse" json:"warehouse" yaml:"warehouse"`
	Ollama    OllamaConfig     `toml:"ollama" json:"ollama" yaml:"ollama"`
	Cloud     CloudConfig      `toml:"cloud" json:"cloud" yaml:"cloud"`
	Anthropic AnthropicConfig  `toml:"anthropic" json:"anthropic" yaml:"anthropic"`
	Gemini    GeminiConfig     `toml:"gemini" json:"gemini" yaml:"gemini"`
	Search    SearchConfig     `toml:"search" json:"search" yaml:"search"`
	Cache     CacheConfig      `toml:"cache" json:"cache" yaml:"cache"`
	Logging   logging.Config   `toml:"logging" json:"logging" yaml:"logging"`
	Telemetry telemetry.Config `toml:"telemetry" json:"telemetry" yaml:"telemetry"`
}

// ChatConfig holds the initial session controls.
type ChatConfig struct {
	Model         string `toml:"model" json:"model" yaml:"model"`
	HistoryWindow int    `toml:"history_window" json:"history_window" yaml:"history_window"`
	UseHistory    bool   `toml:"use_history" json:"use_history" yaml:"use_history"`
	Debug         bool   `toml:"debug" json:"debug" yaml:"debug"`
}

// ContextConfig selects the dataset used to ground answers.
type ContextConfig struct {
	// Table is loaded once per session; empty disables dataset context
	Table string `toml:"table" json:"table" yaml:"table"`

	// CacheTTLMinutes keeps a loaded snapshot; 0 disables caching
	CacheTTLMinutes int `toml:"cache_ttl_minutes" json:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

// BackendConfig chooses the completion backend.
type BackendConfig struct {
	// Mode is warehouse, ollama, cloud, anthropic, gemini, or auto
	Mode string `toml:"mode" json:"mode" yaml:"mode"`

	// Routes maps model IDs to backends in auto mode
	Routes map[string]string `toml:"routes" json:"routes" yaml:"routes"`
}

// WarehouseConfig holds the SQL source settings.
type WarehouseConfig struct {
	Driver           string `toml:"driver" json:"driver" yaml:"driver"`
	DSN              string `toml:"dsn" json:"dsn" yaml:"dsn"`
	CompleteQuery    string `toml:"complete_query" json:"complete_query" yaml:"complete_query"`
	QueryTimeoutSecs int    `toml:"query_timeout_secs" json:"query_timeout_secs" yaml:"query_timeout_secs"`
}

// OllamaConfig holds local inference settings.
type OllamaConfig struct {
	URL         string `toml:"url" json:"url" yaml:"url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}

// CloudConfig holds OpenAI-compatible API settings.
type CloudConfig struct {
	APIKey            string  `toml:"api_key" json:"api_key" yaml:"api_key"`
	BaseURL           string  `toml:"base_url" json:"base_url" yaml:"base_url"`
	Temperature       float64 `toml:"temperature" json:"temperature" yaml:"temperature"`
	MaxTokens         int     `toml:"max_tokens" json:"max_tokens" yaml:"max_tokens"`
	RequestsPerMinute int     `toml:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey    string `toml:"api_key" json:"api_key" yaml:"api_key"`
	BaseURL   string `toml:"base_url" json:"base_url" yaml:"base_url"`
	MaxTokens int    `toml:"max_tokens" json:"max_tokens" yaml:"max_tokens"`
}

// GeminiConfig holds Google GenAI settings.
type GeminiConfig struct {
	APIKey  string `toml:"api_key" json:"api_key" yaml:"api_key"`
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
}

// SearchConfig points at the retrieval service.
type SearchConfig struct {
	URL   string `toml:"url" json:"url" yaml:"url"`
	Token string `toml:"token" json:"token" yaml:"token"`
	Limit int    `toml:"limit" json:"limit" yaml:"limit"`
}

// CacheConfig selects the snapshot cache store.
type CacheConfig struct {
	// RedisURL selects redis; empty uses process memory
	RedisURL string `toml:"redis_url" json:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" json:"prefix" yaml:"prefix"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// DefaultTable is the reviews-and-shipping table used by the demos.
const DefaultTable = "COMBINED_REVIEWS_SHIPPING"

// Default returns the default configuration.
func Default() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = "."
	}
	settings := session.DefaultSettings()
	return &Config{
		Chat: ChatConfig{
			Model:         settings.Model,
			HistoryWindow: settings.HistoryWindow,
			UseHistory:    settings.UseHistory,
			Debug:         settings.Debug,
		},
		Context: ContextConfig{
			Table:           DefaultTable,
			CacheTTLMinutes: 60,
		},
		Backend: BackendConfig{
			Mode: BackendWarehouse,
		},
		Warehouse: WarehouseConfig{
			Driver:           "sqlite",
			DSN:              filepath.Join(dir, "warehouse.db"),
			CompleteQuery:    warehouse.DefaultCompleteQuery,
			QueryTimeoutSecs: 120,
		},
		Ollama: OllamaConfig{
			URL:         "http://127.0.0.1:11434",
			TimeoutSecs: 120,
		},
		Cloud: CloudConfig{
			BaseURL:           "https://openrouter.ai/api/v1",
			Temperature:       0.7,
			RequestsPerMinute: 60,
		},
		Anthropic: AnthropicConfig{
			MaxTokens: 1024,
		},
		Search: SearchConfig{
			Limit: 3,
		},
		Cache: CacheConfig{
			Prefix: cache.DefaultPrefix,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dir, "groundchat.log"),
		},
		Telemetry: telemetry.Config{
			File: filepath.Join(dir, "traces.jsonl"),
		},
	}
}

// DefaultRoutes maps each allow-listed model to the backend that serves it
// in auto mode.
func DefaultRoutes() map[string]string {
	return map[string]string{
		"claude-3-5-sonnet": BackendAnthropic,
		"mistral-large":     BackendCloud,
		"gemma-7b":          BackendGemini,
		"llama3-8b":         BackendOllama,
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the groundchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".groundchat"), nil
}

// SearchPaths returns the config files tried by Load, in order.
func SearchPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.yaml"),
	}, nil
}

// DefaultPath returns the TOML config path written by Save.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ensureSecurePermissions tightens config files to 0600 since they can hold
// API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the configuration. A non-empty path must exist; otherwise the
// search paths are tried and built-in defaults are used when none exists.
// Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}

	paths, err := SearchPaths()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if _, statErr := os.Stat(p); statErr == nil {
			return LoadFromPath(p)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads the file at path over the defaults. The format is
// chosen by extension and defaults to TOML.
func LoadFromPath(path string) (*Config, error) {
	if err := ensureSecurePermissions(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes the file at path over the defaults without applying
// environment overrides or validating. The config command edits files read
// this way so environment secrets are never written back.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = decodeJSON(cfg, data)
	case ".yaml", ".yml":
		err = decodeYAML(cfg, data)
	default:
		err = decodeTOML(cfg, data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	fillDefaults(cfg)
	return cfg, nil
}

// Locate returns the config file Load would read: path when set, else the
// first existing search path. found is false when no file exists, in which
// case the returned path is DefaultPath.
func Locate(path string) (string, bool, error) {
	if path != "" {
		_, err := os.Stat(path)
		return path, err == nil, nil
	}
	paths, err := SearchPaths()
	if err != nil {
		return "", false, err
	}
	for _, p := range paths {
		if _, statErr := os.Stat(p); statErr == nil {
			return p, true, nil
		}
	}
	p, err := DefaultPath()
	return p, false, err
}

func decodeTOML(cfg *Config, data []byte) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to decode TOML: %w", err)
	}
	return nil
}

// decodeJSON accepts comments and trailing commas.
func decodeJSON(cfg *Config, data []byte) error {
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

func decodeYAML(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML: %w", err)
	}
	return nil
}

// fillDefaults restores values a file explicitly blanked but that have no
// meaningful empty form.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Chat.Model == "" {
		cfg.Chat.Model = defaults.Chat.Model
	}
	if cfg.Chat.HistoryWindow == 0 {
		cfg.Chat.HistoryWindow = defaults.Chat.HistoryWindow
	}
	if cfg.Backend.Mode == "" {
		cfg.Backend.Mode = defaults.Backend.Mode
	}
	if cfg.Warehouse.Driver == "" {
		cfg.Warehouse.Driver = defaults.Warehouse.Driver
	}
	if cfg.Warehouse.DSN == "" {
		cfg.Warehouse.DSN = defaults.Warehouse.DSN
	}
	if cfg.Warehouse.CompleteQuery == "" {
		cfg.Warehouse.CompleteQuery = defaults.Warehouse.CompleteQuery
	}
	if cfg.Warehouse.QueryTimeoutSecs == 0 {
		cfg.Warehouse.QueryTimeoutSecs = defaults.Warehouse.QueryTimeoutSecs
	}
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = defaults.Ollama.TimeoutSecs
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = defaults.Search.Limit
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = defaults.Cache.Prefix
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaults.Logging.File
	}
	if cfg.Telemetry.File == "" {
		cfg.Telemetry.File = defaults.Telemetry.File
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration as TOML to path, or to DefaultPath when
// path is empty. The file is created with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	buf.WriteString("# groundchat configuration file\n")
	buf.WriteString("# Generated by groundchat - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func validBackend(name string) bool {
	switch name {
	case BackendWarehouse, BackendOllama, BackendCloud, BackendAnthropic, BackendGemini:
		return true
	}
	return false
}

// Validate validates the configuration and returns ValidateErrors when any
// field is invalid.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Chat
	if !model.IsAllowed(c.Chat.Model) {
		add("chat.model", "must be one of %s", strings.Join(model.ModelIDs(), ", "))
	}
	if c.Chat.HistoryWindow < session.MinHistoryWindow || c.Chat.HistoryWindow > session.MaxHistoryWindow {
		add("chat.history_window", "must be between %d and %d", session.MinHistoryWindow, session.MaxHistoryWindow)
	}

	// Context
	if c.Context.Table != "" {
		if err := warehouse.ValidateIdentifier(c.Context.Table); err != nil {
			add("context.table", "%v", err)
		}
	}
	if c.Context.CacheTTLMinutes < 0 {
		add("context.cache_ttl_minutes", "must not be negative")
	}

	// Backend
	if c.Backend.Mode != BackendAuto && !validBackend(c.Backend.Mode) {
		add("backend.mode", "unknown backend %q", c.Backend.Mode)
	}
	for id, name := range c.Backend.Routes {
		if !model.IsAllowed(id) {
			add("backend.routes", "unknown model %q", id)
		}
		if !validBackend(name) {
			add("backend.routes", "unknown backend %q for %s", name, id)
		}
	}

	// Warehouse
	if c.Warehouse.QueryTimeoutSecs < 0 {
		add("warehouse.query_timeout_secs", "must not be negative")
	}

	// Providers
	if _, err := url.ParseRequestURI(c.Ollama.URL); err != nil {
		add("ollama.url", "invalid URL %q", c.Ollama.URL)
	}
	if c.Cloud.Temperature < 0 || c.Cloud.Temperature > 2 {
		add("cloud.temperature", "must be between 0 and 2")
	}
	if c.Cloud.RequestsPerMinute < 0 {
		add("cloud.requests_per_minute", "must not be negative")
	}
	if c.Search.URL != "" {
		if _, err := url.ParseRequestURI(c.Search.URL); err != nil {
			add("search.url", "invalid URL %q", c.Search.URL)
		}
	}
	if c.Search.Limit < 1 {
		add("search.limit", "must be at least 1")
	}

	// Logging
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	if f := strings.ToLower(c.Logging.Format); f != "" && f != "text" && f != "json" {
		add("logging.format", "must be text or json")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Settings returns the initial session settings.
func (c *Config) Settings() session.Settings {
	return session.Settings{
		Model:         c.Chat.Model,
		HistoryWindow: c.Chat.HistoryWindow,
		UseHistory:    c.Chat.UseHistory,
		Debug:         c.Chat.Debug,
	}
}

// WarehouseConfig returns connection settings for warehouse.Open.
func (c *Config) WarehouseConfig() warehouse.Config {
	return warehouse.Config{
		Driver:        c.Warehouse.Driver,
		DSN:           c.Warehouse.DSN,
		CompleteQuery: c.Warehouse.CompleteQuery,
		QueryTimeout:  time.Duration(c.Warehouse.QueryTimeoutSecs) * time.Second,
	}
}

// CacheTTL returns how long dataset snapshots are kept.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Context.CacheTTLMinutes) * time.Minute
}

// Warnings returns advice about settings that load and validate but cannot
// work as configured.
func (c *Config) Warnings() []string {
	var out []string
	if c.Warehouse.Driver == "sqlite" && c.Warehouse.CompleteQuery == warehouse.DefaultCompleteQuery {
		var routed []string
		for _, id := range model.ModelIDs() {
			if c.RouteFor(id) == BackendWarehouse {
				routed = append(routed, id)
			}
		}
		if len(routed) > 0 {
			out = append(out, fmt.Sprintf(
				"sqlite has no snowflake.cortex.complete, so %s will get fallback answers; "+
					"set warehouse.complete_query or backend.mode = \"auto\" with provider keys",
				strings.Join(routed, ", ")))
		}
	}
	return out
}

// RouteFor returns the backend that answers modelID.
func (c *Config) RouteFor(modelID string) string {
	if c.Backend.Mode != BackendAuto {
		return c.Backend.Mode
	}
	if name, ok := c.Backend.Routes[modelID]; ok {
		return name
	}
	if name, ok := DefaultRoutes()[modelID]; ok {
		return name
	}
	return BackendWarehouse
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GROUNDCHAT_MODEL: overrides chat.model
//   - GROUNDCHAT_DEBUG: "1" or "true" enables chat.debug
//   - GROUNDCHAT_TABLE: overrides context.table
//   - GROUNDCHAT_BACKEND: overrides backend.mode
//   - GROUNDCHAT_WAREHOUSE_DRIVER, GROUNDCHAT_WAREHOUSE_DSN
//   - GROUNDCHAT_OLLAMA_URL: overrides ollama.url
//   - GROUNDCHAT_REDIS_URL: overrides cache.redis_url
//   - GROUNDCHAT_SEARCH_URL, GROUNDCHAT_SEARCH_TOKEN
//   - GROUNDCHAT_LOG_LEVEL: overrides logging.level
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY: provider keys
func (c *Config) ApplyEnvOverrides() {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	str("GROUNDCHAT_MODEL", &c.Chat.Model)
	if debug := os.Getenv("GROUNDCHAT_DEBUG"); debug != "" {
		c.Chat.Debug = debug == "1" || strings.EqualFold(debug, "true")
	}
	str("GROUNDCHAT_TABLE", &c.Context.Table)
	str("GROUNDCHAT_BACKEND", &c.Backend.Mode)
	str("GROUNDCHAT_WAREHOUSE_DRIVER", &c.Warehouse.Driver)
	str("GROUNDCHAT_WAREHOUSE_DSN", &c.Warehouse.DSN)
	str("GROUNDCHAT_OLLAMA_URL", &c.Ollama.URL)
	str("GROUNDCHAT_REDIS_URL", &c.Cache.RedisURL)
	str("GROUNDCHAT_SEARCH_URL", &c.Search.URL)
	str("GROUNDCHAT_SEARCH_TOKEN", &c.Search.Token)
	str("GROUNDCHAT_LOG_LEVEL", &c.Logging.Level)

	str("OPENAI_API_KEY", &c.Cloud.APIKey)
	str("ANTHROPIC_API_KEY", &c.Anthropic.APIKey)
	str("GOOGLE_API_KEY", &c.Gemini.APIKey)
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "chat.history_window").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an arbitrary value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(strVal == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Keys returns the settable configuration keys in dot notation.
func Keys() []string {
	return []string{
		"chat.model",
		"chat.history_window",
		"chat.use_history",
		"chat.debug",
		"context.table",
		"context.cache_ttl_minutes",
		"backend.mode",
		"warehouse.driver",
		"warehouse.dsn",
		"warehouse.complete_query",
		"warehouse.query_timeout_secs",
		"ollama.url",
		"ollama.timeout_secs",
		"cloud.api_key",
		"cloud.base_url",
		"cloud.temperature",
		"cloud.max_tokens",
		"cloud.requests_per_minute",
		"anthropic.api_key",
		"anthropic.base_url",
		"anthropic.max_tokens",
		"gemini.api_key",
		"gemini.base_url",
		"search.url",
		"search.token",
		"search.limit",
		"cache.redis_url",
		"cache.prefix",
		"logging.level",
		"logging.format",
		"logging.file",
		"telemetry.enabled",
		"telemetry.file",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Backend.Routes != nil {
		clone.Backend.Routes = make(map[string]string, len(c.Backend.Routes))
		for k, v := range c.Backend.Routes {
			clone.Backend.Routes[k] = v
		}
	}
	return &clone
}

// Redacted returns a copy with secrets replaced.
func (c *Config) Redacted() *Config {
	safe := c.Clone()
	for _, key := range []*string{
		&safe.Cloud.APIKey,
		&safe.Anthropic.APIKey,
		&safe.Gemini.APIKey,
		&safe.Search.Token,
	} {
		if *key != "" {
			*key = "[REDACTED]"
		}
	}
	return safe
}

// String returns the config as TOML with secrets redacted.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// IsSecretKey reports whether a dot-notation key holds a secret.
func IsSecretKey(key string) bool {
	k := strings.ToLower(key)
	return strings.HasSuffix(k, "api_key") || strings.HasSuffix(k, ".token")
}
