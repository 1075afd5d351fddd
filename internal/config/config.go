// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles a types.ServiceConfig from defaults, the YAML
// config file, the environment and the .secrets/ directory, in increasing
// order of precedence except that secrets only fill empty credentials.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/secrets"
	"github.com/pdiddy/websearch/pkg/types"
)

// EnvFiles are loaded in order, later files overriding earlier ones and the
// process environment.
var EnvFiles = []string{".env", ".env.dev"}

// binding ties a config file key to its environment variable.
type binding struct {
	key string
	env string
}

var bindings = []binding{
	{"cache.enabled", "CACHE_ENABLED"},
	{"cache.ttl_time_sensitive", "CACHE_TTL_TIME_SENSITIVE"},
	{"cache.ttl_general", "CACHE_TTL_GENERAL"},
	{"cache.db_path", "DB_PATH"},
	{"search.timeout", "REQUEST_TIMEOUT"},
	{"search.user_agent", "USER_AGENT"},
	{"search.fallback_mode", "FALLBACK_MODE"},
	{"search.provider_chain", "PROVIDER_CHAIN"},
	{"search.max_retries", "MAX_RETRIES"},
	{"search.retry_delay", "RETRY_DELAY"},
	{"search.brave_api_key", "BRAVE_API_WEB_KEY"},
	{"search.newsapi_key", "NEWSAPI_KEY"},
	{"search.newsapi_base_url", "NEWSAPI_BASE_URL"},
	{"search.duckduckgo_base_url", "DUCKDUCKGO_BASE_URL"},
	{"search.searxng_instances", "SEARXNG_INSTANCES"},
	{"server.host", "HOST"},
	{"server.port", "PORT"},
	{"server.api_key", "API_KEY"},
	{"server.allowed_origins", "ALLOWED_ORIGINS"},
	{"server.rate_limit_enabled", "RATE_LIMIT_ENABLED"},
	{"server.rate_limit_window", "RATE_LIMIT_WINDOW"},
	{"server.rate_limit_max", "RATE_LIMIT_MAX"},
	{"log_level", "LOG_LEVEL"},
}

// LoadEnv overloads the process environment with EnvFiles that exist.
func LoadEnv(log logging.Logger) {
	loaded := make([]string, 0, len(EnvFiles))
	for _, file := range EnvFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			log.WithError(err).Warnf("Failed to load %s", file)
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		log.Debug("No local env files loaded; relying on process environment")
		return
	}
	log.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
}

// BindEnv binds every config key to its environment variable on v.
func BindEnv(v *viper.Viper) error {
	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("binding %s: %w", b.env, err)
		}
	}
	return nil
}

// Load reads every bound key from v over DefaultServiceConfig, fills empty
// credentials from secretsDir and validates the result.
func Load(v *viper.Viper, secretsDir string) (types.ServiceConfig, error) {
	if err := BindEnv(v); err != nil {
		return types.ServiceConfig{}, err
	}

	cfg := types.DefaultServiceConfig()
	r := reader{v: v}

	r.boolean("cache.enabled", &cfg.Cache.Enabled)
	r.duration("cache.ttl_time_sensitive", &cfg.Cache.TTLTimeSensitive)
	r.duration("cache.ttl_general", &cfg.Cache.TTLGeneral)
	r.str("cache.db_path", &cfg.Cache.DBPath)

	r.duration("search.timeout", &cfg.Search.Timeout)
	r.str("search.user_agent", &cfg.Search.UserAgent)
	var mode string
	r.str("search.fallback_mode", &mode)
	if mode != "" {
		cfg.Search.Mode = types.FallbackMode(strings.ToLower(mode))
	}
	r.list("search.provider_chain", &cfg.Search.ProviderChain)
	r.integer("search.max_retries", &cfg.Search.MaxRetries)
	r.duration("search.retry_delay", &cfg.Search.RetryDelay)
	r.str("search.brave_api_key", &cfg.Search.BraveAPIKey)
	r.str("search.newsapi_key", &cfg.Search.NewsAPIKey)
	r.str("search.newsapi_base_url", &cfg.Search.NewsAPIBaseURL)
	r.str("search.duckduckgo_base_url", &cfg.Search.DuckDuckGoBaseURL)
	r.list("search.searxng_instances", &cfg.Search.SearXNGInstances)

	r.str("server.host", &cfg.Server.Host)
	r.str("server.port", &cfg.Server.Port)
	r.str("server.api_key", &cfg.Server.APIKey)
	r.list("server.allowed_origins", &cfg.Server.AllowedOrigins)
	r.boolean("server.rate_limit_enabled", &cfg.Server.RateLimitEnabled)
	r.duration("server.rate_limit_window", &cfg.Server.RateLimitWindow)
	r.integer("server.rate_limit_max", &cfg.Server.RateLimitMax)

	r.str("log_level", &cfg.LogLevel)

	if r.err != nil {
		return types.ServiceConfig{}, r.err
	}

	s, err := secrets.Load(secretsDir, os.Stderr)
	if err != nil {
		return types.ServiceConfig{}, err
	}
	fill(&cfg.Search.BraveAPIKey, s[secrets.BraveAPIKey])
	fill(&cfg.Search.NewsAPIKey, s[secrets.NewsAPIKey])
	fill(&cfg.Server.APIKey, s[secrets.ServiceAPIKey])

	if err := Validate(cfg); err != nil {
		return types.ServiceConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func Validate(cfg types.ServiceConfig) error {
	switch cfg.Search.Mode {
	case types.FallbackIntent, types.FallbackChain:
	default:
		return fmt.Errorf("FALLBACK_MODE must be %q or %q, got %q", types.FallbackIntent, types.FallbackChain, cfg.Search.Mode)
	}
	if cfg.Search.Mode == types.FallbackChain && len(cfg.Search.ProviderChain) == 0 {
		return fmt.Errorf("PROVIDER_CHAIN is empty")
	}
	if cfg.Search.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", cfg.Search.MaxRetries)
	}
	if cfg.Server.RateLimitEnabled && cfg.Server.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX must be at least 1, got %d", cfg.Server.RateLimitMax)
	}
	if cfg.Cache.DBPath == "" {
		return fmt.Errorf("DB_PATH is empty")
	}
	return nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// reader copies set keys into fields and keeps the first parse error.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s: %w", envName(key), err)
	}
}

func (r *reader) raw(key string) (any, bool) {
	if !r.v.IsSet(key) {
		return nil, false
	}
	val := r.v.Get(key)
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return val, val != nil
}

func (r *reader) str(key string, dst *string) {
	if val, ok := r.raw(key); ok {
		*dst = strings.TrimSpace(fmt.Sprint(val))
	}
}

func (r *reader) boolean(key string, dst *bool) {
	val, ok := r.raw(key)
	if !ok {
		return
	}
	switch b := val.(type) {
	case bool:
		*dst = b
	default:
		parsed, err := strconv.ParseBool(strings.TrimSpace(fmt.Sprint(b)))
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func (r *reader) integer(key string, dst *int) {
	val, ok := r.raw(key)
	if !ok {
		return
	}
	switch n := val.(type) {
	case int:
		*dst = n
	default:
		parsed, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(n)))
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func (r *reader) duration(key string, dst *time.Duration) {
	val, ok := r.raw(key)
	if !ok {
		return
	}
	d, err := ParseDuration(val)
	if err != nil {
		r.fail(key, err)
		return
	}
	*dst = d
}

func (r *reader) list(key string, dst *[]string) {
	val, ok := r.raw(key)
	if !ok {
		return
	}
	var items []string
	switch l := val.(type) {
	case []any:
		for _, item := range l {
			items = append(items, fmt.Sprint(item))
		}
	case []string:
		items = l
	default:
		items = strings.Split(fmt.Sprint(l), ",")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

// ParseDuration accepts a bare integer as milliseconds, or a Go duration
// string such as "10m".
func ParseDuration(val any) (time.Duration, error) {
	switch n := val.(type) {
	case int:
		return time.Duration(n) * time.Millisecond, nil
	case int64:
		return time.Duration(n) * time.Millisecond, nil
	case float64:
		return time.Duration(n * float64(time.Millisecond)), nil
	case time.Duration:
		return n, nil
	}
	s := strings.TrimSpace(fmt.Sprint(val))
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither milliseconds nor a duration", s)
	}
	return d, nil
}

func envName(key string) string {
	for _, b := range bindings {
		if b.key == key {
			return b.env
		}
	}
	return key
}
