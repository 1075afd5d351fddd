package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider.
type HTTPConfig struct {
	// Timeout bounds each provider call (default 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FallbackMode selects how the orchestrator sequences providers.
type FallbackMode string

const (
	// FallbackIntent walks free tier, intent-routed provider, then general web.
	FallbackIntent FallbackMode = "intent"

	// FallbackChain walks a fixed provider list with retries per provider.
	FallbackChain FallbackMode = "chain"
)

// SearchConfig holds settings for providers and the orchestrator.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	Mode FallbackMode `json:"fallback_mode" yaml:"fallback_mode"`

	// ProviderChain is the ordered list used in chain mode.
	ProviderChain []string `json:"provider_chain" yaml:"provider_chain"`

	// MaxRetries is the number of attempts per provider in chain mode (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the backoff base; attempt n waits RetryDelay * 2^n (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// BraveAPIKey enables the brave-* providers.
	BraveAPIKey string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`

	// NewsAPIKey enables the newsapi provider and the news-only operation.
	NewsAPIKey string `json:"newsapi_key,omitempty" yaml:"newsapi_key,omitempty"`

	NewsAPIBaseURL    string   `json:"newsapi_base_url" yaml:"newsapi_base_url"`
	DuckDuckGoBaseURL string   `json:"duckduckgo_base_url" yaml:"duckduckgo_base_url"`
	SearXNGInstances  []string `json:"searxng_instances" yaml:"searxng_instances"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// TTLTimeSensitive applies to queries mentioning news, today, latest and
	// similar words (default 10m).
	TTLTimeSensitive time.Duration `json:"ttl_time_sensitive" yaml:"ttl_time_sensitive"`

	// TTLGeneral applies to every other query (default 24h).
	TTLGeneral time.Duration `json:"ttl_general" yaml:"ttl_general"`

	// DBPath is the sqlite file shared by the cache and search history.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port string `json:"port" yaml:"port"`

	// APIKey, when set, is required as a bearer token on search endpoints.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// AllowedOrigins lists the origins granted CORS access.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	RateLimitEnabled bool          `json:"rate_limit_enabled" yaml:"rate_limit_enabled"`
	RateLimitWindow  time.Duration `json:"rate_limit_window" yaml:"rate_limit_window"`
	RateLimitMax     int           `json:"rate_limit_max" yaml:"rate_limit_max"`
}

// ServiceConfig groups every configuration section.
type ServiceConfig struct {
	Search   SearchConfig `json:"search" yaml:"search"`
	Cache    CacheConfig  `json:"cache" yaml:"cache"`
	Server   ServerConfig `json:"server" yaml:"server"`
	LogLevel string       `json:"log_level" yaml:"log_level"`
}

// DefaultSearXNGInstances is the mirror list tried in order.
var DefaultSearXNGInstances = []string{
	"https://searx.be",
	"https://search.sapti.me",
	"https://searx.tiekoetter.com",
	"https://search.bus-hit.me",
	"https://searx.work",
}

// DefaultServiceConfig returns the configuration used when nothing is set.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   5 * time.Second,
				UserAgent: "websearch/1.0",
			},
			Mode:              FallbackIntent,
			ProviderChain:     []string{"duckduckgo", "searxng", "brave-web"},
			MaxRetries:        3,
			RetryDelay:        time.Second,
			NewsAPIBaseURL:    "https://newsapi.org/v2",
			DuckDuckGoBaseURL: "https://api.duckduckgo.com",
			SearXNGInstances:  append([]string(nil), DefaultSearXNGInstances...),
		},
		Cache: CacheConfig{
			Enabled:          true,
			TTLTimeSensitive: 10 * time.Minute,
			TTLGeneral:       24 * time.Hour,
			DBPath:           "data/websearch.db",
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             "3002",
			AllowedOrigins:   []string{"http://localhost:3000"},
			RateLimitEnabled: true,
			RateLimitWindow:  24 * time.Hour,
			RateLimitMax:     100,
		},
		LogLevel: "info",
	}
}
