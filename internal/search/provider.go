// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search adapts external search backends to one ResultSet shape and
// sequences them with fallback and retry.
package search

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/websearch/pkg/types"
)

// Provider searches a single upstream backend. Search returns a non-nil
// ResultSet on success; an empty Results slice is a valid answer. Failures
// are *apperr.Error values.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error)
}

// staged is implemented by providers that make several sequential upstream
// requests, each under its own deadline.
type staged interface {
	Stages() int
}

// Provider names.
const (
	NameDuckDuckGo = "duckduckgo"
	NameBraveWeb   = "brave-web"
	NameBraveRich  = "brave-rich"
	NameBraveNews  = "brave-news"
	NameBraveVideo = "brave-video"
	NameBraveImage = "brave-image"
	NameNewsAPI    = "newsapi"
	NameSearXNG    = "searxng"
)

// KnownProviders lists every provider this service can build.
var KnownProviders = []string{
	NameDuckDuckGo, NameBraveWeb, NameBraveRich, NameBraveNews,
	NameBraveVideo, NameBraveImage, NameNewsAPI, NameSearXNG,
}

var aliases = map[string]string{
	"web":   NameBraveWeb,
	"brave": NameBraveWeb,
	"rich":  NameBraveRich,
	"news":  NameBraveNews,
	"video": NameBraveVideo,
	"image": NameBraveImage,
	"ddg":   NameDuckDuckGo,
}

// Canonical resolves an alias to a provider name and reports whether the
// name is known at all.
func Canonical(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := aliases[name]; ok {
		return c, true
	}
	for _, k := range KnownProviders {
		if k == name {
			return name, true
		}
	}
	return name, false
}

// ProviderForIntent returns the specialized provider for an intent.
func ProviderForIntent(in types.Intent) string {
	switch in {
	case types.IntentRich:
		return NameBraveRich
	case types.IntentNews:
		return NameBraveNews
	case types.IntentVideo:
		return NameBraveVideo
	case types.IntentImage:
		return NameBraveImage
	default:
		return NameBraveWeb
	}
}

// Registry holds the providers that are configured.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns a registry holding ps.
func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range ps {
		r.Register(p)
	}
	return r
}

// Register adds or replaces p.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromConfig builds every provider whose credentials are present.
// DuckDuckGo and SearXNG need none.
func NewRegistryFromConfig(cfg types.SearchConfig) *Registry {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	// Deadlines come from per-request contexts, never from the client.
	client := &http.Client{}

	ddg := NewDuckDuckGo(client, cfg.UserAgent, cfg.DuckDuckGoBaseURL)
	ddg.RequestTimeout = timeout
	sx := NewSearXNG(client, cfg.UserAgent, cfg.SearXNGInstances)
	sx.MirrorTimeout = timeout

	r := NewRegistry(ddg, sx)
	if cfg.BraveAPIKey != "" {
		b := NewBraveClient(client, cfg.BraveAPIKey, "")
		b.RequestTimeout = timeout
		r.Register(&BraveWeb{b})
		r.Register(&BraveRich{b})
		r.Register(&BraveNews{b})
		r.Register(&BraveVideo{b})
		r.Register(&BraveImage{b})
	}
	if cfg.NewsAPIKey != "" {
		n := NewNewsAPI(client, cfg.NewsAPIKey, cfg.NewsAPIBaseURL, cfg.UserAgent)
		n.RequestTimeout = timeout
		r.Register(n)
	}
	return r
}

// withDeadline bounds ctx by d. A non-positive d leaves ctx as it is.
func withDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// decayScore returns start - idx*step, floored at zero.
func decayScore(start, step float64, idx int) float64 {
	s := start - float64(idx)*step
	if s < 0 {
		return 0
	}
	return s
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func limit(results []types.SearchResult, n int) []types.SearchResult {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
