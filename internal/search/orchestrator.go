// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"time"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/httputil"
	"github.com/pdiddy/websearch/internal/intent"
	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/pkg/types"
)

// Orchestrator stages, as reported in logs.
const (
	stageExplicit = "explicit-provider"
	stagePrimary  = "primary-free-tier"
	stageIntent   = "intent-routed"
	stageWeb      = "web-fallback"
	stageChain    = "chain"
)

// PrimaryProvider is the zero-cost provider tried first in intent mode.
const PrimaryProvider = NameDuckDuckGo

// Orchestrator sequences providers for one query. In intent mode it walks
// the free tier, the intent-routed provider and the general web provider;
// in chain mode it walks a fixed list, retrying each provider with backoff.
type Orchestrator struct {
	registry   *Registry
	classifier intent.Classifier
	log        logging.Logger

	mode       types.FallbackMode
	chain      []string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewOrchestrator returns an orchestrator over registry configured by cfg.
func NewOrchestrator(registry *Registry, classifier intent.Classifier, cfg types.SearchConfig, log logging.Logger) *Orchestrator {
	o := &Orchestrator{
		registry:   registry,
		classifier: classifier,
		log:        log,
		mode:       cfg.Mode,
		chain:      cfg.ProviderChain,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
	}
	if o.mode == "" {
		o.mode = types.FallbackIntent
	}
	if len(o.chain) == 0 {
		o.chain = types.DefaultServiceConfig().Search.ProviderChain
	}
	if o.maxRetries < 1 {
		o.maxRetries = 1
	}
	if o.timeout <= 0 {
		o.timeout = 5 * time.Second
	}
	return o
}

// Mode returns the configured fallback mode.
func (o *Orchestrator) Mode() types.FallbackMode { return o.mode }

// Search runs query through the configured providers and returns the first
// non-empty result set. An explicit provider in opts is called once and its
// outcome returned as is.
func (o *Orchestrator) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	opts = opts.WithDefaults()
	if opts.Provider != types.ProviderAuto {
		return o.explicit(ctx, query, opts)
	}
	if o.mode == types.FallbackChain {
		return o.searchChain(ctx, query, opts)
	}
	return o.searchIntent(ctx, query, opts)
}

func (o *Orchestrator) explicit(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	name, known := Canonical(opts.Provider)
	if !known {
		return nil, apperr.New(apperr.KindInvalidRequest, "unknown provider %q", opts.Provider)
	}
	p, err := o.provider(name)
	if err != nil {
		return nil, err
	}
	o.log.WithFields(logging.Fields{"stage": stageExplicit, "provider": name}).Debug("calling provider")
	return o.call(ctx, p, query, opts)
}

func (o *Orchestrator) searchIntent(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	var lastErr error

	rs, err := o.try(ctx, stagePrimary, PrimaryProvider, query, opts)
	if err == nil && !rs.Empty() {
		return rs, nil
	}
	if err != nil {
		lastErr = err
	}

	in := o.classifier.Classify(query)
	target := ProviderForIntent(in)
	o.log.WithFields(logging.Fields{
		"intent":      in,
		"explanation": intent.Explain(in),
		"provider":    target,
	}).Info("routing by intent")

	rs, err = o.try(ctx, stageIntent, target, query, opts)
	if err == nil && !rs.Empty() {
		return rs, nil
	}
	if err != nil {
		lastErr = err
	}

	if in != types.IntentWeb {
		rs, err = o.try(ctx, stageWeb, NameBraveWeb, query, opts)
		if err == nil && !rs.Empty() {
			return rs, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	return nil, exhausted(lastErr)
}

func (o *Orchestrator) searchChain(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	var lastErr error
	for _, raw := range o.chain {
		name, known := Canonical(raw)
		if !known {
			lastErr = apperr.New(apperr.KindInvalidRequest, "unknown provider %q", raw)
			continue
		}
		p, err := o.provider(name)
		if err != nil {
			lastErr = err
			continue
		}

		log := o.log.WithFields(logging.Fields{"stage": stageChain, "provider": name})
		rs, err := httputil.Retry(ctx, o.maxRetries, o.retryDelay,
			func(ctx context.Context) (*types.ResultSet, error) {
				return o.call(ctx, p, query, opts)
			},
			func(attempt int, err error) {
				log.WithError(err).WithField("attempt", attempt+1).Warn("provider attempt failed")
			},
		)
		if err != nil {
			lastErr = err
			continue
		}
		if !rs.Empty() {
			return rs, nil
		}
		log.Info("provider returned no results")
	}
	return nil, exhausted(lastErr)
}

// try runs one intent-mode stage. A provider that is not configured counts
// as a failed stage.
func (o *Orchestrator) try(ctx context.Context, stage, name, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	log := o.log.WithFields(logging.Fields{"stage": stage, "provider": name})
	p, err := o.provider(name)
	if err != nil {
		log.WithError(err).Debug("stage skipped")
		return nil, err
	}
	rs, err := o.call(ctx, p, query, opts)
	switch {
	case err != nil:
		log.WithError(err).Warn("provider failed")
	case rs.Empty():
		log.Info("provider returned no results")
	default:
		log.WithField("results", len(rs.Results)).Info("provider returned results")
	}
	return rs, err
}

// call invokes p under the per-call timeout, scaled by the number of
// sequential upstream requests p may make. The caller's cancellation does
// not reach a call once it has started.
func (o *Orchestrator) call(ctx context.Context, p Provider, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.budget(p))
	defer cancel()

	rs, err := p.Search(ctx, query, opts)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, attribute(p.Name(), err)
		}
		return nil, err
	}
	if rs == nil {
		rs = &types.ResultSet{Provider: p.Name()}
	}
	if rs.Provider == "" {
		rs.Provider = p.Name()
	}
	return rs, nil
}

func (o *Orchestrator) budget(p Provider) time.Duration {
	if s, ok := p.(staged); ok && s.Stages() > 1 {
		return o.timeout * time.Duration(s.Stages())
	}
	return o.timeout
}

func (o *Orchestrator) provider(name string) (Provider, error) {
	p, ok := o.registry.Get(name)
	if !ok {
		return nil, apperr.New(apperr.KindProvider, "%s is not configured", name).ForProvider(name)
	}
	return p, nil
}

func exhausted(lastErr error) error {
	msg := "none"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return &apperr.Error{
		Kind:    apperr.KindProvider,
		Message: "all providers failed or returned empty results. Last error: " + msg,
		Err:     lastErr,
	}
}
