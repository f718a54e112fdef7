// Package resolve orchestrates credential providers for a package source:
// it discovers provider executables, invokes each one under the plugin
// protocol, and aggregates the resulting credentials behind a process-wide
// result cache.
package resolve

import (
	"context"
	"time"

	"github.com/systmms/feedauth/internal/discovery"
	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/internal/metrics"
	"github.com/systmms/feedauth/internal/plugin"
	"github.com/systmms/feedauth/pkg/credential"
	pkgexec "github.com/systmms/feedauth/pkg/exec"
)

// Options configures an Orchestrator.
type Options struct {
	// Runner executes provider processes; nil selects the real runner.
	Runner pkgexec.Runner

	// Timeout bounds a single provider invocation; zero selects the
	// protocol default of ten minutes.
	Timeout time.Duration

	// ExtraPaths are provider search directories from the config file.
	ExtraPaths []string

	// NonInteractive and CanShowDialog are forwarded to every provider.
	NonInteractive bool
	CanShowDialog  bool

	// Verbosity is the level forwarded to providers. Empty means the
	// provider default (Information).
	Verbosity plugin.Verbosity

	// Lister overrides filesystem discovery, primarily for tests.
	Lister ProviderLister
}

// ProviderLister enumerates candidate provider executables.
type ProviderLister interface {
	Discover() []string
}

// Orchestrator resolves credentials by querying every discovered provider
// in discovery order. It implements credential.Source and is safe for
// concurrent use.
type Orchestrator struct {
	discoverer ProviderLister
	invoker    *plugin.Invoker
	cache      *Cache
	logger     *logging.Logger
	opts       Options
}

// New creates an orchestrator with a fresh result cache.
func New(logger *logging.Logger, opts Options) *Orchestrator {
	lister := opts.Lister
	if lister == nil {
		lister = discovery.New(logger, opts.ExtraPaths)
	}
	return &Orchestrator{
		discoverer: lister,
		invoker:    plugin.NewInvoker(opts.Runner, logger, opts.Timeout),
		cache:      NewCache(),
		logger:     logger,
		opts:       opts,
	}
}

// Name implements credential.Source.
func (o *Orchestrator) Name() string {
	return "plugin"
}

// Get queries every discovered provider, in order, and returns the
// flattened credential sequence. Providers that opt out contribute
// nothing; the first abort fails the whole resolution and no further
// provider is tried.
func (o *Orchestrator) Get(ctx context.Context, sourceURI string, isRetry bool) ([]credential.Credential, error) {
	providers := o.discoverer.Discover()

	var creds []credential.Credential
	for _, providerPath := range providers {
		outcome, err := o.Resolve(ctx, providerPath, sourceURI, isRetry)
		if err != nil {
			return nil, err
		}

		switch outcome.Kind {
		case credential.OutcomeSuccess:
			creds = append(creds, outcome.Credentials...)
		case credential.OutcomeNoCredentials:
			o.logger.Debug("Provider %s opted out for %s", providerPath, sourceURI)
		case credential.OutcomeAbort:
			return nil, ferrors.UserError{
				Message:    outcome.Message,
				Suggestion: "Re-run the command to prompt again; aborts are never cached",
			}
		}
	}
	return creds, nil
}

// Resolve produces the outcome for one (provider, source) pair, consulting
// the result cache first. Retries bypass the cache-hit shortcut so the
// provider can prompt afresh.
func (o *Orchestrator) Resolve(ctx context.Context, providerPath, sourceURI string, isRetry bool) (credential.Outcome, error) {
	key := CacheKey(providerPath, sourceURI)

	outcome, hit, err := o.cache.GetOrInvoke(ctx, key, isRetry, func(ctx context.Context) (credential.Outcome, error) {
		req := plugin.Request{
			URI:            sourceURI,
			NonInteractive: o.opts.NonInteractive,
			CanShowDialog:  o.opts.CanShowDialog,
			IsRetry:        isRetry,
			Verbosity:      o.opts.Verbosity,
		}
		return o.invoker.Invoke(ctx, providerPath, req)
	})
	if err != nil {
		return credential.Outcome{}, err
	}
	if hit {
		metrics.RecordCacheHit()
	}
	return outcome, nil
}

// Providers returns the currently discoverable provider executables.
func (o *Orchestrator) Providers() []string {
	return o.discoverer.Discover()
}

// Validate checks that at least one provider can be discovered. Used by
// the doctor command.
func (o *Orchestrator) Validate(ctx context.Context) error {
	if len(o.discoverer.Discover()) == 0 {
		return ferrors.UserError{
			Message:    "no credential providers found",
			Suggestion: "Install a provider under ~/.feedauth/credential-providers or set " + discovery.EnvProviderPaths,
		}
	}
	return nil
}
