package commands

import (
	"github.com/systmms/feedauth/internal/config"
	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/keyringsource"
	"github.com/systmms/feedauth/internal/plugin"
	"github.com/systmms/feedauth/internal/resolve"
	"github.com/systmms/feedauth/pkg/credential"
)

// newOrchestrator builds the plugin orchestrator from the loaded config and
// per-command flags.
func newOrchestrator(cfg *config.Config, canShowDialog bool, verbosityFlag string) (*resolve.Orchestrator, error) {
	verbosity := plugin.Verbosity("")

	name := verbosityFlag
	if name == "" {
		name = cfg.Verbosity()
	}
	if name != "" {
		parsed, err := plugin.ParseVerbosity(name)
		if err != nil {
			return nil, ferrors.UserError{
				Message:    err.Error(),
				Suggestion: "Valid levels: Debug, Verbose, Information, Minimal, Warning, Error",
			}
		}
		verbosity = parsed
	}

	return resolve.New(cfg.Logger, resolve.Options{
		Timeout:        cfg.Timeout(),
		ExtraPaths:     cfg.ProviderPaths(),
		NonInteractive: cfg.NonInteractive,
		CanShowDialog:  canShowDialog,
		Verbosity:      verbosity,
	}), nil
}

// buildSources assembles the credential source chain: plugin providers
// first, then the OS keyring fallback when enabled.
func buildSources(cfg *config.Config, canShowDialog bool, verbosityFlag string) ([]credential.Source, error) {
	orch, err := newOrchestrator(cfg, canShowDialog, verbosityFlag)
	if err != nil {
		return nil, err
	}

	sources := []credential.Source{orch}
	if cfg.UseKeyring() {
		sources = append(sources, keyringsource.New(cfg.Logger))
	}
	return sources, nil
}
