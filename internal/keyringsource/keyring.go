// Package keyringsource reads fallback credentials from the operating
// system keyring (Keychain, Secret Service, Windows Credential Manager).
//
// It is consulted after the plugin providers when enabled in the config
// file. Entries are stored under the fixed service name with the source's
// host as the account, holding a small JSON blob with username and
// password.
package keyringsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/zalando/go-keyring"

	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/pkg/credential"
)

// service is the keyring service name all feedauth entries live under.
const service = "feedauth"

type storedCredential struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Source resolves credentials from the OS keyring. Implements
// credential.Source.
type Source struct {
	logger *logging.Logger
}

// New creates a keyring source.
func New(logger *logging.Logger) *Source {
	return &Source{logger: logger}
}

// Name implements credential.Source.
func (s *Source) Name() string {
	return "keyring"
}

// Get looks up a stored credential for the source's host. A missing entry
// or an unavailable keyring backend yields no credentials, not an error;
// the keyring is strictly a fallback.
func (s *Source) Get(ctx context.Context, sourceURI string, isRetry bool) ([]credential.Credential, error) {
	account, err := accountFor(sourceURI)
	if err != nil {
		return nil, err
	}

	blob, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		s.logger.Debug("OS keyring unavailable: %v", err)
		return nil, nil
	}

	var stored storedCredential
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		s.logger.Warn("Ignoring malformed keyring entry for %s", account)
		return nil, nil
	}

	return []credential.Credential{{
		Username: stored.Username,
		Password: stored.Password,
		AuthType: credential.AuthTypeBasic,
	}}, nil
}

// Set stores a credential for the source's host, replacing any previous
// entry.
func (s *Source) Set(sourceURI, username, password string) error {
	account, err := accountFor(sourceURI)
	if err != nil {
		return err
	}

	blob, err := json.Marshal(storedCredential{Username: username, Password: password})
	if err != nil {
		return err
	}
	return keyring.Set(service, account, string(blob))
}

// Delete removes the stored credential for the source's host.
func (s *Source) Delete(sourceURI string) error {
	account, err := accountFor(sourceURI)
	if err != nil {
		return err
	}
	return keyring.Delete(service, account)
}

func accountFor(sourceURI string) (string, error) {
	u, err := url.Parse(sourceURI)
	if err != nil {
		return "", fmt.Errorf("invalid source URI '%s': %w", sourceURI, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("source URI '%s' has no host", sourceURI)
	}
	return u.Host, nil
}
