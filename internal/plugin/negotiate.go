package plugin

import (
	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/pkg/credential"
)

// Negotiate maps a provider's declared authentication types onto the
// supported set and fans the response out into typed credentials.
//
// A response with no declared types yields exactly one basic credential;
// older providers predate the AuthenticationTypes field. Declared types are
// matched case-insensitively; unsupported ones are logged as warnings and
// dropped. When the provider declared types and none are supported the
// result is empty, which callers treat as no credentials rather than an
// error.
func Negotiate(resp *Response, logger *logging.Logger) []credential.Credential {
	if len(resp.AuthenticationTypes) == 0 {
		return []credential.Credential{{
			Username: resp.Username,
			Password: resp.Password,
			AuthType: credential.AuthTypeBasic,
		}}
	}

	var creds []credential.Credential
	for _, declared := range resp.AuthenticationTypes {
		authType, ok := credential.ParseAuthType(declared)
		if !ok {
			logger.Warn("Provider declared unsupported authentication type '%s'; ignoring", declared)
			continue
		}
		creds = append(creds, credential.Credential{
			Username: resp.Username,
			Password: resp.Password,
			AuthType: authType,
		})
	}
	return creds
}
