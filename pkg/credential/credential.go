// Package credential defines the core types for package-feed credential
// resolution in feedauth.
//
// A credential source is anything that can produce credentials for a
// package-source URI: the external credential-provider executables managed
// by internal/resolve, the OS keyring, or a test double. Sources return the
// full ordered credential sequence; "pick the first one" policy belongs to
// the caller.
package credential

import (
	"context"
	"strings"
)

// AuthType identifies an authentication scheme a credential can be used with.
type AuthType string

const (
	// AuthTypeBasic is HTTP basic authentication. Providers that declare no
	// authentication types are assumed to produce basic credentials.
	AuthTypeBasic AuthType = "basic"

	// AuthTypeNTLM is Windows NTLM authentication.
	AuthTypeNTLM AuthType = "ntlm"
)

// ParseAuthType maps a provider-declared authentication type string onto the
// supported set. Matching is case-insensitive. Returns false for any type
// outside {basic, ntlm}.
func ParseAuthType(s string) (AuthType, bool) {
	switch strings.ToLower(s) {
	case string(AuthTypeBasic):
		return AuthTypeBasic, true
	case string(AuthTypeNTLM):
		return AuthTypeNTLM, true
	default:
		return "", false
	}
}

// Credential is a single username/password pair typed with the
// authentication scheme it is valid for. One provider response can fan out
// into several Credential values, one per declared authentication type.
type Credential struct {
	Username string
	Password string
	AuthType AuthType
}

// OutcomeKind classifies the result of one provider invocation.
type OutcomeKind int

const (
	// OutcomeSuccess means the provider produced at least zero credentials.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeNoCredentials means the provider opted out for this source.
	OutcomeNoCredentials

	// OutcomeAbort means the user cancelled or the provider declared the
	// attempt fatal. Abort outcomes are never cached.
	OutcomeAbort
)

// String returns a short name for logging.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoCredentials:
		return "no-credentials"
	case OutcomeAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Outcome is the interpreted result of invoking a provider once for a
// source. It is the unit stored in the result cache. Unrecoverable protocol
// errors are not representable here; they surface as errors instead.
type Outcome struct {
	Kind        OutcomeKind
	Credentials []Credential
	Message     string
}

// Success builds a successful outcome carrying credentials.
func Success(creds []Credential) Outcome {
	return Outcome{Kind: OutcomeSuccess, Credentials: creds}
}

// NoCredentials builds an opt-out outcome with an optional provider message.
func NoCredentials(message string) Outcome {
	return Outcome{Kind: OutcomeNoCredentials, Message: message}
}

// Abort builds an abort outcome carrying the diagnostic message.
func Abort(message string) Outcome {
	return Outcome{Kind: OutcomeAbort, Message: message}
}

// Source produces credentials for a package-source URI.
//
// Implementations must be safe for concurrent use. Get returns the full
// ordered credential sequence; an empty slice with a nil error means no
// source had credentials, which is not an error.
type Source interface {
	// Name returns a stable identifier used in logs and error messages.
	Name() string

	// Get resolves credentials for the given source URI. isRetry marks a
	// repeated attempt after previously returned credentials were rejected;
	// sources must bypass any cached result when it is set.
	Get(ctx context.Context, sourceURI string, isRetry bool) ([]Credential, error)
}
