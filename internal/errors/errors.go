// Package errors defines the error taxonomy for provider orchestration.
//
// Four failure classes cross component boundaries:
//
//   - ConfigurationError: a provider argument is malformed before any
//     process is launched.
//   - InvocationError: the process layer failed (launch failure, timeout).
//   - MalformedResponseError: the provider exited successfully but its
//     stdout did not carry a usable JSON body.
//   - ProtocolError: the provider exited with a code outside the protocol.
//
// Abort and no-credentials are domain outcomes, not errors; they live in
// pkg/credential. AbortError exists only for the orchestrator boundary,
// where an abort outcome is converted into a hard failure.
package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a request that cannot be turned into a valid
// provider command line. It fails fast, before the process layer is reached.
type ConfigurationError struct {
	Argument string
	Value    string
	Message  string
}

func (e ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Argument != "" {
		msg += fmt.Sprintf(" for argument '%s'", e.Argument)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: %s)", e.Value)
	}
	return msg + ": " + e.Message
}

// InvocationError wraps a failure of the process layer: the provider could
// not be launched, or did not finish within the timeout. It is propagated
// unchanged and never retried by the orchestration layer.
type InvocationError struct {
	ProviderPath string
	Err          error
}

func (e InvocationError) Error() string {
	return fmt.Sprintf("credential provider '%s' could not be invoked: %v", e.ProviderPath, e.Err)
}

func (e InvocationError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a provider that exited with the success
// code but wrote a stdout body that cannot be parsed as a credential
// response.
type MalformedResponseError struct {
	ProviderPath string
	Body         string
	Err          error
}

func (e MalformedResponseError) Error() string {
	msg := fmt.Sprintf("credential provider '%s' returned a malformed response", e.ProviderPath)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += "\n  Body: " + e.Body
	}
	return msg
}

func (e MalformedResponseError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a provider that exited with a code outside the
// defined protocol. It carries the raw output so the failure can be
// diagnosed without re-running the provider.
type ProtocolError struct {
	ProviderPath string
	ExitCode     int
	Stdout       string
	Stderr       string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf(
		"credential provider '%s' violated the plugin protocol (exit code %d)\n  Stdout: %s\n  Stderr: %s",
		e.ProviderPath, e.ExitCode, e.Stdout, e.Stderr)
}

// AbortError surfaces a provider abort across the orchestrator boundary.
// The message includes the provider identity and the exact command line so
// the cancellation can be diagnosed without re-running.
type AbortError struct {
	ProviderPath string
	CommandLine  string
	Message      string
	Stderr       string
}

func (e AbortError) Error() string {
	msg := fmt.Sprintf("credential provider '%s' aborted: %s", e.ProviderPath, e.Message)
	if e.CommandLine != "" {
		msg += "\n  Command: " + e.CommandLine
	}
	if e.Stderr != "" {
		msg += "\n  Stderr: " + e.Stderr
	}
	return msg
}
