// Package plugin implements the credential provider CLI/JSON protocol:
// building provider command lines, decoding provider responses, and
// interpreting exit codes into credential outcomes.
package plugin

import (
	"fmt"
	"strings"

	ferrors "github.com/systmms/feedauth/internal/errors"
)

// Verbosity is the logging verbosity forwarded to a provider. Omitting the
// flag tells the provider to use its own default, which the protocol treats
// as Information.
type Verbosity string

const (
	VerbosityDebug       Verbosity = "Debug"
	VerbosityVerbose     Verbosity = "Verbose"
	VerbosityInformation Verbosity = "Information"
	VerbosityMinimal     Verbosity = "Minimal"
	VerbosityWarning     Verbosity = "Warning"
	VerbosityError       Verbosity = "Error"
)

// ParseVerbosity maps a user-supplied level name onto the protocol
// vocabulary, case-insensitively.
func ParseVerbosity(s string) (Verbosity, error) {
	for _, v := range []Verbosity{
		VerbosityDebug, VerbosityVerbose, VerbosityInformation,
		VerbosityMinimal, VerbosityWarning, VerbosityError,
	} {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown verbosity level: %s", s)
}

// Request describes one provider invocation. Constructed fresh per
// invocation and never mutated.
type Request struct {
	URI            string
	NonInteractive bool
	CanShowDialog  bool
	IsRetry        bool
	Verbosity      Verbosity
}

// BuildArgs renders the request as the provider command line:
//
//	-Uri <uri> -OutputFormat Json [-NonInteractive true] [-CanShowDialog true]
//	[-IsRetry true] [-Verbosity <level>]
//
// Boolean flags are emitted only when true. Verbosity is emitted only when
// it differs from Information. The invocation layer joins arguments with
// spaces and cannot escape them, so any value containing a space is
// rejected with a ConfigurationError before a process is launched.
func (r Request) BuildArgs() ([]string, error) {
	args := []string{"-Uri", r.URI, "-OutputFormat", "Json"}

	if r.NonInteractive {
		args = append(args, "-NonInteractive", "true")
	}
	if r.CanShowDialog {
		args = append(args, "-CanShowDialog", "true")
	}
	if r.IsRetry {
		args = append(args, "-IsRetry", "true")
	}
	if r.Verbosity != "" && r.Verbosity != VerbosityInformation {
		args = append(args, "-Verbosity", string(r.Verbosity))
	}

	for i := 0; i < len(args); i += 2 {
		if strings.Contains(args[i+1], " ") {
			return nil, ferrors.ConfigurationError{
				Argument: args[i],
				Value:    args[i+1],
				Message:  "argument values must not contain spaces",
			}
		}
	}

	return args, nil
}

// CommandLine renders the full invocation for diagnostics.
func CommandLine(providerPath string, args []string) string {
	return providerPath + " " + strings.Join(args, " ")
}
