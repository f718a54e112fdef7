package plugin

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/internal/metrics"
	"github.com/systmms/feedauth/pkg/credential"
	pkgexec "github.com/systmms/feedauth/pkg/exec"
)

// Provider exit codes defined by the plugin protocol. Any other code is a
// protocol violation.
const (
	ExitSuccess               = 0
	ExitProviderNotApplicable = 1
	ExitAbort                 = 2
)

// DefaultTimeout bounds a single provider invocation. Providers may prompt
// the user interactively, so the bound is generous.
const DefaultTimeout = 10 * time.Minute

// Invoker runs one provider executable under the plugin protocol and
// interprets the result.
type Invoker struct {
	runner  pkgexec.Runner
	logger  *logging.Logger
	timeout time.Duration
}

// NewInvoker creates an invoker. A zero timeout selects DefaultTimeout.
func NewInvoker(runner pkgexec.Runner, logger *logging.Logger, timeout time.Duration) *Invoker {
	if runner == nil {
		runner = pkgexec.DefaultRunner()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{runner: runner, logger: logger, timeout: timeout}
}

// Invoke runs the provider once with the request's verbosity. If that
// attempt fails with a ProtocolError and the verbosity was not already
// Information, the provider is re-invoked once with verbosity forced to
// Information and the second result replaces the first. The retry mirrors
// the provider ecosystem's documented workaround for plugins that misbehave
// at non-default verbosity; it is silent to the caller beyond the final
// outcome.
func (i *Invoker) Invoke(ctx context.Context, providerPath string, req Request) (credential.Outcome, error) {
	outcome, err := i.invokeOnce(ctx, providerPath, req)
	if err == nil {
		return outcome, nil
	}

	var protoErr ferrors.ProtocolError
	if errors.As(err, &protoErr) && !i.effectiveInformation(req.Verbosity) {
		retried := req
		retried.Verbosity = VerbosityInformation
		return i.invokeOnce(ctx, providerPath, retried)
	}
	return outcome, err
}

func (i *Invoker) effectiveInformation(v Verbosity) bool {
	// An omitted verbosity means "provider default", which the protocol
	// treats as Information.
	return v == "" || v == VerbosityInformation
}

func (i *Invoker) invokeOnce(ctx context.Context, providerPath string, req Request) (credential.Outcome, error) {
	args, err := req.BuildArgs()
	if err != nil {
		return credential.Outcome{}, err
	}

	i.logger.Verbose("Invoking credential provider: %s", CommandLine(providerPath, args))

	runCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	start := time.Now()
	res, err := i.runner.Run(runCtx, providerPath, args...)
	if err != nil {
		return credential.Outcome{}, ferrors.InvocationError{ProviderPath: providerPath, Err: err}
	}

	for _, line := range res.StderrLines() {
		i.logger.Verbose("%s: %s", filepath.Base(providerPath), line)
	}

	outcome, err := i.interpret(providerPath, args, res)
	if err == nil {
		metrics.RecordInvocation(filepath.Base(providerPath), outcome.Kind.String(), time.Since(start))
	}
	return outcome, err
}

// interpret classifies (exit code, stdout, stderr) into a credential
// outcome per the protocol table. Stdout is the sole carrier of the JSON
// body; stderr is diagnostic text only.
func (i *Invoker) interpret(providerPath string, args []string, res pkgexec.Result) (credential.Outcome, error) {
	body := strings.Join(res.StdoutLines(), "\n")
	stderr := strings.Join(res.StderrLines(), "\n")

	switch res.ExitCode {
	case ExitSuccess:
		resp, err := ParseResponse(body)
		if err != nil {
			return credential.Outcome{}, ferrors.MalformedResponseError{
				ProviderPath: providerPath,
				Body:         body,
				Err:          err,
			}
		}
		return credential.Success(Negotiate(resp, i.logger)), nil

	case ExitProviderNotApplicable:
		// The body is optional here; a parse failure just means no message.
		message := ""
		if resp, err := ParseResponse(body); err == nil {
			message = resp.Message
		}
		return credential.NoCredentials(message), nil

	case ExitAbort:
		message := ""
		if resp, err := ParseResponse(body); err == nil {
			message = resp.Message
		}
		abort := ferrors.AbortError{
			ProviderPath: providerPath,
			CommandLine:  CommandLine(providerPath, args),
			Message:      message,
			Stderr:       stderr,
		}
		return credential.Abort(abort.Error()), nil

	default:
		return credential.Outcome{}, ferrors.ProtocolError{
			ProviderPath: providerPath,
			ExitCode:     res.ExitCode,
			Stdout:       body,
			Stderr:       stderr,
		}
	}
}
