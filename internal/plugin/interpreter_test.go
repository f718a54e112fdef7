package plugin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/pkg/credential"
	pkgexec "github.com/systmms/feedauth/pkg/exec"
)

const testProvider = "/providers/CredentialProviderFake"

func newTestLogger() *logging.Logger {
	logger := logging.New(false, false, true)
	logger.SetOutput(&strings.Builder{})
	return logger
}

func TestInvoker_Success(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddJSONResponse(testProvider,
		`{"ResponseCode":0,"Username":"u","Password":"p","AuthenticationTypes":["Basic"]}`)

	invoker := NewInvoker(mock, newTestLogger(), 0)
	outcome, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	require.NoError(t, err)
	assert.Equal(t, credential.OutcomeSuccess, outcome.Kind)
	require.Len(t, outcome.Credentials, 1)
	assert.Equal(t, "u", outcome.Credentials[0].Username)
	assert.Equal(t, "p", outcome.Credentials[0].Password)
	assert.Equal(t, credential.AuthTypeBasic, outcome.Credentials[0].AuthType)
}

func TestInvoker_SuccessWithMalformedBody(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddResponse(testProvider, pkgexec.MockResponse{Stdout: []byte("not json")})

	invoker := NewInvoker(mock, newTestLogger(), 0)
	_, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	var malformed ferrors.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, testProvider, malformed.ProviderPath)
}

func TestInvoker_NotApplicable(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddResponse(testProvider, pkgexec.MockResponse{
		ExitCode: ExitProviderNotApplicable,
		Stdout:   []byte(`{"ResponseCode":1,"Message":"feed not recognized"}`),
	})

	invoker := NewInvoker(mock, newTestLogger(), 0)
	outcome, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	require.NoError(t, err)
	assert.Equal(t, credential.OutcomeNoCredentials, outcome.Kind)
	assert.Equal(t, "feed not recognized", outcome.Message)
}

func TestInvoker_NotApplicableWithoutBody(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddResponse(testProvider, pkgexec.MockResponse{ExitCode: ExitProviderNotApplicable})

	invoker := NewInvoker(mock, newTestLogger(), 0)
	outcome, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	require.NoError(t, err)
	assert.Equal(t, credential.OutcomeNoCredentials, outcome.Kind)
	assert.Empty(t, outcome.Message)
}

func TestInvoker_Abort(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddResponse(testProvider, pkgexec.MockResponse{
		ExitCode: ExitAbort,
		Stdout:   []byte(`{"ResponseCode":2,"Message":"cancelled by user"}`),
		Stderr:   []byte("dialog dismissed\n"),
	})

	invoker := NewInvoker(mock, newTestLogger(), 0)
	outcome, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	require.NoError(t, err)
	assert.Equal(t, credential.OutcomeAbort, outcome.Kind)
	assert.Contains(t, outcome.Message, testProvider)
	assert.Contains(t, outcome.Message, "-Uri https://feed.example")
	assert.Contains(t, outcome.Message, "cancelled by user")
	assert.Contains(t, outcome.Message, "dialog dismissed")
}

func TestInvoker_UnknownExitCodeRetriesAtInformation(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	// The first attempt at Debug verbosity violates the protocol; the retry
	// drops the -Verbosity flag (Information is the default) and succeeds.
	mock.AddResponse(testProvider+" -Uri https://feed.example -OutputFormat Json -Verbosity Debug",
		pkgexec.MockResponse{ExitCode: 99})
	mock.AddJSONResponse(testProvider+" -Uri https://feed.example -OutputFormat Json",
		`{"ResponseCode":0,"Username":"u","Password":"p"}`)

	invoker := NewInvoker(mock, newTestLogger(), 0)
	outcome, err := invoker.Invoke(context.Background(), testProvider,
		Request{URI: "https://feed.example", Verbosity: VerbosityDebug})

	require.NoError(t, err)
	assert.Equal(t, credential.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 2, mock.CallCount())
}

func TestInvoker_UnknownExitCodeRetryAlsoFails(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.DefaultResponse = &pkgexec.MockResponse{ExitCode: 99, Stderr: []byte("boom")}

	invoker := NewInvoker(mock, newTestLogger(), 0)
	_, err := invoker.Invoke(context.Background(), testProvider,
		Request{URI: "https://feed.example", Verbosity: VerbosityWarning})

	var protoErr ferrors.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, 99, protoErr.ExitCode)
	assert.Contains(t, protoErr.Stderr, "boom")
	assert.Equal(t, 2, mock.CallCount())
}

func TestInvoker_UnknownExitCodeNoRetryAtInformation(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.DefaultResponse = &pkgexec.MockResponse{ExitCode: 42}

	invoker := NewInvoker(mock, newTestLogger(), 0)
	_, err := invoker.Invoke(context.Background(), testProvider,
		Request{URI: "https://feed.example", Verbosity: VerbosityInformation})

	var protoErr ferrors.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, 1, mock.CallCount())
}

func TestInvoker_LaunchFailure(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.DefaultResponse = &pkgexec.MockResponse{Err: assert.AnError}

	invoker := NewInvoker(mock, newTestLogger(), 0)
	_, err := invoker.Invoke(context.Background(), testProvider, Request{URI: "https://feed.example"})

	var invErr ferrors.InvocationError
	require.ErrorAs(t, err, &invErr)
	// Process-layer failures are propagated unchanged, never retried.
	assert.Equal(t, 1, mock.CallCount())
}
