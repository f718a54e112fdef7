package exec

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRunner provides a configurable fake for testing provider invocations.
type MockRunner struct {
	mu sync.Mutex

	// Responses maps command patterns to their mock responses.
	// Key format: "path arg1 arg2" (space-separated path and args).
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching pattern is found.
	DefaultResponse *MockResponse

	// RecordedCalls stores all calls made to Run for verification.
	RecordedCalls []RecordedCall

	// StrictMode causes Run to fail if no matching response is found.
	StrictMode bool

	// Delay, when set, is invoked before answering. Tests use it to hold an
	// invocation open while checking single-flight behavior.
	Delay func()
}

// MockResponse defines the output for a mocked provider invocation.
type MockResponse struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// RecordedCall stores information about one provider invocation.
type RecordedCall struct {
	Path string
	Args []string
}

// NewMockRunner creates a new mock runner with empty responses.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses:     make(map[string]MockResponse),
		RecordedCalls: make([]RecordedCall, 0),
	}
}

// Run returns the mocked response for the given invocation.
func (m *MockRunner) Run(ctx context.Context, path string, args ...string) (Result, error) {
	m.mu.Lock()
	m.RecordedCalls = append(m.RecordedCalls, RecordedCall{Path: path, Args: args})
	key := m.buildKey(path, args)
	resp, ok := m.Responses[key]
	if !ok {
		// Prefix match so tests can key on the path alone.
		for pattern, r := range m.Responses {
			if strings.HasPrefix(key, pattern) {
				resp, ok = r, true
				break
			}
		}
	}
	if !ok && m.DefaultResponse != nil {
		resp, ok = *m.DefaultResponse, true
	}
	strict := m.StrictMode
	delay := m.Delay
	m.mu.Unlock()

	if delay != nil {
		delay()
	}

	if !ok {
		if strict {
			return Result{}, fmt.Errorf("mock: no response configured for invocation: %s", key)
		}
		return Result{}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if resp.Err != nil {
		return Result{}, resp.Err
	}
	return Result{ExitCode: resp.ExitCode, Stdout: resp.Stdout, Stderr: resp.Stderr}, nil
}

func (m *MockRunner) buildKey(path string, args []string) string {
	if len(args) == 0 {
		return path
	}
	return path + " " + strings.Join(args, " ")
}

// AddResponse registers a mock response for an invocation pattern.
func (m *MockRunner) AddResponse(pattern string, response MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = response
}

// AddJSONResponse registers an exit-0 response carrying a JSON body.
func (m *MockRunner) AddJSONResponse(pattern string, jsonBody string) {
	m.AddResponse(pattern, MockResponse{Stdout: []byte(jsonBody)})
}

// CallCount returns the number of times Run was called.
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.RecordedCalls)
}

// CallsFor returns all recorded calls for the given provider path.
func (m *MockRunner) CallsFor(path string) []RecordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []RecordedCall
	for _, call := range m.RecordedCalls {
		if call.Path == path {
			matches = append(matches, call)
		}
	}
	return matches
}
