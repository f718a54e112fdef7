package resolve

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/feedauth/pkg/credential"
	pkgexec "github.com/systmms/feedauth/pkg/exec"
)

func TestOrchestrator_ConcurrentCallersCollapseToOneInvocation(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddJSONResponse(providerA, `{"ResponseCode":0,"Username":"u","Password":"p"}`)
	// Hold the invocation open long enough for every caller to pile up on
	// the cache.
	mock.Delay = func() { time.Sleep(50 * time.Millisecond) }

	orch := newOrchestrator(mock, providerA)

	const callers = 8
	results := make([][]credential.Credential, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			creds, err := orch.Get(context.Background(), testFeed, false)
			assert.NoError(t, err)
			results[i] = creds
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, mock.CallCount())
	for _, creds := range results {
		assert.Equal(t, []credential.Credential{
			{Username: "u", Password: "p", AuthType: credential.AuthTypeBasic},
		}, creds)
	}
}

func TestOrchestrator_DifferentSourcesDoNotShareOutcomes(t *testing.T) {
	t.Parallel()

	mock := pkgexec.NewMockRunner()
	mock.AddJSONResponse(providerA+" -Uri https://a.example",
		`{"ResponseCode":0,"Username":"userA","Password":"pwA"}`)
	mock.AddResponse(providerA+" -Uri https://b.example", pkgexec.MockResponse{
		ExitCode: 1,
	})

	orch := newOrchestrator(mock, providerA)

	var wg sync.WaitGroup
	wg.Add(2)
	var credsA, credsB []credential.Credential
	go func() {
		defer wg.Done()
		credsA, _ = orch.Get(context.Background(), "https://a.example", false)
	}()
	go func() {
		defer wg.Done()
		credsB, _ = orch.Get(context.Background(), "https://b.example", false)
	}()
	wg.Wait()

	assert.Equal(t, "userA", credsA[0].Username)
	assert.Empty(t, credsB)
}
