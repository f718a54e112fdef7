package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/systmms/feedauth/internal/secure"
	"github.com/systmms/feedauth/pkg/credential"
)

// keySeparator joins provider path and source URI into a cache key. It
// cannot appear in a well-formed absolute path on the supported platforms;
// a path that did contain it could collide with another key, a risk
// inherited from the source protocol and accepted here.
const keySeparator = "|"

// CacheKey identifies one (provider, source) pair.
func CacheKey(providerPath, sourceURI string) string {
	return providerPath + keySeparator + sourceURI
}

// cachedCredential is a credential at rest: the password is sealed in a
// memguard enclave because cache entries live for the whole process.
type cachedCredential struct {
	username string
	password *secure.Buffer
	authType credential.AuthType
}

type cacheEntry struct {
	kind        credential.OutcomeKind
	message     string
	credentials []cachedCredential
}

// Cache maps (provider path, source URI) to the last interpreted outcome.
// Entries are never evicted. A single coarse lock covers the whole
// check-invoke-store critical section, which serializes invocations across
// keys during contention; acceptable because providers are invoked at most
// once per distinct source per process lifetime, barring retries.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached outcome for key, if any.
func (c *Cache) Get(key string) (credential.Outcome, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return credential.Outcome{}, false, nil
	}
	outcome, err := entry.materialize()
	return outcome, true, err
}

// GetOrInvoke resolves the outcome for key. Non-retry requests that hit the
// cache return immediately. Otherwise the whole cache is locked, the entry
// is re-checked (a concurrent caller may have just stored it), and on a
// persisting miss invoke runs while the lock is held — guaranteeing at most
// one in-flight invocation per key. isRetry always forces a fresh
// invocation so the user can be re-prompted. Abort outcomes are never
// stored.
//
// The hit return reports whether the outcome came from the cache.
func (c *Cache) GetOrInvoke(ctx context.Context, key string, isRetry bool, invoke func(context.Context) (credential.Outcome, error)) (outcome credential.Outcome, hit bool, err error) {
	if !isRetry {
		if outcome, ok, err := c.Get(key); ok {
			return outcome, true, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !isRetry {
		if entry, ok := c.entries[key]; ok {
			outcome, err := entry.materialize()
			return outcome, true, err
		}
	}

	outcome, err = invoke(ctx)
	if err != nil {
		return credential.Outcome{}, false, err
	}

	if outcome.Kind != credential.OutcomeAbort {
		c.entries[key] = seal(outcome)
	}
	return outcome, false, nil
}

func seal(outcome credential.Outcome) cacheEntry {
	entry := cacheEntry{kind: outcome.Kind, message: outcome.Message}
	for _, cred := range outcome.Credentials {
		entry.credentials = append(entry.credentials, cachedCredential{
			username: cred.Username,
			password: secure.NewBufferFromString(cred.Password),
			authType: cred.AuthType,
		})
	}
	return entry
}

func (e cacheEntry) materialize() (credential.Outcome, error) {
	outcome := credential.Outcome{Kind: e.kind, Message: e.message}
	for _, cached := range e.credentials {
		password, err := cached.password.OpenString()
		if err != nil {
			return credential.Outcome{}, fmt.Errorf("failed to unseal cached credential: %w", err)
		}
		outcome.Credentials = append(outcome.Credentials, credential.Credential{
			Username: cached.username,
			Password: password,
			AuthType: cached.authType,
		})
	}
	return outcome, nil
}
