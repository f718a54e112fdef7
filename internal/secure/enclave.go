// Package secure provides memory-safe storage for cached credential
// material. The result cache keeps provider passwords for the whole process
// lifetime, so they are held encrypted at rest (memguard enclave, mlock'd)
// and only materialized on a cache read.
package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when a buffer is opened after Destroy.
var ErrDestroyed = errors.New("secure: buffer destroyed")

// ErrEmpty is returned by Open for zero-length secrets, which have no
// locked representation. OpenString handles them transparently.
var ErrEmpty = errors.New("secure: buffer is empty")

// Buffer wraps a memguard.Enclave holding one secret value.
type Buffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// memguard cannot seal zero-length data, so empty secrets are tracked
	// with a flag instead of an enclave
	empty bool
	// destroyed allows idempotent Destroy calls and blocks use after destroy
	destroyed bool
}

// NewBuffer copies the secret bytes into a protected memory region. The
// caller keeps ownership of data and should zero it.
func NewBuffer(data []byte) *Buffer {
	if len(data) == 0 {
		return &Buffer{empty: true}
	}
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// NewBufferFromString seals a secret string.
func NewBufferFromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Open decrypts the secret into a locked buffer. The caller must call
// Destroy on the returned LockedBuffer when done.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrDestroyed
	}
	if b.empty {
		return nil, ErrEmpty
	}
	return b.enclave.Open()
}

// OpenString materializes the secret as a string. The returned string lives
// in ordinary Go memory; callers should hold it only as long as needed.
func (b *Buffer) OpenString() (string, error) {
	b.mu.RLock()
	if b.destroyed {
		b.mu.RUnlock()
		return "", ErrDestroyed
	}
	if b.empty {
		b.mu.RUnlock()
		return "", nil
	}
	b.mu.RUnlock()

	locked, err := b.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// Destroy marks the buffer as destroyed and prevents further use. The
// enclave's encrypted data is garbage collected; for full cleanup at exit,
// call memguard.Purge in main. Idempotent.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
