package encryption

import (
	"bytes"
	"fmt"
	"sync"
)

// CredentialSource supplies the password for a single operation.
// The pipeline zeroes the returned slice once the key is derived,
// so implementations must hand out a slice they do not retain.
type CredentialSource interface {
	Password() ([]byte, error)
}

// PasswordFunc adapts a function to a CredentialSource.
type PasswordFunc func() ([]byte, error)

// Password calls f.
func (f PasswordFunc) Password() ([]byte, error) {
	return f()
}

// StaticPassword returns a CredentialSource that always yields password.
func StaticPassword(password string) CredentialSource {
	return PasswordFunc(func() ([]byte, error) {
		return []byte(password), nil
	})
}

// CachedCredentials asks source once and replays the answer to every later caller.
// It is safe for concurrent use. A failed request is not cached.
func CachedCredentials(source CredentialSource) CredentialSource {
	return &cachedCredentials{source: source}
}

type cachedCredentials struct {
	mu       sync.Mutex
	source   CredentialSource
	password []byte
	cached   bool
}

func (c *cachedCredentials) Password() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cached {
		password, err := c.source.Password()
		if err != nil {
			return nil, err
		}

		c.password = bytes.Clone(password)
		c.cached = true
	}

	return bytes.Clone(c.password), nil
}

// Prefetch asks source once and returns a source replaying that password,
// so that a batch either starts with a password or fails before any work.
// release zeroes the password.
func Prefetch(source CredentialSource) (CredentialSource, func(), error) {
	if source == nil {
		return nil, nil, ErrNoPassword
	}

	password, err := source.Password()
	if err != nil {
		return nil, nil, fmt.Errorf("obtaining password: %w", err)
	}

	replay := PasswordFunc(func() ([]byte, error) {
		return bytes.Clone(password), nil
	})

	return replay, func() { clear(password) }, nil
}
