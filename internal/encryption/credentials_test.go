package encryption_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/vault/internal/encryption"
)

func TestCachedCredentials(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	creds := encryption.CachedCredentials(encryption.PasswordFunc(func() ([]byte, error) {
		calls.Add(1)

		return []byte("correct-horse"), nil
	}))

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			password, err := creds.Password()
			assert.NoError(t, err)
			assert.Equal(t, "correct-horse", string(password))
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())

	// Callers zero what they receive; the cache must be unaffected.
	first, err := creds.Password()
	require.NoError(t, err)
	clear(first)

	second, err := creds.Password()
	require.NoError(t, err)
	assert.Equal(t, "correct-horse", string(second))
}

func TestCachedCredentialsRetriesFailures(t *testing.T) {
	t.Parallel()

	failure := errors.New("passwords do not match")
	answers := []error{failure, nil}

	creds := encryption.CachedCredentials(encryption.PasswordFunc(func() ([]byte, error) {
		err := answers[0]
		answers = answers[1:]

		if err != nil {
			return nil, err
		}

		return []byte("second try"), nil
	}))

	_, err := creds.Password()
	require.ErrorIs(t, err, failure)

	password, err := creds.Password()
	require.NoError(t, err)
	assert.Equal(t, "second try", string(password))
}

func TestStaticPasswordFreshSlice(t *testing.T) {
	t.Parallel()

	creds := encryption.StaticPassword("pw")

	first, err := creds.Password()
	require.NoError(t, err)
	clear(first)

	second, err := creds.Password()
	require.NoError(t, err)
	assert.Equal(t, "pw", string(second))
}

func TestPrefetch(t *testing.T) {
	t.Parallel()

	calls := 0

	replay, release, err := encryption.Prefetch(encryption.PasswordFunc(func() ([]byte, error) {
		calls++

		return []byte("pw"), nil
	}))
	require.NoError(t, err)

	for range 3 {
		password, err := replay.Password()
		require.NoError(t, err)
		assert.Equal(t, "pw", string(password))

		clear(password)
	}

	assert.Equal(t, 1, calls)

	release()

	password, err := replay.Password()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, password, "release zeroes the password")

	_, _, err = encryption.Prefetch(nil)
	require.ErrorIs(t, err, encryption.ErrNoPassword)

	failure := errors.New("passwords do not match")

	_, _, err = encryption.Prefetch(encryption.PasswordFunc(func() ([]byte, error) {
		return nil, failure
	}))
	require.ErrorIs(t, err, failure)
}
