package encryption_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/vault/internal/encryption"
)

func TestHeaderBinary(t *testing.T) {
	t.Parallel()

	var header encryption.Header
	for i := range header.Salt {
		header.Salt[i] = byte(i)
		header.IV[i] = byte(0xF0 + i)
	}

	data, err := header.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, encryption.HeaderSize)

	var parsed encryption.Header
	require.NoError(t, parsed.UnmarshalBinary(data))
	assert.Equal(t, header, parsed)

	require.ErrorIs(t, parsed.UnmarshalBinary(data[:31]), encryption.ErrTruncatedHeader)

	var buf bytes.Buffer

	n, err := header.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(encryption.HeaderSize), n)
	assert.Equal(t, data, buf.Bytes())
}

func TestHeaderStrings(t *testing.T) {
	t.Parallel()

	var header encryption.Header

	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAA==", header.SaltString())
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAA==", header.IVString())
}
