package encryption_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/vault/internal/encryption"
)

// Container is a fixed container from a YAML golden file.
type Container struct {
	Name      string `yaml:"name"`
	Password  string `yaml:"password"`
	Salt      string `yaml:"salt"`
	IV        string `yaml:"iv"`
	Plaintext string `yaml:"plaintext"`
	Container string `yaml:"container"`
}

func loadContainers(t *testing.T) []Container {
	t.Helper()

	data, err := os.ReadFile("testdata/containers.yml")
	require.NoError(t, err)

	var containers []Container
	require.NoError(t, yaml.Unmarshal(data, &containers))
	require.NotEmpty(t, containers)

	return containers
}

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()

	data, err := hex.DecodeString(s)
	require.NoError(t, err)

	return data
}

func TestGoldenContainers(t *testing.T) {
	t.Parallel()

	for _, tc := range loadContainers(t) {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			random := append(decodeHex(t, tc.Salt), decodeHex(t, tc.IV)...)
			want := decodeHex(t, tc.Container)

			p := encryption.New(encryption.WithRandom(bytes.NewReader(random)))

			var out bytes.Buffer

			_, err := p.Encrypt(encryption.BytesSource([]byte(tc.Plaintext)), &out, encryption.StaticPassword(tc.Password))
			require.NoError(t, err)
			assert.Equal(t, tc.Container, hex.EncodeToString(out.Bytes()))

			got, err := encryption.New().Decrypt(bytes.NewReader(want), encryption.StaticPassword(tc.Password))
			require.NoError(t, err)
			assert.Equal(t, tc.Plaintext, string(got))
		})
	}
}
