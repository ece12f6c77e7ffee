package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/vault/internal/kdf"
)

// Pipeline encrypts and decrypts containers.
// A Pipeline holds no per-operation state and may be shared.
type Pipeline struct {
	// random supplies salts and IVs
	random io.Reader

	// log receives per-operation diagnostics
	log logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRandom replaces crypto/rand as the source of salts and IVs.
func WithRandom(r io.Reader) Option {
	return func(p *Pipeline) {
		p.random = r
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Pipeline{
		random: rand.Reader,
		log:    discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Encrypt writes a container holding the plaintext of src to sink.
// A fresh salt and IV are generated before the password is requested.
// On failure the sink holds an unusable partial container.
func (p *Pipeline) Encrypt(src PlaintextSource, sink io.Writer, creds CredentialSource) (Header, error) {
	header, err := newHeader(p.random)
	if err != nil {
		return Header{}, err
	}

	block, err := p.blockCipher(header, creds)
	if err != nil {
		return Header{}, err
	}

	if _, err := header.WriteTo(sink); err != nil {
		return Header{}, err
	}

	read, err := encryptCBC(cipher.NewCBCEncrypter(block, header.IV[:]), src, sink)
	if err != nil {
		return Header{}, err
	}

	p.log.WithFields(logrus.Fields{
		"salt":     header.SaltString(),
		"iv":       header.IVString(),
		"bytes":    read,
		"buffered": src.Buffered(),
	}).Debug("encrypted")

	return header, nil
}

// Decrypt reads a container from src and returns the whole plaintext.
func (p *Pipeline) Decrypt(src io.Reader, creds CredentialSource) ([]byte, error) {
	var buf bytes.Buffer

	if _, err := p.DecryptTo(src, &buf, creds); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecryptTo streams the plaintext of the container in src into sink.
// The format carries no integrity tag: a wrong password is only detected at the
// final block, after earlier plaintext has reached sink.
func (p *Pipeline) DecryptTo(src io.Reader, sink io.Writer, creds CredentialSource) (Header, error) {
	header, err := ReadHeader(src)
	if err != nil {
		return Header{}, err
	}

	block, err := p.blockCipher(header, creds)
	if err != nil {
		return Header{}, err
	}

	written, err := decryptCBC(cipher.NewCBCDecrypter(block, header.IV[:]), src, sink)
	if err != nil {
		return Header{}, err
	}

	p.log.WithFields(logrus.Fields{
		"salt":  header.SaltString(),
		"bytes": written,
	}).Debug("decrypted")

	return header, nil
}

// blockCipher requests the password, derives the key for header and returns the AES cipher.
// Password and key are zeroed before returning.
func (p *Pipeline) blockCipher(header Header, creds CredentialSource) (cipher.Block, error) {
	if creds == nil {
		return nil, ErrNoPassword
	}

	password, err := creds.Password()
	if err != nil {
		return nil, fmt.Errorf("obtaining password: %w", err)
	}

	key := kdf.Derive(password, header.Salt[:])
	clear(password)

	block, err := aes.NewCipher(key)
	clear(key)

	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return block, nil
}
