package encryption

import (
	"crypto/aes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/vault/internal/kdf"
)

const (
	// SaltSize is the length of the salt at the start of every container.
	SaltSize = kdf.SaltSize
	// IVSize is the length of the CBC initialization vector following the salt.
	IVSize = aes.BlockSize
	// HeaderSize is the number of bytes preceding the ciphertext.
	HeaderSize = SaltSize + IVSize
)

// Header holds the plaintext prefix of a container: Salt(16) || IV(16).
type Header struct {
	Salt [SaltSize]byte
	IV   [IVSize]byte
}

// newHeader fills a header with fresh values from rnd.
func newHeader(rnd io.Reader) (Header, error) {
	var header Header

	if _, err := io.ReadFull(rnd, header.Salt[:]); err != nil {
		return Header{}, fmt.Errorf("generating salt: %w", err)
	}

	if _, err := io.ReadFull(rnd, header.IV[:]); err != nil {
		return Header{}, fmt.Errorf("generating IV: %w", err)
	}

	return header, nil
}

// MarshalBinary returns the on-disk encoding of the header.
func (h Header) MarshalBinary() ([]byte, error) {
	data := make([]byte, 0, HeaderSize)
	data = append(data, h.Salt[:]...)
	data = append(data, h.IV[:]...)

	return data, nil
}

// UnmarshalBinary parses the first HeaderSize bytes of data.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedHeader, len(data), HeaderSize)
	}

	copy(h.Salt[:], data[:SaltSize])
	copy(h.IV[:], data[SaltSize:HeaderSize])

	return nil
}

// WriteTo writes the salt followed by the IV.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	data, _ := h.MarshalBinary()

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("writing header: %w", err)
	}

	return int64(n), nil
}

// ReadHeader reads the salt and IV from the start of a container.
func ReadHeader(r io.Reader) (Header, error) {
	var header Header

	if err := readField(r, header.Salt[:], "salt"); err != nil {
		return Header{}, err
	}

	if err := readField(r, header.IV[:], "IV"); err != nil {
		return Header{}, err
	}

	return header, nil
}

func readField(r io.Reader, dst []byte, name string) error {
	n, err := io.ReadFull(r, dst)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s has %d of %d bytes", ErrTruncatedHeader, name, n, len(dst))
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}

	return nil
}

// SaltString returns the salt in standard base64.
func (h Header) SaltString() string {
	return base64.StdEncoding.EncodeToString(h.Salt[:])
}

// IVString returns the IV in standard base64.
func (h Header) IVString() string {
	return base64.StdEncoding.EncodeToString(h.IV[:])
}
